package utils

import (
	"context"
	"errors"

	"portfolio-backend/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound = errors.New("requestID not found in context")
	ErrAdminNotFound     = errors.New("admin not found in context")
	ErrClientIPNotFound  = errors.New("clientIP not found in context")
	ErrValueNotString    = errors.New("context value is not a string")
)

func stringValue(ctx context.Context, key interface{}, missing error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", missing
	}
	s, ok := val.(string)
	if !ok {
		return "", ErrValueNotString
	}
	return s, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound)
}

// GetAdminFromContext retrieves the authenticated admin username.
func GetAdminFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.AdminKey, ErrAdminNotFound)
}

// GetClientIPFromContext retrieves the caller address.
func GetClientIPFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.ClientIPKey, ErrClientIPNotFound)
}

// Context builder functions

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithAdmin adds the authenticated admin to context
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextkeys.AdminKey, username)
}

// WithClientIP adds the caller address to context
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextkeys.ClientIPKey, ip)
}

// WithComponent adds component name to context
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds operation name to context
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// GetRequestIDOrDefault retrieves the request ID from context or returns def
func GetRequestIDOrDefault(ctx context.Context, def string) string {
	if v, err := GetRequestIDFromContext(ctx); err == nil {
		return v
	}
	return def
}
