package utils

import (
	"context"
	"testing"

	"portfolio-backend/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
)

func TestGetSetContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req1")
	ctx = WithAdmin(ctx, "admin")
	ctx = WithClientIP(ctx, "10.0.0.1")
	ctx = WithComponent(ctx, "contact")
	ctx = WithOperation(ctx, "contact.submit")

	requestID, err := GetRequestIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "req1", requestID)

	admin, err := GetAdminFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "admin", admin)

	ip, err := GetClientIPFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.1", ip)

	assert.Equal(t, "contact", ctx.Value(contextkeys.ComponentKey))
	assert.Equal(t, "contact.submit", ctx.Value(contextkeys.OperationKey))
}

func TestContextValues_Missing(t *testing.T) {
	ctx := context.Background()

	_, err := GetRequestIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrRequestIDNotFound)

	_, err = GetAdminFromContext(ctx)
	assert.ErrorIs(t, err, ErrAdminNotFound)

	assert.Equal(t, "none", GetRequestIDOrDefault(ctx, "none"))
}

func TestContextValues_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextkeys.AdminKey, 42)

	_, err := GetAdminFromContext(ctx)
	assert.ErrorIs(t, err, ErrValueNotString)
}
