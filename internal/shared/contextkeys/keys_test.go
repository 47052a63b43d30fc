package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKey_String(t *testing.T) {
	key := contextKey("testKey")
	assert.Equal(t, "portfolio-backend context key testKey", key.String())
}

func TestContextKeys_Usage(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")
	ctx = context.WithValue(ctx, ComponentKey, "initdb")
	ctx = context.WithValue(ctx, OperationKey, "create_user")
	ctx = context.WithValue(ctx, AdminKey, "admin")
	ctx = context.WithValue(ctx, ClientIPKey, "10.0.0.1")

	assert.Equal(t, "req-456", ctx.Value(RequestIDKey))
	assert.Equal(t, "initdb", ctx.Value(ComponentKey))
	assert.Equal(t, "create_user", ctx.Value(OperationKey))
	assert.Equal(t, "admin", ctx.Value(AdminKey))
	assert.Equal(t, "10.0.0.1", ctx.Value(ClientIPKey))
	assert.Nil(t, ctx.Value(contextKey("missing")))
}
