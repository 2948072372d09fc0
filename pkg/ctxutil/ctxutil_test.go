package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdentityRoundTrip(t *testing.T) {
	id := Identity{UserID: uuid.New(), Role: "manager"}
	ctx := WithIdentity(context.Background(), id)

	got, ok := IdentityFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestIdentityFromCtxAbsent(t *testing.T) {
	_, ok := IdentityFromCtx(context.Background())
	assert.False(t, ok)
}

func TestIdentityFromCtxNilUUID(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{Role: "manager"})
	_, ok := IdentityFromCtx(ctx)
	assert.False(t, ok)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromCtx(ctx))
	assert.Equal(t, "", RequestIDFromCtx(context.Background()))
}
