package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/agrotrade/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_Expiry(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "short", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := blacklist.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ExpiredTokenIsIgnored(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "gone", 0))
	revoked, err := blacklist.IsRevoked(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewTokenBlacklist_FallsBackToMemory(t *testing.T) {
	blacklist := auth.NewTokenBlacklist(nil, zap.NewNop())
	_, ok := blacklist.(*auth.InMemoryTokenBlacklist)
	assert.True(t, ok)
}
