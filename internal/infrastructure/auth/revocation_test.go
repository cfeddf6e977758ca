package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nizy/tailor/internal/infrastructure/auth"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationList_Revoke(t *testing.T) {
	list := auth.NewMemoryRevocationList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "test-jti-1", time.Hour))

	revoked, err := list.IsRevoked(ctx, "test-jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "test-jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocationList_ExpirationCleanup(t *testing.T) {
	list := auth.NewMemoryRevocationList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "test-jti-expire", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := list.IsRevoked(ctx, "test-jti-expire")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocationList_IgnoresExpiredTTL(t *testing.T) {
	list := auth.NewMemoryRevocationList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "already-expired", 0))

	revoked, err := list.IsRevoked(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func newRedisRevocations(t *testing.T) (*auth.RedisRevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewRedisRevocationList(client), mr
}

func TestRedisRevocationList_Revoke(t *testing.T) {
	list, mr := newRedisRevocations(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", 30*time.Minute))

	assert.True(t, mr.Exists(auth.DefaultRevocationPrefix+"jti-1"))
	assert.Equal(t, 30*time.Minute, mr.TTL(auth.DefaultRevocationPrefix+"jti-1"))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationList_Expires(t *testing.T) {
	list, mr := newRedisRevocations(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationList_ConnectionError(t *testing.T) {
	list, mr := newRedisRevocations(t)
	mr.Close()

	_, err := list.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check token revocation")
}
