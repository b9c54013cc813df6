package ratelimit

import (
	"context"
	"testing"
	"time"

	"epc-api/pkg/logger"
	"epc-api/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	log := logger.NewNop()
	client, err := redis.NewClient("redis://"+mr.Addr(), "test", log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisStore(client, log)
}

func TestRedisStore_CountsWithinWindow(t *testing.T) {
	_, store := setupRedisStore(t)
	ctx := context.Background()
	window := 60 * time.Second

	for i := 1; i <= 5; i++ {
		result, err := store.Check(ctx, "1.2.3.4", 5, window)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 5-i, result.Remaining)
	}

	result, err := store.Check(ctx, "1.2.3.4", 5, window)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}

func TestRedisStore_WindowExpiryResets(t *testing.T) {
	mr, store := setupRedisStore(t)
	ctx := context.Background()
	window := 60 * time.Second

	for i := 0; i < 6; i++ {
		_, err := store.Check(ctx, "1.2.3.4", 5, window)
		require.NoError(t, err)
	}

	mr.FastForward(window + time.Second)

	result, err := store.Check(ctx, "1.2.3.4", 5, window)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 4, result.Remaining)
}

func TestRedisStore_IdentifierIsHashed(t *testing.T) {
	mr, store := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.Check(ctx, "10.0.0.1", 5, time.Minute)
	require.NoError(t, err)

	// The raw address never appears in the keyspace
	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "10.0.0.1")
	}
}

func TestRedisStore_ErrorWhenRedisDown(t *testing.T) {
	mr, store := setupRedisStore(t)
	mr.Close()

	_, err := store.Check(context.Background(), "1.2.3.4", 5, time.Minute)
	assert.Error(t, err)
}
