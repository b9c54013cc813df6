package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SixthRequestRejected(t *testing.T) {
	store := NewMemoryStore()
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

func TestMemoryStore_WindowResets(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	window := 60 * time.Second

	current := time.Now()
	store.now = func() time.Time { return current }

	for i := 0; i < 6; i++ {
		_, err := store.Check(ctx, "1.2.3.4", 5, window)
		require.NoError(t, err)
	}

	// After the window elapses the counter starts over at 1
	current = current.Add(window + time.Second)

	result, err := store.Check(ctx, "1.2.3.4", 5, window)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 4, result.Remaining)
}

func TestMemoryStore_DeniedKeepsOriginalReset(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	window := 60 * time.Second

	start := time.Now()
	store.now = func() time.Time { return start }

	first, err := store.Check(ctx, "1.2.3.4", 1, window)
	require.NoError(t, err)

	// Denied request later in the window reports the original reset time
	store.now = func() time.Time { return start.Add(30 * time.Second) }

	denied, err := store.Check(ctx, "1.2.3.4", 1, window)
	require.NoError(t, err)
	assert.False(t, denied.Allowed)
	assert.Equal(t, first.ResetAt.Unix(), denied.ResetAt.Unix())
	assert.Equal(t, 30, denied.RetryAfterSeconds(start.Add(30*time.Second)))
}

func TestMemoryStore_IdentifiersAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	window := 60 * time.Second

	for i := 0; i < 6; i++ {
		_, err := store.Check(ctx, "1.2.3.4", 5, window)
		require.NoError(t, err)
	}

	result, err := store.Check(ctx, "5.6.7.8", 5, window)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryStore_SweepsStaleEntries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	window := 60 * time.Second

	current := time.Now()
	store.now = func() time.Time { return current }

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Check(ctx, id, 5, window)
		require.NoError(t, err)
	}
	assert.Len(t, store.entries, 3)

	current = current.Add(window + time.Second)

	_, err := store.Check(ctx, "d", 5, window)
	require.NoError(t, err)

	// The stale entries were swept; only the fresh one remains
	assert.Len(t, store.entries, 1)
}
