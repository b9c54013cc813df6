package ratelimit

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"epc-api/pkg/logger"
	"epc-api/pkg/redis"
)

// RedisStore is a fixed-window counter backed by a shared Redis instance.
// Unlike MemoryStore every API instance sees the same counters, which closes
// the undercounting gap of per-process limiting.
type RedisStore struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisStore creates a Redis-backed rate-limit store
func NewRedisStore(client *redis.Client, logger *logger.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

// Check implements Store by incrementing the identifier's counter and setting
// the window TTL on the first request. Stale entries expire on their own, so
// no sweep is needed here.
func (s *RedisStore) Check(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	key := s.client.KeyBuilder.KeyRateLimit(hashIdentifier(identifier))

	count, err := s.client.Incr(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window); err != nil {
			s.logger.WithError(err).Warn("Failed to set rate limit key expiry")
		}
	}

	resetAt := time.Now().Add(window)
	if ttl, err := s.client.TTL(ctx, key); err == nil && ttl > 0 {
		resetAt = time.Now().Add(ttl)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// hashIdentifier hashes a client identifier before it becomes a Redis key,
// so raw addresses never appear in the keyspace
func hashIdentifier(identifier string) string {
	hash := sha256.Sum256([]byte(identifier))
	return fmt.Sprintf("%x", hash)[:16]
}
