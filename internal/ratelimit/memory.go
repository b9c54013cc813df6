package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowEntry struct {
	count       int
	windowStart time.Time
}

// MemoryStore is a fixed-window counter held in process memory. It provides
// no guarantee across multiple instances - each process counts independently
// - and all counters reset on restart. That is an accepted limitation of the
// in-memory policy, not a bug; deployments that need a shared view use
// RedisStore instead.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory rate-limit store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Check implements Store with a fixed-window counter keyed by identifier.
// Each call first sweeps every stale entry; O(distinct identifiers), which is
// acceptable for this traffic volume.
func (s *MemoryStore) Check(_ context.Context, identifier string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	// Lazy global cleanup of elapsed windows
	for key, entry := range s.entries {
		if now.Sub(entry.windowStart) >= window {
			delete(s.entries, key)
		}
	}

	entry, ok := s.entries[identifier]
	if !ok || now.Sub(entry.windowStart) >= window {
		s.entries[identifier] = &windowEntry{count: 1, windowStart: now}
		return Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - 1,
			ResetAt:   now.Add(window),
		}, nil
	}

	entry.count++
	resetAt := entry.windowStart.Add(window)

	if entry.count > limit {
		return Result{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			ResetAt:   resetAt,
		}, nil
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - entry.count,
		ResetAt:   resetAt,
	}, nil
}
