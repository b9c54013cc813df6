package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of one rate-limit check
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfterSeconds returns the seconds until the window resets, for the
// Retry-After hint on denied requests. Never negative.
func (r Result) RetryAfterSeconds(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// Store is the counter store behind the rate limiter. Handlers depend on this
// capability rather than a module-level singleton, so the in-memory store can
// be swapped for the Redis-backed one when more than one instance runs.
type Store interface {
	// Check counts one request for the identifier inside a fixed window of
	// the given length and reports whether it is still within the limit.
	Check(ctx context.Context, identifier string, limit int, window time.Duration) (Result, error)
}
