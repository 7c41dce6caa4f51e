package ratelimiter

import (
	"context"
	"time"
)

// Store holds per-key counters.
type Store interface {
	// Increment atomically adds one to the counter for key and returns the
	// post-increment value. A counter that does not exist, or whose window
	// has elapsed, starts over at 1 with a fresh window of the given length.
	// resetAt is when the current window ends.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
	// Reset drops the counter for key.
	Reset(ctx context.Context, key string) error
}
