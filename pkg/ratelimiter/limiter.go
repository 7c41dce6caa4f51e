package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/idlesession/core/clock"
)

// RateLimiter decides whether a call identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Result describes the counter state after a call was counted.
type Result struct {
	Limit     int
	Count     int64
	Remaining int // calls left in the window, clamped at zero
	ResetAt   time.Time

	retryAfter time.Duration
}

// Allowed reports whether the call fits in the window.
func (r Result) Allowed() bool {
	return r.Count <= int64(r.Limit)
}

// RetryAfter returns how long a rejected caller should wait. Zero when allowed.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return r.retryAfter
}

// Err returns nil when the call is allowed and an *ExceededError otherwise.
func (r Result) Err() error {
	if r.Allowed() {
		return nil
	}
	return &ExceededError{Limit: r.Limit, RetryAfter: r.retryAfter}
}

// ExceededError is returned for calls over the limit. It matches
// ErrRateLimitExceeded with errors.Is.
type ExceededError struct {
	Limit      int
	RetryAfter time.Duration
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimitExceeded, e.RetryAfter)
}

func (e *ExceededError) Unwrap() error { return ErrRateLimitExceeded }

// Details exposes the retry hint, in whole seconds rounded up, to error renderers.
func (e *ExceededError) Details() map[string]any {
	secs := int64((e.RetryAfter + time.Second - 1) / time.Second)
	return map[string]any{"retry_after": max(secs, 1)}
}

// FixedWindow limits calls per key within consecutive fixed windows.
// Correctness across processes depends on the store's Increment being atomic.
type FixedWindow struct {
	store  Store
	config Config
	clock  clock.Clock
}

// Option configures a FixedWindow.
type Option func(*FixedWindow)

// WithClock sets the clock used to compute RetryAfter.
func WithClock(c clock.Clock) Option {
	return func(fw *FixedWindow) {
		if c != nil {
			fw.clock = c
		}
	}
}

// NewFixedWindow creates a limiter over the given store.
func NewFixedWindow(store Store, config Config, opts ...Option) (*FixedWindow, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is required"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	fw := &FixedWindow{
		store:  store,
		config: config,
		clock:  clock.System,
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

var _ RateLimiter = (*FixedWindow)(nil)

// Allow counts one call for key. Every call is counted, including rejected
// ones, so a client hammering the endpoint stays blocked until the window ends.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	count, resetAt, err := fw.store.Increment(ctx, key, fw.config.Window)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return &Result{
		Limit:      fw.config.Limit,
		Count:      count,
		Remaining:  max(fw.config.Limit-int(count), 0),
		ResetAt:    resetAt,
		retryAfter: max(resetAt.Sub(fw.clock.Now()), time.Second),
	}, nil
}

// Reset clears the counter for key (administrative override).
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	return fw.store.Reset(ctx, key)
}

// Config returns the limiter policy.
func (fw *FixedWindow) Config() Config {
	return fw.config
}
