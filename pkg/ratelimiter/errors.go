package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limiter configuration")
	ErrEmptyKey          = errors.New("rate limit key is required")
	ErrStoreUnavailable  = errors.New("rate limit store unavailable")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrCleanupRunning    = errors.New("rate limit store cleanup already running")
	ErrCleanupNotRunning = errors.New("rate limit store cleanup not running")
)
