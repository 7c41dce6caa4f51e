package activity

import "errors"

var (
	// ErrUnavailable wraps any backend failure. Callers must treat it as
	// "cannot verify" and reject the request.
	ErrUnavailable = errors.New("activity store unavailable")
	// ErrEmptySessionID is returned when an operation is called without a session ID.
	ErrEmptySessionID = errors.New("session ID is required")
)

var (
	ErrCleanupRunning    = errors.New("activity store cleanup already running")
	ErrCleanupNotRunning = errors.New("activity store cleanup not running")
)
