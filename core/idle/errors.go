package idle

import "errors"

var (
	// ErrSessionExpired is returned when the session passed hard expiry and was terminated.
	ErrSessionExpired = errors.New("session expired due to inactivity")
	// ErrUnauthenticated is returned when no authenticated actor is attached to the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrMethodNotAllowed is returned when the keep-alive action is called with the wrong method.
	ErrMethodNotAllowed = errors.New("method not allowed")
	// ErrInvalidPolicy is returned when timeout or grace is negative.
	ErrInvalidPolicy = errors.New("invalid idle policy")
)
