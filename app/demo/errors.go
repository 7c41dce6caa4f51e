package demo

import "errors"

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrInvalidConfig  = errors.New("invalid demo configuration")
	ErrUnknownSession = errors.New("unknown session")
	ErrMissingActor   = errors.New("actor is required")
)
