package activity

import (
	"context"
	"time"
)

// Store persists the last activity time per session.
// Implementations must be safe for concurrent use across goroutines, and the
// durable ones across processes.
type Store interface {
	// LastActivity returns the recorded time, or the zero time when the
	// session has not been seeded yet.
	LastActivity(ctx context.Context, sessionID string) (time.Time, error)
	// Touch records t unless a later time is already stored.
	Touch(ctx context.Context, sessionID string, t time.Time) error
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, sessionID string) error
}
