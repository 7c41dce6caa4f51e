// Package activity defines the store that holds the last observed activity
// time of every session, and ships an in-memory implementation.
//
// The store is the only shared mutable state of idle enforcement. It is
// read once per guarded request and written at most once. Implementations
// must make Touch forward-only: a write carrying an older timestamp than the
// one already stored is silently ignored, so a delayed writer racing other
// requests of the same session can never rewind the clock.
//
// Durable and shared implementations live under integration/activitystore
// (Redis, PostgreSQL, MongoDB, BBolt, SQLite). MemoryStore is suitable for
// tests and single-process deployments only.
//
// All implementations report infrastructure failures wrapped with
// ErrUnavailable so callers can fail closed:
//
//	last, err := store.LastActivity(ctx, sessionID)
//	if errors.Is(err, activity.ErrUnavailable) {
//		// reject the request, do not treat the session as active
//	}
//
// # Record expiry
//
// Stores that support a TTL drop records untouched for that long. A dropped
// record looks like a session that was never seeded, so the next request
// would start a fresh idle budget. The TTL must therefore be at least as long
// as the authentication session itself lives. A zero TTL keeps records until
// Delete is called.
package activity
