// Package ratelimiter provides fixed window rate limiting with pluggable,
// atomic counter stores.
//
// Each key gets a counter that lives for one window. Every call increments
// the counter; the call is allowed while the post-increment value does not
// exceed the limit. When the window elapses the counter starts over.
//
// # Atomicity
//
// The limiter never reads a counter and then writes it back. Stores expose a
// single Increment primitive that adds one and arms the window expiry in one
// atomic step, so N concurrent callers sharing a key observe N distinct
// counts and exactly Limit of them are allowed.
//
//   - MemoryStore: a mutex-guarded map. Atomic within one process only;
//     replicas do not share counters.
//   - RedisStore: a Lua script running INCR and PEXPIRE server-side. Shared
//     across every process talking to the same Redis.
//
// # Usage
//
//	store := ratelimiter.NewRedisStore(redisClient)
//	limiter, err := ratelimiter.NewFixedWindow(store, ratelimiter.Config{
//		Limit:  30,
//		Window: time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	result, err := limiter.Allow(ctx, "actor:42")
//	if err != nil {
//		// store failure, wrapped with ErrStoreUnavailable
//	}
//	if !result.Allowed() {
//		// reject, advise result.RetryAfter()
//	}
//
// The in-memory store can sweep elapsed windows in the background:
//
//	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(time.Minute))
//	g.Go(store.Run(ctx))
package ratelimiter
