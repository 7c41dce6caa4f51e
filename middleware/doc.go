// Package middleware provides net/http middleware for idle session
// enforcement and the supporting request plumbing.
//
// Every constructor returns func(http.Handler) http.Handler, so the
// middleware plugs into chi or any other router that accepts it.
//
// # Idle Enforcement
//
// IdleGuard evaluates every authenticated request against the idle policy:
// active sessions are extended silently, sessions in the grace window are
// left untouched unless the request is the keep-alive action, and expired
// sessions are logged out and rejected with 440 session_expired.
//
//	r.Use(middleware.RequestID())
//	r.Use(middleware.Logging())
//	r.Use(auth.Middleware) // stores middleware.Identity via WithIdentity
//	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
//		Limiter: limiter,
//		Skip:    func(r *http.Request) bool { return r.URL.Path != cfg.KeepAlivePath },
//	}))
//	r.Use(middleware.IdleGuard(middleware.IdleGuardConfig{
//		Store:  store,
//		Config: cfg,
//		Logout: auth.Logout,
//	}))
//	r.Handle(cfg.KeepAlivePath, middleware.KeepAlive(middleware.KeepAliveConfig{
//		Method: cfg.KeepAliveMethod,
//	}))
//
// The rate limiter must run before the guard so rejected pings never extend
// the session.
//
// # Countdown Headers
//
// Guarded responses carry:
//
//	X-Session-Idle-Timeout:   idle budget in seconds
//	X-Session-Idle-Grace:     grace window in seconds
//	X-Session-Idle-Remaining: seconds until the next phase boundary, rounded up
//
// Handlers can read the decision itself with DecisionFromContext.
package middleware
