// Package demo is a runnable service showing the idle session guard in
// place: cookie login, a protected API route, the keep-alive endpoint,
// health and Prometheus metrics.
//
// Routes:
//
//	POST /login          form field "actor"; sets the session cookie (201)
//	POST /logout         ends the session (204)
//	GET  /api/whoami     identity plus the idle phase and remaining seconds
//	POST /session/ping   keep-alive (204, 401, 405, 429, 440, 503)
//	GET  /livez          liveness
//	GET  /healthz        backend readiness
//	GET  /metrics        Prometheus exposition
//
// Storage is selected with ACTIVITY_BACKEND (memory, redis, postgres, mongo,
// bolt, sqlite) and KEEPALIVE_RATE_BACKEND (memory, redis).
package demo
