// Package health provides liveness and readiness handlers.
//
//	r.Get("/livez", health.Liveness)
//	r.Get("/healthz", health.Readiness(log, map[string]health.Check{
//		"redis": redis.Healthcheck(client),
//	}))
//
// Readiness runs every check with a per-check timeout and answers 200 when
// all pass or 503 listing the failures. Check errors are logged and
// returned verbatim in the body, so do not expose the endpoint publicly if
// backend errors may carry sensitive detail.
package health
