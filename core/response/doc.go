// Package response provides HTTP response helpers and the error taxonomy
// used by the session middleware.
//
// Responses are plain functions that write to an http.ResponseWriter, so
// they compose with any net/http router:
//
//	r.Get("/api/whoami", response.Handler(func(r *http.Request) response.Response {
//		return response.JSON(map[string]string{"actor": actorID})
//	}))
//
// # Errors
//
// HTTPError is a structured error rendered as JSON:
//
//	{"code": "session_expired", "message": "...", "details": {"reason": "idle_timeout"}}
//
// FromError maps domain sentinels to their HTTP form:
//
//	idle.ErrUnauthenticated          -> 401 unauthenticated
//	idle.ErrMethodNotAllowed         -> 405 method_not_allowed
//	ratelimiter.ErrRateLimitExceeded -> 429 too_many_requests
//	idle.ErrSessionExpired           -> 440 session_expired
//	activity.ErrUnavailable          -> 503 store_unavailable
//
// A mapped error that also has a Details() map[string]any method adds those
// details to the response, e.g. retry_after for rate limit rejections.
//
// Errors implementing StatusCode() int are mapped by status. Anything else
// becomes a 500 with the cause attached to details.
//
// JSONErrorHandler and ErrorHandler render any error through FromError and
// satisfy ErrorHandlerFunc.
package response
