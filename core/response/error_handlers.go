package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/idlesession/core/activity"
	"github.com/dmitrymomot/idlesession/core/idle"
	"github.com/dmitrymomot/idlesession/pkg/ratelimiter"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// detailer is implemented by errors that add client-facing details to the
// HTTP error they map to, such as a retry hint.
type detailer interface {
	Details() map[string]any
}

// ErrorHandlerFunc renders err as an HTTP response.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// sentinels maps domain errors to their HTTP representation.
// Order matters: the first match wins.
var sentinels = []struct {
	target error
	httpErr HTTPError
}{
	{idle.ErrSessionExpired, ErrSessionExpired},
	{activity.ErrUnavailable, ErrStoreUnavailable},
	{ratelimiter.ErrStoreUnavailable, ErrStoreUnavailable},
	{idle.ErrUnauthenticated, ErrUnauthorized},
	{idle.ErrMethodNotAllowed, ErrMethodNotAllowed},
	{ratelimiter.ErrRateLimitExceeded, ErrTooManyRequests},
}

// FromError converts any error to an HTTPError.
// HTTPError values pass through, known domain sentinels are mapped,
// errors implementing StatusCode() int are looked up by status,
// everything else becomes 500. The cause is never attached for mapped
// sentinels so store internals do not leak to clients; errors exposing
// Details() contribute those instead.
func FromError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	for _, s := range sentinels {
		if !errors.Is(err, s.target) {
			continue
		}
		httpErr = s.httpErr
		var d detailer
		if errors.As(err, &d) {
			for k, v := range d.Details() {
				httpErr = httpErr.WithDetail(k, v)
			}
		}
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	baseErr, ok := httpErrorsByStatus[status]
	if !ok {
		baseErr = ErrInternalServerError
	}
	return baseErr.WithError(err)
}

// ErrorHandler is the default error handler that returns plain text errors.
func ErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := FromError(err)
	Render(w, r, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler returns errors as JSON responses.
func JSONErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := FromError(err)
	Render(w, r, JSONWithStatus(httpErr, httpErr.Status))
}
