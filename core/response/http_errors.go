package response

import (
	"maps"
	"net/http"
)

// StatusSessionExpired is the non-standard "Login Time-out" status. It tells
// clients that a session which was valid ended because of inactivity.
const StatusSessionExpired = 440

// HTTPError is an error with a status and a JSON body.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status.
func (e HTTPError) StatusCode() int { return e.Status }

// WithMessage returns a copy with a different message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetail returns a copy with key set in Details. The receiver's map is
// never written, so package-level errors stay intact.
func (e HTTPError) WithDetail(key string, value any) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	maps.Copy(details, e.Details)
	details[key] = value
	e.Details = details
	return e
}

// WithError records err as the "cause" detail.
func (e HTTPError) WithError(err error) HTTPError {
	return e.WithDetail("cause", err.Error())
}

func statusError(status int, code, message string) HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	return HTTPError{Status: status, Code: code, Message: message}
}

var (
	ErrBadRequest          = statusError(http.StatusBadRequest, "bad_request", "")
	ErrUnauthorized        = statusError(http.StatusUnauthorized, "unauthenticated", "Authentication required")
	ErrNotFound            = statusError(http.StatusNotFound, "not_found", "")
	ErrMethodNotAllowed    = statusError(http.StatusMethodNotAllowed, "method_not_allowed", "")
	ErrTooManyRequests     = statusError(http.StatusTooManyRequests, "too_many_requests", "")
	ErrInternalServerError = statusError(http.StatusInternalServerError, "internal_server_error", "")
	ErrServiceUnavailable  = statusError(http.StatusServiceUnavailable, "service_unavailable", "")
	ErrStoreUnavailable    = statusError(http.StatusServiceUnavailable, "store_unavailable",
		"Session store is temporarily unavailable, retry shortly")

	// ErrSessionExpired is distinct from ErrUnauthorized so clients can tell
	// "never logged in" apart from "logged out for inactivity".
	ErrSessionExpired = statusError(StatusSessionExpired, "session_expired",
		"Your session ended due to inactivity").WithDetail("reason", "idle_timeout")
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusNotFound:            ErrNotFound,
	http.StatusMethodNotAllowed:    ErrMethodNotAllowed,
	http.StatusTooManyRequests:     ErrTooManyRequests,
	StatusSessionExpired:           ErrSessionExpired,
	http.StatusInternalServerError: ErrInternalServerError,
	http.StatusServiceUnavailable:  ErrServiceUnavailable,
}
