package response

import "net/http"

// Response is a function that renders an HTTP response.
// It sets headers, status code, and writes the response body.
type Response func(w http.ResponseWriter, r *http.Request) error

// Render executes the given response.
// If rendering fails before anything is written, it falls back to a plain 500.
func Render(w http.ResponseWriter, r *http.Request, resp Response) {
	if err := resp(w, r); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Handler adapts a Response-producing function to http.HandlerFunc.
func Handler(fn func(r *http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		Render(w, r, fn(r))
	}
}

// StringWithStatus creates a text/plain response with custom status code.
func StringWithStatus(content string, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if content != "" {
			_, err := w.Write([]byte(content))
			return err
		}
		return nil
	}
}

// NoContent creates a 204 No Content response.
func NoContent() Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

// Error returns a response that propagates the given error to the JSON
// error handler.
func Error(err error) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		JSONErrorHandler(w, r, err)
		return nil
	}
}
