package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/core/logger"
	"github.com/dmitrymomot/idlesession/middleware"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success at info", http.StatusNoContent, "INFO"},
		{"client error at warn", 440, "WARN"},
		{"server error at error", http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))

			h := middleware.RequestID()(middleware.LoggingWithLogger(log)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set(middleware.HeaderIdleRemaining, "42")
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("hello"))
				}),
			))

			req := httptest.NewRequest(http.MethodPost, "/session/ping", nil)
			req.RemoteAddr = "192.0.2.9:1000"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "HTTP request completed", entry["msg"])
			assert.Equal(t, "POST", entry["method"])
			assert.Equal(t, "/session/ping", entry["path"])
			assert.EqualValues(t, tt.status, entry["status_code"])
			assert.EqualValues(t, 5, entry["bytes_out"])
			assert.Equal(t, "192.0.2.9", entry["client_ip"])
			assert.Equal(t, "42", entry["idle_remaining"])
			assert.Equal(t, w.Header().Get("X-Request-ID"), entry["request_id"])
		})
	}
}

func TestLogging_Skip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: logger.New(logger.WithOutput(&buf)),
		Skip:   func(r *http.Request) bool { return r.URL.Path == "/healthz" },
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, buf.String())
}
