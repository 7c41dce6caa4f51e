package middleware

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/idlesession/core/idle"
	"github.com/dmitrymomot/idlesession/core/response"
)

// KeepAliveConfig configures the keep-alive endpoint.
type KeepAliveConfig struct {
	// Method accepted by the endpoint (default: POST).
	Method string
	// Identity resolves the authenticated actor (default: IdentityFromRequest).
	Identity IdentityFunc
	// ErrorHandler renders rejections (default: response.JSONErrorHandler).
	ErrorHandler response.ErrorHandlerFunc
}

// KeepAlive returns the explicit keep-alive endpoint. It only answers;
// the extension itself is performed by IdleGuard, which must wrap it, and
// the rate limiter must run before the guard.
//
//	r.Use(middleware.RateLimit(rlCfg))  // skips everything but the keep-alive path
//	r.Use(middleware.IdleGuard(guardCfg))
//	r.Handle("/session/ping", middleware.KeepAlive(middleware.KeepAliveConfig{}))
//
// Responses: 204 on success, 401 without an identity, 405 with an Allow
// header on the wrong method. Expiry (440) and rate limiting (429) are
// answered upstream.
func KeepAlive(cfg KeepAliveConfig) http.Handler {
	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	cfg.Method = strings.ToUpper(cfg.Method)
	if cfg.Identity == nil {
		cfg.Identity = IdentityFromRequest
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = response.JSONErrorHandler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := cfg.Identity(r); !ok {
			cfg.ErrorHandler(w, r, idle.ErrUnauthenticated)
			return
		}
		if r.Method != cfg.Method {
			w.Header().Set("Allow", cfg.Method)
			cfg.ErrorHandler(w, r, idle.ErrMethodNotAllowed)
			return
		}
		response.Render(w, r, response.NoContent())
	})
}
