package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/idlesession/core/logger"
	"github.com/dmitrymomot/idlesession/core/response"
	"github.com/dmitrymomot/idlesession/pkg/clientip"
	"github.com/dmitrymomot/idlesession/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Limiter is the rate limiting implementation to use
	Limiter ratelimiter.RateLimiter
	// KeyExtractor defines how to extract the rate limiting key from requests
	// (default: "actor:<id>" when authenticated, otherwise "ip:<client ip>")
	KeyExtractor func(r *http.Request) string
	// ErrorHandler renders rejections and limiter failures (default: response.JSONErrorHandler)
	ErrorHandler response.ErrorHandlerFunc
	// SetHeaders determines whether to include rate limit information in response headers
	SetHeaders bool
	// OnResult is called after every counted request.
	OnResult func(r *http.Request, result *ratelimiter.Result)
	// Logger for structured logging (default: discard)
	Logger *slog.Logger
}

// RateLimit creates a rate limiting middleware with the provided configuration.
// Requests over the limit get 429 with Retry-After. If the limiter's store
// fails the request is rejected with 503 rather than let through.
// Panics if no limiter is provided.
//
//	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
//		Limiter:    limiter,
//		SetHeaders: true,
//		Skip: func(r *http.Request) bool {
//			return r.URL.Path != "/session/ping"
//		},
//	}))
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = ActorOrIPKey(IdentityFromRequest)
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = response.JSONErrorHandler
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	log := cfg.Logger.With(logger.Component("ratelimit"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			result, err := cfg.Limiter.Allow(r.Context(), cfg.KeyExtractor(r))
			if err != nil {
				log.ErrorContext(r.Context(), "rate limiter failed", logger.Error(err), logger.Path(r.URL.Path))
				if !errors.Is(err, ratelimiter.ErrStoreUnavailable) {
					err = errors.Join(ratelimiter.ErrStoreUnavailable, err)
				}
				w.Header().Set("Retry-After", "1")
				cfg.ErrorHandler(w, r, err)
				return
			}

			if cfg.OnResult != nil {
				cfg.OnResult(r, result)
			}
			if cfg.SetHeaders {
				setRateLimitHeaders(w.Header(), result)
			}

			if !result.Allowed() {
				w.Header().Set("Retry-After", retryAfterSeconds(result))
				cfg.ErrorHandler(w, r, result.Err())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ActorOrIPKey keys authenticated requests by actor and anonymous ones by client IP.
func ActorOrIPKey(identity IdentityFunc) func(r *http.Request) string {
	return func(r *http.Request) string {
		if id, ok := identity(r); ok {
			return "actor:" + id.ActorID
		}
		return "ip:" + clientip.GetIP(r)
	}
}

// setRateLimitHeaders adds standard rate limiting headers to the response.
//
// - X-RateLimit-Limit: Maximum requests allowed in the time window
// - X-RateLimit-Remaining: Requests remaining in current window (clamped to 0)
// - X-RateLimit-Reset: Unix timestamp when the limit resets
func setRateLimitHeaders(h http.Header, result *ratelimiter.Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// retryAfterSeconds rounds up so clients never retry early.
func retryAfterSeconds(result *ratelimiter.Result) string {
	return seconds(max(result.RetryAfter(), 1))
}
