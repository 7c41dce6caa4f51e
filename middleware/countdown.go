package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/idlesession/core/idle"
	"github.com/dmitrymomot/idlesession/core/response"
)

// Countdown response headers. Values are whole seconds.
const (
	HeaderIdleTimeout   = "X-Session-Idle-Timeout"
	HeaderIdleGrace     = "X-Session-Idle-Grace"
	HeaderIdleRemaining = "X-Session-Idle-Remaining"
)

// SetPolicyHeaders writes the timeout and grace headers of policy. It is
// for authenticated responses produced before or without an evaluation,
// such as rate limit and store failures, so the remaining header is cleared.
// A disabled policy writes nothing.
func SetPolicyHeaders(h http.Header, policy idle.Policy) {
	if !policy.Enabled() {
		return
	}
	h.Set(HeaderIdleTimeout, seconds(policy.Timeout))
	h.Set(HeaderIdleGrace, seconds(max(policy.Grace, 0)))
	h.Del(HeaderIdleRemaining)
}

// CountdownErrorHandler wraps next so that rejections of authenticated
// requests still carry the policy headers. Use it for middleware that runs
// ahead of IdleGuard, like RateLimit.
func CountdownErrorHandler(policy idle.Policy, identity IdentityFunc, next response.ErrorHandlerFunc) response.ErrorHandlerFunc {
	if identity == nil {
		identity = IdentityFromRequest
	}
	if next == nil {
		next = response.JSONErrorHandler
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		if _, ok := identity(r); ok {
			SetPolicyHeaders(w.Header(), policy)
		}
		next(w, r, err)
	}
}

// setCountdownHeaders exposes the policy and the remaining budget of an
// evaluated request. A seeded decision has no prior activity to measure
// against, so it carries no remaining header.
func setCountdownHeaders(h http.Header, policy idle.Policy, d idle.Decision) {
	SetPolicyHeaders(h, policy)
	if !d.HasRemaining || d.Seeded {
		return
	}
	remaining := seconds(d.Remaining)
	if d.Phase != idle.PhaseExpired && remaining == "0" {
		// elapsed == timeout+grace is still grace.
		remaining = "1"
	}
	h.Set(HeaderIdleRemaining, remaining)
}

// seconds rounds up to whole seconds.
func seconds(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	s := int64(d / time.Second)
	if d%time.Second != 0 {
		s++
	}
	return strconv.FormatInt(s, 10)
}
