package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/idlesession/core/activity"
	"github.com/dmitrymomot/idlesession/core/clock"
	"github.com/dmitrymomot/idlesession/core/idle"
	"github.com/dmitrymomot/idlesession/core/logger"
	"github.com/dmitrymomot/idlesession/core/response"
)

type decisionKey struct{}

// IdleGuardConfig configures the idle timeout guard.
type IdleGuardConfig struct {
	// Store holds last activity per session (required).
	Store activity.Store
	// Config carries the policy, keep-alive route and exempt prefixes.
	Config idle.Config
	// Identity resolves the authenticated actor (default: IdentityFromRequest).
	Identity IdentityFunc
	// Logout terminates the authentication session on expiry (required).
	Logout LogoutFunc
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Clock supplies the current time (default: clock.System).
	Clock clock.Clock
	// Logger for structured logging (default: discard)
	Logger *slog.Logger
	// ErrorHandler renders rejections (default: response.JSONErrorHandler).
	ErrorHandler response.ErrorHandlerFunc
	// OnDecision is called once per evaluated request, before any store write.
	OnDecision func(r *http.Request, id Identity, d idle.Decision)
	// OnStoreError is called when a store operation fails. op is one of
	// "read", "write", "delete".
	OnStoreError func(r *http.Request, op string, err error)
	// StoreRetryAfter is advertised on 503 responses (default: 1s).
	StoreRetryAfter time.Duration
}

// IdleGuard creates the idle timeout middleware.
//
// For every authenticated, non-exempt request it performs exactly one store
// read, evaluates the idle phase, and then:
//
//   - ACTIVE: records now as the last activity and continues.
//   - GRACE: continues without touching the record, unless the request is
//     the keep-alive action, which records now.
//   - EXPIRED: calls Logout, deletes the record and rejects with
//     idle.ErrSessionExpired. The downstream handler never runs.
//
// Store failures reject with activity.ErrUnavailable (503, Retry-After) and
// never mutate state. Every guarded response carries the timeout and grace
// headers; the remaining header is added once a decision measured prior
// activity.
//
// Usage:
//
//	r.Use(middleware.IdleGuard(middleware.IdleGuardConfig{
//		Store:  redisstore.New(client),
//		Config: idleCfg,
//		Logout: auth.Logout,
//	}))
//
// Panics if Store or Logout is nil, or Config is invalid.
func IdleGuard(cfg IdleGuardConfig) func(http.Handler) http.Handler {
	if cfg.Store == nil {
		panic("idle guard middleware: store is required")
	}
	if cfg.Logout == nil {
		panic("idle guard middleware: logout is required")
	}
	if err := cfg.Config.Validate(); err != nil {
		panic("idle guard middleware: " + err.Error())
	}
	if cfg.Identity == nil {
		cfg.Identity = IdentityFromRequest
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = response.JSONErrorHandler
	}
	if cfg.StoreRetryAfter <= 0 {
		cfg.StoreRetryAfter = time.Second
	}
	if cfg.Config.KeepAliveMethod == "" {
		cfg.Config.KeepAliveMethod = http.MethodPost
	}
	cfg.Config.KeepAliveMethod = strings.ToUpper(cfg.Config.KeepAliveMethod)

	policy := cfg.Config.Policy()
	log := cfg.Logger.With(logger.Component("idle_guard"))

	g := &guard{cfg: cfg, policy: policy, log: log}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !policy.Enabled() || g.skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			id, ok := cfg.Identity(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			d, ok := g.enforce(w, r, id)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), decisionKey{}, d)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type guard struct {
	cfg    IdleGuardConfig
	policy idle.Policy
	log    *slog.Logger
}

func (g *guard) skip(r *http.Request) bool {
	if g.cfg.Skip != nil && g.cfg.Skip(r) {
		return true
	}
	for _, prefix := range g.cfg.Config.ExemptPrefixes {
		if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func (g *guard) isKeepAlive(r *http.Request) bool {
	return r.URL.Path == g.cfg.Config.KeepAlivePath && r.Method == g.cfg.Config.KeepAliveMethod
}

// enforce runs one evaluation. It returns false when a response was written
// and the request must not continue.
func (g *guard) enforce(w http.ResponseWriter, r *http.Request, id Identity) (idle.Decision, bool) {
	ctx := r.Context()

	last, err := g.cfg.Store.LastActivity(ctx, id.SessionID)
	if err != nil {
		g.storeFailure(w, r, id, "read", err)
		return idle.Decision{}, false
	}

	now := g.cfg.Clock.Now()
	d := idle.Evaluate(now, last, g.policy, g.isKeepAlive(r))

	if g.cfg.OnDecision != nil {
		g.cfg.OnDecision(r, id, d)
	}

	if d.Phase == idle.PhaseExpired {
		g.expire(w, r, id, d)
		return d, false
	}

	if d.Extend {
		if err := g.cfg.Store.Touch(ctx, id.SessionID, now); err != nil {
			g.storeFailure(w, r, id, "write", err)
			return idle.Decision{}, false
		}
	}

	if d.Phase == idle.PhaseGrace {
		g.log.DebugContext(ctx, "session in grace period",
			logger.SessionID(id.SessionID),
			logger.ActorID(id.ActorID),
			logger.Remaining(d.Remaining),
			slog.Bool("keep_alive", d.Extend),
		)
	}

	setCountdownHeaders(w.Header(), g.policy, d)
	return d, true
}

func (g *guard) expire(w http.ResponseWriter, r *http.Request, id Identity, d idle.Decision) {
	ctx := r.Context()

	g.log.InfoContext(ctx, "session expired due to inactivity",
		logger.Event("session_expired"),
		logger.SessionID(id.SessionID),
		logger.ActorID(id.ActorID),
		logger.Duration(d.Elapsed),
		logger.Path(r.URL.Path),
	)

	// A missing record reads as a fresh session, so the record is only
	// destroyed once the authentication session is gone. Otherwise it stays
	// and keeps evaluating as expired.
	if err := g.cfg.Logout(w, r, id); err != nil {
		g.log.WarnContext(ctx, "logout failed, keeping expired record",
			logger.Error(err),
			logger.SessionID(id.SessionID),
		)
	} else if err := g.cfg.Store.Delete(ctx, id.SessionID); err != nil {
		g.log.WarnContext(ctx, "failed to delete expired activity record",
			logger.Error(err),
			logger.SessionID(id.SessionID),
		)
		if g.cfg.OnStoreError != nil {
			g.cfg.OnStoreError(r, "delete", err)
		}
	}

	setCountdownHeaders(w.Header(), g.policy, d)
	g.cfg.ErrorHandler(w, r, idle.ErrSessionExpired)
}

func (g *guard) storeFailure(w http.ResponseWriter, r *http.Request, id Identity, op string, err error) {
	g.log.ErrorContext(r.Context(), "activity store unavailable",
		logger.Error(err),
		slog.String("op", op),
		logger.SessionID(id.SessionID),
		logger.Path(r.URL.Path),
	)
	if g.cfg.OnStoreError != nil {
		g.cfg.OnStoreError(r, op, err)
	}

	if !errors.Is(err, activity.ErrUnavailable) {
		err = errors.Join(activity.ErrUnavailable, err)
	}
	SetPolicyHeaders(w.Header(), g.policy)
	w.Header().Set("Retry-After", strconv.Itoa(int(max(g.cfg.StoreRetryAfter/time.Second, 1))))
	g.cfg.ErrorHandler(w, r, err)
}

// DecisionFromContext returns the idle decision the guard made for this request.
func DecisionFromContext(ctx context.Context) (idle.Decision, bool) {
	d, ok := ctx.Value(decisionKey{}).(idle.Decision)
	return d, ok
}
