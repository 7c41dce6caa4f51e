package demo

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/idlesession/core/health"
	"github.com/dmitrymomot/idlesession/core/idle"
	"github.com/dmitrymomot/idlesession/core/logger"
	"github.com/dmitrymomot/idlesession/core/response"
	"github.com/dmitrymomot/idlesession/middleware"
	"github.com/dmitrymomot/idlesession/pkg/ratelimiter"
)

func (a *App) routes() http.Handler {
	idleCfg := a.config.Idle

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: a.logger,
		Skip: func(r *http.Request) bool {
			return r.URL.Path == "/healthz" || r.URL.Path == "/livez" || r.URL.Path == "/metrics"
		},
	}))
	r.Use(a.sessions.Authenticate)
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Limiter:    a.backends.Limiter,
		SetHeaders: true,
		Logger:     a.logger,
		Skip: func(r *http.Request) bool {
			return r.URL.Path != idleCfg.KeepAlivePath
		},
		OnResult: func(_ *http.Request, result *ratelimiter.Result) {
			a.metrics.ObserveRateLimit(result.Allowed())
		},
		ErrorHandler: middleware.CountdownErrorHandler(idleCfg.Policy(), nil, nil),
	}))
	r.Use(middleware.IdleGuard(middleware.IdleGuardConfig{
		Store:  a.backends.Activity,
		Config: idleCfg,
		Logout: a.sessions.Logout,
		Clock:  a.clock,
		Logger: a.logger,
		OnDecision: func(_ *http.Request, _ middleware.Identity, d idle.Decision) {
			a.metrics.ObserveDecision(d)
		},
		OnStoreError: func(_ *http.Request, op string, _ error) {
			a.metrics.ObserveStoreError(op)
		},
	}))

	r.Post("/login", response.Handler(a.login))
	r.Post("/logout", response.Handler(a.logout))
	r.Get("/livez", health.Liveness)
	r.Get("/healthz", health.Readiness(a.logger, a.backends.Checks()))
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Get("/api/whoami", response.Handler(a.whoami))
	r.Handle(idleCfg.KeepAlivePath, middleware.KeepAlive(middleware.KeepAliveConfig{
		Method: idleCfg.KeepAliveMethod,
	}))

	return r
}

type loginResponse struct {
	ActorID   string `json:"actor_id"`
	SessionID string `json:"session_id"`
}

func (a *App) login(_ *http.Request) response.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := a.sessions.Login(w, r.FormValue("actor"))
		if errors.Is(err, ErrMissingActor) {
			return response.Error(response.ErrBadRequest.WithMessage("actor is required"))(w, r)
		}
		if err != nil {
			return response.Error(err)(w, r)
		}

		// Seed the record at login so the first countdown starts now.
		if err := a.backends.Activity.Touch(r.Context(), id.SessionID, a.clock.Now()); err != nil {
			a.logger.WarnContext(r.Context(), "failed to seed activity record",
				logger.Error(err), logger.SessionID(id.SessionID))
		}

		return response.JSONWithStatus(loginResponse{ActorID: id.ActorID, SessionID: id.SessionID}, http.StatusCreated)(w, r)
	}
}

func (a *App) logout(_ *http.Request) response.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, ok := middleware.IdentityFromRequest(r)
		if !ok {
			return response.Error(idle.ErrUnauthenticated)(w, r)
		}

		if err := a.sessions.Logout(w, r, id); err != nil && !errors.Is(err, ErrUnknownSession) {
			return response.Error(err)(w, r)
		}
		if err := a.backends.Activity.Delete(r.Context(), id.SessionID); err != nil {
			a.logger.WarnContext(r.Context(), "failed to delete activity record",
				logger.Error(err), logger.SessionID(id.SessionID))
		}
		return response.NoContent()(w, r)
	}
}

type whoamiResponse struct {
	ActorID          string `json:"actor_id"`
	SessionID        string `json:"session_id"`
	Phase            string `json:"phase,omitempty"`
	RemainingSeconds *int64 `json:"remaining_seconds,omitempty"`
}

func (a *App) whoami(r *http.Request) response.Response {
	id, ok := middleware.IdentityFromRequest(r)
	if !ok {
		return response.Error(idle.ErrUnauthenticated)
	}

	resp := whoamiResponse{ActorID: id.ActorID, SessionID: id.SessionID}
	if d, ok := middleware.DecisionFromContext(r.Context()); ok {
		resp.Phase = d.Phase.String()
		if d.HasRemaining {
			secs := int64((d.Remaining + time.Second - 1) / time.Second)
			resp.RemainingSeconds = &secs
		}
	}
	return response.JSON(resp)
}
