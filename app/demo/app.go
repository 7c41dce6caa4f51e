package demo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/idlesession/core/clock"
	"github.com/dmitrymomot/idlesession/core/cookie"
	"github.com/dmitrymomot/idlesession/core/logger"
	"github.com/dmitrymomot/idlesession/core/server"
	"github.com/dmitrymomot/idlesession/pkg/idlemetrics"
)

// App wires the idle guard, keep-alive endpoint and demo authentication
// into one HTTP service.
type App struct {
	config   Config
	logger   *slog.Logger
	clock    clock.Clock
	backends *Backends
	sessions *Sessions
	registry *prometheus.Registry
	metrics  *idlemetrics.Metrics
	server   *server.Server
	handler  http.Handler
}

type AppOption func(*App) error

// NewApp opens the configured backends and builds the router. Close
// releases the backends.
func NewApp(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger.Discard(),
		clock:  clock.System,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m, err := idlemetrics.New(app.registry)
	if err != nil {
		return nil, err
	}
	app.metrics = m

	if app.sessions == nil {
		cookies, err := newCookieManager(cfg.Cookie, app.logger)
		if err != nil {
			return nil, err
		}
		app.sessions = NewSessions(cookies, cfg.CookieName)
	}

	if app.backends == nil {
		b, err := OpenBackends(ctx, cfg, app.logger)
		if err != nil {
			return nil, err
		}
		app.backends = b
	}

	if app.server == nil {
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			_ = app.backends.Close()
			return nil, err
		}
		app.server = s
	}

	app.handler = app.routes()
	return app, nil
}

func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

func WithClock(c clock.Clock) AppOption {
	return func(app *App) error {
		if c == nil {
			return errors.New("clock cannot be nil")
		}
		app.clock = c
		return nil
	}
}

func WithRegistry(reg *prometheus.Registry) AppOption {
	return func(app *App) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		app.registry = reg
		return nil
	}
}

func WithBackends(b *Backends) AppOption {
	return func(app *App) error {
		if b == nil {
			return errors.New("backends cannot be nil")
		}
		app.backends = b
		return nil
	}
}

func WithSessions(s *Sessions) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("sessions cannot be nil")
		}
		app.sessions = s
		return nil
	}
}

// Handler returns the fully wired router.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP and the backend loops until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(gctx, a.handler))
	for _, run := range a.backends.Runners(gctx) {
		g.Go(run)
	}
	return g.Wait()
}

// Close releases backend connections.
func (a *App) Close() error {
	return a.backends.Close()
}

// Addr returns the bound server address while running.
func (a *App) Addr() string {
	return a.server.Addr()
}

// newCookieManager falls back to a random per-process secret when none is
// configured, which logs everyone out on restart.
func newCookieManager(cfg cookie.Config, log *slog.Logger) (*cookie.Manager, error) {
	if len(cfg.SecretList()) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		cfg.Secrets = hex.EncodeToString(buf)
		log.Warn("COOKIE_SECRETS not set, using an ephemeral secret")
	}
	return cookie.NewFromConfig(cfg)
}
