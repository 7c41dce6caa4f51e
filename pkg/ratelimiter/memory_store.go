package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/idlesession/core/clock"
	"github.com/dmitrymomot/idlesession/core/logger"
)

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps counters in process memory. Increment is atomic within
// one process only; replicas need RedisStore to share budgets.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	clock           clock.Clock
	logger          *slog.Logger

	lifecycle sync.Mutex
	stop      context.CancelFunc
	done      chan struct{}
	running   atomic.Bool

	created atomic.Int64
	removed atomic.Int64
}

// MemoryStoreStats is a point-in-time snapshot of a MemoryStore.
type MemoryStoreStats struct {
	WindowsCreated int64
	WindowsRemoved int64
	ActiveWindows  int
	IsRunning      bool
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often elapsed windows are swept. Zero disables the sweep.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.cleanupInterval = interval }
}

// WithMemoryStoreShutdownTimeout bounds how long Stop waits for a sweep in progress.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithMemoryStoreClock sets the clock that decides when windows elapse.
func WithMemoryStoreClock(c clock.Clock) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if c != nil {
			ms.clock = c
		}
	}
}

// WithMemoryStoreLogger sets the logger.
func WithMemoryStoreLogger(l *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if l != nil {
			ms.logger = l
		}
	}
}

// NewMemoryStore creates an empty store. The sweep only runs after Start or Run.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		windows:         make(map[string]*window),
		cleanupInterval: 5 * time.Minute,
		shutdownTimeout: 30 * time.Second,
		clock:           clock.System,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

var _ Store = (*MemoryStore)(nil)

// Increment counts one call in the current window of key.
func (ms *MemoryStore) Increment(ctx context.Context, key string, length time.Duration) (int64, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.clock.Now()
	w, ok := ms.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(length)}
		ms.windows[key] = w
		ms.created.Add(1)
	}
	w.count++
	return w.count, w.resetAt, nil
}

// Reset drops the counter for key.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	delete(ms.windows, key)
	ms.mu.Unlock()
	return nil
}

// Start sweeps elapsed windows every cleanup interval until ctx is done or
// Stop is called. It blocks; use Run with errgroup.
func (ms *MemoryStore) Start(ctx context.Context) error {
	if ms.cleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup interval must be positive, got %s", ErrInvalidConfig, ms.cleanupInterval)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	ms.lifecycle.Lock()
	if ms.stop != nil {
		ms.lifecycle.Unlock()
		cancel()
		return ErrCleanupRunning
	}
	ms.stop, ms.done = cancel, done
	ms.running.Store(true)
	ms.lifecycle.Unlock()

	defer func() {
		ms.lifecycle.Lock()
		if ms.done == done {
			ms.stop, ms.done = nil, nil
		}
		ms.lifecycle.Unlock()
		ms.running.Store(false)
		cancel()
		close(done)
	}()

	ms.logger.InfoContext(ctx, "rate limit store cleanup started",
		slog.Duration("cleanup_interval", ms.cleanupInterval))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			ms.removeElapsed()
		}
	}
}

// Stop ends a running sweep and waits for it to return.
func (ms *MemoryStore) Stop() error {
	ms.lifecycle.Lock()
	stop, done := ms.stop, ms.done
	ms.stop, ms.done = nil, nil
	ms.lifecycle.Unlock()

	if stop == nil {
		return ErrCleanupNotRunning
	}
	stop()

	select {
	case <-done:
		return nil
	case <-time.After(ms.shutdownTimeout):
		return fmt.Errorf("rate limit store cleanup did not stop within %s", ms.shutdownTimeout)
	}
}

// Run adapts Start for errgroup. Cancellation is a clean exit.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		err := ms.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func (ms *MemoryStore) removeElapsed() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.clock.Now()
	var n int64
	for key, w := range ms.windows {
		if !now.Before(w.resetAt) {
			delete(ms.windows, key)
			n++
		}
	}
	ms.removed.Add(n)
}

// Stats returns a snapshot of the store counters.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	active := len(ms.windows)
	ms.mu.Unlock()

	return MemoryStoreStats{
		WindowsCreated: ms.created.Load(),
		WindowsRemoved: ms.removed.Load(),
		ActiveWindows:  active,
		IsRunning:      ms.running.Load(),
	}
}

// Healthcheck fails when a sweep is configured but not running.
func (ms *MemoryStore) Healthcheck(context.Context) error {
	if ms.cleanupInterval > 0 && !ms.running.Load() {
		return ErrCleanupNotRunning
	}
	return nil
}
