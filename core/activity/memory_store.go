package activity

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

// MemoryStore implements Store in process memory.
// State is not shared between processes, so use it for tests and
// single-instance deployments only.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]time.Time

	ttl             time.Duration
	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	clock           clock.Clock
	logger          *slog.Logger

	lifecycle sync.Mutex
	stop      context.CancelFunc
	done      chan struct{}
	running   atomic.Bool

	touches        atomic.Int64
	staleWrites    atomic.Int64
	recordsRemoved atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and debugging.
type MemoryStoreStats struct {
	Touches        int64 // Accepted forward writes
	StaleWrites    int64 // Writes ignored because a later time was stored
	RecordsRemoved int64 // Records dropped by the TTL sweep
	ActiveRecords  int
	IsRunning      bool
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithTTL drops records untouched for longer than ttl during cleanup.
// Zero keeps records until Delete.
func WithTTL(ttl time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.ttl = ttl
	}
}

// WithCleanupInterval sets how often the TTL sweep runs.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithClock sets the clock used by the TTL sweep.
func WithClock(c clock.Clock) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if c != nil {
			ms.clock = c
		}
	}
}

// WithLogger sets the logger for internal operations.
func WithLogger(l *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if l != nil {
			ms.logger = l
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
// Call Start (or Run) to enable the TTL sweep.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		records:         make(map[string]time.Time),
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

// LastActivity returns the stored time or the zero time.
func (ms *MemoryStore) LastActivity(ctx context.Context, sessionID string) (time.Time, error) {
	if sessionID == "" {
		return time.Time{}, ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, errors.Join(ErrUnavailable, err)
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.records[sessionID], nil
}

// Touch stores t when it is later than the current record.
func (ms *MemoryStore) Touch(ctx context.Context, sessionID string, t time.Time) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if current, ok := ms.records[sessionID]; ok && !t.After(current) {
		ms.staleWrites.Add(1)
		return nil
	}
	ms.records[sessionID] = t
	ms.touches.Add(1)
	return nil
}

// Delete removes the record.
func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.records, sessionID)
	return nil
}

// Start sweeps expired records every cleanup interval until ctx is done or
// Stop is called. It blocks; use Run with errgroup.
func (ms *MemoryStore) Start(ctx context.Context) error {
	if ms.cleanupInterval <= 0 || ms.ttl <= 0 {
		return fmt.Errorf("cleanup requires positive interval and TTL, got interval=%s ttl=%s", ms.cleanupInterval, ms.ttl)
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

	ms.logger.InfoContext(ctx, "activity store cleanup started",
		slog.Duration("cleanup_interval", ms.cleanupInterval),
		slog.Duration("ttl", ms.ttl))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := ms.Sweep(); n > 0 {
				ms.logger.DebugContext(ctx, "expired activity records removed", slog.Int("removed", n))
			}
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
		return fmt.Errorf("activity store cleanup did not stop within %s", ms.shutdownTimeout)
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

// Sweep removes records untouched for longer than the TTL and returns how
// many were removed.
func (ms *MemoryStore) Sweep() int {
	if ms.ttl <= 0 {
		return 0
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	cutoff := ms.clock.Now().Add(-ms.ttl)
	removed := 0
	for id, last := range ms.records {
		if last.Before(cutoff) {
			delete(ms.records, id)
			removed++
		}
	}

	if removed > 0 {
		ms.recordsRemoved.Add(int64(removed))
	}
	return removed
}

// Stats returns current store statistics.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.RLock()
	active := len(ms.records)
	ms.mu.RUnlock()

	return MemoryStoreStats{
		Touches:        ms.touches.Load(),
		StaleWrites:    ms.staleWrites.Load(),
		RecordsRemoved: ms.recordsRemoved.Load(),
		ActiveRecords:  active,
		IsRunning:      ms.running.Load(),
	}
}

// Healthcheck reports an error when a configured sweep is not running.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	if ms.ttl > 0 && ms.cleanupInterval > 0 && !ms.running.Load() {
		return ErrCleanupNotRunning
	}
	return nil
}
