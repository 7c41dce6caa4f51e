package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/idlesession/core/activity"
	"github.com/dmitrymomot/idlesession/core/health"
	"github.com/dmitrymomot/idlesession/core/logger"
	"github.com/dmitrymomot/idlesession/integration/activitystore/boltstore"
	"github.com/dmitrymomot/idlesession/integration/activitystore/mongostore"
	"github.com/dmitrymomot/idlesession/integration/activitystore/pgstore"
	"github.com/dmitrymomot/idlesession/integration/activitystore/redisstore"
	"github.com/dmitrymomot/idlesession/integration/activitystore/sqlitestore"
	"github.com/dmitrymomot/idlesession/integration/database/mongo"
	"github.com/dmitrymomot/idlesession/integration/database/pg"
	"github.com/dmitrymomot/idlesession/integration/database/redis"
	"github.com/dmitrymomot/idlesession/pkg/ratelimiter"
)

// Backends holds the stores selected by configuration together with their
// background loops, health checks and cleanup.
type Backends struct {
	Activity activity.Store
	Limiter  *ratelimiter.FixedWindow

	runners []func(ctx context.Context) func() error
	checks  map[string]health.Check
	closers []func() error
}

// purger is implemented by durable stores that cannot expire records natively.
type purger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// OpenBackends connects the activity store and rate limiter store named in
// cfg. The caller must Close the result.
func OpenBackends(ctx context.Context, cfg Config, log *slog.Logger) (*Backends, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}

	b := &Backends{checks: make(map[string]health.Check)}
	if err := b.open(ctx, cfg, log); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backends) open(ctx context.Context, cfg Config, log *slog.Logger) error {
	var redisClient goredis.UniversalClient
	if cfg.ActivityBackend == BackendRedis || cfg.RateLimitBackend == BackendRedis {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		redisClient = client
		b.closers = append(b.closers, client.Close)
		b.checks["redis"] = redis.Healthcheck(client)
	}

	switch cfg.ActivityBackend {
	case BackendMemory:
		ms := activity.NewMemoryStore(
			activity.WithTTL(cfg.RecordTTL),
			activity.WithCleanupInterval(cfg.CleanupInterval),
			activity.WithLogger(log),
		)
		b.Activity = ms
		b.checks["activity_store"] = ms.Healthcheck
		if cfg.RecordTTL > 0 && cfg.CleanupInterval > 0 {
			b.runners = append(b.runners, ms.Run)
		}

	case BackendRedis:
		b.Activity = redisstore.New(redisClient, redisstore.WithTTL(cfg.RecordTTL))

	case BackendPostgres:
		pool, err := pg.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() error { pool.Close(); return nil })
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg.DB, log); err != nil {
			return err
		}
		store := pgstore.New(pool)
		b.Activity = store
		b.checks["postgres"] = pg.Healthcheck(pool)
		b.addPurgeLoop(store, cfg, log)

	case BackendMongo:
		client, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() error { return client.Disconnect(context.Background()) })
		store := mongostore.New(client.Database(cfg.MongoDatabase), cfg.MongoCollection)
		if err := store.EnsureIndexes(ctx, cfg.RecordTTL); err != nil {
			return err
		}
		b.Activity = store
		b.checks["mongo"] = mongo.Healthcheck(client)

	case BackendBolt:
		store, err := boltstore.Open(cfg.Bolt)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, store.Close)
		b.Activity = store
		b.addPurgeLoop(store, cfg, log)

	case BackendSQLite:
		store, err := sqlitestore.Open(ctx, cfg.SQLite)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, store.Close)
		b.Activity = store
		b.checks["sqlite"] = store.Healthcheck
		b.addPurgeLoop(store, cfg, log)
	}

	var counters ratelimiter.Store
	switch cfg.RateLimitBackend {
	case BackendMemory:
		ms := ratelimiter.NewMemoryStore(
			ratelimiter.WithCleanupInterval(cfg.RateLimit.Window),
			ratelimiter.WithMemoryStoreLogger(log),
		)
		counters = ms
		b.checks["ratelimit_store"] = ms.Healthcheck
		b.runners = append(b.runners, ms.Run)
	case BackendRedis:
		counters = ratelimiter.NewRedisStore(redisClient, ratelimiter.WithKeyPrefix("idle:keepalive:"))
	}

	limiter, err := ratelimiter.NewFixedWindow(counters, cfg.RateLimit)
	if err != nil {
		return err
	}
	b.Limiter = limiter

	log.Info("backends ready",
		slog.String("activity_backend", cfg.ActivityBackend),
		slog.String("ratelimit_backend", cfg.RateLimitBackend),
	)
	return nil
}

func (b *Backends) addPurgeLoop(p purger, cfg Config, log *slog.Logger) {
	if cfg.RecordTTL <= 0 || cfg.CleanupInterval <= 0 {
		return
	}
	b.runners = append(b.runners, func(ctx context.Context) func() error {
		return func() error {
			purgeLoop(ctx, p, cfg.RecordTTL, cfg.CleanupInterval, log)
			return nil
		}
	})
}

func purgeLoop(ctx context.Context, p purger, ttl, interval time.Duration, log *slog.Logger) {
	log = log.With(logger.Component("activity_purge"))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := p.Purge(ctx, now.Add(-ttl))
			if err != nil {
				log.WarnContext(ctx, "purge failed", logger.Error(err))
				continue
			}
			if removed > 0 {
				log.DebugContext(ctx, "purged stale activity records", logger.Count("removed", int(removed)))
			}
		}
	}
}

// Runners returns the background loops for an errgroup.
func (b *Backends) Runners(ctx context.Context) []func() error {
	fns := make([]func() error, 0, len(b.runners))
	for _, run := range b.runners {
		fns = append(fns, run(ctx))
	}
	return fns
}

// Checks returns the named health checks.
func (b *Backends) Checks() map[string]health.Check {
	return b.checks
}

// Close releases connections in reverse order of opening.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("close backends: %w", errors.Join(errs...))
	}
	return nil
}
