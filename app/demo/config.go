package demo

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/idlesession/core/cookie"
	"github.com/dmitrymomot/idlesession/core/idle"
	"github.com/dmitrymomot/idlesession/core/server"
	"github.com/dmitrymomot/idlesession/integration/activitystore/boltstore"
	"github.com/dmitrymomot/idlesession/integration/activitystore/sqlitestore"
	"github.com/dmitrymomot/idlesession/integration/database/mongo"
	"github.com/dmitrymomot/idlesession/integration/database/pg"
	"github.com/dmitrymomot/idlesession/integration/database/redis"
	"github.com/dmitrymomot/idlesession/pkg/ratelimiter"
)

// Backend names accepted by ACTIVITY_BACKEND and KEEPALIVE_RATE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Server    server.Config
	Idle      idle.Config
	RateLimit ratelimiter.Config
	Redis     redis.Config
	DB        pg.Config
	Mongo     mongo.Config
	Bolt      boltstore.Config
	SQLite    sqlitestore.Config

	AppName  string `env:"APP_NAME" envDefault:"idlesession"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ActivityBackend  string        `env:"ACTIVITY_BACKEND" envDefault:"memory"`
	RateLimitBackend string        `env:"KEEPALIVE_RATE_BACKEND" envDefault:"memory"`
	MongoDatabase    string        `env:"MONGODB_DATABASE" envDefault:"idlesession"`
	MongoCollection  string        `env:"MONGODB_ACTIVITY_COLLECTION" envDefault:"session_activity"`
	RecordTTL        time.Duration `env:"ACTIVITY_RECORD_TTL" envDefault:"24h"`
	CleanupInterval  time.Duration `env:"ACTIVITY_CLEANUP_INTERVAL" envDefault:"5m"`

	Cookie     cookie.Config
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"idle_sid"`
}

// Validate checks backend names and the idle and rate limit policies.
func (c Config) Validate() error {
	switch c.ActivityBackend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendMongo, BackendBolt, BackendSQLite:
	default:
		return fmt.Errorf("%w: activity backend %q", ErrUnknownBackend, c.ActivityBackend)
	}
	switch c.RateLimitBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("%w: rate limit backend %q", ErrUnknownBackend, c.RateLimitBackend)
	}
	if err := c.Idle.Validate(); err != nil {
		return err
	}
	if err := c.RateLimit.Validate(); err != nil {
		return err
	}
	// Records must outlive timeout+grace, otherwise an idle session re-seeds
	// instead of expiring.
	if c.RecordTTL > 0 && c.RecordTTL <= c.Idle.Timeout+c.Idle.Grace {
		return fmt.Errorf("%w: record TTL %s must exceed timeout+grace %s",
			ErrInvalidConfig, c.RecordTTL, c.Idle.Timeout+c.Idle.Grace)
	}
	return nil
}
