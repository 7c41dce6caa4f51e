package ratelimiter

import (
	"fmt"
	"time"
)

// Config describes a fixed window policy: at most Limit calls per Window per key.
type Config struct {
	Limit  int           `env:"KEEPALIVE_RATE_LIMIT" envDefault:"30"`
	Window time.Duration `env:"KEEPALIVE_RATE_WINDOW" envDefault:"60s"`
}

// Validate checks that both values are positive.
func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %s", ErrInvalidConfig, c.Window)
	}
	return nil
}
