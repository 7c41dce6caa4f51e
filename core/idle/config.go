package idle

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config holds idle enforcement settings loaded from the environment.
type Config struct {
	Timeout         time.Duration `env:"IDLE_TIMEOUT" envDefault:"15m"`
	Grace           time.Duration `env:"IDLE_GRACE" envDefault:"2m"`
	KeepAlivePath   string        `env:"IDLE_KEEPALIVE_PATH" envDefault:"/session/ping"`
	KeepAliveMethod string        `env:"IDLE_KEEPALIVE_METHOD" envDefault:"POST"`
	// ExemptPrefixes are path prefixes that never trigger evaluation (static assets, login).
	ExemptPrefixes []string `env:"IDLE_EXEMPT_PREFIXES" envSeparator:"," envDefault:"/static/,/login,/logout,/livez,/healthz,/metrics"`
}

// DefaultConfig returns the same values as the env defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:         15 * time.Minute,
		Grace:           2 * time.Minute,
		KeepAlivePath:   "/session/ping",
		KeepAliveMethod: http.MethodPost,
		ExemptPrefixes:  []string{"/static/", "/login", "/logout", "/livez", "/healthz", "/metrics"},
	}
}

// Policy returns the durations as an evaluation policy.
func (c Config) Policy() Policy {
	return Policy{Timeout: c.Timeout, Grace: c.Grace}
}

// Validate checks the policy and the keep-alive route.
func (c Config) Validate() error {
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if c.Policy().Enabled() && !strings.HasPrefix(c.KeepAlivePath, "/") {
		return fmt.Errorf("%w: keep-alive path must start with '/', got %q", ErrInvalidPolicy, c.KeepAlivePath)
	}
	return nil
}
