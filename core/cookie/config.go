package cookie

import (
	"net/http"
	"strings"
)

// Config is the env-driven form of the manager settings.
type Config struct {
	// Secrets is comma separated. The first signs; all verify.
	Secrets  string        `env:"COOKIE_SECRETS"`
	Path     string        `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"COOKIE_DOMAIN"`
	MaxAge   int           `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool          `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"` // lax
}

// SecretList returns the trimmed, non-empty secrets.
func (c Config) SecretList() []string {
	var secrets []string
	for s := range strings.SplitSeq(c.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewFromConfig creates a Manager from cfg. Empty Path and zero SameSite
// keep the manager defaults; opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	fromConfig := func(o *Options) {
		if cfg.Path != "" {
			o.Path = cfg.Path
		}
		if cfg.SameSite != 0 {
			o.SameSite = cfg.SameSite
		}
		o.Domain = cfg.Domain
		o.MaxAge = cfg.MaxAge
		o.Secure = cfg.Secure
		o.HttpOnly = cfg.HttpOnly
	}
	return New(cfg.SecretList(), append([]Option{fromConfig}, opts...)...)
}
