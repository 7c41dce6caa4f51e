package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/core/config"
	"github.com/dmitrymomot/idlesession/core/idle"
)

type cachedConfig struct {
	Name string `env:"CONFIG_TEST_NAME" envDefault:"default"`
}

type requiredConfig struct {
	Secret string `env:"CONFIG_TEST_SECRET,required"`
}

func TestLoad_CachesPerType(t *testing.T) {
	t.Setenv("CONFIG_TEST_NAME", "first")

	var a cachedConfig
	require.NoError(t, config.Load(&a))
	assert.Equal(t, "first", a.Name)

	t.Setenv("CONFIG_TEST_NAME", "second")

	var b cachedConfig
	require.NoError(t, config.Load(&b))
	assert.Equal(t, "first", b.Name)

	config.Reset()

	var c cachedConfig
	require.NoError(t, config.Load(&c))
	assert.Equal(t, "second", c.Name)
}

func TestLoad_Errors(t *testing.T) {
	var nilCfg *requiredConfig
	assert.ErrorIs(t, config.Load(nilCfg), config.ErrNilTarget)

	var cfg requiredConfig
	assert.Error(t, config.Load(&cfg))
	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })
}

func TestLoad_IdleConfig(t *testing.T) {
	config.Reset()
	t.Setenv("IDLE_TIMEOUT", "10m")
	t.Setenv("IDLE_GRACE", "30s")
	t.Setenv("IDLE_EXEMPT_PREFIXES", "/static/,/public/")

	var cfg idle.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Grace)
	assert.Equal(t, "/session/ping", cfg.KeepAlivePath)
	assert.Equal(t, []string{"/static/", "/public/"}, cfg.ExemptPrefixes)
	assert.NoError(t, cfg.Validate())
}
