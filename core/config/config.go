package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilTarget is returned when Load is called with a nil pointer.
var ErrNilTarget = errors.New("config target must be a non-nil pointer")

var (
	dotenvOnce sync.Once

	cacheMu sync.RWMutex
	cache   = make(map[reflect.Type]any)
)

// loadDotenv reads .env once per process. A missing file is not an error.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load parses environment variables into cfg. Each type is parsed once;
// later calls copy the cached value into cfg.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilTarget
	}

	typ := reflect.TypeFor[T]()

	cacheMu.RLock()
	cached, ok := cache[typ]
	cacheMu.RUnlock()
	if ok {
		*cfg = cached.(T)
		return nil
	}

	loadDotenv()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}
	cache[typ] = *cfg
	return nil
}

// MustLoad is Load that panics on failure. Intended for process startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset clears the cache so the next Load re-reads the environment.
func Reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}
