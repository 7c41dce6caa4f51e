// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (a missing file is ignored) and
// uses the caarlos0/env library for parsing environment variables into struct
// fields.
//
//	var cfg idle.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// Different types are cached independently. Reset drops the cache, which
// tests use after changing the environment.
package config
