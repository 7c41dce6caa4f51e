package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/app/demo"
)

func TestRootCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, serveCmd.Flags().Lookup("addr"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "staging", "production"} {
		log := newLogger(demo.Config{AppName: "test", Env: env, LogLevel: "debug"})
		require.NotNil(t, log)
		assert.True(t, log.Enabled(context.Background(), -4), env)
	}
}
