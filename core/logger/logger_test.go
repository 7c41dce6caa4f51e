package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/core/idle"
	"github.com/dmitrymomot/idlesession/core/logger"
)

type ctxKey struct{}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("production writes json with service attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("idlesession"), logger.WithOutput(&buf))
		log.Info("started", logger.Component("server"))
		log.Debug("hidden")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "started", entry["msg"])
		assert.Equal(t, "idlesession", entry["service"])
		assert.Equal(t, "production", entry["env"])
		assert.Equal(t, "server", entry["component"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("development logs debug as text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("idlesession"), logger.WithOutput(&buf))
		log.Debug("evaluated", logger.Phase(idle.PhaseGrace))

		assert.Contains(t, buf.String(), "msg=evaluated")
		assert.Contains(t, buf.String(), "phase=grace")
	})

	t.Run("level option overrides preset", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithProduction("svc"),
			logger.WithLevel(slog.LevelError),
			logger.WithOutput(&buf),
		)
		log.Warn("skipped")
		assert.Empty(t, buf.String())
	})

	t.Run("text formatter overrides preset", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithProduction("svc"),
			logger.WithTextFormatter(),
			logger.WithOutput(&buf),
		)
		log.Info("expired", logger.SessionID("s1"))

		assert.Contains(t, buf.String(), "msg=expired")
		assert.Contains(t, buf.String(), "session_id=s1")
		assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	})

	t.Run("handler options keep configured level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithLevel(slog.LevelWarn),
			logger.WithOutput(&buf),
			logger.WithHandlerOptions(&slog.HandlerOptions{
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
		log.Info("dropped")
		log.Warn("kept")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "kept", entry["msg"])
		assert.NotContains(t, entry, "time")
	})

	t.Run("context values are injected", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextValue("request_id", ctxKey{}),
		)

		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.InfoContext(ctx, "with ctx")
		log.With(logger.Component("guard")).InfoContext(context.Background(), "without ctx value")

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)
		assert.Contains(t, string(lines[0]), `"request_id":"req-1"`)
		assert.NotContains(t, string(lines[1]), "request_id")
		assert.Contains(t, string(lines[1]), `"component":"guard"`)
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestSessionAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "session_id", logger.SessionID("s1").Key)
	assert.True(t, logger.SessionID("").Equal(slog.Attr{}))
	assert.Equal(t, "actor_id", logger.ActorID("a1").Key)
	assert.True(t, logger.ActorID("").Equal(slog.Attr{}))
	assert.Equal(t, "expired", logger.Phase(idle.PhaseExpired).Value.String())
	assert.Equal(t, 90*time.Second, logger.Remaining(90*time.Second).Value.Duration())
}

func TestErrorAttrs(t *testing.T) {
	t.Parallel()

	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())
	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))

	assert.Equal(t, "error", logger.Error(err1).Key)
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestHTTPAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GET", logger.Method("GET").Value.String())
	assert.Equal(t, "/session/ping", logger.Path("/session/ping").Value.String())
	assert.Equal(t, int64(204), logger.StatusCode(204).Value.Int64())
	assert.Equal(t, "10.0.0.1", logger.ClientIP("10.0.0.1").Value.String())
	assert.Equal(t, int64(12), logger.BytesOut(12).Value.Int64())
	assert.Equal(t, "request_id", logger.RequestID("r").Key)
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.Key("k", nil).Equal(slog.Attr{}))
}
