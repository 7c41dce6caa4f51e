package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Helpers that take an error or identifier return the zero slog.Attr when
// the value is absent. slog drops zero attributes, so callers never branch.

// Error logs err under "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors logs the non-nil errors as a group keyed by argument position.
func Errors(errs ...error) slog.Attr {
	var group []slog.Attr
	for i, err := range errs {
		if err != nil {
			group = append(group, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(group) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(group...)}
}

func nonEmpty(key, v string) slog.Attr {
	if v == "" {
		return slog.Attr{}
	}
	return slog.String(key, v)
}

// SessionID identifies the authentication session.
func SessionID(id string) slog.Attr { return nonEmpty("session_id", id) }

// ActorID identifies the authenticated actor.
func ActorID(id string) slog.Attr { return nonEmpty("actor_id", id) }

// RequestID carries the X-Request-ID value.
func RequestID(id string) slog.Attr { return nonEmpty("request_id", id) }

// Phase logs an idle phase. It takes a fmt.Stringer to keep this package
// free of domain imports.
func Phase(p fmt.Stringer) slog.Attr {
	if p == nil {
		return slog.Attr{}
	}
	return slog.String("phase", p.String())
}

// Remaining is the idle budget left before the next phase boundary.
func Remaining(d time.Duration) slog.Attr { return slog.Duration("remaining", d) }

// Duration is a generic elapsed time.
func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }

func Method(method string) slog.Attr { return slog.String("method", method) }
func Path(path string) slog.Attr { return slog.String("path", path) }
func StatusCode(code int) slog.Attr { return slog.Int("status_code", code) }
func ClientIP(ip string) slog.Attr { return nonEmpty("client_ip", ip) }
func BytesOut(n int64) slog.Attr { return slog.Int64("bytes_out", n) }

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr { return slog.String("component", name) }

// Event tags records that dashboards filter on, e.g. "session_expired".
func Event(name string) slog.Attr { return slog.String("event", name) }

// Count logs n under key.
func Count(key string, n int) slog.Attr { return slog.Int(key, n) }

// Key logs an arbitrary value, skipping nil.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}
