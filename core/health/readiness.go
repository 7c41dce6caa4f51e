package health

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/dmitrymomot/idlesession/core/logger"
	"github.com/dmitrymomot/idlesession/core/response"
)

// DefaultTimeout bounds each readiness check.
const DefaultTimeout = 2 * time.Second

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Report is the readiness response body.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Readiness runs checks in name order on every request.
func Readiness(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		report := Report{Status: "ok", Checks: make(map[string]string, len(names))}

		for _, name := range names {
			ctx, cancel := context.WithTimeout(r.Context(), DefaultTimeout)
			err := checks[name](ctx)
			cancel()

			if err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Error(err), logger.Component(name))
				report.Status = "unavailable"
				report.Checks[name] = err.Error()
				continue
			}
			report.Checks[name] = "ok"
		}

		status := http.StatusOK
		if report.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		response.Render(w, r, response.JSONWithStatus(report, status))
	}
}
