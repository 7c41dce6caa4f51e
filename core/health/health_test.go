package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/core/health"
)

func TestLiveness(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.Liveness(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]health.Check
		wantStatus int
		wantReport health.Report
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: http.StatusOK,
			wantReport: health.Report{Status: "ok"},
		},
		{
			name:       "all healthy",
			checks:     map[string]health.Check{"redis": ok, "postgres": ok},
			wantStatus: http.StatusOK,
			wantReport: health.Report{Status: "ok", Checks: map[string]string{"redis": "ok", "postgres": "ok"}},
		},
		{
			name:       "one failing",
			checks:     map[string]health.Check{"redis": down, "postgres": ok},
			wantStatus: http.StatusServiceUnavailable,
			wantReport: health.Report{Status: "unavailable", Checks: map[string]string{"redis": "connection refused", "postgres": "ok"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			health.Readiness(nil, tt.checks)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got health.Report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantReport, got)
		})
	}
}

func TestReadiness_CheckSeesDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	h := health.Readiness(nil, map[string]health.Check{
		"cache": func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		},
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.True(t, hasDeadline)
}
