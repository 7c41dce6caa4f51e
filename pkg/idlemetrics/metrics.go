// Package idlemetrics exposes Prometheus counters for idle-session decisions,
// store failures and keep-alive rate limiting.
package idlemetrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/idlesession/core/idle"
)

const namespace = "idlesession"

// Store operation labels.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpDelete = "delete"
	OpLimit  = "ratelimit"
)

// Metrics holds the collectors. The zero value is not usable; call New.
type Metrics struct {
	decisions   *prometheus.CounterVec
	expirations prometheus.Counter
	storeErrors *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg skips registration, which is convenient in tests.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Idle evaluations by resulting phase and whether the session was extended.",
		}, []string{"phase", "extended"}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expirations_total",
			Help:      "Sessions terminated for inactivity.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed store operations that rejected a request.",
		}, []string{"op"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keepalive_ratelimit_total",
			Help:      "Keep-alive rate limiter outcomes.",
		}, []string{"result"}),
	}

	if reg == nil {
		return m, nil
	}

	var errs []error
	for _, c := range []prometheus.Collector{m.decisions, m.expirations, m.storeErrors, m.rateLimited} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// ObserveDecision records one evaluation.
func (m *Metrics) ObserveDecision(d idle.Decision) {
	m.decisions.WithLabelValues(d.Phase.String(), strconv.FormatBool(d.Extend)).Inc()
	if d.Phase == idle.PhaseExpired {
		m.expirations.Inc()
	}
}

// ObserveStoreError records a failed store operation.
func (m *Metrics) ObserveStoreError(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

// ObserveRateLimit records a limiter outcome.
func (m *Metrics) ObserveRateLimit(allowed bool) {
	result := "allowed"
	if !allowed {
		result = "rejected"
	}
	m.rateLimited.WithLabelValues(result).Inc()
}
