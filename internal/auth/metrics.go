// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credgate Contributors

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for authentication metrics.
const (
	OutcomeAuthenticated  = "authenticated"
	OutcomeRejected       = "rejected"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeError          = "error"
)

// Authentications is the counter for authentication attempts by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Authentications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "credgate_authentications_total",
		Help: "Total number of authentication attempts by outcome",
	},
	[]string{"outcome"},
)

// AuthenticationDuration is the histogram for authentication latency.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthenticationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "credgate_authentication_duration_seconds",
		Help:    "Authentication duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// RegisterMetrics registers auth package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Authentications)
	reg.MustRegister(AuthenticationDuration)
}

// attemptRecorder tracks metrics for a single Authenticate call.
type attemptRecorder struct {
	startTime time.Time
	outcome   string
}

func newAttemptRecorder() *attemptRecorder {
	return &attemptRecorder{startTime: time.Now(), outcome: OutcomeError}
}

func (r *attemptRecorder) setOutcome(outcome string) {
	r.outcome = outcome
}

func (r *attemptRecorder) record() {
	Authentications.WithLabelValues(r.outcome).Inc()
	AuthenticationDuration.WithLabelValues(r.outcome).Observe(time.Since(r.startTime).Seconds())
}
