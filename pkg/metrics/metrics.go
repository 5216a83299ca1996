package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripnote_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// VerificationCodes counts issued and consumed verification codes.
	VerificationCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripnote_verification_codes_total",
			Help: "Verification codes by lifecycle event (issued|verified|rejected)",
		},
		[]string{"event"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripnote_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
