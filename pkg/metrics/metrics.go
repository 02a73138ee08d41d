package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// AuthzDecisions counts authorization decisions by requirement kind and outcome
	// (allowed|denied|error).
	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"requirement", "result"},
	)

	// OwnershipLookups counts resource ownership resolutions by resource type and
	// outcome (owned|not_owned|not_found|unknown_type).
	OwnershipLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkwell_ownership_lookups_total",
			Help: "Total number of resource ownership lookups",
		},
		[]string{"resource_type", "result"},
	)

	// RateLimitRejections counts requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkwell_ratelimit_rejections_total",
			Help: "Number of requests rejected by the rate limiter",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inkwell_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
