// Package metrics exposes Prometheus instrumentation for the computation
// cache and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

var (
	// Computation cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_cache_lookups_total",
			Help: "Cache lookups by key family and result (hit, miss, error)",
		},
		[]string{"family", "result"},
	)

	CacheComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_cache_compute_duration_seconds",
			Help:    "Time spent recomputing a value after a cache miss",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"family"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_cache_invalidations_total",
			Help: "Synchronous invalidations after writes, by outcome",
		},
		[]string{"outcome"},
	)

	CacheBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_cache_breaker_state",
			Help: "Redis circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// API
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_api_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_api_requests_total",
			Help: "API requests by method, route and status code",
		},
		[]string{"method", "endpoint", "status"},
	)
)

// RecordCacheLookup counts one lookup.
func RecordCacheLookup(family, result string) {
	CacheLookups.WithLabelValues(family, result).Inc()
}

// RecordCompute records the duration of a recomputation.
func RecordCompute(family string, duration time.Duration) {
	CacheComputeDuration.WithLabelValues(family).Observe(duration.Seconds())
}

// RecordInvalidation counts one invalidation; err marks it failed.
func RecordInvalidation(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	CacheInvalidations.WithLabelValues(outcome).Inc()
}

// RecordBreakerState sets the Redis circuit breaker gauge.
func RecordBreakerState(state float64) {
	CacheBreakerState.Set(state)
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, endpoint, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, endpoint, code).Inc()
}
