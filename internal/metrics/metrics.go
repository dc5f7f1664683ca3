// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks in-flight requests.
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	// CacheHitsTotal counts record cache hits.
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMissesTotal counts record cache misses.
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// DBQueryDuration measures database query latency.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// IDsDecodedTotal counts identifier decode attempts by outcome.
	IDsDecodedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spicy_ids_decoded_total",
			Help: "Total number of spicy id decode attempts",
		},
		[]string{"outcome"},
	)

	// IDsEncodedTotal counts identifiers rendered for responses.
	IDsEncodedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spicy_ids_encoded_total",
			Help: "Total number of spicy ids encoded",
		},
	)

	// RecordsCreatedTotal counts records created, by how the id was chosen.
	RecordsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_created_total",
			Help: "Total number of records created",
		},
		[]string{"allocation"},
	)
)

// Decode outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeMalformed  = "malformed"
	OutcomeOutOfRange = "out_of_range"
)

// Allocation labels for RecordsCreatedTotal.
const (
	AllocationSequence = "sequence"
	AllocationDefault  = "default"
	AllocationExplicit = "explicit"
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request metric.
func RecordRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheHit records a cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordDBQuery records a database query duration.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordDecode records the outcome of decoding an identifier.
func RecordDecode(outcome string) {
	IDsDecodedTotal.WithLabelValues(outcome).Inc()
}

// RecordEncode records an encoded identifier.
func RecordEncode() {
	IDsEncodedTotal.Inc()
}

// RecordCreated records a created record.
func RecordCreated(allocation string) {
	RecordsCreatedTotal.WithLabelValues(allocation).Inc()
}
