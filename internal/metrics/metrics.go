package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lookups by outcome: result is hit/miss/bypass, reason is the miss reason
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_cache_lookups_total",
			Help: "Total number of page cache lookups",
		},
		[]string{"result", "reason"},
	)

	// Store calls by outcome: stored, skipped_disabled, skipped_failed, skipped_uncacheable, error
	CacheStores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_cache_stores_total",
			Help: "Total number of page cache store attempts",
		},
		[]string{"outcome"},
	)

	// Invalidations by cause: dependency, expired, purge
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_cache_invalidations_total",
			Help: "Total number of page cache entries deleted",
		},
		[]string{"cause"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_cache_errors_total",
			Help: "Total number of page cache backend errors",
		},
		[]string{"backend", "operation"},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "page_cache_operation_duration_seconds",
			Help:    "Duration of page cache operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "backend"},
	)

	// Capacity metrics for in-memory stores
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "page_cache_capacity_bytes",
			Help: "In-memory cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "page_cache_used_bytes",
			Help: "In-memory cache used space in bytes",
		},
		[]string{"level"},
	)

	CacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "page_cache_keys",
			Help: "Number of keys held by in-memory caches",
		},
		[]string{"level"},
	)

	// Regenerations shared between concurrent requests
	CoalescedRegenerations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_coalesced_regenerations_total",
			Help: "Total number of requests served by another request's regeneration",
		},
	)
)

// RecordLookup records a lookup outcome
func RecordLookup(result, reason string) {
	CacheLookups.WithLabelValues(result, reason).Inc()
}

// RecordStore records a store outcome
func RecordStore(outcome string) {
	CacheStores.WithLabelValues(outcome).Inc()
}

// RecordInvalidation records a deleted entry
func RecordInvalidation(cause string) {
	CacheInvalidations.WithLabelValues(cause).Inc()
}

// RecordCacheError records a backend error
func RecordCacheError(backend, operation string) {
	CacheErrors.WithLabelValues(backend, operation).Inc()
}

// RecordCoalesced records a request that reused a shared regeneration
func RecordCoalesced() {
	CoalescedRegenerations.Inc()
}

// UpdateCacheCapacity updates capacity metrics for an in-memory level
func UpdateCacheCapacity(level string, capacity, used int64) {
	CacheCapacity.WithLabelValues(level).Set(float64(capacity))
	CacheUsed.WithLabelValues(level).Set(float64(used))
}

// UpdateCacheKeys updates the number of keys in an in-memory level
func UpdateCacheKeys(level string, count int64) {
	CacheKeys.WithLabelValues(level).Set(float64(count))
}

// TimeCacheOperation returns a timer function for measuring a cache operation
func TimeCacheOperation(operation, backend string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues(operation, backend))
	return func() {
		timer.ObserveDuration()
	}
}
