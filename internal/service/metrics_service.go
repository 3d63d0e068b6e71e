package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides
// lightweight snapshots for the operations dashboard.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	payRunsProcessed   prometheus.Counter
	payslipsGenerated  prometheus.Counter
	offersCreated      prometheus.Counter
	offersAccepted     prometheus.Counter
	offersExpired      prometheus.Counter
	geoFenceViolations prometheus.Counter

	cacheHitCount           uint64
	cacheMissCount          uint64
	requestCount            uint64
	requestDurationTotal    uint64
	payRunsProcessedCount   uint64
	offersCreatedCount      uint64
	offersAcceptedCount     uint64
	geoFenceViolationsCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	payRunsProcessed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pay_runs_processed_total",
		Help: "Total pay runs completed",
	})

	payslipsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payslips_generated_total",
		Help: "Total payslips generated across pay runs",
	})

	offersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shift_offers_created_total",
		Help: "Total shift offers sent to staff",
	})

	offersAccepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shift_offers_accepted_total",
		Help: "Total shift offers accepted",
	})

	offersExpired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shift_offers_expired_total",
		Help: "Total shift offers auto-declined on expiry",
	})

	geoFenceViolations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geo_fence_violations_total",
		Help: "Total clock-ins flagged outside the participant geo-fence",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		payRunsProcessed, payslipsGenerated, offersCreated, offersAccepted, offersExpired, geoFenceViolations, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		payRunsProcessed:   payRunsProcessed,
		payslipsGenerated:  payslipsGenerated,
		offersCreated:      offersCreated,
		offersAccepted:     offersAccepted,
		offersExpired:      offersExpired,
		geoFenceViolations: geoFenceViolations,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for
// snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache set operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordPayRun counts a completed pay run and its payslips.
func (m *MetricsService) RecordPayRun(payslips int) {
	if m == nil {
		return
	}
	m.payRunsProcessed.Inc()
	m.payslipsGenerated.Add(float64(payslips))
	atomic.AddUint64(&m.payRunsProcessedCount, 1)
}

// RecordOffersCreated counts offers sent in an allocation run.
func (m *MetricsService) RecordOffersCreated(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.offersCreated.Add(float64(count))
	atomic.AddUint64(&m.offersCreatedCount, uint64(count))
}

// RecordOfferAccepted counts a successful accept.
func (m *MetricsService) RecordOfferAccepted() {
	if m == nil {
		return
	}
	m.offersAccepted.Inc()
	atomic.AddUint64(&m.offersAcceptedCount, 1)
}

// RecordOffersExpired counts offers closed by the expiry sweep.
func (m *MetricsService) RecordOffersExpired(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.offersExpired.Add(float64(count))
}

// RecordGeoFenceViolation counts a flagged clock-in.
func (m *MetricsService) RecordGeoFenceViolation() {
	if m == nil {
		return
	}
	m.geoFenceViolations.Inc()
	atomic.AddUint64(&m.geoFenceViolationsCount, 1)
}

// Snapshot returns aggregated metrics for the operations dashboard.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		PayRunsProcessed:         atomic.LoadUint64(&m.payRunsProcessedCount),
		OffersCreated:            atomic.LoadUint64(&m.offersCreatedCount),
		OffersAccepted:           atomic.LoadUint64(&m.offersAcceptedCount),
		GeoFenceViolations:       atomic.LoadUint64(&m.geoFenceViolationsCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
