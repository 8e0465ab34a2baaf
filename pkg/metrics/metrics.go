// Package metrics provides Prometheus metrics for the deke decision
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ranking pipeline
	ratingsComputed    prometheus.Counter
	ratingsUnavailable prometheus.Counter
	zeroPerformances   prometheus.Counter
	degradedClassify   prometheus.Counter
	globalFallbacks    prometheus.Counter
	rankDuration       prometheus.Histogram

	// Lineup optimizer
	lineupOptimizations prometheus.Counter
	lineupExhaustive    prometheus.Counter
	lineupDuration      prometheus.Histogram

	// Ingest
	linesIngested  prometheus.Counter
	linesDuplicate prometheus.Counter

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueErrors      *prometheus.CounterVec

	// Workers
	workerCount   prometheus.Gauge
	workerErrors  prometheus.Counter
	workerLatency prometheus.Histogram

	// Stores
	boardEntities      prometheus.Gauge
	boardUpdateLatency prometheus.Histogram
	boardQueryLatency  prometheus.Histogram
	modelCount         prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry so the default Go collectors stay out of our scrape.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "deke",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	factory := promauto.With(m.registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		})
	}
	histogram := func(name, help string) prometheus.Histogram {
		return factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			Buckets: m.histogramBuckets,
		})
	}

	m.ratingsComputed = counter("ratings_computed_total", "Ratings produced by the pipeline")
	m.ratingsUnavailable = counter("ratings_unavailable_total", "Lines with no model and no fallback weights")
	m.zeroPerformances = counter("zero_performances_total", "Verified did-not-play lines")
	m.degradedClassify = counter("degraded_classifications_total", "Lines ranked via best-effort classification")
	m.globalFallbacks = counter("global_weight_fallbacks_total", "Ratings produced by the global-weights fallback")
	m.rankDuration = histogram("rank_duration_ms", "Per-line ranking latency in milliseconds")

	m.lineupOptimizations = counter("lineup_optimizations_total", "Rosters optimized")
	m.lineupExhaustive = counter("lineup_exhaustive_searches_total", "Optimizations that needed the exhaustive search")
	m.lineupDuration = histogram("lineup_duration_ms", "Per-roster optimization latency in milliseconds")

	m.linesIngested = counter("lines_ingested_total", "Stat lines accepted for async ranking")
	m.linesDuplicate = counter("lines_duplicate_total", "Stat lines rejected as duplicates")

	m.queueSize = gauge("queue_size", "Current queued stat lines")
	m.queueCapacity = gauge("queue_capacity", "Configured queue capacity")
	m.queueUtilization = gauge("queue_utilization", "Queue fill ratio")
	m.queueEnqueues = counter("queue_enqueues_total", "Successful enqueues")
	m.queueDequeues = counter("queue_dequeues_total", "Successful dequeues")
	m.queueErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_errors_total", Help: "Enqueue failures by reason",
	}, []string{"reason"})

	m.workerCount = gauge("worker_count", "Configured ranking workers")
	m.workerErrors = counter("worker_errors_total", "Worker processing failures")
	m.workerLatency = histogram("worker_latency_ms", "Per-line worker processing latency in milliseconds")

	m.boardEntities = gauge("board_entities", "Entities tracked on the rating board")
	m.boardUpdateLatency = histogram("board_update_latency_ms", "Rating board update latency in milliseconds")
	m.boardQueryLatency = histogram("board_query_latency_ms", "Rating board query latency in milliseconds")
	m.modelCount = gauge("model_count", "Season models loaded")

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total", Help: "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_ms", Help: "HTTP request latency in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = gauge("system_memory_bytes", "Allocated heap bytes")
	m.systemGoroutineCount = gauge("system_goroutines", "Current goroutine count")
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegate to the global manager.

func RecordRatingComputed() {
	if globalManager.enabled {
		globalManager.ratingsComputed.Inc()
	}
}

func RecordRatingUnavailable() {
	if globalManager.enabled {
		globalManager.ratingsUnavailable.Inc()
	}
}

func RecordZeroPerformance() {
	if globalManager.enabled {
		globalManager.zeroPerformances.Inc()
	}
}

func RecordDegradedClassification() {
	if globalManager.enabled {
		globalManager.degradedClassify.Inc()
	}
}

func RecordGlobalFallback() {
	if globalManager.enabled {
		globalManager.globalFallbacks.Inc()
	}
}

func RecordRankDuration(ms float64) {
	if globalManager.enabled {
		globalManager.rankDuration.Observe(ms)
	}
}

func RecordLineupOptimization() {
	if globalManager.enabled {
		globalManager.lineupOptimizations.Inc()
	}
}

func RecordLineupExhaustive() {
	if globalManager.enabled {
		globalManager.lineupExhaustive.Inc()
	}
}

func RecordLineupDuration(ms float64) {
	if globalManager.enabled {
		globalManager.lineupDuration.Observe(ms)
	}
}

func RecordLineIngested() {
	if globalManager.enabled {
		globalManager.linesIngested.Inc()
	}
}

func RecordLineDuplicate() {
	if globalManager.enabled {
		globalManager.linesDuplicate.Inc()
	}
}

func UpdateQueueSize(n int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(n))
	}
}

func UpdateQueueCapacity(n int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(n))
	}
}

func UpdateQueueUtilization(ratio float64) {
	if globalManager.enabled {
		globalManager.queueUtilization.Set(ratio)
	}
}

func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueues.Inc()
	}
}

func RecordQueueDequeue() {
	if globalManager.enabled {
		globalManager.queueDequeues.Inc()
	}
}

func RecordQueueError(reason string) {
	if globalManager.enabled {
		globalManager.queueErrors.WithLabelValues(reason).Inc()
	}
}

func UpdateWorkerCount(n int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(n))
	}
}

func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

func RecordWorkerProcessingLatency(ms float64) {
	if globalManager.enabled {
		globalManager.workerLatency.Observe(ms)
	}
}

func UpdateBoardEntities(n int) {
	if globalManager.enabled {
		globalManager.boardEntities.Set(float64(n))
	}
}

func RecordBoardUpdateLatency(ms float64) {
	if globalManager.enabled {
		globalManager.boardUpdateLatency.Observe(ms)
	}
}

func RecordBoardQueryLatency(ms float64) {
	if globalManager.enabled {
		globalManager.boardQueryLatency.Observe(ms)
	}
}

func UpdateModelCount(n int) {
	if globalManager.enabled {
		globalManager.modelCount.Set(float64(n))
	}
}

func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}

func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(n int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(n))
	}
}
