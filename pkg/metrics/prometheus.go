// Package metrics provides Prometheus metrics for the sensei recommendation service.
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

	// Business metrics - the scoring and recommendation pipeline.
	submissionsScored    prometheus.Counter
	submissionsDuplicate prometheus.Counter
	submissionsRejected  prometheus.Counter
	scoreTotals          prometheus.Histogram
	recommendations      *prometheus.CounterVec
	analysisDuration     prometheus.Histogram
	recommendDuration    prometheus.Histogram

	// Narration metrics - the LLM decorator.
	narrationLatency prometheus.Histogram
	narrationErrors  prometheus.Counter

	// Ingestion metrics - queue and workers.
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueRejections  prometheus.Counter
	workerCount      prometheus.Gauge
	workerErrors     prometheus.Counter

	// Store metrics.
	storedSubmissions prometheus.Gauge
	trackedUsers      prometheus.Gauge
	catalogSize       prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics by component.
	errorsByComponent *prometheus.CounterVec

	// Process-level metrics.
	systemGoroutines prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sensei",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.enabled {
		return m
	}
	m.register()
	return m
}

func (m *Manager) register() {
	factory := promauto.With(m.registry)

	m.submissionsScored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_scored_total",
		Help: "Total number of submissions scored by the pipeline.",
	})
	m.submissionsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_duplicate_total",
		Help: "Total number of duplicate submissions rejected by the deduper.",
	})
	m.submissionsRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "submissions_rejected_total",
		Help: "Total number of submissions rejected as malformed or unresolvable.",
	})
	m.scoreTotals = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "score_total",
		Help:    "Distribution of score totals (0-100).",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})
	m.recommendations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "recommendations_total",
		Help: "Total recommendations served, labeled by reason code.",
	}, []string{"reason"})
	m.analysisDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "analysis_duration_ms",
		Help:    "Latency of skill-profile analysis in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.recommendDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "recommend_duration_ms",
		Help:    "Latency of recommendation generation in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.narrationLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "narration_latency_ms",
		Help:    "Latency of LLM narration calls in milliseconds.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
	m.narrationErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "narration_errors_total",
		Help: "Total narration calls that failed or were discarded.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of submissions waiting in the ingestion queue.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured capacity of the ingestion queue.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Queue fill ratio between 0 and 1.",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total",
		Help: "Total successful enqueue operations.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total",
		Help: "Total successful dequeue operations.",
	})
	m.queueRejections = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_rejections_total",
		Help: "Total enqueue attempts rejected due to backpressure or closure.",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Number of ingestion workers.",
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Total worker processing errors.",
	})

	m.storedSubmissions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "stored_submissions",
		Help: "Total submissions held by the store.",
	})
	m.trackedUsers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tracked_users",
		Help: "Number of distinct users with stored submissions.",
	})
	m.catalogSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "catalog_size",
		Help: "Number of problems in the loaded catalog.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request latency in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "errors_total",
		Help: "Total errors by component and kind.",
	}, []string{"component", "kind"})

	m.systemGoroutines = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "goroutines",
		Help: "Current number of goroutines.",
	})
}

// Package-level helpers delegating to the global manager.

func RecordSubmissionScored(total float64) {
	if globalManager.enabled {
		globalManager.submissionsScored.Inc()
		globalManager.scoreTotals.Observe(total)
	}
}

func RecordSubmissionDuplicate() {
	if globalManager.enabled {
		globalManager.submissionsDuplicate.Inc()
	}
}

func RecordSubmissionRejected() {
	if globalManager.enabled {
		globalManager.submissionsRejected.Inc()
	}
}

func RecordRecommendation(reason string) {
	if globalManager.enabled {
		globalManager.recommendations.WithLabelValues(reason).Inc()
	}
}

func RecordAnalysisDuration(ms float64) {
	if globalManager.enabled {
		globalManager.analysisDuration.Observe(ms)
	}
}

func RecordRecommendDuration(ms float64) {
	if globalManager.enabled {
		globalManager.recommendDuration.Observe(ms)
	}
}

func RecordNarrationLatency(ms float64) {
	if globalManager.enabled {
		globalManager.narrationLatency.Observe(ms)
	}
}

func RecordNarrationError() {
	if globalManager.enabled {
		globalManager.narrationErrors.Inc()
	}
}

func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

func UpdateQueueUtilization(utilization float64) {
	if globalManager.enabled {
		globalManager.queueUtilization.Set(utilization)
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

func RecordQueueRejection() {
	if globalManager.enabled {
		globalManager.queueRejections.Inc()
	}
}

func UpdateWorkerCount(count int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

func UpdateStoredSubmissions(count int) {
	if globalManager.enabled {
		globalManager.storedSubmissions.Set(float64(count))
	}
}

func UpdateTrackedUsers(count int) {
	if globalManager.enabled {
		globalManager.trackedUsers.Set(float64(count))
	}
}

func UpdateCatalogSize(count int) {
	if globalManager.enabled {
		globalManager.catalogSize.Set(float64(count))
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

func RecordErrorByComponent(component, kind string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
	}
}

func UpdateSystemGoroutines(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutines.Set(float64(count))
	}
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
