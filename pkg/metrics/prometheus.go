// Package metrics provides Prometheus metrics for the lineup optimizer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the optimizer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Solve metrics - the core of the service
	solvesTotal      *prometheus.CounterVec
	solveDuration    prometheus.Histogram
	solveNodes       prometheus.Histogram
	solvePruned      prometheus.Histogram
	solveScore       prometheus.Histogram
	solveErrorsTotal *prometheus.CounterVec

	// Memo metrics - fingerprint cache effectiveness
	memoHits   prometheus.Counter
	memoMisses prometheus.Counter
	memoSize   prometheus.Gauge

	// Queue metrics - solve-job intake
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics - async processing
	workerActive prometheus.Gauge
	workerJobs   prometheus.Counter
	workerErrors prometheus.Counter

	// Run-history metrics
	storedRuns prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lineup",
		subsystem:        "optimizer",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.solvesTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "solves_total",
			Help:      "Total number of finished solves by result status",
		},
		[]string{"status"},
	)

	m.solveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solve_duration_seconds",
		Help:      "Histogram of wall-clock time per solve",
		Buckets:   m.histogramBuckets,
	})

	m.solveNodes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solve_nodes",
		Help:      "Histogram of search nodes explored per solve",
		Buckets:   prometheus.ExponentialBuckets(16, 4, 12),
	})

	m.solvePruned = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solve_pruned_branches",
		Help:      "Histogram of branches pruned by the bound per solve",
		Buckets:   prometheus.ExponentialBuckets(16, 4, 12),
	})

	m.solveScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solve_total_score",
		Help:      "Histogram of total scores of feasible lineups",
		Buckets:   prometheus.ExponentialBuckets(100, 2, 12),
	})

	m.solveErrorsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "solve_errors_total",
			Help:      "Total number of failed solves by error kind",
		},
		[]string{"kind"},
	)

	m.memoHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "memo_hits_total",
		Help:      "Total number of solves answered from the fingerprint cache",
	})

	m.memoMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "memo_misses_total",
		Help:      "Total number of solves that had to run the search",
	})

	m.memoSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "memo_size",
		Help:      "Current number of cached lineups",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the solve-job queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the solve-job queue",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueues_total",
		Help:      "Total number of jobs accepted into the queue",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeues_total",
		Help:      "Total number of jobs handed to workers",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of jobs rejected by the queue",
	})

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Current number of running solve workers",
	})

	m.workerJobs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_jobs_total",
		Help:      "Total number of jobs processed by workers",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker job failures",
	})

	m.storedRuns = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_runs",
		Help:      "Current number of runs kept in the ranking store",
	})
}

// Package-level helpers operating on the global manager.

// RecordSolve records a finished solve with its telemetry.
func RecordSolve(status string, durationSeconds float64, nodes, pruned int64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.solvesTotal.WithLabelValues(status).Inc()
	globalManager.solveDuration.Observe(durationSeconds)
	globalManager.solveNodes.Observe(float64(nodes))
	globalManager.solvePruned.Observe(float64(pruned))
}

// RecordSolveScore records the total score of a feasible lineup.
func RecordSolveScore(total float64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.solveScore.Observe(total)
}

// RecordSolveError counts a failed solve by error kind.
func RecordSolveError(kind string) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.solveErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordMemoHit counts a solve answered from the cache.
func RecordMemoHit() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.memoHits.Inc()
}

// RecordMemoMiss counts a solve that ran the search.
func RecordMemoMiss() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.memoMisses.Inc()
}

// UpdateMemoSize sets the current cache size.
func UpdateMemoSize(size int64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.memoSize.Set(float64(size))
}

// UpdateQueueSize sets the current queue backlog.
func UpdateQueueSize(size int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(capacity int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue counts a job handed to a worker.
func RecordQueueDequeue() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerJob counts a processed job.
func RecordWorkerJob() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.workerJobs.Inc()
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.workerErrors.Inc()
}

// UpdateStoredRuns sets the size of the ranking store.
func UpdateStoredRuns(count int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.storedRuns.Set(float64(count))
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler returns an HTTP handler exposing the global metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
