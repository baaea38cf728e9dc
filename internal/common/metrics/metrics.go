// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlotQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plot_queries_total",
			Help: "Total number of plot queries by transport and outcome",
		},
		[]string{"transport", "outcome"},
	)

	PlotQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plot_query_duration_seconds",
			Help:    "Duration of plot query evaluation in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"transport"},
	)

	PlotQueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plot_query_results",
			Help:    "Number of plots returned per query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	PlotQueryCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plot_query_cache_total",
			Help: "Result cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	PlotCatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plot_catalog_size",
			Help: "Number of plots in the loaded catalog",
		},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)
)

// Query outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
