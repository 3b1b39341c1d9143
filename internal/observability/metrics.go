package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fetch-parse-store pipeline.
type Metrics struct {
	CyclesTotal   prometheus.Counter
	CyclesFailed  prometheus.Counter
	CycleDuration prometheus.Histogram
	TicksSkipped  prometheus.Counter

	FetchErrors   *prometheus.CounterVec // labels: resource={weather,rainfall,warnings}, kind={timeout,connection,status}
	FacetFailures *prometheus.CounterVec // labels: facet={weather,rainfall,warnings}

	HistoryEntries   prometheus.Gauge
	PersistErrors    prometheus.Counter
	SchedulerRunning prometheus.Gauge

	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CyclesTotal,
		m.CyclesFailed,
		m.CycleDuration,
		m.TicksSkipped,
		m.FetchErrors,
		m.FacetFailures,
		m.HistoryEntries,
		m.PersistErrors,
		m.SchedulerRunning,
		m.SnapshotsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hko_monitor",
			Name:      "cycles_total",
			Help:      "Total pipeline executions attempted.",
		}),
		CyclesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hko_monitor",
			Name:      "cycles_failed_total",
			Help:      "Pipeline executions that ended with an error.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hko_monitor",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-parse-store cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		TicksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hko_monitor",
			Name:      "ticks_skipped_total",
			Help:      "Scheduler ticks skipped because a run was still in flight.",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hko_monitor",
			Name:      "fetch_errors_total",
			Help:      "Fetch failures by resource and error kind.",
		}, []string{"resource", "kind"}),
		FacetFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hko_monitor",
			Name:      "facet_failures_total",
			Help:      "Snapshot facets marked unavailable, by facet.",
		}, []string{"facet"}),
		HistoryEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hko_monitor",
			Name:      "history_entries",
			Help:      "Entries currently held in the history store.",
		}),
		PersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hko_monitor",
			Name:      "persist_errors_total",
			Help:      "History persistence failures.",
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hko_monitor",
			Name:      "scheduler_running",
			Help:      "1 while the scheduler loop is active, 0 otherwise.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hko_monitor",
			Name:      "snapshots_published_total",
			Help:      "Snapshots published to the Kafka sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hko_monitor",
			Name:      "publish_errors_total",
			Help:      "Kafka publish failures.",
		}),
	}
}
