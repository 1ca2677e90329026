package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scoring pipeline and export paths.
type Metrics struct {
	StatesScored    *prometheus.CounterVec // labels: state, source={snapshot,raw}, outcome={success,error}
	CountiesScored  prometheus.Counter
	CountiesSkipped prometheus.Counter
	ExportRows      *prometheus.CounterVec // labels: kind={top,full,tier_summary}
	ExportErrors    prometheus.Counter

	PipelineDuration prometheus.Histogram
	SnapshotReady    prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		StatesScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swingscore",
			Name:      "states_scored_total",
			Help:      "State scoring runs by data source and outcome.",
		}, []string{"state", "source", "outcome"}),
		CountiesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swingscore",
			Name:      "counties_scored_total",
			Help:      "Total counties that received a swing score.",
		}),
		CountiesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swingscore",
			Name:      "counties_skipped_total",
			Help:      "Counties excluded for missing years or components.",
		}),
		ExportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swingscore",
			Name:      "export_rows_total",
			Help:      "CSV rows written by export kind.",
		}, []string{"kind"}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swingscore",
			Name:      "export_errors_total",
			Help:      "Failed CSV export attempts.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swingscore",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of one state's load-score-tier pipeline.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SnapshotReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swingscore",
			Name:      "snapshot_ready",
			Help:      "1 when the snapshot artifact is readable, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.StatesScored,
		m.CountiesScored,
		m.CountiesSkipped,
		m.ExportRows,
		m.ExportErrors,
		m.PipelineDuration,
		m.SnapshotReady,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		StatesScored:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "swingscore", Name: "states_scored_total"}, []string{"state", "source", "outcome"}),
		CountiesScored:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swingscore", Name: "counties_scored_total"}),
		CountiesSkipped:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swingscore", Name: "counties_skipped_total"}),
		ExportRows:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "swingscore", Name: "export_rows_total"}, []string{"kind"}),
		ExportErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "swingscore", Name: "export_errors_total"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "swingscore", Name: "pipeline_duration_seconds"}),
		SnapshotReady:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "swingscore", Name: "snapshot_ready"}),
	}
}
