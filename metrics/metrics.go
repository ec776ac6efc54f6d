// Package metrics exposes Prometheus instrumentation for calculation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeSourceError  = "source_error"
	OutcomeExportFailed = "export_failed"
)

// Metrics tracks calculation runs, processed records and export failures.
type Metrics struct {
	Runs             *prometheus.CounterVec
	RecordsProcessed prometheus.Counter
	ExportFailures   prometheus.Counter
	RunDuration      prometheus.Histogram
}

// New registers all metrics with reg. Pass prometheus.DefaultRegisterer in
// production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "maturity_runs_total",
			Help: "Total number of calculation runs by outcome",
		}, []string{"outcome"}),
		RecordsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "maturity_records_processed_total",
			Help: "Total number of policy records valued",
		}),
		ExportFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "maturity_export_failures_total",
			Help: "Total number of failed result document exports",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "maturity_run_duration_seconds",
			Help:    "Duration of a full fetch, calculate and export run",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveRun records one run. Call with time.Now() taken at the start.
// A nil receiver is a no-op so callers can run without instrumentation.
func (m *Metrics) ObserveRun(start time.Time, outcome string, records int) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	m.RecordsProcessed.Add(float64(records))
	if outcome == OutcomeExportFailed {
		m.ExportFailures.Inc()
	}
	m.RunDuration.Observe(time.Since(start).Seconds())
}
