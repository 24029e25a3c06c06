// Package metrics owns the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riskscope"

// Metrics groups the application collectors.
type Metrics struct {
	registry *prometheus.Registry

	Assessments     *prometheus.CounterVec
	Scores          *prometheus.HistogramVec
	SymptomChecks   prometheus.Counter
	Errors          *prometheus.CounterVec
	HistoryFailures prometheus.Counter
	HistoryPruned   prometheus.Counter
}

// New creates and registers all collectors on a fresh registry, together with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Completed risk assessments by condition and tier.",
		}, []string{"condition", "tier"}),
		Scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_score",
			Help:      "Distribution of risk scores by condition.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"condition"}),
		SymptomChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "symptom_checks_total",
			Help:      "Symptom match requests served.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Rejected requests by error kind.",
		}, []string{"kind"}),
		HistoryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_append_failures_total",
			Help:      "Assessments that could not be written to history.",
		}),
		HistoryPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_pruned_total",
			Help:      "History entries removed by the retention job.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Assessments,
		m.Scores,
		m.SymptomChecks,
		m.Errors,
		m.HistoryFailures,
		m.HistoryPruned,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
