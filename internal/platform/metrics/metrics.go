// Package metrics exposes Prometheus collectors for toolkit domain events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "startup_toolkit"

// Metrics holds the domain collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	strategiesGenerated prometheus.Counter
	fitScores           prometheus.Histogram
	stateWrites         *prometheus.CounterVec
	stateErrors         *prometheus.CounterVec
	exports             *prometheus.CounterVec
	simulations         *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		strategiesGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swot_strategies_generated_total",
			Help:      "Strategies produced by the SWOT generator.",
		}),
		fitScores: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vpc_fit_score",
			Help:      "Distribution of value proposition fit scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		stateWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_writes_total",
			Help:      "Workspace state documents written, by key.",
		}, []string{"key"}),
		stateErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_malformed_total",
			Help:      "Stored state documents that failed to decode, by key.",
		}, []string{"key"}),
		exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Rendered downloads, by feature and format.",
		}, []string{"feature", "format"}),
		simulations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Simulated runs, by simulator.",
		}, []string{"simulator"}),
	}
}

// StrategiesGenerated adds n generated strategies.
func (m *Metrics) StrategiesGenerated(n int) {
	if m == nil {
		return
	}
	m.strategiesGenerated.Add(float64(n))
}

// FitScore observes a computed fit score.
func (m *Metrics) FitScore(score int) {
	if m == nil {
		return
	}
	m.fitScores.Observe(float64(score))
}

// StateWrite counts a write of key.
func (m *Metrics) StateWrite(key string) {
	if m == nil {
		return
	}
	m.stateWrites.WithLabelValues(key).Inc()
}

// StateMalformed counts a document under key that could not be decoded.
func (m *Metrics) StateMalformed(key string) {
	if m == nil {
		return
	}
	m.stateErrors.WithLabelValues(key).Inc()
}

// Export counts a rendered download.
func (m *Metrics) Export(feature, format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(feature, format).Inc()
}

// Simulation counts a simulator run.
func (m *Metrics) Simulation(simulator string) {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues(simulator).Inc()
}
