// Package metrics exports pipeline timings and fitness to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// #region metrics

// Metrics groups the collectors the pipeline reports to. A nil *Metrics
// records nothing.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageFitness  *prometheus.GaugeVec
	runs          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "breaker_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"stage"}),
		stageFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "breaker_stage_fitness",
			Help: "Mean log10 quadgram score of the last output of each stage.",
		}, []string{"stage"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breaker_runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.stageDuration, m.stageFitness, m.runs)
	return m
}

// ObserveStage records one completed stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration, fitness float64) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	m.stageFitness.WithLabelValues(stage).Set(fitness)
}

// ObserveRun counts a finished run; outcome is "ok" or the failing stage.
func (m *Metrics) ObserveRun(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

// #endregion metrics

// #region handler

// Handler serves the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// #endregion handler
