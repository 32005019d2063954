// Package metrics exposes prediction counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	modelLoaded prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obesity_predictions_total",
			Help: "Predictions served, by predicted category and risk band.",
		}, []string{"category", "band"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obesity_prediction_errors_total",
			Help: "Failed prediction requests, by failure kind.",
		}, []string{"kind"}),
		modelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "obesity_model_loaded",
			Help: "1 when the classifier artifacts are loaded, 0 otherwise.",
		}),
	}
	m.registry.MustRegister(
		m.predictions,
		m.failures,
		m.modelLoaded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// PredictionMade implements assessment.Observer.
func (m *Metrics) PredictionMade(category, band string) {
	m.predictions.WithLabelValues(category, band).Inc()
}

// PredictionFailed implements assessment.Observer.
func (m *Metrics) PredictionFailed(kind string) {
	m.failures.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetModelLoaded(loaded bool) {
	if loaded {
		m.modelLoaded.Set(1)
		return
	}
	m.modelLoaded.Set(0)
}

// Handler serves the registry at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
