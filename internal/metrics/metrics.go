// Package metrics exposes Prometheus instrumentation for forecast generation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess          = "success"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeError            = "error"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	Generations     *prometheus.CounterVec
	ModelFailures   *prometheus.CounterVec
	FitDuration     *prometheus.HistogramVec
	ProductsSkipped prometheus.Counter
}

// New creates and registers all metrics with reg. A nil reg leaves them
// unregistered, which tests and one-shot commands use.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_generations_total",
				Help: "Forecast generations by metric, model and outcome",
			},
			[]string{"metric", "model", "outcome"},
		),
		ModelFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_model_failures_total",
				Help: "Individual model fits that failed and were excluded",
			},
			[]string{"model"},
		),
		FitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecast_fit_duration_seconds",
				Help:    "Time spent fitting and forecasting one model",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"model"},
		),
		ProductsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecast_products_skipped_total",
			Help: "Products skipped in inventory forecasts for short history or fit failure",
		}),
	}
}

// ObserveFit records the duration since start for model.
func (m *Metrics) ObserveFit(model string, start time.Time) {
	m.FitDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
}

// Generation counts one generator run.
func (m *Metrics) Generation(metric, model, outcome string) {
	m.Generations.WithLabelValues(metric, model, outcome).Inc()
}
