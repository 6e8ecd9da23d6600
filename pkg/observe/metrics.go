package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the forecast pipeline.
type Metrics struct {
	ForecastRequests  *prometheus.CounterVec // labels: outcome={success,malformed,error}
	EntriesSkipped    prometheus.Counter
	GeocodeRequests   *prometheus.CounterVec // labels: outcome={direct,success,empty,error}
	PatternInferences *prometheus.CounterVec // labels: outcome={success,degraded,unavailable,error}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ForecastRequests,
		m.EntriesSkipped,
		m.GeocodeRequests,
		m.PatternInferences,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_viz",
			Name:      "forecast_requests_total",
			Help:      "Forecast fetch-and-normalize requests by outcome.",
		}, []string{"outcome"}),
		EntriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_viz",
			Name:      "forecast_entries_skipped_total",
			Help:      "Individually malformed forecast entries dropped during normalization.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_viz",
			Name:      "geocode_requests_total",
			Help:      "Location resolution attempts by outcome; direct means the coordinate fast-path matched.",
		}, []string{"outcome"}),
		PatternInferences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_viz",
			Name:      "pattern_inferences_total",
			Help:      "Atmospheric pattern classifications by outcome.",
		}, []string{"outcome"}),
	}
}
