package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for outgoing API requests.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsInFlight prometheus.Gauge
	RequestDuration  *prometheus.HistogramVec
}

// NewMetrics creates the API client collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "watermyplant",
				Subsystem: "api_client",
				Name:      "requests_total",
				Help:      "Total number of requests sent to the backend by status code and method.",
			},
			[]string{"code", "method"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "watermyplant",
				Subsystem: "api_client",
				Name:      "requests_in_flight",
				Help:      "Number of backend requests currently in flight.",
			},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "watermyplant",
				Subsystem: "api_client",
				Name:      "request_duration_seconds",
				Help:      "Backend request latency in seconds.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"code", "method"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestsInFlight, m.RequestDuration)
	return m
}

// InstrumentRoundTripper wraps next with in-flight, counter and duration instrumentation.
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperInFlight(m.RequestsInFlight,
		promhttp.InstrumentRoundTripperCounter(m.RequestsTotal,
			promhttp.InstrumentRoundTripperDuration(m.RequestDuration, next),
		),
	)
}
