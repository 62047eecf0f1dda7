package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors of the webhook service.
// A dedicated registry keeps tests isolated from the global one.
type Metrics struct {
	Registry *prometheus.Registry

	SignalsReceived *prometheus.CounterVec // by result: accepted, invalid_json, invalid_secret, server_error
	AuthMethod      *prometheus.CounterVec // by method: hmac, token, body, none
	PersistErrors   prometheus.Counter
	Forwarded       *prometheus.CounterVec // by status: ok, error
	StreamClients   prometheus.Gauge
	IngestDuration  prometheus.Histogram
}

// NewMetrics registers all collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		SignalsReceived: f.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_webhook_requests_total",
			Help: "Webhook POST deliveries, labelled by outcome.",
		}, []string{"result"}),
		AuthMethod: f.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_webhook_auth_total",
			Help: "Accepted deliveries, labelled by the authentication method that matched.",
		}, []string{"method"}),
		PersistErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "signal_webhook_persist_errors_total",
			Help: "Signals that could not be written to storage.",
		}),
		Forwarded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_webhook_forward_total",
			Help: "Forwarding attempts, labelled by status.",
		}, []string{"status"}),
		StreamClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "signal_webhook_stream_clients",
			Help: "Connected live stream subscribers.",
		}),
		IngestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "signal_webhook_ingest_duration_seconds",
			Help:    "Time spent persisting and forwarding one signal.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 7.5},
		}),
	}
}
