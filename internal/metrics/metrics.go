// Package metrics defines the station's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP layer
	RequestDuration *prometheus.HistogramVec

	// Liveness probing
	ProbesTotal       *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec

	// Notification hub
	SubscribersConnected prometheus.Gauge
	EventsPublished      prometheus.Counter
	DeliveryFailures     prometheus.Counter
}

// New registers the station collectors on reg. A nil reg falls back to a
// private registry so tests can construct metrics without global state.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "station_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),

		ProbesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "station_probes_total",
			Help: "Total number of liveness probes by result.",
		}, []string{"result"}), // results: ok, fail

		StatusTransitions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "station_status_transitions_total",
			Help: "Total number of agent status transitions.",
		}, []string{"status"}),

		SubscribersConnected: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "station_subscribers_connected",
			Help: "Current number of connected event subscribers.",
		}),

		EventsPublished: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "station_events_published_total",
			Help: "Total number of events published to the hub.",
		}),

		DeliveryFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "station_delivery_failures_total",
			Help: "Total number of failed event deliveries to subscribers.",
		}),
	}
}
