package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pocketlist/push-fanout/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	EventsReceived      *prometheus.CounterVec
	EventsDropped       *prometheus.CounterVec
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	DispatchLatency     *prometheus.HistogramVec
	QueueDepthHigh      prometheus.Gauge
	QueueDepthNormal    prometheus.Gauge
	QueueDepthLow       prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fanout_events_received_total",
			Help: "Total number of events accepted for fan-out, by kind.",
		}, []string{"kind"}),

		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fanout_events_dropped_total",
			Help: "Events that produced no delivery (missing context, no recipients, no tokens).",
		}, []string{"kind", "reason"}),

		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fanout_notifications_sent_total",
			Help: "Device tokens delivered successfully, by event kind.",
		}, []string{"kind"}),

		NotificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fanout_notifications_failed_total",
			Help: "Device tokens that failed delivery, by event kind.",
		}, []string{"kind"}),

		DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fanout_dispatch_seconds",
			Help:    "End-to-end pipeline latency from dequeue to delivery report.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),

		QueueDepthHigh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fanout_queue_depth_high",
			Help: "Current number of events in the high-priority queue.",
		}),
		QueueDepthNormal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fanout_queue_depth_normal",
			Help: "Current number of events in the normal-priority queue.",
		}),
		QueueDepthLow: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fanout_queue_depth_low",
			Help: "Current number of events in the low-priority queue.",
		}),
	}

	reg.MustRegister(
		m.EventsReceived,
		m.EventsDropped,
		m.NotificationsSent,
		m.NotificationsFailed,
		m.DispatchLatency,
		m.QueueDepthHigh,
		m.QueueDepthNormal,
		m.QueueDepthLow,
	)

	return m
}

// PipelineHooks returns the metric callback functions expected by
// pipeline.Hooks. Centralises the prometheus observation calls so the
// pipeline stays import-free.
func (m *Metrics) PipelineHooks() (
	onDelivered func(kind domain.Kind, sent, failed int, latency time.Duration),
	onDropped func(kind domain.Kind, reason string),
) {
	onDelivered = func(kind domain.Kind, sent, failed int, latency time.Duration) {
		m.NotificationsSent.WithLabelValues(string(kind)).Add(float64(sent))
		m.NotificationsFailed.WithLabelValues(string(kind)).Add(float64(failed))
		m.DispatchLatency.WithLabelValues(string(kind)).Observe(latency.Seconds())
	}
	onDropped = func(kind domain.Kind, reason string) {
		m.EventsDropped.WithLabelValues(string(kind), reason).Inc()
	}
	return
}
