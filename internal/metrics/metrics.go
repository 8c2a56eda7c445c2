// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the server's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests       *prometheus.CounterVec
	RPCDuration       *prometheus.HistogramVec
	RealtimeConns     prometheus.Gauge
	EventsPublished   *prometheus.CounterVec
	EventsDropped     prometheus.Counter
	NotificationsSent *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tontine",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tontine",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		RealtimeConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tontine",
			Name:      "realtime_connections",
			Help:      "Open realtime connections.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tontine",
			Name:      "realtime_events_published_total",
			Help:      "Events published by type.",
		}, []string{"type"}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tontine",
			Name:      "realtime_events_dropped_total",
			Help:      "Deliveries dropped because a subscriber queue was full.",
		}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tontine",
			Name:      "notifications_total",
			Help:      "Offline notifications by channel and outcome.",
		}, []string{"channel", "outcome"}),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.RealtimeConns,
		m.EventsPublished,
		m.EventsDropped,
		m.NotificationsSent,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRPC records one completed call.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
	m.RPCDuration.WithLabelValues(procedure).Observe(seconds)
}

// ConnOpened and ConnClosed track the realtime connection gauge.
func (m *Metrics) ConnOpened() {
	if m != nil {
		m.RealtimeConns.Inc()
	}
}

func (m *Metrics) ConnClosed() {
	if m != nil {
		m.RealtimeConns.Dec()
	}
}

// EventPublished counts one publish of the given event type.
func (m *Metrics) EventPublished(eventType string) {
	if m != nil {
		m.EventsPublished.WithLabelValues(eventType).Inc()
	}
}

// EventDropped counts one delivery lost to a full queue.
func (m *Metrics) EventDropped() {
	if m != nil {
		m.EventsDropped.Inc()
	}
}

// Notification counts one offline delivery attempt.
func (m *Metrics) Notification(channel string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.NotificationsSent.WithLabelValues(channel, outcome).Inc()
}
