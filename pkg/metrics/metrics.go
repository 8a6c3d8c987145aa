// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cs_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cs_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SessionsStartedTotal tracks sessions opened via the webhook flow.
	SessionsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cs_sessions_started_total",
			Help: "Total conversation sessions opened",
		},
	)

	// SessionsTerminatedTotal tracks session terminations by reason.
	SessionsTerminatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cs_sessions_terminated_total",
			Help: "Total conversation sessions terminated",
		},
		[]string{"reason"},
	)

	// MessagesTotal tracks persisted conversation messages by role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cs_messages_total",
			Help: "Total conversation messages persisted",
		},
		[]string{"role"},
	)

	// WebhookDroppedTotal tracks inbound messages dropped before a session
	// could be created (unknown phone, no active check-in).
	WebhookDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cs_webhook_dropped_total",
			Help: "Inbound webhook messages dropped without processing",
		},
		[]string{"reason"},
	)

	// GatewaySendsTotal tracks outbound WhatsApp gateway calls.
	GatewaySendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cs_gateway_sends_total",
			Help: "Outbound gateway send attempts",
		},
		[]string{"status"},
	)

	// AgentRelayDuration tracks round-trip latency of agent chat relays.
	AgentRelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cs_agent_relay_duration_seconds",
			Help:    "Agent router chat relay duration",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"status"},
	)

	// OrdersCreatedTotal tracks orders created via the order webhook.
	OrdersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cs_orders_created_total",
			Help: "Total orders created",
		},
		[]string{"category"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordGatewaySend records the outcome of an outbound gateway call.
func RecordGatewaySend(err error) {
	if err != nil {
		GatewaySendsTotal.WithLabelValues("error").Inc()
		return
	}
	GatewaySendsTotal.WithLabelValues("ok").Inc()
}
