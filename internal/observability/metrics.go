package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Module wires application metrics onto the default prometheus registry.
var Module = fx.Provide(func() *Metrics {
	return New(prometheus.DefaultRegisterer)
})

// Metrics exposes application-level instruments.
type Metrics struct {
	transitionsApplied *prometheus.CounterVec
	transitionsDenied  *prometheus.CounterVec
	publishes          *prometheus.CounterVec
	notifications      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitionsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veloship_transitions_applied_total",
			Help: "Status transitions applied, by entity kind.",
		}, []string{"kind"}),
		transitionsDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veloship_transitions_denied_total",
			Help: "Status transitions denied, by entity kind and reason code.",
		}, []string{"kind", "reason"}),
		publishes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veloship_broadcast_publish_total",
			Help: "Channel publishes attempted, by result.",
		}, []string{"result"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veloship_notifications_total",
			Help: "Customer notifications recorded, by delivery channel and result.",
		}, []string{"channel", "result"}),
	}
}

func (m *Metrics) RecordTransitionApplied(kind string) {
	if m == nil {
		return
	}
	m.transitionsApplied.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordTransitionDenied(kind, reason string) {
	if m == nil {
		return
	}
	m.transitionsDenied.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) RecordPublish(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.publishes.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordNotification(channel string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.notifications.WithLabelValues(channel, result).Inc()
}
