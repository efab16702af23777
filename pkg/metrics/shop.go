package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics records order lifecycle and notification delivery counters.
type ShopMetrics struct {
	ordersCreated     *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	deliveries        *prometheus.CounterVec
}

// NewShopMetrics registers the shop metrics on the provided registerer.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, labeled by payment method.",
	}, []string{"payment_method"})
	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions applied.",
	}, []string{"from", "to"})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_deliveries_total",
		Help: "Notification delivery attempts, labeled by audience and outcome.",
	}, []string{"audience", "outcome"})
	reg.MustRegister(ordersCreated, statusTransitions, deliveries)
	return &ShopMetrics{
		ordersCreated:     ordersCreated,
		statusTransitions: statusTransitions,
		deliveries:        deliveries,
	}
}

// IncOrderCreated increments the created counter for the payment method.
func (m *ShopMetrics) IncOrderCreated(paymentMethod string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncStatusTransition records an applied lifecycle transition.
func (m *ShopMetrics) IncStatusTransition(from, to string) {
	if m == nil || m.statusTransitions == nil {
		return
	}
	m.statusTransitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncDelivery counts one delivery attempt outcome for the given audience.
func (m *ShopMetrics) IncDelivery(audience, outcome string) {
	if m == nil || m.deliveries == nil {
		return
	}
	m.deliveries.WithLabelValues(normalizeLabel(audience), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
