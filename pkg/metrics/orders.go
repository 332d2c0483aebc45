package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order lifecycle activity.
type OrderMetrics struct {
	created        prometheus.Counter
	createDuration *prometheus.HistogramVec
	statusUpdates  *prometheus.CounterVec
	deliveryModes  *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradelink_orders_created_total",
		Help: "Orders committed by retailers.",
	})
	createDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradelink_order_create_duration_seconds",
		Help:    "Duration of order creation, by outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	statusUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradelink_order_status_updates_total",
		Help: "Order status changes applied by distributors.",
	}, []string{"status"})
	deliveryModes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradelink_order_delivery_mode_updates_total",
		Help: "Delivery mode changes applied by distributors.",
	}, []string{"mode"})
	reg.MustRegister(created, createDuration, statusUpdates, deliveryModes)
	return &OrderMetrics{
		created:        created,
		createDuration: createDuration,
		statusUpdates:  statusUpdates,
		deliveryModes:  deliveryModes,
	}
}

// ObserveCreate records one CreateOrder call.
func (m *OrderMetrics) ObserveCreate(duration time.Duration, err error) {
	if m == nil || m.createDuration == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		m.created.Inc()
	}
	m.createDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// IncStatusUpdate counts an applied status change.
func (m *OrderMetrics) IncStatusUpdate(status string) {
	if m == nil || m.statusUpdates == nil {
		return
	}
	m.statusUpdates.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncDeliveryModeUpdate counts an applied delivery mode change.
func (m *OrderMetrics) IncDeliveryModeUpdate(mode string) {
	if m == nil || m.deliveryModes == nil {
		return
	}
	m.deliveryModes.WithLabelValues(normalizeLabel(mode)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
