package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	NotificationResultDelivered = "delivered"
	NotificationResultRecorded  = "recorded"
	NotificationResultFailed    = "failed"
)

// NotificationMetrics counts dispatch outcomes per notification kind.
type NotificationMetrics struct {
	total *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradelink_notifications_total",
		Help: "Notification dispatch attempts by kind and result.",
	}, []string{"kind", "result"})
	reg.MustRegister(total)
	return &NotificationMetrics{total: total}
}

// Inc records one dispatch outcome.
func (m *NotificationMetrics) Inc(kind, result string) {
	if m == nil || m.total == nil {
		return
	}
	m.total.WithLabelValues(normalizeLabel(kind), normalizeLabel(result)).Inc()
}
