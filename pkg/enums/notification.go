package enums

import "fmt"

// NotificationKind maps to the notification_kind enum in Postgres.
type NotificationKind string

const (
	NotificationKindOrderAlert     NotificationKind = "order_alert"
	NotificationKindStatusUpdate   NotificationKind = "status_update"
	NotificationKindDeliveryUpdate NotificationKind = "delivery_update"
	NotificationKindGeneral        NotificationKind = "general"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindOrderAlert,
	NotificationKindStatusUpdate,
	NotificationKindDeliveryUpdate,
	NotificationKindGeneral,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid checks whether the given kind matches the canonical enum.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw strings into NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
