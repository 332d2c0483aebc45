package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/tradelink-backend/pkg/enums"
)

// Notification is an append-only log of messages sent to a user.
type Notification struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	Kind        enums.NotificationKind `gorm:"column:kind;type:notification_kind;not null"`
	Message     string                 `gorm:"column:message;type:text;not null"`
	SentAt      time.Time              `gorm:"column:sent_at;not null"`
	IsDelivered bool                   `gorm:"column:is_delivered;not null;default:false"`
}
