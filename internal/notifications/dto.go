package notifications

import (
	"time"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/google/uuid"
)

// NotificationDTO is one inbox entry.
type NotificationDTO struct {
	ID          uuid.UUID              `json:"id"`
	Kind        enums.NotificationKind `json:"kind"`
	Message     string                 `json:"message"`
	SentAt      time.Time              `json:"sentAt"`
	IsDelivered bool                   `json:"isDelivered"`
}

func NewNotificationDTOs(rows []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NotificationDTO{
			ID:          row.ID,
			Kind:        row.Kind,
			Message:     row.Message,
			SentAt:      row.SentAt,
			IsDelivered: row.IsDelivered,
		})
	}
	return out
}
