package notifications

import (
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/google/uuid"
)

// Pending is a formatted message waiting to be recorded and delivered once
// the state change that produced it has committed.
type Pending struct {
	RecipientID uuid.UUID
	Kind        enums.NotificationKind
	Message     string
}
