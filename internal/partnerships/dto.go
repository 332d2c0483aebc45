package partnerships

import (
	"time"

	"github.com/angelmondragon/tradelink-backend/internal/users"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/google/uuid"
)

// RequestInput is the body of a partnership request.
type RequestInput struct {
	PartnerID       uuid.UUID `json:"partnerId" validate:"required"`
	PartnershipType string    `json:"partnershipType" validate:"notblank,max=50"`
}

// RespondInput carries the partner's decision.
type RespondInput struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// PartnershipDTO is the client view of a partnership with the counterparty attached.
type PartnershipDTO struct {
	ID              uuid.UUID               `json:"id"`
	RequesterID     uuid.UUID               `json:"requesterId"`
	PartnerID       uuid.UUID               `json:"partnerId"`
	Status          enums.PartnershipStatus `json:"status"`
	PartnershipType string                  `json:"partnershipType"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
	Requester       *users.UserDTO          `json:"requester,omitempty"`
	Partner         *users.UserDTO          `json:"partner,omitempty"`
}

func NewPartnershipDTO(p *models.Partnership) PartnershipDTO {
	dto := PartnershipDTO{
		ID:              p.ID,
		RequesterID:     p.RequesterID,
		PartnerID:       p.PartnerID,
		Status:          p.Status,
		PartnershipType: p.Type,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Requester != nil {
		dto.Requester = users.FromModel(p.Requester)
	}
	if p.Partner != nil {
		dto.Partner = users.FromModel(p.Partner)
	}
	return dto
}

func newPartnershipDTOs(rows []models.Partnership) []PartnershipDTO {
	out := make([]PartnershipDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewPartnershipDTO(&rows[i]))
	}
	return out
}
