package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/tradelink-backend/pkg/enums"
)

// Partnership is a directed request from one user to another.
type Partnership struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequesterID uuid.UUID               `gorm:"column:requester_id;type:uuid;not null"`
	PartnerID   uuid.UUID               `gorm:"column:partner_id;type:uuid;not null"`
	Type        string                  `gorm:"column:partnership_type;not null"`
	Status      enums.PartnershipStatus `gorm:"column:status;type:partnership_status;not null;default:'pending'"`
	Requester   *User                   `gorm:"foreignKey:RequesterID"`
	Partner     *User                   `gorm:"foreignKey:PartnerID"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
