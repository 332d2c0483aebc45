package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by a manufacturer.
type Product struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ManufacturerID uuid.UUID       `gorm:"column:manufacturer_id;type:uuid;not null"`
	SKU            string          `gorm:"column:sku;not null;uniqueIndex"`
	Name           string          `gorm:"column:name;not null"`
	Description    *string         `gorm:"column:description"`
	Category       *string         `gorm:"column:category"`
	Unit           string          `gorm:"column:unit;not null;default:'unit'"`
	BasePrice      decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
