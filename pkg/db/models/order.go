package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tradelink-backend/pkg/enums"
)

// Order is one purchase between a retailer and a distributor.
type Order struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   string             `gorm:"column:order_number;not null;uniqueIndex"`
	RetailerID    uuid.UUID          `gorm:"column:retailer_id;type:uuid;not null"`
	DistributorID uuid.UUID          `gorm:"column:distributor_id;type:uuid;not null"`
	Status        enums.OrderStatus  `gorm:"column:status;type:order_status;not null;default:'pending'"`
	DeliveryMode  enums.DeliveryMode `gorm:"column:delivery_mode;type:delivery_mode;not null;default:'delivery'"`
	TotalAmount   decimal.Decimal    `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Notes         *string            `gorm:"column:notes"`
	Items         []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is an immutable line captured at order time.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	Product    *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
