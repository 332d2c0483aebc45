package orders

import (
	"context"

	"github.com/angelmondragon/tradelink-backend/internal/notifications"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	SummarizeOrders(ctx context.Context, filter ListFilter) ([]StatusSummary, error)
	ManufacturerItemRevenue(ctx context.Context, manufacturerID uuid.UUID) (decimal.Decimal, error)
}

// UserDirectory resolves callers and counterparties.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Catalog resolves products referenced by order items.
type Catalog interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// Dispatcher receives notifications once the triggering change has committed.
type Dispatcher interface {
	Dispatch(ctx context.Context, pending []notifications.Pending) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ListFilter narrows an order listing. Nil fields are ignored.
type ListFilter struct {
	RetailerID     *uuid.UUID
	DistributorID  *uuid.UUID
	ManufacturerID *uuid.UUID
}

// StatusSummary aggregates the orders in one status.
type StatusSummary struct {
	Status     enums.OrderStatus
	OrderCount int64
	Revenue    decimal.Decimal
}
