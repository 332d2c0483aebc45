package orders

import (
	"time"

	"github.com/angelmondragon/tradelink-backend/internal/notifications"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderInput carries a retailer's order request.
type CreateOrderInput struct {
	DistributorID uuid.UUID
	Items         []ItemInput
	Notes         *string
	DeliveryMode  string
}

// ItemInput is one requested product line.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// UpdateStatusInput carries a distributor's status change.
type UpdateStatusInput struct {
	Status       string
	DeliveryMode string
}

// Outcome is the committed order plus the notifications it produced, in emission order.
type Outcome struct {
	Order         *models.Order
	Notifications []notifications.Pending
}

// OrderDTO is the external order representation.
type OrderDTO struct {
	ID            uuid.UUID          `json:"id"`
	OrderNumber   string             `json:"orderNumber"`
	RetailerID    uuid.UUID          `json:"retailerId"`
	DistributorID uuid.UUID          `json:"distributorId"`
	Status        enums.OrderStatus  `json:"status"`
	DeliveryMode  enums.DeliveryMode `json:"deliveryMode"`
	TotalAmount   string             `json:"totalAmount"`
	Notes         *string            `json:"notes"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Items         []OrderItemDTO     `json:"items"`
}

// OrderItemDTO is the external order item representation.
type OrderItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	OrderID    uuid.UUID       `json:"orderId"`
	ProductID  uuid.UUID       `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  string          `json:"unitPrice"`
	TotalPrice string          `json:"totalPrice"`
	Product    *ProductSummary `json:"product"`
}

// ProductSummary is the product snapshot embedded in order items.
type ProductSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	SKU            string    `json:"sku"`
	Unit           string    `json:"unit"`
	ManufacturerID uuid.UUID `json:"manufacturerId"`
}

// NewOrderDTO maps a persisted order to its external shape.
func NewOrderDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		RetailerID:    order.RetailerID,
		DistributorID: order.DistributorID,
		Status:        order.Status,
		DeliveryMode:  order.DeliveryMode,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		itemDTO := OrderItemDTO{
			ID:         item.ID,
			OrderID:    item.OrderID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			TotalPrice: item.TotalPrice.StringFixed(2),
		}
		if item.Product != nil {
			itemDTO.Product = &ProductSummary{
				ID:             item.Product.ID,
				Name:           item.Product.Name,
				SKU:            item.Product.SKU,
				Unit:           item.Product.Unit,
				ManufacturerID: item.Product.ManufacturerID,
			}
		}
		dto.Items = append(dto.Items, itemDTO)
	}
	return dto
}

// NewOrderDTOs maps a listing, preserving order.
func NewOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderDTO(&orders[i]))
	}
	return out
}
