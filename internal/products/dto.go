package product

import (
	"time"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the catalog entry returned to clients.
type ProductDTO struct {
	ID             uuid.UUID `json:"id"`
	ManufacturerID uuid.UUID `json:"manufacturerId"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Unit           string    `json:"unit"`
	BasePrice      string    `json:"basePrice" validate:"gt=0"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// InventoryDTO is one stock line of a distributor.
type InventoryDTO struct {
	ID            uuid.UUID   `json:"id"`
	DistributorID uuid.UUID   `json:"distributorId"`
	ProductID     uuid.UUID   `json:"productId"`
	Quantity      int         `json:"quantity"`
	SellingPrice  string      `json:"sellingPrice"`
	IsAvailable   bool        `json:"isAvailable"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Product       *ProductDTO `json:"product,omitempty"`
}

// CreateProductInput is a manufacturer's new catalog entry.
type CreateProductInput struct {
	SKU         string          `json:"sku" validate:"notblank,max=64"`
	Name        string          `json:"name" validate:"notblank,max=200"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	BasePrice   decimal.Decimal `json:"basePrice" validate:"gt=0"`
}

func NewProductDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:             p.ID,
		ManufacturerID: p.ManufacturerID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Unit:           p.Unit,
		BasePrice:      p.BasePrice.StringFixed(2),
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
	}
}

func NewProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, NewProductDTO(&products[i]))
	}
	return out
}

func NewInventoryDTO(item *models.InventoryItem) InventoryDTO {
	dto := InventoryDTO{
		ID:            item.ID,
		DistributorID: item.DistributorID,
		ProductID:     item.ProductID,
		Quantity:      item.Quantity,
		SellingPrice:  item.SellingPrice.StringFixed(2),
		IsAvailable:   item.IsAvailable,
		UpdatedAt:     item.UpdatedAt,
	}
	if item.Product != nil {
		p := NewProductDTO(item.Product)
		dto.Product = &p
	}
	return dto
}
