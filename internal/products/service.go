package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/tradelink-backend/pkg/db"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultUnit = "unit"

// Service exposes catalog reads, manufacturer product creation and distributor inventory.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, userID uuid.UUID, role enums.Role, input CreateProductInput) (*ProductDTO, error)
	ListInventory(ctx context.Context, userID uuid.UUID, role enums.Role) ([]InventoryDTO, error)
}

type catalogStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context, filter ListFilter) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	ListInventory(ctx context.Context, distributorID uuid.UUID) ([]models.InventoryItem, error)
}

type service struct {
	repo catalogStore
}

// NewService builds the catalog service.
func NewService(repo catalogStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	products, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return NewProductDTOs(products), nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}

func (s *service) CreateProduct(ctx context.Context, userID uuid.UUID, role enums.Role, input CreateProductInput) (*ProductDTO, error) {
	if role != enums.RoleManufacturer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only manufacturers can create products")
	}
	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	name := strings.TrimSpace(input.Name)
	if sku == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and name are required")
	}
	if !input.BasePrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price must be greater than zero")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	product := &models.Product{
		ID:             uuid.New(),
		ManufacturerID: userID,
		SKU:            sku,
		Name:           name,
		Description:    input.Description,
		Category:       input.Category,
		Unit:           unit,
		BasePrice:      input.BasePrice,
		IsActive:       true,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product with this sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

func (s *service) ListInventory(ctx context.Context, userID uuid.UUID, role enums.Role) ([]InventoryDTO, error) {
	if role != enums.RoleDistributor {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only distributors hold inventory")
	}
	items, err := s.repo.ListInventory(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory")
	}
	out := make([]InventoryDTO, 0, len(items))
	for i := range items {
		out = append(out, NewInventoryDTO(&items[i]))
	}
	return out, nil
}
