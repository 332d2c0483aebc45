package orders

import (
	"context"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds an orders repository to the provided database handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.withItems(r.db.WithContext(ctx)).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	query := r.applyFilter(ctx, r.withItems(r.db.WithContext(ctx)).Model(&models.Order{}), filter)

	var orders []models.Order
	if err := query.Order("orders.created_at DESC, orders.id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SummarizeOrders groups the filtered orders by status with their count and summed totals.
func (r *repository) SummarizeOrders(ctx context.Context, filter ListFilter) ([]StatusSummary, error) {
	query := r.applyFilter(ctx, r.db.WithContext(ctx).Model(&models.Order{}), filter).
		Select("orders.status AS status, COUNT(*) AS order_count, COALESCE(SUM(orders.total_amount), 0) AS revenue").
		Group("orders.status").
		Order("orders.status")

	var rows []StatusSummary
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Revenue = rows[i].Revenue.Round(2)
	}
	return rows, nil
}

// ManufacturerItemRevenue sums the manufacturer's own lines across orders that were not rejected.
func (r *repository) ManufacturerItemRevenue(ctx context.Context, manufacturerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("COALESCE(SUM(order_items.total_price), 0)").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("products.manufacturer_id = ? AND orders.status <> ?", manufacturerID, enums.OrderStatusRejected).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

func (r *repository) applyFilter(ctx context.Context, query *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.RetailerID != nil {
		query = query.Where("orders.retailer_id = ?", *filter.RetailerID)
	}
	if filter.DistributorID != nil {
		query = query.Where("orders.distributor_id = ?", *filter.DistributorID)
	}
	if filter.ManufacturerID != nil {
		// IN keeps one row per order however many matching items it has.
		sub := r.db.WithContext(ctx).
			Table("order_items").
			Select("order_items.order_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.manufacturer_id = ?", *filter.ManufacturerID)
		query = query.Where("orders.id IN (?)", sub)
	}
	return query
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.created_at ASC, order_items.id ASC")
		}).
		Preload("Items.Product")
}
