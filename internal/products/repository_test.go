package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE products (
  id TEXT PRIMARY KEY,
  manufacturer_id TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT,
  unit TEXT NOT NULL DEFAULT 'unit',
  base_price TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE inventory (
  id TEXT PRIMARY KEY,
  distributor_id TEXT NOT NULL,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL DEFAULT 0,
  selling_price TEXT NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func strPtr(v string) *string { return &v }

func seedCatalogProduct(t *testing.T, db *gorm.DB, manufacturerID uuid.UUID, sku, name, category string) models.Product {
	t.Helper()
	product := models.Product{
		ID:             uuid.New(),
		ManufacturerID: manufacturerID,
		SKU:            sku,
		Name:           name,
		Unit:           "case",
		BasePrice:      decimal.RequireFromString("12.50"),
		IsActive:       true,
	}
	if category != "" {
		product.Category = strPtr(category)
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestRepositoryFindByIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	manufacturer := uuid.New()
	a := seedCatalogProduct(t, db, manufacturer, "A-1", "Apples", "produce")
	b := seedCatalogProduct(t, db, manufacturer, "B-1", "Bread", "bakery")

	found, err := repo.FindByIDs(context.Background(), []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "Apples", found[a.ID].Name)
	require.True(t, found[b.ID].BasePrice.Equal(decimal.RequireFromString("12.50")))

	empty, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestRepositoryListActiveFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	manufacturer := uuid.New()
	seedCatalogProduct(t, db, manufacturer, "APL-1", "Green Apples", "produce")
	seedCatalogProduct(t, db, manufacturer, "BRD-1", "Sourdough Bread", "bakery")
	retired := seedCatalogProduct(t, db, manufacturer, "APL-2", "Red Apples", "produce")
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", retired.ID).Update("is_active", false).Error)

	ctx := context.Background()
	all, err := repo.ListActive(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Green Apples", all[0].Name)

	produce, err := repo.ListActive(ctx, ListFilter{Category: "produce"})
	require.NoError(t, err)
	require.Len(t, produce, 1)
	require.Equal(t, "APL-1", produce[0].SKU)

	search, err := repo.ListActive(ctx, ListFilter{Search: "sOuRdOuGh"})
	require.NoError(t, err)
	require.Len(t, search, 1)

	bySku, err := repo.ListActive(ctx, ListFilter{Search: "brd"})
	require.NoError(t, err)
	require.Len(t, bySku, 1)

	other := uuid.New()
	none, err := repo.ListActive(ctx, ListFilter{ManufacturerID: &other})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRepositoryListCategories(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	manufacturer := uuid.New()
	seedCatalogProduct(t, db, manufacturer, "A", "A", "produce")
	seedCatalogProduct(t, db, manufacturer, "B", "B", "bakery")
	seedCatalogProduct(t, db, manufacturer, "C", "C", "produce")
	seedCatalogProduct(t, db, manufacturer, "D", "D", "")

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"bakery", "produce"}, categories)
}

func TestRepositoryListInventoryPreloadsProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	product := seedCatalogProduct(t, db, uuid.New(), "INV-1", "Olive Oil", "pantry")
	distributor := uuid.New()

	item := models.InventoryItem{
		ID:            uuid.New(),
		DistributorID: distributor,
		ProductID:     product.ID,
		Quantity:      40,
		SellingPrice:  decimal.RequireFromString("14.25"),
		IsAvailable:   true,
	}
	require.NoError(t, db.Create(&item).Error)
	require.NoError(t, db.Create(&models.InventoryItem{
		ID:            uuid.New(),
		DistributorID: uuid.New(),
		ProductID:     product.ID,
		Quantity:      1,
		SellingPrice:  decimal.RequireFromString("15.00"),
		IsAvailable:   true,
	}).Error)

	items, err := repo.ListInventory(context.Background(), distributor)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 40, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	require.Equal(t, "Olive Oil", items[0].Product.Name)
}

func TestRepositoryCountByManufacturerSkipsRetired(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	manufacturer := uuid.New()
	seedCatalogProduct(t, db, manufacturer, "C-1", "Chickpeas", "")
	retired := seedCatalogProduct(t, db, manufacturer, "C-2", "Cumin", "")
	seedCatalogProduct(t, db, uuid.New(), "C-3", "Coriander", "")
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", retired.ID).Update("is_active", false).Error)

	count, err := repo.CountByManufacturer(context.Background(), manufacturer)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
