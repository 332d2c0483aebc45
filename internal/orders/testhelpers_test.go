package orders

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/tradelink-backend/internal/notifications"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/angelmondragon/tradelink-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL,
  business_name TEXT,
  address TEXT,
  phone TEXT,
  whatsapp TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
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
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL,
  retailer_id TEXT NOT NULL,
  distributor_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  delivery_mode TEXT NOT NULL DEFAULT 'delivery',
  total_amount TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT orders_order_number_key UNIQUE (order_number)
);`,
		`CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  unit_price TEXT NOT NULL,
  total_price TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.New(logger.Options{ServiceName: "test", Output: buf}), buf
}

func seedUser(t *testing.T, db *gorm.DB, role enums.Role, first, last string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		PasswordHash: "hash",
		FirstName:    first,
		LastName:     last,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, manufacturerID uuid.UUID, name string, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:             uuid.New(),
		ManufacturerID: manufacturerID,
		SKU:            "SKU-" + uuid.NewString()[:8],
		Name:           name,
		Unit:           "box",
		BasePrice:      decimal.RequireFromString(price),
		IsActive:       true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// dbDirectory and dbCatalog read straight from the test database.
type dbDirectory struct{ db *gorm.DB }

func (d dbDirectory) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type dbCatalog struct{ db *gorm.DB }

func (c dbCatalog) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	var products []models.Product
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

type recordingDispatcher struct {
	mu       sync.Mutex
	batches  [][]notifications.Pending
	dispatch func(ctx context.Context, pending []notifications.Pending) error
}

func (r *recordingDispatcher) Dispatch(ctx context.Context, pending []notifications.Pending) error {
	r.mu.Lock()
	r.batches = append(r.batches, append([]notifications.Pending(nil), pending...))
	r.mu.Unlock()
	if r.dispatch != nil {
		return r.dispatch(ctx, pending)
	}
	return nil
}

func (r *recordingDispatcher) all() []notifications.Pending {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notifications.Pending
	for _, batch := range r.batches {
		out = append(out, batch...)
	}
	return out
}

// tickingClock advances one second per call so creation order is stable.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
