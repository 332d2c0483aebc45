package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE users (
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
);`).Error)
	return db
}

func createUser(t *testing.T, repo *Repository, email, first string, role enums.Role, business *string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    first,
		LastName:     "Test",
		Role:         role,
		BusinessName: business,
	})
	require.NoError(t, err)
	return user
}

func strPtr(v string) *string { return &v }

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created := createUser(t, repo, "  Owner@Shop.COM ", "Asha", enums.RoleRetailer, strPtr("Asha Stores"))
	assert.Equal(t, "owner@shop.com", created.Email)
	assert.True(t, created.IsActive)

	byEmail, err := repo.FindByEmail(ctx, "OWNER@shop.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, enums.RoleRetailer, byEmail.Role)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Stores", *byID.BusinessName)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()
	user := createUser(t, repo, "d@example.com", "Dev", enums.RoleDistributor, nil)

	now := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, now))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, got.LastLoginAt.Equal(now))
}

func TestServiceListPartners(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	retailer := createUser(t, repo, "r@example.com", "Ravi", enums.RoleRetailer, nil)
	distributor := createUser(t, repo, "d1@example.com", "Dev", enums.RoleDistributor, strPtr("Metro Wholesale"))
	createUser(t, repo, "d2@example.com", "Zoya", enums.RoleDistributor, strPtr("Coastal Traders"))
	inactive := createUser(t, repo, "d3@example.com", "Ina", enums.RoleDistributor, nil)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	all, err := svc.ListPartners(ctx, retailer.ID, "distributor", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, distributor.ID, all[0].ID)

	searched, err := svc.ListPartners(ctx, retailer.ID, "distributor", "METRO")
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Metro Wholesale", *searched[0].BusinessName)

	_, err = svc.ListPartners(ctx, retailer.ID, "manufacturer", "")
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	_, err = svc.ListPartners(ctx, retailer.ID, "admin", "")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	retailers, err := svc.ListPartners(ctx, distributor.ID, "retailer", "")
	require.NoError(t, err)
	require.Len(t, retailers, 1)
	assert.Equal(t, retailer.ID, retailers[0].ID)
}

func TestServiceMe(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	user := createUser(t, repo, "m@example.com", "Mira", enums.RoleManufacturer, nil)
	me, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleManufacturer, me.Role)
	assert.Equal(t, "m@example.com", me.Email)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.Me(context.Background(), uuid.Nil)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestCanPartner(t *testing.T) {
	assert.True(t, CanPartner(enums.RoleRetailer, enums.RoleDistributor))
	assert.True(t, CanPartner(enums.RoleManufacturer, enums.RoleDistributor))
	assert.True(t, CanPartner(enums.RoleDistributor, enums.RoleRetailer))
	assert.True(t, CanPartner(enums.RoleDistributor, enums.RoleManufacturer))
	assert.False(t, CanPartner(enums.RoleRetailer, enums.RoleManufacturer))
	assert.False(t, CanPartner(enums.RoleDistributor, enums.RoleDistributor))
	assert.False(t, CanPartner(enums.Role("admin"), enums.RoleDistributor))
}
