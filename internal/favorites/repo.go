package favorites

import (
	"context"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite and reports whether a row was written. An existing
// (user, favorite user) pair is left untouched and reported as false.
func (r *Repository) Add(ctx context.Context, favorite *models.Favorite) (bool, error) {
	if favorite == nil || favorite.UserID == uuid.Nil || favorite.FavoriteUserID == uuid.Nil {
		return false, gorm.ErrInvalidValue
	}
	if favorite.ID == uuid.Nil {
		favorite.ID = uuid.New()
	}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "favorite_user_id"}},
			DoNothing: true,
		}).
		Create(favorite)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes the pair. gorm.ErrRecordNotFound is returned when nothing matched.
func (r *Repository) Remove(ctx context.Context, userID, favoriteUserID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND favorite_user_id = ?", userID, favoriteUserID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, userID, favoriteUserID uuid.UUID) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).
		Preload("FavoriteUser").
		Where("user_id = ? AND favorite_user_id = ?", userID, favoriteUserID).
		Take(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *Repository) Exists(ctx context.Context, userID, favoriteUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND favorite_user_id = ?", userID, favoriteUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns the user's favorites, newest first, with the bookmarked user preloaded.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var rows []models.Favorite
	err := r.db.WithContext(ctx).
		Preload("FavoriteUser").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
