package search

import (
	"context"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists the per-user search log.
type Repository interface {
	Create(ctx context.Context, entry *models.SearchHistory) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.SearchHistory, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *models.SearchHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent returns at most limit entries for the user, newest first.
func (r *repository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.SearchHistory, error) {
	var rows []models.SearchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
