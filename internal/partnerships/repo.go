package partnerships

import (
	"context"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists partnership requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, partnership *models.Partnership) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Partnership, error)
	FindPair(ctx context.Context, requesterID, partnerID uuid.UUID) (*models.Partnership, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.Partnership, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Partnership, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PartnershipStatus) error
	CountApproved(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, partnership *models.Partnership) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(partnership).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Partnership, error) {
	var partnership models.Partnership
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Partner").
		First(&partnership, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &partnership, nil
}

func (r *repository) FindPair(ctx context.Context, requesterID, partnerID uuid.UUID) (*models.Partnership, error) {
	var partnership models.Partnership
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND partner_id = ?", requesterID, partnerID).
		First(&partnership).Error
	if err != nil {
		return nil, err
	}
	return &partnership, nil
}

// ListByRequester returns requests the user sent, with the counterparty preloaded.
func (r *repository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.Partnership, error) {
	return r.list(ctx, "requester_id = ?", requesterID, "Partner")
}

// ListByPartner returns requests addressed to the user, with the sender preloaded.
func (r *repository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Partnership, error) {
	return r.list(ctx, "partner_id = ?", partnerID, "Requester")
}

func (r *repository) list(ctx context.Context, where string, id uuid.UUID, preload string) ([]models.Partnership, error) {
	var rows []models.Partnership
	err := r.db.WithContext(ctx).
		Preload(preload).
		Where(where, id).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PartnershipStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Partnership{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountApproved counts approved partnerships the user is on either side of.
func (r *repository) CountApproved(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Partnership{}).
		Where("status = ?", enums.PartnershipStatusApproved).
		Where("requester_id = ? OR partner_id = ?", userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
