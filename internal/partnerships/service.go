package partnerships

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/tradelink-backend/pkg/db"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/angelmondragon/tradelink-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages partnership requests between marketplace users.
type Service interface {
	Request(ctx context.Context, requesterID uuid.UUID, input RequestInput) (*PartnershipDTO, error)
	Respond(ctx context.Context, callerID, partnershipID uuid.UUID, input RespondInput) (*PartnershipDTO, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]PartnershipDTO, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]PartnershipDTO, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	Repo   Repository
	Users  userLookup
	Tx     txRunner
	Logger *logger.Logger
}

type service struct {
	repo  Repository
	users userLookup
	tx    txRunner
	logg  *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("partnerships repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:  params.Repo,
		users: params.Users,
		tx:    params.Tx,
		logg:  params.Logger,
	}, nil
}

func (s *service) Request(ctx context.Context, requesterID uuid.UUID, input RequestInput) (*PartnershipDTO, error) {
	if requesterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	kind := strings.TrimSpace(input.PartnershipType)
	if input.PartnerID == uuid.Nil || kind == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id and partnership type are required")
	}
	if input.PartnerID == requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot request a partnership with yourself")
	}

	partner, err := s.users.FindByID(ctx, input.PartnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load partner")
	}

	partnership := &models.Partnership{
		ID:          uuid.New(),
		RequesterID: requesterID,
		PartnerID:   partner.ID,
		Type:        kind,
		Status:      enums.PartnershipStatusPending,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindPair(ctx, requesterID, partner.ID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "partnership request already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing partnership")
		}
		if err := repo.Create(ctx, partnership); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "partnership request already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create partnership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	partnership.Partner = partner
	ctx = s.logg.WithFields(ctx, map[string]any{
		"partnership_id": partnership.ID.String(),
		"partner_id":     partner.ID.String(),
	})
	s.logg.Info(ctx, "partnership requested")

	dto := NewPartnershipDTO(partnership)
	return &dto, nil
}

func (s *service) Respond(ctx context.Context, callerID, partnershipID uuid.UUID, input RespondInput) (*PartnershipDTO, error) {
	status, err := enums.ParsePartnershipStatus(strings.TrimSpace(input.Status))
	if err != nil || !status.IsResponse() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be approved or rejected")
	}

	var updated *models.Partnership
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, partnershipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "partnership request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load partnership")
		}
		if current.PartnerID != callerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the requested partner can respond")
		}
		if err := repo.UpdateStatus(ctx, current.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update partnership")
		}
		updated, err = repo.FindByID(ctx, current.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload partnership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"partnership_id": updated.ID.String(),
		"status":         status.String(),
	})
	s.logg.Info(ctx, "partnership responded")

	dto := NewPartnershipDTO(updated)
	return &dto, nil
}

func (s *service) ListSent(ctx context.Context, userID uuid.UUID) ([]PartnershipDTO, error) {
	rows, err := s.repo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sent partnerships")
	}
	return newPartnershipDTOs(rows), nil
}

func (s *service) ListReceived(ctx context.Context, userID uuid.UUID) ([]PartnershipDTO, error) {
	rows, err := s.repo.ListByPartner(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list received partnerships")
	}
	return newPartnershipDTOs(rows), nil
}
