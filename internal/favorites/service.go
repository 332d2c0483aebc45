package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/angelmondragon/tradelink-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes business rules for bookmarking other marketplace users.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error)
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (*FavoriteDTO, error)
	Remove(ctx context.Context, userID, favoriteUserID uuid.UUID) error
	Check(ctx context.Context, userID, favoriteUserID uuid.UUID) (CheckDTO, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo   *Repository
	Users  userLookup
	Logger *logger.Logger
}

type service struct {
	repo  *Repository
	users userLookup
	logg  *logger.Logger
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: params.Repo, users: params.Users, logg: params.Logger}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}
	out := make([]FavoriteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, newFavoriteDTO(&rows[i]))
	}
	return out, nil
}

// Add bookmarks another user. The favorite type must match that user's role.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (*FavoriteDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.FavoriteUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorite user id is required")
	}
	if input.FavoriteUserID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot favorite yourself")
	}

	target, err := s.users.FindByID(ctx, input.FavoriteUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load favorite user")
	}

	kind := target.Role
	if raw := strings.TrimSpace(input.FavoriteType); raw != "" {
		parsed, err := enums.ParseRole(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorite type must be retailer, distributor or manufacturer")
		}
		if parsed != target.Role {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "user is not a %s", parsed)
		}
	}

	favorite := &models.Favorite{
		ID:             uuid.New(),
		UserID:         userID,
		FavoriteUserID: target.ID,
		FavoriteType:   kind,
	}
	created, err := s.repo.Add(ctx, favorite)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add favorite")
	}
	if !created {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "already in favorites")
	}

	stored, err := s.repo.Find(ctx, userID, target.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload favorite")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"favorite_id":      stored.ID.String(),
		"favorite_user_id": target.ID.String(),
	})
	s.logg.Info(ctx, "favorite added")

	dto := newFavoriteDTO(stored)
	return &dto, nil
}

func (s *service) Remove(ctx context.Context, userID, favoriteUserID uuid.UUID) error {
	if err := s.repo.Remove(ctx, userID, favoriteUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove favorite")
	}
	return nil
}

func (s *service) Check(ctx context.Context, userID, favoriteUserID uuid.UUID) (CheckDTO, error) {
	ok, err := s.repo.Exists(ctx, userID, favoriteUserID)
	if err != nil {
		return CheckDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check favorite")
	}
	return CheckDTO{IsFavorite: ok}, nil
}
