package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service serves the caller's profile and the partner directory.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	ListPartners(ctx context.Context, callerID uuid.UUID, role string, search string) ([]UserDTO, error)
}

type directory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListActiveByRole(ctx context.Context, role enums.Role, search string) ([]models.User, error)
}

type service struct {
	repo directory
}

func NewService(repo directory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) ListPartners(ctx context.Context, callerID uuid.UUID, rawRole string, search string) ([]UserDTO, error) {
	caller, err := s.load(ctx, callerID)
	if err != nil {
		return nil, err
	}
	role, err := enums.ParseRole(rawRole)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid partner role")
	}
	if !CanPartner(caller.Role, role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("%s users cannot browse %s partners", caller.Role, role))
	}

	found, err := s.repo.ListActiveByRole(ctx, role, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list partners")
	}
	out := make([]UserDTO, 0, len(found))
	for i := range found {
		if found[i].ID == caller.ID {
			continue
		}
		out = append(out, *FromModel(&found[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

// CanPartner reports whether a user of role from trades directly with role to.
// Retailers and manufacturers only deal with distributors.
func CanPartner(from, to enums.Role) bool {
	switch from {
	case enums.RoleRetailer, enums.RoleManufacturer:
		return to == enums.RoleDistributor
	case enums.RoleDistributor:
		return to == enums.RoleRetailer || to == enums.RoleManufacturer
	default:
		return false
	}
}
