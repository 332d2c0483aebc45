package notifications

import (
	"context"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service exposes the read side of the notification log.
type Service interface {
	List(ctx context.Context, params ListParams) ([]models.Notification, error)
}

type service struct {
	repo Repository
}

// ListParams scopes a notification listing to one recipient.
type ListParams struct {
	UserID uuid.UUID
	Kind   string
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.Notification, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var kind *enums.NotificationKind
	if params.Kind != "" {
		parsed, err := enums.ParseNotificationKind(params.Kind)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification kind")
		}
		kind = &parsed
	}

	rows, err := s.repo.ListByUser(ctx, params.UserID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return rows, nil
}
