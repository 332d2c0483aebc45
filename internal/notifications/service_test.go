package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type listOnlyRepository struct {
	fakeRepository
	err error
}

func (l *listOnlyRepository) WithTx(tx *gorm.DB) Repository { return l }

func (l *listOnlyRepository) ListByUser(ctx context.Context, userID uuid.UUID, kind *enums.NotificationKind) ([]models.Notification, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.fakeRepository.ListByUser(ctx, userID, kind)
}

func TestServiceListFiltersByKind(t *testing.T) {
	userID := uuid.New()
	repo := &listOnlyRepository{fakeRepository: fakeRepository{created: []models.Notification{
		{ID: uuid.New(), UserID: userID, Kind: enums.NotificationKindOrderAlert, Message: "a"},
		{ID: uuid.New(), UserID: userID, Kind: enums.NotificationKindDeliveryUpdate, Message: "b"},
	}}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), ListParams{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deliveries, err := svc.List(context.Background(), ListParams{UserID: userID, Kind: "delivery_update"})
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, "b", deliveries[0].Message)
}

func TestServiceListValidation(t *testing.T) {
	svc, err := NewService(&listOnlyRepository{})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), ListParams{})
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))

	_, err = svc.List(context.Background(), ListParams{UserID: uuid.New(), Kind: "sms"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestServiceListWrapsRepositoryErrors(t *testing.T) {
	svc, err := NewService(&listOnlyRepository{err: errors.New("timeout")})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), ListParams{UserID: uuid.New()})
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}
