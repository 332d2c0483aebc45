package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	"github.com/angelmondragon/tradelink-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type fakeRepository struct {
	created    []models.Notification
	createFunc func(ctx context.Context, notification *models.Notification) error
	markErr    error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createFunc != nil {
		if err := f.createFunc(ctx, notification); err != nil {
			return err
		}
	}
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.created {
		if f.created[i].ID == id {
			f.created[i].IsDelivered = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByUser(ctx context.Context, userID uuid.UUID, kind *enums.NotificationKind) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.created {
		if n.UserID == userID && (kind == nil || n.Kind == *kind) {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeDeliverer struct {
	delivered []uuid.UUID
	failFor   map[uuid.UUID]error
	ctxErr    error
	before    func(notification *models.Notification)
}

func (f *fakeDeliverer) Deliver(ctx context.Context, notification *models.Notification) error {
	f.ctxErr = ctx.Err()
	if f.before != nil {
		f.before(notification)
	}
	if err := f.failFor[notification.UserID]; err != nil {
		return err
	}
	f.delivered = append(f.delivered, notification.ID)
	return nil
}

func newDispatcher(t *testing.T, repo Repository, deliverer Deliverer, reg prometheus.Registerer) *Dispatcher {
	t.Helper()
	logg, _ := newTestLogger()
	d, err := NewDispatcher(DispatcherParams{
		Repo:      repo,
		Deliverer: deliverer,
		Logger:    logg,
		Metrics:   metrics.NewNotificationMetrics(reg),
		Timeout:   time.Second,
	})
	require.NoError(t, err)
	return d
}

func TestDispatchRecordsAndDeliversInOrder(t *testing.T) {
	repo := &fakeRepository{}
	deliverer := &fakeDeliverer{}
	d := newDispatcher(t, repo, deliverer, nil)

	distributor := uuid.New()
	retailer := uuid.New()
	err := d.Dispatch(context.Background(), []Pending{
		{RecipientID: distributor, Kind: enums.NotificationKindOrderAlert, Message: "new order"},
		{RecipientID: retailer, Kind: enums.NotificationKindStatusUpdate, Message: "packed"},
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 2)
	assert.Equal(t, distributor, repo.created[0].UserID)
	assert.Equal(t, enums.NotificationKindOrderAlert, repo.created[0].Kind)
	assert.True(t, repo.created[0].IsDelivered)
	assert.False(t, repo.created[0].SentAt.IsZero())
	assert.Equal(t, retailer, repo.created[1].UserID)
	assert.Len(t, deliverer.delivered, 2)
}

func TestDispatchKeepsGoingAfterDeliveryFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	failing := uuid.New()
	healthy := uuid.New()
	repo := &fakeRepository{}
	deliverer := &fakeDeliverer{failFor: map[uuid.UUID]error{failing: errors.New("gateway down")}}
	d := newDispatcher(t, repo, deliverer, reg)

	err := d.Dispatch(context.Background(), []Pending{
		{RecipientID: failing, Kind: enums.NotificationKindStatusUpdate, Message: "a"},
		{RecipientID: healthy, Kind: enums.NotificationKindStatusUpdate, Message: "b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway down")

	require.Len(t, repo.created, 2)
	assert.False(t, repo.created[0].IsDelivered)
	assert.True(t, repo.created[1].IsDelivered)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "tradelink_notifications_total"))
}

func TestDispatchReportsRecordFailure(t *testing.T) {
	repo := &fakeRepository{createFunc: func(ctx context.Context, n *models.Notification) error {
		return errors.New("db offline")
	}}
	deliverer := &fakeDeliverer{}
	d := newDispatcher(t, repo, deliverer, nil)

	err := d.Dispatch(context.Background(), []Pending{
		{RecipientID: uuid.New(), Kind: enums.NotificationKindDeliveryUpdate, Message: "pickup"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db offline")
	assert.Empty(t, deliverer.delivered)
}

func TestDispatchRecordsBeforeDelivering(t *testing.T) {
	repo := &fakeRepository{}
	var seenAtDelivery []models.Notification
	deliverer := &fakeDeliverer{before: func(n *models.Notification) {
		seenAtDelivery = append([]models.Notification(nil), repo.created...)
	}}
	d := newDispatcher(t, repo, deliverer, nil)

	require.NoError(t, d.Dispatch(context.Background(), []Pending{
		{RecipientID: uuid.New(), Kind: enums.NotificationKindOrderAlert, Message: "new order"},
	}))

	require.Len(t, seenAtDelivery, 1)
	assert.False(t, seenAtDelivery[0].IsDelivered)
	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].IsDelivered)
}

func TestDispatchReportsMarkFailureAfterDelivery(t *testing.T) {
	repo := &fakeRepository{markErr: errors.New("db offline")}
	deliverer := &fakeDeliverer{}
	d := newDispatcher(t, repo, deliverer, nil)

	err := d.Dispatch(context.Background(), []Pending{
		{RecipientID: uuid.New(), Kind: enums.NotificationKindStatusUpdate, Message: "packed"},
	})
	require.Error(t, err)
	assert.Len(t, deliverer.delivered, 1)
	require.Len(t, repo.created, 1)
	assert.False(t, repo.created[0].IsDelivered)
}

func TestDispatchRejectsMalformedEntries(t *testing.T) {
	repo := &fakeRepository{}
	d := newDispatcher(t, repo, &fakeDeliverer{}, nil)

	err := d.Dispatch(context.Background(), []Pending{
		{RecipientID: uuid.Nil, Kind: enums.NotificationKindGeneral, Message: "x"},
		{RecipientID: uuid.New(), Kind: "sms", Message: "x"},
		{RecipientID: uuid.New(), Kind: enums.NotificationKindGeneral},
	})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.Empty(t, repo.created)
}

func TestDispatchIgnoresCallerCancellation(t *testing.T) {
	repo := &fakeRepository{}
	deliverer := &fakeDeliverer{}
	d := newDispatcher(t, repo, deliverer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, d.Dispatch(ctx, []Pending{
		{RecipientID: uuid.New(), Kind: enums.NotificationKindOrderAlert, Message: "late"},
	}))
	assert.NoError(t, deliverer.ctxErr)
	assert.Len(t, repo.created, 1)
}

func TestDispatchEmptyIsNoop(t *testing.T) {
	d := newDispatcher(t, &fakeRepository{}, &fakeDeliverer{}, nil)
	assert.NoError(t, d.Dispatch(context.Background(), nil))
}

func TestNewDispatcherRequiresDependencies(t *testing.T) {
	logg, _ := newTestLogger()
	_, err := NewDispatcher(DispatcherParams{Deliverer: &fakeDeliverer{}, Logger: logg})
	assert.Error(t, err)
	_, err = NewDispatcher(DispatcherParams{Repo: &fakeRepository{}, Logger: logg})
	assert.Error(t, err)
	_, err = NewDispatcher(DispatcherParams{Repo: &fakeRepository{}, Deliverer: &fakeDeliverer{}})
	assert.Error(t, err)
}
