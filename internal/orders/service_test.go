package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/tradelink-backend/internal/notifications"
	"github.com/angelmondragon/tradelink-backend/pkg/db"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/angelmondragon/tradelink-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db           *gorm.DB
	svc          Service
	dispatcher   *recordingDispatcher
	registry     *prometheus.Registry
	retailer     *models.User
	distributor  *models.User
	manufacturer *models.User
	product      *models.Product
}

type fixtureOption func(*ServiceParams)

func withRepo(wrap func(Repository) Repository) fixtureOption {
	return func(p *ServiceParams) { p.Repo = wrap(p.Repo) }
}

func newServiceFixture(t *testing.T, opts ...fixtureOption) *serviceFixture {
	t.Helper()
	conn := setupOrdersTestDB(t)
	logg, _ := newTestLogger()

	f := &serviceFixture{
		db:         conn,
		dispatcher: &recordingDispatcher{},
		registry:   prometheus.NewRegistry(),
	}
	f.retailer = seedUser(t, conn, enums.RoleRetailer, "Ravi", "Kumar")
	f.distributor = seedUser(t, conn, enums.RoleDistributor, "Dev", "Shah")
	f.manufacturer = seedUser(t, conn, enums.RoleManufacturer, "Mira", "Rao")
	f.product = seedProduct(t, conn, f.manufacturer.ID, "Basmati Rice", "90.00")

	params := ServiceParams{
		Repo:       NewRepository(conn),
		Users:      dbDirectory{db: conn},
		Catalog:    dbCatalog{db: conn},
		Tx:         db.NewFromConn(conn),
		Dispatcher: f.dispatcher,
		Logger:     logg,
		Metrics:    metrics.NewOrderMetrics(f.registry),
		Now:        tickingClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
	}
	for _, opt := range opts {
		opt(&params)
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *serviceFixture) createOrder(t *testing.T, qty int, price string) *models.Order {
	t.Helper()
	outcome, err := f.svc.CreateOrder(context.Background(), f.retailer.ID, CreateOrderInput{
		DistributorID: f.distributor.ID,
		Items:         []ItemInput{{ProductID: f.product.ID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}},
	})
	require.NoError(t, err)
	return outcome.Order
}

func (f *serviceFixture) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Count(&n).Error)
	return n
}

func (f *serviceFixture) statusOf(t *testing.T, orderID uuid.UUID) enums.OrderStatus {
	t.Helper()
	var order models.Order
	require.NoError(t, f.db.First(&order, "id = ?", orderID).Error)
	return order.Status
}

// counter returns the value of a counter series, matching any label with labelValue when set.
func (f *serviceFixture) counter(t *testing.T, name, labelValue string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelValue == "" {
				return metric.GetCounter().GetValue()
			}
			for _, label := range metric.GetLabel() {
				if label.GetValue() == labelValue {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestEndToEndCreateThenDispatch(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	outcome, err := f.svc.CreateOrder(ctx, f.retailer.ID, CreateOrderInput{
		DistributorID: f.distributor.ID,
		Items:         []ItemInput{{ProductID: f.product.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("100.00")}},
	})
	require.NoError(t, err)

	order := outcome.Order
	assert.Equal(t, "200.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.DeliveryModeDelivery, order.DeliveryMode)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "200.00", order.Items[0].TotalPrice.StringFixed(2))
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Basmati Rice", order.Items[0].Product.Name)
	assert.True(t, IsOrderNumber(order.OrderNumber))

	require.Len(t, outcome.Notifications, 1)
	alert := outcome.Notifications[0]
	assert.Equal(t, f.distributor.ID, alert.RecipientID)
	assert.Equal(t, enums.NotificationKindOrderAlert, alert.Kind)
	assert.Contains(t, alert.Message, "Ravi Kumar")
	assert.Contains(t, alert.Message, order.OrderNumber)
	assert.Contains(t, alert.Message, "₹200.00")
	assert.Contains(t, alert.Message, "Items: 1 products")

	updated, err := f.svc.UpdateOrderStatus(ctx, f.distributor.ID, order.ID, UpdateStatusInput{Status: "dispatched"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDispatched, updated.Order.Status)
	require.Len(t, updated.Notifications, 1)
	statusNote := updated.Notifications[0]
	assert.Equal(t, f.retailer.ID, statusNote.RecipientID)
	assert.Equal(t, enums.NotificationKindStatusUpdate, statusNote.Kind)
	assert.Contains(t, statusNote.Message, "🚚")
	assert.Contains(t, statusNote.Message, "on the way")

	assert.Equal(t, []notifications.Pending{alert, statusNote}, f.dispatcher.all())
	assert.Equal(t, float64(1), f.counter(t, "tradelink_orders_created_total", ""))
}

func TestCreateOrderTotalsReconcile(t *testing.T) {
	f := newServiceFixture(t)
	second := seedProduct(t, f.db, f.manufacturer.ID, "Wheat Flour", "40.00")

	outcome, err := f.svc.CreateOrder(context.Background(), f.retailer.ID, CreateOrderInput{
		DistributorID: f.distributor.ID,
		DeliveryMode:  "pickup",
		Items: []ItemInput{
			{ProductID: f.product.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("12.35")},
			{ProductID: second.ID, Quantity: 7, UnitPrice: decimal.RequireFromString("0.99")},
		},
	})
	require.NoError(t, err)

	persisted, err := f.svc.GetOrder(context.Background(), f.retailer.ID, outcome.Order.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Items, 2)

	sum := decimal.Zero
	for _, item := range persisted.Items {
		assert.True(t, item.TotalPrice.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
		sum = sum.Add(item.TotalPrice)
	}
	assert.True(t, persisted.TotalAmount.Equal(sum))
	assert.Equal(t, "43.98", persisted.TotalAmount.StringFixed(2))
	assert.Equal(t, enums.DeliveryModePickup, persisted.DeliveryMode)
}

func TestCreateOrderValidationPersistsNothing(t *testing.T) {
	f := newServiceFixture(t)
	valid := ItemInput{ProductID: f.product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("10")}

	cases := []struct {
		name  string
		input CreateOrderInput
		code  pkgerrors.Code
	}{
		{"no items", CreateOrderInput{DistributorID: f.distributor.ID}, pkgerrors.CodeValidation},
		{"zero quantity", CreateOrderInput{DistributorID: f.distributor.ID, Items: []ItemInput{valid, {ProductID: f.product.ID, Quantity: 0, UnitPrice: decimal.RequireFromString("10")}}}, pkgerrors.CodeValidation},
		{"negative price", CreateOrderInput{DistributorID: f.distributor.ID, Items: []ItemInput{valid, {ProductID: f.product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("-1")}}}, pkgerrors.CodeValidation},
		{"distributor is a retailer", CreateOrderInput{DistributorID: f.retailer.ID, Items: []ItemInput{valid}}, pkgerrors.CodeValidation},
		{"unknown distributor", CreateOrderInput{DistributorID: uuid.New(), Items: []ItemInput{valid}}, pkgerrors.CodeValidation},
		{"bad delivery mode", CreateOrderInput{DistributorID: f.distributor.ID, DeliveryMode: "drone", Items: []ItemInput{valid}}, pkgerrors.CodeValidation},
		{"unknown product", CreateOrderInput{DistributorID: f.distributor.ID, Items: []ItemInput{valid, {ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("10")}}}, pkgerrors.CodeNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(context.Background(), f.retailer.ID, tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.code, pkgerrors.CodeOf(err))
		})
	}

	assert.Zero(t, f.countRows(t, "orders"))
	assert.Zero(t, f.countRows(t, "order_items"))
	assert.Empty(t, f.dispatcher.all())
}

func TestCreateOrderRejectsNonRetailers(t *testing.T) {
	f := newServiceFixture(t)
	input := CreateOrderInput{
		DistributorID: f.distributor.ID,
		Items:         []ItemInput{{ProductID: f.product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5")}},
	}

	for _, caller := range []*models.User{f.distributor, f.manufacturer} {
		_, err := f.svc.CreateOrder(context.Background(), caller.ID, input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
	}

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), input)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", f.retailer.ID).Update("is_active", false).Error)
	_, err = f.svc.CreateOrder(context.Background(), f.retailer.ID, input)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	assert.Zero(t, f.countRows(t, "orders"))
}

type failingItemsRepo struct {
	Repository
}

func (r failingItemsRepo) WithTx(tx *gorm.DB) Repository {
	return failingItemsRepo{Repository: r.Repository.WithTx(tx)}
}

func (r failingItemsRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return errors.New("disk full")
}

func TestCreateOrderRollsBackWhenItemsFail(t *testing.T) {
	f := newServiceFixture(t, withRepo(func(r Repository) Repository { return failingItemsRepo{Repository: r} }))

	_, err := f.svc.CreateOrder(context.Background(), f.retailer.ID, CreateOrderInput{
		DistributorID: f.distributor.ID,
		Items:         []ItemInput{{ProductID: f.product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5")}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.CodeOf(err))
	assert.Zero(t, f.countRows(t, "orders"))
	assert.Empty(t, f.dispatcher.all())
}

type fixedNumberRepo struct {
	Repository
	number string
}

func (r fixedNumberRepo) WithTx(tx *gorm.DB) Repository {
	return fixedNumberRepo{Repository: r.Repository.WithTx(tx), number: r.number}
}

func (r fixedNumberRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	order.OrderNumber = r.number
	return r.Repository.CreateOrder(ctx, order)
}

func TestCreateOrderNumberCollisionIsConflict(t *testing.T) {
	const number = "ORD-20260301-AAAAAAAA"
	f := newServiceFixture(t, withRepo(func(r Repository) Repository { return fixedNumberRepo{Repository: r, number: number} }))
	input := CreateOrderInput{
		DistributorID: f.distributor.ID,
		Items:         []ItemInput{{ProductID: f.product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5")}},
	}

	_, err := f.svc.CreateOrder(context.Background(), f.retailer.ID, input)
	require.NoError(t, err)

	_, err = f.svc.CreateOrder(context.Background(), f.retailer.ID, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
	assert.Equal(t, int64(1), f.countRows(t, "orders"))
	assert.Equal(t, int64(1), f.countRows(t, "order_items"))
}

func TestCreateOrderSurvivesDispatchFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.dispatcher.dispatch = func(ctx context.Context, pending []notifications.Pending) error {
		return errors.New("sink offline")
	}

	order := f.createOrder(t, 1, "5")
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, int64(1), f.countRows(t, "orders"))
	assert.Len(t, f.dispatcher.all(), 1)
}

func TestUpdateOrderStatusOwnershipGate(t *testing.T) {
	f := newServiceFixture(t)
	order := f.createOrder(t, 1, "5")
	otherDistributor := seedUser(t, f.db, enums.RoleDistributor, "Other", "Dist")

	_, err := f.svc.UpdateOrderStatus(context.Background(), otherDistributor.ID, order.ID, UpdateStatusInput{Status: "accepted"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
	assert.Equal(t, enums.OrderStatusPending, f.statusOf(t, order.ID))

	_, err = f.svc.UpdateOrderStatus(context.Background(), f.retailer.ID, order.ID, UpdateStatusInput{Status: "accepted"})
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	_, err = f.svc.UpdateOrderStatus(context.Background(), f.distributor.ID, uuid.New(), UpdateStatusInput{Status: "accepted"})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	assert.Len(t, f.dispatcher.all(), 1)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	f := newServiceFixture(t)
	order := f.createOrder(t, 1, "5")

	_, err := f.svc.UpdateOrderStatus(context.Background(), f.distributor.ID, order.ID, UpdateStatusInput{Status: "shipped_via_drone"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.Equal(t, enums.OrderStatusPending, f.statusOf(t, order.ID))

	_, err = f.svc.UpdateOrderStatus(context.Background(), f.distributor.ID, order.ID, UpdateStatusInput{Status: "accepted", DeliveryMode: "teleport"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.Equal(t, enums.OrderStatusPending, f.statusOf(t, order.ID))
}

func TestRepeatedStatusAppendsNotifications(t *testing.T) {
	f := newServiceFixture(t)
	order := f.createOrder(t, 1, "5")

	for i := 0; i < 2; i++ {
		outcome, err := f.svc.UpdateOrderStatus(context.Background(), f.distributor.ID, order.ID, UpdateStatusInput{Status: "packed"})
		require.NoError(t, err)
		assert.Equal(t, enums.OrderStatusPacked, outcome.Order.Status)
	}

	all := f.dispatcher.all()
	require.Len(t, all, 3)
	for _, note := range all[1:] {
		assert.Equal(t, enums.NotificationKindStatusUpdate, note.Kind)
		assert.Equal(t, f.retailer.ID, note.RecipientID)
		assert.Equal(t, FormatStatusUpdate(order.OrderNumber, enums.OrderStatusPacked), note.Message)
	}
	assert.Equal(t, enums.OrderStatusPacked, f.statusOf(t, order.ID))
	assert.Equal(t, float64(2), f.counter(t, "tradelink_order_status_updates_total", "packed"))
}

func TestUpdateOrderStatusWithDeliveryMode(t *testing.T) {
	f := newServiceFixture(t)
	order := f.createOrder(t, 1, "5")

	outcome, err := f.svc.UpdateOrderStatus(context.Background(), f.distributor.ID, order.ID, UpdateStatusInput{Status: "accepted", DeliveryMode: "pickup"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAccepted, outcome.Order.Status)
	assert.Equal(t, enums.DeliveryModePickup, outcome.Order.DeliveryMode)
	assert.True(t, outcome.Order.UpdatedAt.After(order.UpdatedAt))
	require.Len(t, outcome.Notifications, 1)
	assert.Equal(t, enums.NotificationKindStatusUpdate, outcome.Notifications[0].Kind)
}

func TestUpdateDeliveryMode(t *testing.T) {
	f := newServiceFixture(t)
	order := f.createOrder(t, 1, "5")

	outcome, err := f.svc.UpdateDeliveryMode(context.Background(), f.distributor.ID, order.ID, "pickup")
	require.NoError(t, err)
	assert.Equal(t, enums.DeliveryModePickup, outcome.Order.DeliveryMode)
	assert.Equal(t, enums.OrderStatusPending, outcome.Order.Status)
	require.Len(t, outcome.Notifications, 1)
	note := outcome.Notifications[0]
	assert.Equal(t, enums.NotificationKindDeliveryUpdate, note.Kind)
	assert.Equal(t, f.retailer.ID, note.RecipientID)
	assert.True(t, strings.Contains(note.Message, "Mode: Pickup"))

	_, err = f.svc.UpdateDeliveryMode(context.Background(), f.distributor.ID, order.ID, "courier")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = f.svc.UpdateDeliveryMode(context.Background(), f.manufacturer.ID, order.ID, "delivery")
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
}

func TestGetOrderVisibility(t *testing.T) {
	f := newServiceFixture(t)
	order := f.createOrder(t, 1, "5")
	stranger := seedUser(t, f.db, enums.RoleRetailer, "Sam", "Stranger")
	otherManufacturer := seedUser(t, f.db, enums.RoleManufacturer, "No", "Stake")

	for _, caller := range []*models.User{f.retailer, f.distributor, f.manufacturer} {
		got, err := f.svc.GetOrder(context.Background(), caller.ID, order.ID)
		require.NoError(t, err, caller.Role)
		assert.Equal(t, order.ID, got.ID)
		assert.Len(t, got.Items, 1)
	}

	for _, caller := range []*models.User{stranger, otherManufacturer} {
		_, err := f.svc.GetOrder(context.Background(), caller.ID, order.ID)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
	}

	_, err := f.svc.GetOrder(context.Background(), f.retailer.ID, uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestListOrdersScopedByRole(t *testing.T) {
	f := newServiceFixture(t)
	first := f.createOrder(t, 1, "5")
	second := f.createOrder(t, 2, "5")

	otherRetailer := seedUser(t, f.db, enums.RoleRetailer, "Other", "Shop")
	otherOutcome, err := f.svc.CreateOrder(context.Background(), otherRetailer.ID, CreateOrderInput{
		DistributorID: f.distributor.ID,
		Items:         []ItemInput{{ProductID: f.product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("5")}},
	})
	require.NoError(t, err)

	retailerOrders, err := f.svc.ListOrders(context.Background(), f.retailer.ID)
	require.NoError(t, err)
	require.Len(t, retailerOrders, 2)
	assert.Equal(t, second.ID, retailerOrders[0].ID)
	assert.Equal(t, first.ID, retailerOrders[1].ID)

	distributorOrders, err := f.svc.ListOrders(context.Background(), f.distributor.ID)
	require.NoError(t, err)
	require.Len(t, distributorOrders, 3)
	assert.Equal(t, otherOutcome.Order.ID, distributorOrders[0].ID)

	manufacturerOrders, err := f.svc.ListOrders(context.Background(), f.manufacturer.ID)
	require.NoError(t, err)
	assert.Len(t, manufacturerOrders, 3)
}

func TestGetOrderHistoryPairs(t *testing.T) {
	f := newServiceFixture(t)
	order := f.createOrder(t, 1, "5")
	otherRetailer := seedUser(t, f.db, enums.RoleRetailer, "Other", "Shop")

	history, err := f.svc.GetOrderHistory(context.Background(), f.retailer.ID, f.distributor.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)

	history, err = f.svc.GetOrderHistory(context.Background(), f.distributor.ID, f.retailer.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	history, err = f.svc.GetOrderHistory(context.Background(), f.distributor.ID, otherRetailer.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = f.svc.GetOrderHistory(context.Background(), f.manufacturer.ID, f.distributor.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	history, err = f.svc.GetOrderHistory(context.Background(), f.distributor.ID, f.manufacturer.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = f.svc.GetOrderHistory(context.Background(), f.retailer.ID, f.manufacturer.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	_, err = f.svc.GetOrderHistory(context.Background(), f.retailer.ID, otherRetailer.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	_, err = f.svc.GetOrderHistory(context.Background(), f.retailer.ID, uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}
