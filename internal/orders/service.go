package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/tradelink-backend/internal/notifications"
	"github.com/angelmondragon/tradelink-backend/pkg/db"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/angelmondragon/tradelink-backend/pkg/logger"
	"github.com/angelmondragon/tradelink-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the order engine: creation, role-scoped reads and distributor mutations.
type Service interface {
	CreateOrder(ctx context.Context, callerID uuid.UUID, input CreateOrderInput) (*Outcome, error)
	GetOrder(ctx context.Context, callerID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, callerID uuid.UUID) ([]models.Order, error)
	GetOrderHistory(ctx context.Context, callerID, partnerID uuid.UUID) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, callerID, orderID uuid.UUID, input UpdateStatusInput) (*Outcome, error)
	UpdateDeliveryMode(ctx context.Context, callerID, orderID uuid.UUID, mode string) (*Outcome, error)
}

// ServiceParams wires the engine dependencies.
type ServiceParams struct {
	Repo       Repository
	Users      UserDirectory
	Catalog    Catalog
	Tx         txRunner
	Dispatcher Dispatcher
	Logger     *logger.Logger
	Metrics    *metrics.OrderMetrics
	Now        func() time.Time
}

type service struct {
	repo       Repository
	users      UserDirectory
	catalog    Catalog
	tx         txRunner
	dispatcher Dispatcher
	logg       *logger.Logger
	metrics    *metrics.OrderMetrics
	now        func() time.Time
}

// NewService builds the order engine with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user directory required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		users:      params.Users,
		catalog:    params.Catalog,
		tx:         params.Tx,
		dispatcher: params.Dispatcher,
		logg:       params.Logger,
		metrics:    params.Metrics,
		now:        now,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, callerID uuid.UUID, input CreateOrderInput) (outcome *Outcome, err error) {
	started := s.now()
	defer func() {
		s.metrics.ObserveCreate(s.now().Sub(started), err)
	}()

	retailer, err := s.resolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if retailer.Role != enums.RoleRetailer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only retailers can create orders")
	}

	if err := s.ensureDistributor(ctx, input.DistributorID); err != nil {
		return nil, err
	}

	mode := enums.DeliveryModeDelivery
	if strings.TrimSpace(input.DeliveryMode) != "" {
		mode, err = parseDeliveryMode(input.DeliveryMode)
		if err != nil {
			return nil, err
		}
	}

	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	products, err := s.lookupProducts(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	number, err := NewOrderNumber(s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   number,
		RetailerID:    retailer.ID,
		DistributorID: input.DistributorID,
		Status:        enums.OrderStatusPending,
		DeliveryMode:  mode,
		Notes:         normalizeNotes(input.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	items, total := buildItems(order.ID, input.Items, now)
	order.TotalAmount = total

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range items {
		product := products[items[i].ProductID]
		items[i].Product = &product
	}
	order.Items = items

	pending := []notifications.Pending{{
		RecipientID: order.DistributorID,
		Kind:        enums.NotificationKindOrderAlert,
		Message:     FormatOrderAlert(retailer.DisplayName(), order.OrderNumber, order.TotalAmount, len(order.Items), order.DeliveryMode),
	}}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"order_number":   order.OrderNumber,
		"distributor_id": order.DistributorID.String(),
		"item_count":     len(order.Items),
	}), "order created")
	s.dispatch(logCtx, pending)

	return &Outcome{Order: order, Notifications: pending}, nil
}

func (s *service) GetOrder(ctx context.Context, callerID, orderID uuid.UUID) (*models.Order, error) {
	caller, err := s.resolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	if !CanView(callerFromUser(caller), order) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, callerID uuid.UUID) ([]models.Order, error) {
	caller, err := s.resolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	filter, err := listFilterFor(callerFromUser(caller))
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return orders, nil
}

func (s *service) GetOrderHistory(ctx context.Context, callerID, partnerID uuid.UUID) ([]models.Order, error) {
	caller, err := s.resolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if partnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}

	partner, err := s.users.FindByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load partner")
	}

	filter, err := historyFilterFor(callerFromUser(caller), callerFromUser(partner))
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list order history")
	}
	return orders, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, callerID, orderID uuid.UUID, input UpdateStatusInput) (*Outcome, error) {
	caller, err := s.resolveDistributor(ctx, callerID)
	if err != nil {
		return nil, err
	}

	status, err := enums.ParseOrderStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	var mode *enums.DeliveryMode
	if strings.TrimSpace(input.DeliveryMode) != "" {
		parsed, err := parseDeliveryMode(input.DeliveryMode)
		if err != nil {
			return nil, err
		}
		mode = &parsed
	}

	updates := map[string]any{"status": status}
	if mode != nil {
		updates["delivery_mode"] = *mode
	}
	order, err := s.applyUpdate(ctx, caller, orderID, updates)
	if err != nil {
		return nil, err
	}
	s.metrics.IncStatusUpdate(status.String())
	if mode != nil {
		s.metrics.IncDeliveryModeUpdate(mode.String())
	}

	pending := []notifications.Pending{{
		RecipientID: order.RetailerID,
		Kind:        enums.NotificationKindStatusUpdate,
		Message:     FormatStatusUpdate(order.OrderNumber, status),
	}}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "status", status.String()), "order status updated")
	s.dispatch(logCtx, pending)

	return &Outcome{Order: order, Notifications: pending}, nil
}

func (s *service) UpdateDeliveryMode(ctx context.Context, callerID, orderID uuid.UUID, rawMode string) (*Outcome, error) {
	caller, err := s.resolveDistributor(ctx, callerID)
	if err != nil {
		return nil, err
	}

	mode, err := parseDeliveryMode(rawMode)
	if err != nil {
		return nil, err
	}

	order, err := s.applyUpdate(ctx, caller, orderID, map[string]any{"delivery_mode": mode})
	if err != nil {
		return nil, err
	}
	s.metrics.IncDeliveryModeUpdate(mode.String())

	pending := []notifications.Pending{{
		RecipientID: order.RetailerID,
		Kind:        enums.NotificationKindDeliveryUpdate,
		Message:     FormatDeliveryUpdate(order.OrderNumber, mode),
	}}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "delivery_mode", mode.String()), "order delivery mode updated")
	s.dispatch(logCtx, pending)

	return &Outcome{Order: order, Notifications: pending}, nil
}

// applyUpdate loads, authorizes and updates the order in one transaction and
// returns the reloaded row.
func (s *service) applyUpdate(ctx context.Context, caller *models.User, orderID uuid.UUID, updates map[string]any) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if !CanManage(callerFromUser(caller), order) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to distributor")
		}

		updates["updated_at"] = s.now().UTC()
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
		}

		updated, err = s.loadOrder(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) loadOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) resolveCaller(ctx context.Context, callerID uuid.UUID) (*models.User, error) {
	if callerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is inactive")
	}
	return user, nil
}

func (s *service) resolveDistributor(ctx context.Context, callerID uuid.UUID) (*models.User, error) {
	caller, err := s.resolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != enums.RoleDistributor {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only distributors can update orders")
	}
	return caller, nil
}

func (s *service) ensureDistributor(ctx context.Context, distributorID uuid.UUID) error {
	if distributorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "distributor id required")
	}
	distributor, err := s.users.FindByID(ctx, distributorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid distributor")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load distributor")
	}
	if distributor.Role != enums.RoleDistributor {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid distributor")
	}
	return nil
}

func (s *service) lookupProducts(ctx context.Context, items []ItemInput) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id)).
				WithDetails(map[string]any{"productId": id.String()})
		}
	}
	return products, nil
}

func (s *service) dispatch(ctx context.Context, pending []notifications.Pending) {
	if err := s.dispatcher.Dispatch(ctx, pending); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "order notification dispatch failed")
	}
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for i, item := range items {
		details := map[string]any{"index": i}
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required").WithDetails(details)
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero").WithDetails(details)
		}
		if !item.UnitPrice.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit price must be greater than zero").WithDetails(details)
		}
	}
	return nil
}

func buildItems(orderID uuid.UUID, inputs []ItemInput, now time.Time) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(inputs))
	total := decimal.Zero
	for _, input := range inputs {
		lineTotal := input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, models.OrderItem{
			ID:         uuid.New(),
			OrderID:    orderID,
			ProductID:  input.ProductID,
			Quantity:   input.Quantity,
			UnitPrice:  input.UnitPrice,
			TotalPrice: lineTotal,
			CreatedAt:  now,
		})
	}
	return items, total
}

func parseDeliveryMode(raw string) (enums.DeliveryMode, error) {
	mode, err := enums.ParseDeliveryMode(strings.TrimSpace(raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery mode")
	}
	return mode, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
