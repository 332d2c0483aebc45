package stats

import (
	"context"
	"fmt"

	"github.com/angelmondragon/tradelink-backend/internal/orders"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service reports per-role order, revenue and catalog counts.
type Service interface {
	// Summary returns the caller's tally, scoped the same way order listings are.
	Summary(ctx context.Context, userID uuid.UUID, role enums.Role) (*Summary, error)
}

type orderSummarizer interface {
	SummarizeOrders(ctx context.Context, filter orders.ListFilter) ([]orders.StatusSummary, error)
	ManufacturerItemRevenue(ctx context.Context, manufacturerID uuid.UUID) (decimal.Decimal, error)
}

type productCounter interface {
	CountByManufacturer(ctx context.Context, manufacturerID uuid.UUID) (int64, error)
}

type partnerCounter interface {
	CountApproved(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ServiceParams struct {
	Orders       orderSummarizer
	Products     productCounter
	Partnerships partnerCounter
}

type service struct {
	orders       orderSummarizer
	products     productCounter
	partnerships partnerCounter
}

func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if params.Partnerships == nil {
		return nil, fmt.Errorf("partnerships repository required")
	}
	return &service{
		orders:       params.Orders,
		products:     params.Products,
		partnerships: params.Partnerships,
	}, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID, role enums.Role) (*Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var filter orders.ListFilter
	switch role {
	case enums.RoleRetailer:
		filter.RetailerID = &userID
	case enums.RoleDistributor:
		filter.DistributorID = &userID
	case enums.RoleManufacturer:
		filter.ManufacturerID = &userID
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}

	rows, err := s.orders.SummarizeOrders(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summarize orders")
	}

	out := &Summary{}
	revenue := decimal.Zero
	for _, row := range rows {
		out.TotalOrders += row.OrderCount
		switch row.Status {
		case enums.OrderStatusPending:
			out.PendingOrders += row.OrderCount
		case enums.OrderStatusDelivered:
			out.CompletedOrders += row.OrderCount
		}
		if row.Status != enums.OrderStatusRejected {
			revenue = revenue.Add(row.Revenue)
		}
	}

	if role == enums.RoleManufacturer {
		// Whole-order totals include other manufacturers' lines.
		revenue, err = s.orders.ManufacturerItemRevenue(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum manufacturer revenue")
		}
		out.TotalProducts, err = s.products.CountByManufacturer(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
		}
	}
	out.TotalRevenue = revenue.StringFixed(2)

	out.ActivePartners, err = s.partnerships.CountApproved(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count partners")
	}
	return out, nil
}
