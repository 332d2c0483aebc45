package orders

import (
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tradelink-backend/pkg/errors"
	"github.com/google/uuid"
)

// Caller is the resolved identity behind a request.
type Caller struct {
	UserID uuid.UUID
	Role   enums.Role
}

func callerFromUser(user *models.User) Caller {
	return Caller{UserID: user.ID, Role: user.Role}
}

// CanView reports whether the caller may read the order. Manufacturers need
// Items.Product loaded to be matched.
func CanView(caller Caller, order *models.Order) bool {
	if order == nil {
		return false
	}
	switch caller.Role {
	case enums.RoleRetailer:
		return order.RetailerID == caller.UserID
	case enums.RoleDistributor:
		return order.DistributorID == caller.UserID
	case enums.RoleManufacturer:
		return manufacturerOwnsItem(caller.UserID, order)
	default:
		return false
	}
}

// CanManage reports whether the caller may change status or delivery mode.
func CanManage(caller Caller, order *models.Order) bool {
	if order == nil {
		return false
	}
	switch caller.Role {
	case enums.RoleDistributor:
		return order.DistributorID == caller.UserID
	case enums.RoleRetailer, enums.RoleManufacturer:
		return false
	default:
		return false
	}
}

func manufacturerOwnsItem(manufacturerID uuid.UUID, order *models.Order) bool {
	for _, item := range order.Items {
		if item.Product != nil && item.Product.ManufacturerID == manufacturerID {
			return true
		}
	}
	return false
}

// listFilterFor maps a caller to the orders they can see in a listing.
func listFilterFor(caller Caller) (ListFilter, error) {
	id := caller.UserID
	switch caller.Role {
	case enums.RoleRetailer:
		return ListFilter{RetailerID: &id}, nil
	case enums.RoleDistributor:
		return ListFilter{DistributorID: &id}, nil
	case enums.RoleManufacturer:
		return ListFilter{ManufacturerID: &id}, nil
	default:
		return ListFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid user role")
	}
}

// historyFilterFor maps a caller/partner pair to the orders they share.
func historyFilterFor(caller Caller, partner Caller) (ListFilter, error) {
	callerID := caller.UserID
	partnerID := partner.UserID

	switch caller.Role {
	case enums.RoleRetailer:
		if partner.Role == enums.RoleDistributor {
			return ListFilter{RetailerID: &callerID, DistributorID: &partnerID}, nil
		}
	case enums.RoleDistributor:
		switch partner.Role {
		case enums.RoleRetailer:
			return ListFilter{DistributorID: &callerID, RetailerID: &partnerID}, nil
		case enums.RoleManufacturer:
			return ListFilter{DistributorID: &callerID, ManufacturerID: &partnerID}, nil
		}
	case enums.RoleManufacturer:
		if partner.Role == enums.RoleDistributor {
			return ListFilter{DistributorID: &partnerID, ManufacturerID: &callerID}, nil
		}
	}
	return ListFilter{}, pkgerrors.New(pkgerrors.CodeForbidden, "no order relationship between these roles")
}
