package enums

import "fmt"

// PartnershipStatus tracks a partnership request.
type PartnershipStatus string

const (
	PartnershipStatusPending  PartnershipStatus = "pending"
	PartnershipStatusApproved PartnershipStatus = "approved"
	PartnershipStatusRejected PartnershipStatus = "rejected"
)

var validPartnershipStatuses = []PartnershipStatus{
	PartnershipStatusPending,
	PartnershipStatusApproved,
	PartnershipStatusRejected,
}

func (p PartnershipStatus) String() string {
	return string(p)
}

func (p PartnershipStatus) IsValid() bool {
	for _, candidate := range validPartnershipStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsResponse reports whether the status can be set by the receiving partner.
func (p PartnershipStatus) IsResponse() bool {
	return p == PartnershipStatusApproved || p == PartnershipStatusRejected
}

func ParsePartnershipStatus(value string) (PartnershipStatus, error) {
	for _, candidate := range validPartnershipStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid partnership status %q", value)
}
