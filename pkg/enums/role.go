package enums

import "fmt"

// Role is the marketplace role a user acts under.
type Role string

const (
	RoleRetailer     Role = "retailer"
	RoleDistributor  Role = "distributor"
	RoleManufacturer Role = "manufacturer"
)

var validRoles = []Role{
	RoleRetailer,
	RoleDistributor,
	RoleManufacturer,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
