package enums

import "fmt"

// SearchType is what a recorded search was looking for.
type SearchType string

const (
	SearchTypeProduct      SearchType = "product"
	SearchTypeManufacturer SearchType = "manufacturer"
	SearchTypeDistributor  SearchType = "distributor"
)

var validSearchTypes = []SearchType{
	SearchTypeProduct,
	SearchTypeManufacturer,
	SearchTypeDistributor,
}

func (s SearchType) String() string {
	return string(s)
}

func (s SearchType) IsValid() bool {
	for _, candidate := range validSearchTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseSearchType(value string) (SearchType, error) {
	for _, candidate := range validSearchTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid search type %q", value)
}
