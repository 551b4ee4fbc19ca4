package enums

import "fmt"

// SortKey selects the ordering of a product listing.
type SortKey string

const (
	SortKeyDefault   SortKey = "default"
	SortKeyNameAsc   SortKey = "name-asc"
	SortKeyNameDesc  SortKey = "name-desc"
	SortKeyPriceAsc  SortKey = "price-asc"
	SortKeyPriceDesc SortKey = "price-desc"
)

var validSortKeys = []SortKey{
	SortKeyDefault,
	SortKeyNameAsc,
	SortKeyNameDesc,
	SortKeyPriceAsc,
	SortKeyPriceDesc,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// SortKeys lists every supported sort key in display order.
func SortKeys() []SortKey {
	out := make([]SortKey, len(validSortKeys))
	copy(out, validSortKeys)
	return out
}

// ParseSortKey converts raw input into a SortKey. Empty input is the default order.
func ParseSortKey(value string) (SortKey, error) {
	if value == "" {
		return SortKeyDefault, nil
	}
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
