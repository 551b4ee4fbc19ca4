package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fusionwear/storefront/pkg/enums"
)

func TestNormalizedFillsDefaults(t *testing.T) {
	q := Query{Collection: "Weekend Vibe", Sort: "bogus"}.Normalized()
	assert.Equal(t, All, q.Material)
	assert.Equal(t, All, q.PriceRange)
	assert.Equal(t, All, q.Features)
	assert.Equal(t, enums.SortKeyDefault, q.Sort)
}

func TestActiveFiltersOrderAndRemoval(t *testing.T) {
	q := Query{Collection: "Urban Edge", Material: "denim", PriceRange: "3000+", Features: "waterproof"}
	assert.Equal(t, []ActiveFilter{
		{Name: FilterMaterial, Value: "denim"},
		{Name: FilterPrice, Value: "3000+"},
		{Name: FilterFeatures, Value: "waterproof"},
	}, q.ActiveFilters())

	without := q.Without(FilterPrice)
	assert.Equal(t, "denim", without.Material)
	assert.Equal(t, All, without.PriceRange)
	assert.Equal(t, "waterproof", without.Features)
	assert.Len(t, without.ActiveFilters(), 2)

	assert.Equal(t, "3000+", q.PriceRange, "Without must not mutate the receiver")
}

func TestWithIgnoresUnknownFilter(t *testing.T) {
	q := Query{Collection: "Urban Edge"}.With("colour", "red")
	assert.Empty(t, q.ActiveFilters())
}

func TestResetFiltersKeepsCollection(t *testing.T) {
	q := Query{Collection: "Sun & Shade", SearchTerm: "hat", Sort: enums.SortKeyPriceDesc, Material: "straw"}
	reset := q.ResetFilters()
	assert.Equal(t, "Sun & Shade", reset.Collection)
	assert.Empty(t, reset.SearchTerm)
	assert.Equal(t, enums.SortKeyDefault, reset.Sort)
	assert.Empty(t, reset.ActiveFilters())

	back := q.Back()
	assert.Empty(t, back.Collection)
	assert.Empty(t, back.ActiveFilters())
}
