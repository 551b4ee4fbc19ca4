package browse

import (
	"strings"

	"github.com/fusionwear/storefront/pkg/enums"
)

// All disables a categorical filter.
const All = "all"

// Filter names, in display order.
const (
	FilterMaterial = "material"
	FilterPrice    = "price"
	FilterFeatures = "features"
)

// Query is the transient browse state owned by the presentation layer.
type Query struct {
	Collection string        `json:"collection"`
	SearchTerm string        `json:"searchTerm,omitempty"`
	Sort       enums.SortKey `json:"sort"`
	Material   string        `json:"material"`
	PriceRange string        `json:"priceRange"`
	Features   string        `json:"features"`
}

// ActiveFilter is a filter currently narrowing the listing.
type ActiveFilter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Normalized fills unset filters with All and an unset sort with the default.
func (q Query) Normalized() Query {
	q.Material = orAll(q.Material)
	q.PriceRange = orAll(q.PriceRange)
	q.Features = orAll(q.Features)
	if !q.Sort.IsValid() {
		q.Sort = enums.SortKeyDefault
	}
	return q
}

// ActiveFilters lists every filter not set to All.
func (q Query) ActiveFilters() []ActiveFilter {
	q = q.Normalized()
	var out []ActiveFilter
	for _, f := range []ActiveFilter{
		{Name: FilterMaterial, Value: q.Material},
		{Name: FilterPrice, Value: q.PriceRange},
		{Name: FilterFeatures, Value: q.Features},
	} {
		if f.Value != All {
			out = append(out, f)
		}
	}
	return out
}

// With sets the named filter. Unknown names leave the query unchanged.
func (q Query) With(name, value string) Query {
	value = orAll(value)
	switch name {
	case FilterMaterial:
		q.Material = value
	case FilterPrice, "priceRange":
		q.PriceRange = value
	case FilterFeatures:
		q.Features = value
	}
	return q.Normalized()
}

// Without resets one filter to All and leaves the others untouched.
func (q Query) Without(name string) Query {
	return q.With(name, All)
}

// ResetFilters clears search, sort and filters but stays in the collection.
func (q Query) ResetFilters() Query {
	return Query{Collection: q.Collection}.Normalized()
}

// Back leaves the collection and clears everything.
func (q Query) Back() Query {
	return Query{}.Normalized()
}

func orAll(value string) string {
	if strings.TrimSpace(value) == "" {
		return All
	}
	return value
}
