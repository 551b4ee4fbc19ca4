// Package browse filters, searches and sorts catalog listings.
package browse

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/pricing"
	"github.com/fusionwear/storefront/pkg/enums"
)

// EmptyMessage is shown when a query matches nothing.
const EmptyMessage = "No products found matching your criteria."

// Listing is the result of running a query over the catalog.
type Listing struct {
	Query         Query             `json:"query"`
	Products      []catalog.Product `json:"products"`
	ActiveFilters []ActiveFilter    `json:"activeFilters"`
	Empty         bool              `json:"empty"`
	Message       string            `json:"message,omitempty"`
}

// Options lists the distinct filter values available inside a collection.
type Options struct {
	Materials   []string `json:"materials"`
	PriceRanges []string `json:"priceRanges"`
	Features    []string `json:"features"`
}

type ranked struct {
	product catalog.Product
	index   int
}

// ComputeVisible filters products by q and sorts the result stably. products
// must be in catalog order; ties keep that order.
func ComputeVisible(products []catalog.Product, q Query) []catalog.Product {
	q = q.Normalized()
	term := strings.TrimSpace(q.SearchTerm)
	folder := cases.Fold()
	if term != "" {
		term = folder.String(term)
	}

	matched := make([]ranked, 0, len(products))
	for i, p := range products {
		if p.Collection != q.Collection {
			continue
		}
		if !filterMatches(q.Material, p.Material()) ||
			!filterMatches(q.PriceRange, p.PriceRange()) ||
			!filterMatches(q.Features, p.Features()) {
			continue
		}
		if term != "" &&
			!strings.Contains(folder.String(p.Name), term) &&
			!strings.Contains(folder.String(p.Category), term) {
			continue
		}
		matched = append(matched, ranked{product: p, index: i})
	}

	slices.SortStableFunc(matched, comparator(q.Sort))

	out := make([]catalog.Product, len(matched))
	for i, r := range matched {
		out[i] = r.product
	}
	return out
}

// Run executes q against c and packages the result for display.
func Run(c *catalog.Catalog, q Query) Listing {
	q = q.Normalized()
	visible := ComputeVisible(c.Products(), q)
	listing := Listing{
		Query:         q,
		Products:      visible,
		ActiveFilters: q.ActiveFilters(),
		Empty:         len(visible) == 0,
	}
	if listing.Empty {
		listing.Message = EmptyMessage
	}
	return listing
}

// FilterOptions collects the filter values present in collection, in
// catalog order.
func FilterOptions(products []catalog.Product, collection string) Options {
	var opts Options
	seen := map[string]map[string]struct{}{
		FilterMaterial: {},
		FilterPrice:    {},
		FilterFeatures: {},
	}
	add := func(kind, value string, dst *[]string) {
		if value == "" {
			return
		}
		if _, ok := seen[kind][value]; ok {
			return
		}
		seen[kind][value] = struct{}{}
		*dst = append(*dst, value)
	}
	for _, p := range products {
		if p.Collection != collection {
			continue
		}
		add(FilterMaterial, p.Material(), &opts.Materials)
		add(FilterPrice, p.PriceRange(), &opts.PriceRanges)
		add(FilterFeatures, p.Features(), &opts.Features)
	}
	return opts
}

func filterMatches(want, have string) bool {
	return want == All || want == have
}

func comparator(key enums.SortKey) func(a, b ranked) int {
	byIndex := func(a, b ranked) int { return cmp.Compare(a.index, b.index) }

	switch key {
	case enums.SortKeyNameAsc, enums.SortKeyNameDesc:
		// collators are not safe for concurrent use
		col := collate.New(language.English, collate.IgnoreCase)
		sign := 1
		if key == enums.SortKeyNameDesc {
			sign = -1
		}
		return func(a, b ranked) int {
			return sign * col.CompareString(a.product.Name, b.product.Name)
		}
	case enums.SortKeyPriceAsc, enums.SortKeyPriceDesc:
		sign := 1
		if key == enums.SortKeyPriceDesc {
			sign = -1
		}
		return func(a, b ranked) int {
			return sign * pricing.Amount(a.product.Price).Cmp(pricing.Amount(b.product.Price))
		}
	default:
		return byIndex
	}
}
