// Package storefront owns the shopper's cart, wishlist and recently viewed
// tray. A single Controller mutates the State; presentation layers observe it
// through a Presenter and the pure Render function.
package storefront

import (
	"slices"

	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/pricing"
	"github.com/fusionwear/storefront/internal/state"
	"github.com/shopspring/decimal"
)

// CartLine re-exports the persisted cart line.
type CartLine = state.CartLine

// State is a read-only copy of the shopper's collections.
type State struct {
	Cart           []CartLine
	Wishlist       []catalog.Product
	RecentlyViewed []string
	Pending        ConfirmTarget
}

func fromSnapshot(s state.Snapshot) State {
	return State{
		Cart:           s.Cart,
		Wishlist:       s.Wishlist,
		RecentlyViewed: s.RecentlyViewed,
	}
}

func (s State) snapshot() state.Snapshot {
	return state.Snapshot{
		Cart:           s.Cart,
		Wishlist:       s.Wishlist,
		RecentlyViewed: s.RecentlyViewed,
	}
}

func (s State) clone() State {
	return State{
		Cart:           slices.Clone(s.Cart),
		Wishlist:       slices.Clone(s.Wishlist),
		RecentlyViewed: slices.Clone(s.RecentlyViewed),
		Pending:        s.Pending,
	}
}

// CartItemCount sums line quantities.
func (s State) CartItemCount() int {
	total := 0
	for _, line := range s.Cart {
		total += line.Quantity
	}
	return total
}

// WishlistItemCount counts wishlist entries.
func (s State) WishlistItemCount() int {
	return len(s.Wishlist)
}

// Subtotal prices each line with the display price captured when it was
// added. Unparseable prices count as zero.
func (s State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Cart {
		total = total.Add(LineTotal(line))
	}
	return total
}

// LineTotal is unit price times quantity.
func LineTotal(line CartLine) decimal.Decimal {
	return pricing.Amount(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// InWishlist reports whether id is wishlisted.
func (s State) InWishlist(id string) bool {
	return slices.ContainsFunc(s.Wishlist, func(p catalog.Product) bool { return p.ID == id })
}

// ResolveViewed maps the recently viewed ids through the catalog, dropping
// ids the catalog no longer has.
func (s State) ResolveViewed(c *catalog.Catalog) []catalog.Product {
	return c.Resolve(s.RecentlyViewed)
}

func (s State) cartIndex(id string) int {
	return slices.IndexFunc(s.Cart, func(l CartLine) bool { return l.ID == id })
}

func (s State) wishlistIndex(id string) int {
	return slices.IndexFunc(s.Wishlist, func(p catalog.Product) bool { return p.ID == id })
}

// bumpViewed moves id to the front and keeps at most state.MaxRecentlyViewed ids.
func bumpViewed(ids []string, id string) []string {
	out := make([]string, 0, state.MaxRecentlyViewed)
	out = append(out, id)
	for _, existing := range ids {
		if existing == id {
			continue
		}
		if len(out) == state.MaxRecentlyViewed {
			break
		}
		out = append(out, existing)
	}
	return out
}
