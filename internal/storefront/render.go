package storefront

import (
	"fmt"

	"github.com/fusionwear/storefront/internal/browse"
	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/pricing"
)

// ProductCard is the grid tile for a product.
type ProductCard struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice,omitempty"`
	DiscountLabel string `json:"discountLabel,omitempty"`
	ImageURL      string `json:"imageUrl"`
	Category      string `json:"category,omitempty"`
	Collection    string `json:"collection,omitempty"`
	LowStockLabel string `json:"lowStockLabel,omitempty"`
	InWishlist    bool   `json:"inWishlist"`
}

// NewProductCard renders p. The original price only shows with a discount.
func NewProductCard(p catalog.Product, inWishlist bool) ProductCard {
	card := ProductCard{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		ImageURL:   p.ImageURL,
		Category:   p.Category,
		Collection: p.Collection,
		InWishlist: inWishlist,
	}
	if pct, ok := pricing.DiscountPercent(p.Price, p.OriginalPrice); ok {
		card.OriginalPrice = p.OriginalPrice
		card.DiscountLabel = fmt.Sprintf("%d%% discount", pct)
	}
	if p.LowStock() {
		card.LowStockLabel = catalog.LowStockLabel
	}
	return card
}

// QuickView is the enlarged product modal.
type QuickView struct {
	ProductCard
	LargeImageURL string `json:"largeImageUrl"`
	Description   string `json:"description,omitempty"`
}

func NewQuickView(p catalog.Product, inWishlist bool) QuickView {
	return QuickView{
		ProductCard:   NewProductCard(p, inWishlist),
		LargeImageURL: p.QuickViewImageURL(),
		Description:   p.Description,
	}
}

// CartLineView is one cart row.
type CartLineView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	ImageURL  string `json:"imageUrl"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// ViewModel is everything a presentation layer needs to draw the drawers,
// badges and the recently viewed tray.
type ViewModel struct {
	CartCount      int            `json:"cartCount"`
	WishlistCount  int            `json:"wishlistCount"`
	Cart           []CartLineView `json:"cart"`
	CartEmpty      bool           `json:"cartEmpty"`
	Subtotal       string         `json:"subtotal"`
	Wishlist       []ProductCard  `json:"wishlist"`
	WishlistEmpty  bool           `json:"wishlistEmpty"`
	RecentlyViewed []ProductCard  `json:"recentlyViewed"`
	ConfirmPrompt  string         `json:"confirmPrompt,omitempty"`
}

// Render projects state into a view model. cat may be nil, in which case the
// recently viewed tray is empty.
func Render(s State, cat *catalog.Catalog) ViewModel {
	vm := ViewModel{
		CartCount:     s.CartItemCount(),
		WishlistCount: s.WishlistItemCount(),
		Cart:          make([]CartLineView, 0, len(s.Cart)),
		CartEmpty:     len(s.Cart) == 0,
		Subtotal:      pricing.Format(s.Subtotal()),
		Wishlist:      make([]ProductCard, 0, len(s.Wishlist)),
		WishlistEmpty: len(s.Wishlist) == 0,
		ConfirmPrompt: s.Pending.Prompt(),
	}
	for _, line := range s.Cart {
		vm.Cart = append(vm.Cart, CartLineView{
			ID:        line.ID,
			Name:      line.Name,
			Category:  line.Category,
			ImageURL:  line.ImageURL,
			Quantity:  line.Quantity,
			LineTotal: pricing.Format(LineTotal(line)),
		})
	}
	for _, p := range s.Wishlist {
		vm.Wishlist = append(vm.Wishlist, NewProductCard(p, true))
	}
	viewed := s.ResolveViewed(cat)
	vm.RecentlyViewed = make([]ProductCard, 0, len(viewed))
	for _, p := range viewed {
		vm.RecentlyViewed = append(vm.RecentlyViewed, NewProductCard(p, s.InWishlist(p.ID)))
	}
	return vm
}

// ListingView is the product grid for a browse query.
type ListingView struct {
	Query         browse.Query          `json:"query"`
	Cards         []ProductCard         `json:"cards"`
	ActiveFilters []browse.ActiveFilter `json:"activeFilters"`
	Message       string                `json:"message,omitempty"`
}

// RenderListing turns a browse listing into cards. A nil catalog renders
// the load failure message instead of a grid.
func RenderListing(cat *catalog.Catalog, q browse.Query, s State) ListingView {
	if cat == nil {
		return ListingView{Query: q.Normalized(), Cards: []ProductCard{}, ActiveFilters: []browse.ActiveFilter{}, Message: catalog.UnavailableMessage}
	}
	listing := browse.Run(cat, q)
	view := ListingView{
		Query:         listing.Query,
		Cards:         make([]ProductCard, 0, len(listing.Products)),
		ActiveFilters: listing.ActiveFilters,
		Message:       listing.Message,
	}
	for _, p := range listing.Products {
		view.Cards = append(view.Cards, NewProductCard(p, s.InWishlist(p.ID)))
	}
	return view
}
