package storefront

import (
	"testing"

	"github.com/fusionwear/storefront/internal/browse"
	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductCardDiscountAndLowStock(t *testing.T) {
	p := catalog.Product{ID: "p3", Name: "Linen Shirt", Price: "₹1,500", OriginalPrice: "₹2,000", ImageURL: "x"}
	card := NewProductCard(p, true)
	assert.Equal(t, "25% discount", card.DiscountLabel)
	assert.Equal(t, "₹2,000", card.OriginalPrice)
	assert.Equal(t, catalog.LowStockLabel, card.LowStockLabel)
	assert.True(t, card.InWishlist)

	p = catalog.Product{ID: "p4", Name: "Tee", Price: "₹500", OriginalPrice: "₹400", ImageURL: "x"}
	card = NewProductCard(p, false)
	assert.Empty(t, card.DiscountLabel)
	assert.Empty(t, card.OriginalPrice, "original price hidden without a markdown")
	assert.Empty(t, card.LowStockLabel)
}

func TestRenderViewModel(t *testing.T) {
	cat, _ := catalog.New([]catalog.Product{tee("p1", "₹100"), tee("p2", "₹250")})
	s := State{
		Cart:           []CartLine{{Product: tee("p1", "₹100"), Quantity: 3}, {Product: tee("p2", "₹1,250"), Quantity: 1}},
		Wishlist:       []catalog.Product{tee("p2", "₹250")},
		RecentlyViewed: []string{"p2", "ghost", "p1"},
		Pending:        ConfirmCart,
	}

	vm := Render(s, cat)
	assert.Equal(t, 4, vm.CartCount)
	assert.Equal(t, 1, vm.WishlistCount)
	assert.Equal(t, "₹1,550", vm.Subtotal)
	require.Len(t, vm.Cart, 2)
	assert.Equal(t, "₹300", vm.Cart[0].LineTotal)
	assert.False(t, vm.CartEmpty)
	require.Len(t, vm.RecentlyViewed, 2)
	assert.Equal(t, "p2", vm.RecentlyViewed[0].ID)
	assert.True(t, vm.RecentlyViewed[0].InWishlist)
	assert.Equal(t, "Clear all items from your cart?", vm.ConfirmPrompt)
}

func TestRenderEmptyStateWithoutCatalog(t *testing.T) {
	vm := Render(State{RecentlyViewed: []string{"p1"}}, nil)
	assert.True(t, vm.CartEmpty)
	assert.True(t, vm.WishlistEmpty)
	assert.Equal(t, "₹0", vm.Subtotal)
	assert.Empty(t, vm.RecentlyViewed)
	assert.Empty(t, vm.ConfirmPrompt)
}

func TestRenderListing(t *testing.T) {
	cat, _ := catalog.New([]catalog.Product{tee("p1", "₹100"), tee("p2", "₹50")})
	view := RenderListing(cat, browse.Query{Collection: "Daily Wear", Sort: enums.SortKeyPriceAsc}, State{Wishlist: []catalog.Product{tee("p1", "₹100")}})
	require.Len(t, view.Cards, 2)
	assert.Equal(t, "p2", view.Cards[0].ID)
	assert.True(t, view.Cards[1].InWishlist)
	assert.Empty(t, view.Message)

	view = RenderListing(cat, browse.Query{Collection: "Nope"}, State{})
	assert.Empty(t, view.Cards)
	assert.Equal(t, browse.EmptyMessage, view.Message)

	view = RenderListing(nil, browse.Query{}, State{})
	assert.Equal(t, catalog.UnavailableMessage, view.Message)
}
