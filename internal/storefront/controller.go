package storefront

import (
	"context"

	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/state"
	"github.com/fusionwear/storefront/pkg/logger"
)

// Controller is the only writer of the shopper State. It persists after
// every mutation and then refreshes the presenter. It is not safe for
// concurrent use.
type Controller struct {
	store     *state.Store
	presenter Presenter
	logg      *logger.Logger
	st        State
}

// NewController hydrates state from store. A nil presenter is allowed.
func NewController(ctx context.Context, store *state.Store, presenter Presenter, logg *logger.Logger) *Controller {
	if presenter == nil {
		presenter = nopPresenter{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	c := &Controller{store: store, presenter: presenter, logg: logg}
	c.st = fromSnapshot(store.Load(ctx))
	c.presenter.Refresh(c.State())
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.st.clone()
}

func (c *Controller) CartItemCount() int {
	return c.st.CartItemCount()
}

func (c *Controller) WishlistItemCount() int {
	return c.st.WishlistItemCount()
}

// Pending reports the confirmation awaiting Confirm or Cancel.
func (c *Controller) Pending() ConfirmTarget {
	return c.st.Pending
}

// commit persists and refreshes. Save failures are logged: persisted state
// is advisory and the in-memory state stays authoritative for the session.
func (c *Controller) commit(ctx context.Context) {
	if err := c.store.Save(ctx, c.st.snapshot()); err != nil {
		c.logg.Error(ctx, "state.save_failed", err)
	}
	c.presenter.Refresh(c.State())
}

// AddToCart increments the line for p or appends a new one.
func (c *Controller) AddToCart(ctx context.Context, p catalog.Product) error {
	if err := p.Validate(); err != nil {
		c.logg.Warn(c.logg.WithProductID(ctx, p.ID), "storefront.invalid_product")
		return err
	}
	if i := c.st.cartIndex(p.ID); i >= 0 {
		c.st.Cart[i].Quantity++
	} else {
		c.st.Cart = append(c.st.Cart, CartLine{Product: p, Quantity: 1})
	}
	c.commit(ctx)
	c.presenter.Notify(cartAdded(p.Name))
	return nil
}

// RemoveFromCart drops the line for id if present.
func (c *Controller) RemoveFromCart(ctx context.Context, id string) {
	i := c.st.cartIndex(id)
	if i < 0 {
		return
	}
	c.st.Cart = append(c.st.Cart[:i:i], c.st.Cart[i+1:]...)
	c.commit(ctx)
}

func (c *Controller) IncreaseQuantity(ctx context.Context, id string) {
	i := c.st.cartIndex(id)
	if i < 0 {
		return
	}
	c.st.Cart[i].Quantity++
	c.commit(ctx)
}

// DecreaseQuantity removes the line instead of letting it reach zero.
func (c *Controller) DecreaseQuantity(ctx context.Context, id string) {
	i := c.st.cartIndex(id)
	if i < 0 {
		return
	}
	if c.st.Cart[i].Quantity-1 <= 0 {
		c.RemoveFromCart(ctx, id)
		return
	}
	c.st.Cart[i].Quantity--
	c.commit(ctx)
}

// ClearCart asks for confirmation. It reports whether a confirmation was
// opened; an empty cart opens nothing.
func (c *Controller) ClearCart() bool {
	return c.request(ConfirmCart, len(c.st.Cart))
}

// AddToWishlist reports false when p is already wishlisted.
func (c *Controller) AddToWishlist(ctx context.Context, p catalog.Product) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if c.st.wishlistIndex(p.ID) >= 0 {
		c.presenter.Notify(wishlistExists(p.Name))
		return false, nil
	}
	c.st.Wishlist = append(c.st.Wishlist, p)
	c.commit(ctx)
	c.presenter.Notify(wishlistAdded(p.Name))
	return true, nil
}

func (c *Controller) RemoveFromWishlist(ctx context.Context, id string) {
	i := c.st.wishlistIndex(id)
	if i < 0 {
		return
	}
	c.st.Wishlist = append(c.st.Wishlist[:i:i], c.st.Wishlist[i+1:]...)
	c.commit(ctx)
}

// MoveToCart adds the wishlisted product to the cart, then removes it from
// the wishlist. The two steps persist independently.
func (c *Controller) MoveToCart(ctx context.Context, id string) error {
	i := c.st.wishlistIndex(id)
	if i < 0 {
		return nil
	}
	p := c.st.Wishlist[i]
	if err := c.AddToCart(ctx, p); err != nil {
		return err
	}
	c.RemoveFromWishlist(ctx, id)
	return nil
}

func (c *Controller) ClearWishlist() bool {
	return c.request(ConfirmWishlist, len(c.st.Wishlist))
}

func (c *Controller) request(target ConfirmTarget, size int) bool {
	if size == 0 {
		return false
	}
	c.st.Pending = target
	c.presenter.Refresh(c.State())
	return true
}

// Confirm empties the pending target. It returns false when nothing is pending.
func (c *Controller) Confirm(ctx context.Context) bool {
	target := c.st.Pending
	if target == ConfirmNone {
		return false
	}
	c.st.Pending = ConfirmNone
	switch target {
	case ConfirmCart:
		c.st.Cart = []CartLine{}
	case ConfirmWishlist:
		c.st.Wishlist = []catalog.Product{}
	}
	c.logOutcome(ctx, target, OutcomeCommitted)
	c.commit(ctx)
	c.presenter.Notify(cleared(target))
	return true
}

// Cancel drops the pending confirmation without touching state.
func (c *Controller) Cancel(ctx context.Context) bool {
	target := c.st.Pending
	if target == ConfirmNone {
		return false
	}
	c.st.Pending = ConfirmNone
	c.logOutcome(ctx, target, OutcomeCancelled)
	c.presenter.Refresh(c.State())
	return true
}

func (c *Controller) logOutcome(ctx context.Context, target ConfirmTarget, outcome Outcome) {
	ctx = c.logg.WithFields(ctx, map[string]any{
		"target":  string(target),
		"outcome": string(outcome),
	})
	c.logg.Info(ctx, "storefront.confirmation")
}

// RecordView bumps id to the front of the recently viewed tray.
func (c *Controller) RecordView(ctx context.Context, id string) {
	if id == "" {
		return
	}
	c.st.RecentlyViewed = bumpViewed(c.st.RecentlyViewed, id)
	c.logg.Debug(c.logg.WithProductID(ctx, id), "storefront.product_viewed")
	c.commit(ctx)
}

// QuickView records the view and returns the enlarged product model.
func (c *Controller) QuickView(ctx context.Context, p catalog.Product) (QuickView, error) {
	if err := p.Validate(); err != nil {
		return QuickView{}, err
	}
	c.RecordView(ctx, p.ID)
	return NewQuickView(p, c.st.InWishlist(p.ID)), nil
}

// ResolveViewed returns the recently viewed products still in c.
func (c *Controller) ResolveViewed(cat *catalog.Catalog) []catalog.Product {
	return c.st.ResolveViewed(cat)
}
