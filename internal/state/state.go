// Package state loads and saves the shopper's cart, wishlist and recently
// viewed ids through a kv.Store.
package state

import (
	"context"
	"encoding/json"

	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/pkg/kv"
	"github.com/fusionwear/storefront/pkg/logger"
	"go.uber.org/multierr"
)

// Storage keys. They match what the storefront has always written so
// existing data keeps loading.
const (
	KeyCart           = "ris_cart"
	KeyWishlist       = "ris_wishlist"
	KeyRecentlyViewed = "recentlyViewed"

	// MaxRecentlyViewed bounds the recently viewed tray.
	MaxRecentlyViewed = 4
)

// CartLine is a product snapshot taken when it was added, plus a quantity.
type CartLine struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Snapshot is everything persisted for one shopper.
type Snapshot struct {
	Cart           []CartLine
	Wishlist       []catalog.Product
	RecentlyViewed []string
}

// Store reads and writes snapshots.
type Store struct {
	kv   kv.Store
	logg *logger.Logger
}

func New(store kv.Store, logg *logger.Logger) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{kv: store, logg: logg}
}

// Load never fails. A key that is missing, unreadable or malformed yields an
// empty collection without affecting the other two.
func (s *Store) Load(ctx context.Context) Snapshot {
	var snap Snapshot

	var cart []CartLine
	if s.read(ctx, KeyCart, &cart) {
		snap.Cart = sanitizeCart(cart)
	}
	var wishlist []catalog.Product
	if s.read(ctx, KeyWishlist, &wishlist) {
		snap.Wishlist = sanitizeWishlist(wishlist)
	}
	var viewed []string
	if s.read(ctx, KeyRecentlyViewed, &viewed) {
		snap.RecentlyViewed = sanitizeViewed(viewed)
	}

	if snap.Cart == nil {
		snap.Cart = []CartLine{}
	}
	if snap.Wishlist == nil {
		snap.Wishlist = []catalog.Product{}
	}
	if snap.RecentlyViewed == nil {
		snap.RecentlyViewed = []string{}
	}
	return snap
}

func (s *Store) read(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "key", key), "state.read_failed", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "state.corrupt_value_reset")
		return false
	}
	return true
}

// Save overwrites all three keys with full JSON blobs. Every key is attempted
// even when an earlier write fails.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	cart := snap.Cart
	if cart == nil {
		cart = []CartLine{}
	}
	wishlist := snap.Wishlist
	if wishlist == nil {
		wishlist = []catalog.Product{}
	}
	viewed := snap.RecentlyViewed
	if viewed == nil {
		viewed = []string{}
	}

	return multierr.Combine(
		s.write(ctx, KeyCart, cart),
		s.write(ctx, KeyWishlist, wishlist),
		s.write(ctx, KeyRecentlyViewed, viewed),
	)
}

func (s *Store) write(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(b))
}

func sanitizeCart(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.Product.Validate() != nil {
			continue
		}
		if _, dup := seen[line.ID]; dup {
			continue
		}
		seen[line.ID] = struct{}{}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		out = append(out, line)
	}
	return out
}

func sanitizeWishlist(products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.Validate() != nil {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func sanitizeViewed(ids []string) []string {
	out := make([]string, 0, MaxRecentlyViewed)
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == MaxRecentlyViewed {
			break
		}
	}
	return out
}
