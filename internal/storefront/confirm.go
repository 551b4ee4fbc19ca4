package storefront

// ConfirmTarget names the collection a pending confirmation would clear.
// The zero value means nothing is pending.
type ConfirmTarget string

const (
	ConfirmNone     ConfirmTarget = ""
	ConfirmCart     ConfirmTarget = "cart"
	ConfirmWishlist ConfirmTarget = "wishlist"
)

// Prompt is the question shown while the confirmation is pending.
func (t ConfirmTarget) Prompt() string {
	switch t {
	case ConfirmCart:
		return "Clear all items from your cart?"
	case ConfirmWishlist:
		return "Clear all items from your wishlist?"
	default:
		return ""
	}
}

// Outcome is how a confirmation request ended.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeCancelled Outcome = "cancelled"
)
