package enums

import "fmt"

// NoticeKind classifies the short confirmation shown after a shopper action.
type NoticeKind string

const (
	NoticeCartAdded       NoticeKind = "cart_added"
	NoticeWishlistAdded   NoticeKind = "wishlist_added"
	NoticeWishlistExists  NoticeKind = "wishlist_exists"
	NoticeCartCleared     NoticeKind = "cart_cleared"
	NoticeWishlistCleared NoticeKind = "wishlist_cleared"
)

var validNoticeKinds = []NoticeKind{
	NoticeCartAdded,
	NoticeWishlistAdded,
	NoticeWishlistExists,
	NoticeCartCleared,
	NoticeWishlistCleared,
}

// String implements fmt.Stringer.
func (n NoticeKind) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NoticeKind.
func (n NoticeKind) IsValid() bool {
	for _, candidate := range validNoticeKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNoticeKind converts raw input into a NoticeKind.
func ParseNoticeKind(value string) (NoticeKind, error) {
	for _, candidate := range validNoticeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notice kind %q", value)
}
