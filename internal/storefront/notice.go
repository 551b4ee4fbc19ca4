package storefront

import "github.com/fusionwear/storefront/pkg/enums"

// Notice is a short confirmation surfaced after an action (a toast in the web UI).
type Notice struct {
	Kind    enums.NoticeKind `json:"kind"`
	Message string           `json:"message"`
}

func cartAdded(name string) Notice {
	return Notice{Kind: enums.NoticeCartAdded, Message: name + " added to cart"}
}

func wishlistAdded(name string) Notice {
	return Notice{Kind: enums.NoticeWishlistAdded, Message: name + " added to wishlist"}
}

func wishlistExists(name string) Notice {
	return Notice{Kind: enums.NoticeWishlistExists, Message: name + " is already in your wishlist"}
}

func cleared(target ConfirmTarget) Notice {
	if target == ConfirmWishlist {
		return Notice{Kind: enums.NoticeWishlistCleared, Message: "Wishlist cleared"}
	}
	return Notice{Kind: enums.NoticeCartCleared, Message: "Cart cleared"}
}

// Presenter receives the state after every change plus any notices.
type Presenter interface {
	Refresh(State)
	Notify(Notice)
}

type nopPresenter struct{}

func (nopPresenter) Refresh(State) {}
func (nopPresenter) Notify(Notice) {}
