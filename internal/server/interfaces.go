package server

import (
	"allyshop/internal/announce"
	"allyshop/internal/appstate"
	"allyshop/internal/catalog"
	"allyshop/internal/notify"
)

// Storefront defines the state operations the HTTP layer drives.
type Storefront interface {
	AddToCart(productID int) (appstate.CartSummary, error)
	CartSummary() appstate.CartSummary
	ToggleWishlist(productID int) (bool, error)
	InWishlist(productID int) bool
	RequestRestock(productID int) error
	Login(username, password string) error
	Logout()
	Session() appstate.Session
}

// SearchRunner defines the interface for search execution
type SearchRunner interface {
	PerformQuery(query string)
	Suggestions() []string
}

// NotificationFeed defines the interface for reading visible notifications
type NotificationFeed interface {
	Active() []notify.Notification
	Count() int
}

// AnnouncementFeed defines the interface for reading delivered announcements
type AnnouncementFeed interface {
	Delivered() []announce.Message
}

// ProductSource defines the interface for catalog reads
type ProductSource interface {
	All() []catalog.Product
	Get(id int) (catalog.Product, error)
}
