package server

import (
	"allyshop/internal/announce"
	"allyshop/internal/appstate"
	"allyshop/internal/catalog"
	"allyshop/internal/notify"
)

// MockStorefront is a mock implementation of Storefront for testing
type MockStorefront struct {
	Summary     appstate.CartSummary
	AddErr      error
	ToggleErr   error
	RestockErr  error
	LoginErr    error
	Sess        appstate.Session
	Wishlist    map[int]bool
	LastLogin   string
	LoggedOut   bool
	LastCartAdd int
	LastRestock int
}

func NewMockStorefront() *MockStorefront {
	return &MockStorefront{Wishlist: make(map[int]bool)}
}

func (m *MockStorefront) AddToCart(productID int) (appstate.CartSummary, error) {
	if m.AddErr != nil {
		return appstate.CartSummary{}, m.AddErr
	}
	m.LastCartAdd = productID
	m.Summary.TotalItems++
	return m.Summary, nil
}

func (m *MockStorefront) CartSummary() appstate.CartSummary {
	return m.Summary
}

func (m *MockStorefront) ToggleWishlist(productID int) (bool, error) {
	if m.ToggleErr != nil {
		return false, m.ToggleErr
	}
	m.Wishlist[productID] = !m.Wishlist[productID]
	return m.Wishlist[productID], nil
}

func (m *MockStorefront) InWishlist(productID int) bool {
	return m.Wishlist[productID]
}

func (m *MockStorefront) RequestRestock(productID int) error {
	if m.RestockErr != nil {
		return m.RestockErr
	}
	m.LastRestock = productID
	return nil
}

func (m *MockStorefront) Login(username, password string) error {
	if m.LoginErr != nil {
		return m.LoginErr
	}
	m.LastLogin = username
	return nil
}

func (m *MockStorefront) Logout() {
	m.LoggedOut = true
	m.Sess = appstate.Session{}
}

func (m *MockStorefront) Session() appstate.Session {
	return m.Sess
}

// MockSearchRunner is a mock implementation of SearchRunner for testing
type MockSearchRunner struct {
	Queries []string
	Words   []string
}

func (m *MockSearchRunner) PerformQuery(query string) {
	m.Queries = append(m.Queries, query)
}

func (m *MockSearchRunner) Suggestions() []string {
	return m.Words
}

// MockNotificationFeed is a mock implementation of NotificationFeed for testing
type MockNotificationFeed struct {
	Notifications []notify.Notification
}

func (m *MockNotificationFeed) Active() []notify.Notification {
	// Newest first, like the real center
	result := make([]notify.Notification, len(m.Notifications))
	for i, n := range m.Notifications {
		result[len(m.Notifications)-1-i] = n
	}
	return result
}

func (m *MockNotificationFeed) Count() int {
	return len(m.Notifications)
}

// MockAnnouncementFeed is a mock implementation of AnnouncementFeed for testing
type MockAnnouncementFeed struct {
	Messages []announce.Message
}

func (m *MockAnnouncementFeed) Delivered() []announce.Message {
	return m.Messages
}

// MockProductSource is a mock implementation of ProductSource for testing
type MockProductSource struct {
	Products []catalog.Product
}

func (m *MockProductSource) All() []catalog.Product {
	return m.Products
}

func (m *MockProductSource) Get(id int) (catalog.Product, error) {
	for _, p := range m.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrProductNotFound
}
