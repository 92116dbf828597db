// Package appstate is the single owner of the storefront's mutable state:
// cart, wishlist, auth session, search visibility and accessibility
// preferences. Every other component reads and mutates it only through the
// operations here. Each mutating operation issues its screen-reader
// announcement before its visual notification, so observers see a fixed
// order per user action.
package appstate

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"allyshop/internal/announce"
	"allyshop/internal/catalog"
	"allyshop/internal/dom"
	"allyshop/internal/notify"
	"allyshop/internal/sched"
	"allyshop/internal/store"
)

// ErrOutOfStock aborts AddToCart for a product with no stock.
var ErrOutOfStock = errors.New("product out of stock")

// Session is the auth state. Zero value means logged out.
type Session struct {
	LoggedIn    bool
	CurrentUser string
}

// CartSummary describes the cart after a mutation.
type CartSummary struct {
	TotalItems  int
	UniqueItems int
	TotalPrice  int
}

// Deps collects the collaborators State needs.
type Deps struct {
	Catalog       *catalog.Catalog
	Announcer     *announce.Announcer
	Notifications *notify.Center
	Storage       store.Storage
	Scheduler     sched.Scheduler
	Doc           *dom.Document

	// AuthDelay is the simulated backend latency for login; zero falls back
	// to one second.
	AuthDelay time.Duration
	// NotificationDuration is how long feedback notifications stay visible;
	// zero falls back to notify.DefaultDuration.
	NotificationDuration time.Duration
}

// State holds the storefront's state. Mutations are serialized by a mutex so
// each operation is atomic with respect to the action it belongs to.
type State struct {
	mu sync.Mutex

	catalog   *catalog.Catalog
	announcer *announce.Announcer
	notes     *notify.Center
	storage   store.Storage
	scheduler sched.Scheduler
	doc       *dom.Document

	authDelay time.Duration
	noteTTL   time.Duration

	cart          []int
	wishlist      map[int]bool
	wishlistBtns  map[int]*dom.Element
	session       Session
	searchVisible bool
	prefs         Preferences
	pendingAuth   sched.Task
}

// New creates the state owner. Fields of deps other than the delays are
// required.
func New(deps Deps) *State {
	authDelay := deps.AuthDelay
	if authDelay == 0 {
		authDelay = time.Second
	}
	noteTTL := deps.NotificationDuration
	if noteTTL == 0 {
		noteTTL = notify.DefaultDuration
	}
	return &State{
		catalog:      deps.Catalog,
		announcer:    deps.Announcer,
		notes:        deps.Notifications,
		storage:      deps.Storage,
		scheduler:    deps.Scheduler,
		doc:          deps.Doc,
		authDelay:    authDelay,
		noteTTL:      noteTTL,
		wishlist:     make(map[int]bool),
		wishlistBtns: make(map[int]*dom.Element),
	}
}

// AddToCart appends a product to the cart. Unknown ids are a logged no-op;
// out-of-stock products abort with an assertive announcement and an error
// notification.
func (s *State) AddToCart(productID int) (CartSummary, error) {
	p, err := s.catalog.Get(productID)
	if err != nil {
		slog.Warn("cart_unknown_product", "product_id", productID)
		return CartSummary{}, err
	}

	if p.Stock <= 0 {
		msg := fmt.Sprintf("%s은(는) 현재 품절된 상품입니다.", p.Name)
		s.announcer.Announce(msg, announce.Assertive)
		s.notes.Show(msg, notify.Error, s.noteTTL)
		return CartSummary{}, ErrOutOfStock
	}

	s.mu.Lock()
	s.cart = append(s.cart, productID)
	summary := s.summaryLocked()
	s.mu.Unlock()

	msg := fmt.Sprintf("%s이(가) 장바구니에 추가되었습니다. 현재 %d개 상품이 담겨있습니다.", p.Name, summary.TotalItems)
	s.announcer.Announce(msg, announce.Polite)
	s.refreshCartIndicator(summary.TotalItems)
	s.notes.Show(msg, notify.Success, s.noteTTL)

	return summary, nil
}

// CartSummary computes the current cart summary without mutating anything.
func (s *State) CartSummary() CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// summaryLocked tolerates cart entries whose product no longer exists: they
// still count toward totals but contribute nothing to the price sum.
func (s *State) summaryLocked() CartSummary {
	unique := make(map[int]bool, len(s.cart))
	total := 0
	for _, id := range s.cart {
		unique[id] = true
		if p, err := s.catalog.Get(id); err == nil {
			total += p.Price
		}
	}
	return CartSummary{
		TotalItems:  len(s.cart),
		UniqueItems: len(unique),
		TotalPrice:  total,
	}
}

// ToggleWishlist flips wishlist membership and returns the new membership.
// Unknown ids are a logged no-op.
func (s *State) ToggleWishlist(productID int) (bool, error) {
	p, err := s.catalog.Get(productID)
	if err != nil {
		slog.Warn("wishlist_unknown_product", "product_id", productID)
		return false, err
	}

	s.mu.Lock()
	inWishlist := !s.wishlist[productID]
	if inWishlist {
		s.wishlist[productID] = true
	} else {
		delete(s.wishlist, productID)
	}
	btn := s.wishlistBtns[productID]
	s.mu.Unlock()

	if btn != nil {
		btn.SetAttribute("aria-pressed", strconv.FormatBool(inWishlist))
		if inWishlist {
			btn.SetAttribute("aria-label", fmt.Sprintf("%s 위시리스트에서 제거", p.Name))
		} else {
			btn.SetAttribute("aria-label", fmt.Sprintf("%s 위시리스트에 추가", p.Name))
		}
	}

	if inWishlist {
		s.announcer.Announce(fmt.Sprintf("%s이(가) 위시리스트에 추가되었습니다.", p.Name), announce.Polite)
		s.notes.Show("위시리스트에 추가되었습니다", notify.Success, s.noteTTL)
	} else {
		s.announcer.Announce(fmt.Sprintf("%s이(가) 위시리스트에서 제거되었습니다.", p.Name), announce.Polite)
		s.notes.Show("위시리스트에서 제거되었습니다", notify.Info, s.noteTTL)
	}

	return inWishlist, nil
}

// InWishlist reports current membership.
func (s *State) InWishlist(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlist[productID]
}

// RegisterWishlistButton attaches the toggle button for a product so its
// pressed state tracks membership. Buttons are passed explicitly rather than
// discovered from document structure.
func (s *State) RegisterWishlistButton(productID int, btn *dom.Element) {
	s.mu.Lock()
	s.wishlistBtns[productID] = btn
	s.mu.Unlock()
}

// RequestRestock registers interest in an out-of-stock product.
func (s *State) RequestRestock(productID int) error {
	p, err := s.catalog.Get(productID)
	if err != nil {
		slog.Warn("restock_unknown_product", "product_id", productID)
		return err
	}
	msg := fmt.Sprintf("%s의 재입고 알림이 신청되었습니다. 재입고 시 알려드리겠습니다.", p.Name)
	s.announcer.Announce(msg, announce.Polite)
	s.notes.Show(msg, notify.Success, s.noteTTL)
	return nil
}

// Session returns the current auth session.
func (s *State) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SearchVisible reports whether the search form is open.
func (s *State) SearchVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchVisible
}

// SetSearchVisible records the search form's visibility.
func (s *State) SetSearchVisible(v bool) {
	s.mu.Lock()
	s.searchVisible = v
	s.mu.Unlock()
}

// Catalog exposes the read-only product collaborator.
func (s *State) Catalog() *catalog.Catalog {
	return s.catalog
}

// RefreshCartIndicator re-renders the cart count badge from current state.
func (s *State) RefreshCartIndicator() {
	s.mu.Lock()
	count := len(s.cart)
	s.mu.Unlock()
	s.refreshCartIndicator(count)
}

func (s *State) refreshCartIndicator(count int) {
	el := s.doc.ElementByID("cart-count")
	if el == nil {
		return
	}
	el.SetText(strconv.Itoa(count))
	if btn := el.Closest("button"); btn != nil {
		btn.SetAttribute("aria-label", fmt.Sprintf("장바구니 (%d개 상품)", count))
	}
	if count > 0 {
		el.SetAttribute("aria-live", "polite")
	} else {
		el.SetAttribute("aria-live", "off")
	}
}
