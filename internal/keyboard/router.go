// Package keyboard maps global key chords onto navigation and search
// actions, handles Enter inside form fields and bridges Tab events into the
// focus trap.
package keyboard

import (
	"log/slog"
	"strings"

	"allyshop/internal/announce"
	"allyshop/internal/dom"
	"allyshop/internal/focus"
	"allyshop/internal/nav"
	"allyshop/internal/notify"
	"allyshop/internal/search"
)

// Event is one key press with its modifier state.
type Event struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
}

// shortcutHelp is the text behind Alt+H.
var shortcutHelp = []string{
	"Ctrl + K: 검색창 열기",
	"Alt + 1, 2, 3: 메뉴 바로가기",
	"Tab / Shift + Tab: 요소 간 이동",
	"Enter / Space: 버튼 실행",
	"Escape: 닫기/취소",
}

// Deps collects the router's collaborators.
type Deps struct {
	Doc       *dom.Document
	Nav       *nav.Controller
	Search    *search.Controller
	FocusCtl  *focus.Controller
	Announcer *announce.Announcer
	Notes     *notify.Center
}

// Router dispatches global key chords. A true return means the event was
// consumed and default handling must be suppressed.
type Router struct {
	doc       *dom.Document
	nav       *nav.Controller
	search    *search.Controller
	focusCtl  *focus.Controller
	announcer *announce.Announcer
	notes     *notify.Center

	navActions []func()
}

// NewRouter builds the router. Alt+1..3 invoke home, cart and my-page in
// that order.
func NewRouter(deps Deps) *Router {
	r := &Router{
		doc:       deps.Doc,
		nav:       deps.Nav,
		search:    deps.Search,
		focusCtl:  deps.FocusCtl,
		announcer: deps.Announcer,
		notes:     deps.Notes,
	}
	r.navActions = []func(){r.nav.GoHome, r.nav.ShowCart, r.nav.ShowMyPage}
	return r
}

// HandleGlobal routes a document-level key press.
func (r *Router) HandleGlobal(ev Event) bool {
	if ev.Ctrl && strings.EqualFold(ev.Key, "k") {
		// Idempotent: Ctrl+K while the search form is open does nothing but
		// still consumes the chord.
		if !r.search.Visible() {
			r.search.Toggle()
		}
		return true
	}

	if ev.Alt {
		switch ev.Key {
		case "1", "2", "3":
			idx := int(ev.Key[0] - '1')
			if idx < len(r.navActions) {
				r.navActions[idx]()
			}
			return true
		}
		if strings.EqualFold(ev.Key, "h") {
			r.ShowShortcuts()
			return true
		}
	}

	if ev.Key == "Escape" && r.search.Visible() {
		r.search.Toggle()
		return true
	}

	return false
}

// HandleFieldEnter handles Enter inside an input. Inside the search field it
// runs the search; elsewhere it advances focus to the next focusable element
// of the same form. Submit inputs keep their default behavior.
func (r *Router) HandleFieldEnter(input *dom.Element) bool {
	if t, _ := input.Attribute("type"); t == "submit" {
		return false
	}

	if input.ID() == "search-input" {
		r.search.Perform()
		return true
	}

	form := input.Closest("form")
	if form == nil {
		return false
	}

	focusables := r.doc.FocusableWithin(form)
	for i, el := range focusables {
		if el == input {
			if i+1 < len(focusables) {
				r.doc.Focus(focusables[i+1])
				return true
			}
			break
		}
	}
	return false
}

// HandleTrap keeps Tab cycling inside a container. Non-Tab keys pass
// through.
func (r *Router) HandleTrap(container *dom.Element, ev Event) bool {
	if ev.Key != "Tab" {
		return false
	}
	return r.focusCtl.Trap(container, ev.Shift)
}

// ShowShortcuts announces the chord list and posts an informational
// notification.
func (r *Router) ShowShortcuts() {
	r.announcer.Announce("키보드 단축키: "+strings.Join(shortcutHelp, ", "), announce.Polite)
	r.notes.Show("키보드 단축키가 안내되었습니다.", notify.Info, notify.DefaultDuration)
	slog.Info("keyboard_shortcuts_shown", "count", len(shortcutHelp))
}
