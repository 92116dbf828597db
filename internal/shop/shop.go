// Package shop wires the storefront UI core together: it builds the page
// scaffold on the rendering surface, connects every controller to the shared
// state and runs the startup sequence.
package shop

import (
	"fmt"
	"log/slog"
	"time"

	"allyshop/internal/announce"
	"allyshop/internal/appstate"
	"allyshop/internal/catalog"
	"allyshop/internal/config"
	"allyshop/internal/dom"
	"allyshop/internal/focus"
	"allyshop/internal/forms"
	"allyshop/internal/keyboard"
	"allyshop/internal/nav"
	"allyshop/internal/notify"
	"allyshop/internal/sched"
	"allyshop/internal/search"
	"allyshop/internal/store"
)

// Shop is the assembled UI core.
type Shop struct {
	Doc           *dom.Document
	Scheduler     sched.Scheduler
	Storage       store.Storage
	Catalog       *catalog.Catalog
	Announcer     *announce.Announcer
	Notifications *notify.Center
	State         *appstate.State
	Focus         *focus.Controller
	Forms         *forms.Validator
	Search        *search.Controller
	Nav           *nav.Controller
	Keyboard      *keyboard.Router

	greetingDelay   time.Duration
	pendingGreeting sched.Task

	// login form handles, held explicitly instead of re-queried
	usernameInput  *dom.Element
	passwordInput  *dom.Element
	passwordToggle *dom.Element
	passwordIcon   *dom.Element

	galleries map[int]productGallery
}

// productGallery holds one card's main image and its thumbnail buttons.
type productGallery struct {
	mainImage  *dom.Element
	thumbnails []*dom.Element
}

// New builds the whole core from injected capabilities. The document gets
// the storefront scaffold (navigation, search form, login form, tool
// buttons) so every controller has its handles.
func New(cfg *config.Config, doc *dom.Document, storage store.Storage, scheduler sched.Scheduler) *Shop {
	cat := catalog.New(cfg.Products)
	announcer := announce.New(doc, scheduler)
	notes := notify.NewCenter(doc, scheduler)

	noteTTL := time.Duration(cfg.Timing.NotificationDurationMs) * time.Millisecond

	state := appstate.New(appstate.Deps{
		Catalog:              cat,
		Announcer:            announcer,
		Notifications:        notes,
		Storage:              storage,
		Scheduler:            scheduler,
		Doc:                  doc,
		AuthDelay:            time.Duration(cfg.Timing.AuthDelayMs) * time.Millisecond,
		NotificationDuration: noteTTL,
	})

	focusCtl := focus.NewController(doc, announcer)
	validator := forms.NewValidator(doc, announcer, focusCtl, scheduler,
		time.Duration(cfg.Timing.ValidationFocusDelayMs)*time.Millisecond)

	s := &Shop{
		Doc:           doc,
		Scheduler:     scheduler,
		Storage:       storage,
		Catalog:       cat,
		Announcer:     announcer,
		Notifications: notes,
		State:         state,
		Focus:         focusCtl,
		Forms:         validator,
		greetingDelay: time.Duration(cfg.Timing.GreetingDelayMs) * time.Millisecond,
		galleries:     make(map[int]productGallery),
	}

	scaffold := s.buildPage()

	s.Search = search.NewController(search.Deps{
		State:           state,
		Announcer:       announcer,
		Notes:           notes,
		Validator:       validator,
		FocusCtl:        focusCtl,
		Scheduler:       scheduler,
		Button:          scaffold.searchButton,
		Form:            scaffold.searchForm,
		Input:           scaffold.searchInput,
		Suggestions:     cfg.Search.Suggestions,
		ResultCount:     func(string) int { return cat.Count() },
		Delay:           time.Duration(cfg.Timing.SearchDelayMs) * time.Millisecond,
		InputFocusDelay: time.Duration(cfg.Timing.SearchInputFocusDelayMs) * time.Millisecond,
		NoteDuration:    noteTTL,
	})

	s.Nav = nav.NewController(nav.Deps{
		State:         state,
		Announcer:     announcer,
		Notes:         notes,
		FocusCtl:      focusCtl,
		Scheduler:     scheduler,
		NavButtons:    scaffold.navButtons,
		RedirectDelay: time.Duration(cfg.Timing.RedirectFocusDelayMs) * time.Millisecond,
		NoteDuration:  noteTTL,
	})

	s.Keyboard = keyboard.NewRouter(keyboard.Deps{
		Doc:       doc,
		Nav:       s.Nav,
		Search:    s.Search,
		FocusCtl:  focusCtl,
		Announcer: announcer,
		Notes:     notes,
	})

	return s
}

// Start runs the startup sequence: restore persisted preferences, render
// the cart badge, mark home current and schedule the loaded greeting.
func (s *Shop) Start() {
	s.State.LoadPreferences()
	s.State.RefreshCartIndicator()
	s.Nav.SetCurrent("home")

	s.pendingGreeting = s.Scheduler.After(s.greetingDelay, func() {
		s.Announcer.Announce(
			"Ultimate A11Y 쇼핑몰 페이지가 완전히 로드되었습니다. "+
				"모든 고급 접근성 기능이 활성화되어 있습니다. "+
				"Alt+H를 눌러 키보드 단축키를 확인할 수 있습니다.",
			announce.Assertive,
		)
	})

	slog.Info("shop_started", "products", s.Catalog.Count())
}

// Stop cancels the pending startup greeting if it has not fired yet.
func (s *Shop) Stop() {
	if s.pendingGreeting != nil {
		s.pendingGreeting.Stop()
		s.pendingGreeting = nil
	}
}

// SubmitLogin validates the login form through the form validator (field
// marking, error count, deferred focus) and hands accepted credentials to
// the state owner.
func (s *Shop) SubmitLogin() error {
	username, _ := s.usernameInput.Attribute("value")
	password, _ := s.passwordInput.Attribute("value")

	failures := s.Forms.ValidateForm([]forms.Field{
		{ID: "username", Rules: []forms.Rule{
			forms.Required("이메일 주소를 입력해주세요."),
			forms.Email("올바른 이메일 주소 형식이 아닙니다."),
		}},
		{ID: "password", Rules: []forms.Rule{
			forms.Required("비밀번호를 입력해주세요."),
			forms.MinLength(8, "비밀번호는 8자 이상이어야 합니다."),
		}},
	})
	if len(failures) > 0 {
		errs := make(appstate.FieldErrors, len(failures))
		for i, f := range failures {
			errs[i] = appstate.FieldError{Field: f.Field, Message: f.Message}
		}
		return errs
	}

	return s.State.Login(username, password)
}

// TogglePasswordVisibility flips the password field between masked and
// visible, keeping the toggle button's state in sync.
func (s *Shop) TogglePasswordVisibility() {
	t, _ := s.passwordInput.Attribute("type")
	visible := t == "text"

	if visible {
		s.passwordInput.SetAttribute("type", "password")
		s.passwordToggle.SetAttribute("aria-pressed", "false")
		s.passwordToggle.SetAttribute("aria-label", "비밀번호 보기")
		s.passwordIcon.SetText("👁️")
		s.Announcer.Announce("비밀번호가 숨겨졌습니다.", announce.Polite)
	} else {
		s.passwordInput.SetAttribute("type", "text")
		s.passwordToggle.SetAttribute("aria-pressed", "true")
		s.passwordToggle.SetAttribute("aria-label", "비밀번호 숨기기")
		s.passwordIcon.SetText("🙈")
		s.Announcer.Announce("비밀번호가 표시됩니다.", announce.Polite)
	}
}

// ChangeProductImage switches a product card's main image to the thumbnail
// at imageIndex (0-based), tracks the active thumbnail's pressed state and
// announces the change. Unknown products and out-of-range indexes are a
// silent no-op.
func (s *Shop) ChangeProductImage(productID, imageIndex int) {
	g, ok := s.galleries[productID]
	if !ok || imageIndex < 0 || imageIndex >= len(g.thumbnails) {
		return
	}

	p, err := s.Catalog.Get(productID)
	if err != nil {
		return
	}

	var thumbImg *dom.Element
	for _, child := range g.thumbnails[imageIndex].Children() {
		if child.Tag() == "img" {
			thumbImg = child
			break
		}
	}
	if thumbImg == nil {
		return
	}

	src, _ := thumbImg.Attribute("src")
	g.mainImage.SetAttribute("src", src)
	g.mainImage.SetAttribute("alt", fmt.Sprintf("%s 이미지 %d", p.Name, imageIndex+1))

	for i, btn := range g.thumbnails {
		if i == imageIndex {
			btn.AddClass("active")
			btn.SetAttribute("aria-pressed", "true")
		} else {
			btn.RemoveClass("active")
			btn.SetAttribute("aria-pressed", "false")
		}
	}

	s.Announcer.Announce(fmt.Sprintf("상품 이미지 %d번으로 변경되었습니다.", imageIndex+1), announce.Polite)
}

// ReportPanic is the last line of defense for otherwise-uncaught faults: log
// the fault, announce a generic recovery prompt and show an error
// notification. It never rethrows.
func (s *Shop) ReportPanic(v any) {
	slog.Error("runtime_fault", "panic", v)
	s.Announcer.Announce("일시적인 오류가 발생했습니다. 페이지를 새로고침해 주세요.", announce.Assertive)
	s.Notifications.Show("오류가 발생했습니다. 다시 시도해 주세요.", notify.Error, notify.DefaultDuration)
}
