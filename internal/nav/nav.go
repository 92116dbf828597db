// Package nav maps high-level navigation intents onto state updates,
// announcements and notifications. Exactly one navigation entry is marked
// current at a time.
package nav

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"allyshop/internal/announce"
	"allyshop/internal/appstate"
	"allyshop/internal/catalog"
	"allyshop/internal/dom"
	"allyshop/internal/focus"
	"allyshop/internal/notify"
	"allyshop/internal/sched"
)

// DefaultRedirectDelay is the pause before focus moves to the login field
// when a gated destination redirects.
const DefaultRedirectDelay = time.Second

// pageIndex is the deliberately simplified mapping from page name to nav
// entry: home and products share the first entry.
var pageIndex = map[string]int{
	"home":     0,
	"products": 0,
	"cart":     1,
	"mypage":   2,
}

// Deps collects the navigation controller's collaborators.
type Deps struct {
	State     *appstate.State
	Announcer *announce.Announcer
	Notes     *notify.Center
	FocusCtl  *focus.Controller
	Scheduler sched.Scheduler

	// NavButtons are the navigation entries in order, passed explicitly.
	NavButtons []*dom.Element

	RedirectDelay time.Duration
	NoteDuration  time.Duration
}

// Controller routes navigation intents.
type Controller struct {
	mu sync.Mutex

	state     *appstate.State
	announcer *announce.Announcer
	notes     *notify.Center
	focusCtl  *focus.Controller
	scheduler sched.Scheduler

	navButtons    []*dom.Element
	currentPage   string
	redirectDelay time.Duration
	noteTTL       time.Duration

	pendingRedirect sched.Task
}

// NewController builds the navigation controller.
func NewController(deps Deps) *Controller {
	c := &Controller{
		state:         deps.State,
		announcer:     deps.Announcer,
		notes:         deps.Notes,
		focusCtl:      deps.FocusCtl,
		scheduler:     deps.Scheduler,
		navButtons:    deps.NavButtons,
		redirectDelay: deps.RedirectDelay,
		noteTTL:       deps.NoteDuration,
	}
	if c.redirectDelay == 0 {
		c.redirectDelay = DefaultRedirectDelay
	}
	if c.noteTTL == 0 {
		c.noteTTL = notify.DefaultDuration
	}
	return c
}

// GoHome navigates to the home page.
func (c *Controller) GoHome() {
	c.announcer.Announce("홈 페이지로 이동합니다.", announce.Polite)
	c.SetCurrent("home")
}

// ShowProducts navigates to the product list.
func (c *Controller) ShowProducts() {
	c.announcer.Announce("상품 목록 페이지로 이동합니다.", announce.Polite)
	c.SetCurrent("products")
}

// ShowCart navigates to the cart, describing its contents.
func (c *Controller) ShowCart() {
	summary := c.state.CartSummary()
	if summary.TotalItems == 0 {
		msg := "장바구니가 비어있습니다. 상품을 추가해보세요."
		c.announcer.Announce(msg, announce.Polite)
		c.notes.Show(msg, notify.Info, c.noteTTL)
	} else {
		msg := fmt.Sprintf("장바구니에 %d종류, 총 %d개 상품이 있습니다.", summary.UniqueItems, summary.TotalItems)
		c.announcer.Announce(msg, announce.Polite)
		c.notes.Show(msg, notify.Success, c.noteTTL)
	}
	c.SetCurrent("cart")
}

// ShowMyPage navigates to the account page. While logged out the intent is
// redirected: an assertive prompt, a warning notification and a scheduled
// focus transfer to the login field, with no page change.
func (c *Controller) ShowMyPage() {
	session := c.state.Session()
	if !session.LoggedIn {
		msg := "로그인이 필요합니다. 로그인 폼으로 이동합니다."
		c.announcer.Announce(msg, announce.Assertive)
		c.notes.Show(msg, notify.Warning, c.noteTTL)

		c.mu.Lock()
		if c.pendingRedirect != nil {
			c.pendingRedirect.Stop()
		}
		c.pendingRedirect = c.scheduler.After(c.redirectDelay, func() {
			c.focusCtl.FocusLocator("#username", focus.Silent())
		})
		c.mu.Unlock()
		return
	}

	c.announcer.Announce(fmt.Sprintf("%s님의 마이페이지로 이동합니다.", session.CurrentUser), announce.Polite)
	c.SetCurrent("mypage")
}

// ShowProduct announces a product detail view. Unknown ids are a logged
// no-op.
func (c *Controller) ShowProduct(productID int) error {
	p, err := c.state.Catalog().Get(productID)
	if err != nil {
		slog.Warn("nav_unknown_product", "product_id", productID)
		return err
	}
	c.announcer.Announce(
		fmt.Sprintf("%s 상세 페이지로 이동합니다. 가격: %s원", p.Name, catalog.FormatPrice(p.Price)),
		announce.Polite,
	)
	return nil
}

// ShowSale navigates to the sale page.
func (c *Controller) ShowSale() {
	c.announcer.Announce("특가 상품 페이지로 이동합니다.", announce.Polite)
	c.notes.Show("특가 페이지로 이동합니다!", notify.Info, c.noteTTL)
}

// ShowCoupon issues the demo coupon.
func (c *Controller) ShowCoupon() {
	c.announcer.Announce("쿠폰함으로 이동합니다.", announce.Polite)
	c.notes.Show("10% 할인 쿠폰이 발급되었습니다!", notify.Success, c.noteTTL)
}

// LoginWithGoogle announces the external login redirect.
func (c *Controller) LoginWithGoogle() {
	c.announcer.Announce("구글 계정으로 로그인을 시도합니다.", announce.Polite)
	c.notes.Show("구글 로그인 페이지로 이동합니다.", notify.Info, c.noteTTL)
}

// LoginWithKakao announces the external login redirect.
func (c *Controller) LoginWithKakao() {
	c.announcer.Announce("카카오 계정으로 로그인을 시도합니다.", announce.Polite)
	c.notes.Show("카카오 로그인 페이지로 이동합니다.", notify.Info, c.noteTTL)
}

// ShowSignup announces the signup destination.
func (c *Controller) ShowSignup() {
	c.announcer.Announce("회원가입 페이지로 이동합니다.", announce.Polite)
}

// ShowFindPassword announces the password recovery destination.
func (c *Controller) ShowFindPassword() {
	c.announcer.Announce("비밀번호 찾기 페이지로 이동합니다.", announce.Polite)
}

// Footer destinations. Some pages only announce, others also notify.

func (c *Controller) ShowTerms() {
	c.announcer.Announce("이용약관 페이지로 이동합니다.", announce.Polite)
}

func (c *Controller) ShowPrivacy() {
	c.announcer.Announce("개인정보처리방침 페이지로 이동합니다.", announce.Polite)
}

func (c *Controller) ShowContact() {
	c.announcer.Announce("고객센터 페이지로 이동합니다.", announce.Polite)
}

func (c *Controller) ShowAccessibilityPolicy() {
	c.announcer.Announce("웹 접근성 정책 페이지로 이동합니다.", announce.Polite)
}

func (c *Controller) ShowShippingInfo() {
	c.announceAndNotify("배송 안내 페이지로 이동합니다.", notify.Info)
}

func (c *Controller) ShowReturnInfo() {
	c.announceAndNotify("반품 및 교환 안내 페이지로 이동합니다.", notify.Info)
}

func (c *Controller) ShowPaymentInfo() {
	c.announceAndNotify("결제 방법 안내 페이지로 이동합니다.", notify.Info)
}

func (c *Controller) ShowFAQ() {
	c.announceAndNotify("자주 묻는 질문 페이지로 이동합니다.", notify.Info)
}

func (c *Controller) ShowScreenReaderHelp() {
	c.announceAndNotify("스크린 리더 도움말 페이지로 이동합니다.", notify.Info)
}

// ShowAccessibilityGuide announces the guide document.
func (c *Controller) ShowAccessibilityGuide() {
	c.announcer.Announce("접근성 가이드 문서로 이동합니다.", announce.Polite)
	c.notes.Show("접근성 가이드 페이지로 이동합니다.", notify.Info, c.noteTTL)
}

// ReportAccessibilityIssue opens the issue-report intent assertively.
func (c *Controller) ReportAccessibilityIssue() {
	c.announcer.Announce("접근성 문제 신고 양식으로 이동합니다. 불편 사항을 자세히 작성해 주세요.", announce.Assertive)
	c.notes.Show("접근성 문제 신고 페이지로 이동합니다.", notify.Warning, c.noteTTL)
}

func (c *Controller) announceAndNotify(msg string, severity notify.Severity) {
	c.announcer.Announce(msg, announce.Polite)
	c.notes.Show(msg, severity, c.noteTTL)
}

// CurrentPage returns the page currently marked current.
func (c *Controller) CurrentPage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// SetCurrent marks the navigation entry for page as current and clears the
// rest. Pages without an entry leave every entry unmarked.
func (c *Controller) SetCurrent(page string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, btn := range c.navButtons {
		btn.SetAttribute("aria-current", "false")
	}
	if idx, ok := pageIndex[page]; ok && idx < len(c.navButtons) {
		c.navButtons[idx].SetAttribute("aria-current", "page")
	}
	c.currentPage = page
}
