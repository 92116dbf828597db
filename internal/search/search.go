// Package search drives the search box: visibility toggling with the right
// ARIA state, and query execution against a simulated backend delay.
package search

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"allyshop/internal/announce"
	"allyshop/internal/appstate"
	"allyshop/internal/dom"
	"allyshop/internal/focus"
	"allyshop/internal/forms"
	"allyshop/internal/notify"
	"allyshop/internal/sched"
)

const (
	// DefaultDelay stands in for backend search latency.
	DefaultDelay = time.Second
	// DefaultInputFocusDelay lets the form unhide before focus lands in it.
	DefaultInputFocusDelay = 100 * time.Millisecond
)

// Deps collects the collaborators and element handles the controller needs.
// Handles are explicit; the controller never goes looking for them in the
// document.
type Deps struct {
	State     *appstate.State
	Announcer *announce.Announcer
	Notes     *notify.Center
	Validator *forms.Validator
	FocusCtl  *focus.Controller
	Scheduler sched.Scheduler

	Button *dom.Element // the open/close toggle
	Form   *dom.Element // the search form, hidden while closed
	Input  *dom.Element // the query input, id "search-input"

	Suggestions []string
	ResultCount func(query string) int

	Delay           time.Duration
	InputFocusDelay time.Duration
	NoteDuration    time.Duration
}

// Controller owns search visibility and execution.
type Controller struct {
	mu sync.Mutex

	state     *appstate.State
	announcer *announce.Announcer
	notes     *notify.Center
	validator *forms.Validator
	focusCtl  *focus.Controller
	scheduler sched.Scheduler

	button *dom.Element
	form   *dom.Element
	input  *dom.Element

	suggestions []string
	resultCount func(string) int

	delay           time.Duration
	inputFocusDelay time.Duration
	noteTTL         time.Duration

	pendingFocus  sched.Task
	pendingSearch sched.Task
}

// NewController builds the search controller.
func NewController(deps Deps) *Controller {
	c := &Controller{
		state:           deps.State,
		announcer:       deps.Announcer,
		notes:           deps.Notes,
		validator:       deps.Validator,
		focusCtl:        deps.FocusCtl,
		scheduler:       deps.Scheduler,
		button:          deps.Button,
		form:            deps.Form,
		input:           deps.Input,
		suggestions:     deps.Suggestions,
		resultCount:     deps.ResultCount,
		delay:           deps.Delay,
		inputFocusDelay: deps.InputFocusDelay,
		noteTTL:         deps.NoteDuration,
	}
	if c.delay == 0 {
		c.delay = DefaultDelay
	}
	if c.inputFocusDelay == 0 {
		c.inputFocusDelay = DefaultInputFocusDelay
	}
	if c.noteTTL == 0 {
		c.noteTTL = notify.DefaultDuration
	}
	return c
}

// Visible reports whether the search form is open.
func (c *Controller) Visible() bool {
	return c.state.SearchVisible()
}

// Toggle opens or closes the search form, keeping the toggle button's ARIA
// state in sync and moving focus appropriately.
func (c *Controller) Toggle() {
	visible := !c.state.SearchVisible()
	c.state.SetSearchVisible(visible)

	if visible {
		c.form.RemoveAttribute("hidden")
		c.button.SetAttribute("aria-expanded", "true")
		c.button.SetAttribute("aria-label", "검색창 닫기")

		c.mu.Lock()
		if c.pendingFocus != nil {
			c.pendingFocus.Stop()
		}
		c.pendingFocus = c.scheduler.After(c.inputFocusDelay, func() {
			opts := focus.Silent()
			opts.Scroll = false
			c.focusCtl.FocusElement(c.input, opts)
		})
		c.mu.Unlock()

		c.announcer.Announce("검색창이 열렸습니다. 검색어를 입력하세요.", announce.Polite)
	} else {
		c.form.SetAttribute("hidden", "true")
		c.button.SetAttribute("aria-expanded", "false")
		c.button.SetAttribute("aria-label", "검색창 열기")
		c.input.Document().Focus(c.button)

		c.announcer.Announce("검색창이 닫혔습니다.", announce.Polite)
	}
}

// Perform reads the query from the input and executes it.
func (c *Controller) Perform() {
	value, _ := c.input.Attribute("value")
	c.PerformQuery(value)
}

// PerformQuery validates and executes a search. An empty query becomes a
// field validation error; otherwise the start is announced and completion
// lands after the simulated backend delay.
func (c *Controller) PerformQuery(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		c.validator.ValidateField("search-input", query,
			[]forms.Rule{forms.Required("검색어를 입력해주세요.")})
		return
	}

	c.announcer.Announce(fmt.Sprintf("%q에 대한 검색을 시작합니다.", query), announce.Polite)

	c.mu.Lock()
	if c.pendingSearch != nil {
		c.pendingSearch.Stop()
	}
	c.pendingSearch = c.scheduler.After(c.delay, func() {
		c.complete(query)
	})
	c.mu.Unlock()
}

func (c *Controller) complete(query string) {
	count := 0
	if c.resultCount != nil {
		count = c.resultCount(query)
	}
	c.announcer.Announce(
		fmt.Sprintf("%q 검색이 완료되었습니다. %d개의 결과를 찾았습니다.", query, count),
		announce.Assertive,
	)
	c.notes.Show(fmt.Sprintf("검색 완료: %d개 결과", count), notify.Success, c.noteTTL)
}

// Suggestions returns the configured suggestion list.
func (c *Controller) Suggestions() []string {
	out := make([]string, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}
