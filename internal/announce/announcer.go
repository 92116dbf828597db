// Package announce manages the assistive-technology notification channels.
// Each priority owns one live region, created lazily and reused for the
// process lifetime. Writes are two-phase: the region is cleared synchronously
// and the new text lands on a later tick, so polling assistive technology
// observes a change even when two consecutive messages are identical.
package announce

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"allyshop/internal/dom"
	"allyshop/internal/sched"
)

// Priority selects the live-region urgency.
type Priority string

const (
	// Polite messages wait for the screen reader to finish speaking.
	Polite Priority = "polite"
	// Assertive messages interrupt.
	Assertive Priority = "assertive"
)

const (
	politeRegionID    = "status-announcements"
	assertiveRegionID = "alert-announcements"

	// deliverDelay approximates a frame boundary between the clear and the
	// write. The gap is what makes repeat messages observable.
	deliverDelay = 16 * time.Millisecond
)

// Message is one announcement as delivered to a channel.
type Message struct {
	Text     string
	Priority Priority
}

// Announcer serializes messages onto the polite and assertive channels.
// There is no queue: a pending write superseded before its tick fires is
// dropped (last write wins).
type Announcer struct {
	mu         sync.Mutex
	doc        *dom.Document
	scheduler  sched.Scheduler
	regions    map[Priority]*dom.Element
	pending    map[Priority]sched.Task
	delivered  []Message
	observers  []func(Message)
	requestObs []func(Message)
}

// New creates an announcer writing into the given document.
func New(doc *dom.Document, scheduler sched.Scheduler) *Announcer {
	return &Announcer{
		doc:       doc,
		scheduler: scheduler,
		regions:   make(map[Priority]*dom.Element),
		pending:   make(map[Priority]sched.Task),
	}
}

// Announce sends text to the channel for the given priority. Unknown
// priorities fall back to polite.
func (a *Announcer) Announce(text string, priority Priority) {
	if priority != Assertive {
		priority = Polite
	}

	a.mu.Lock()
	region := a.regionLocked(priority)
	if t, ok := a.pending[priority]; ok {
		t.Stop()
	}
	region.SetText("")
	a.pending[priority] = a.scheduler.After(deliverDelay, func() {
		a.deliver(region, text, priority)
	})
	requestObs := make([]func(Message), len(a.requestObs))
	copy(requestObs, a.requestObs)
	a.mu.Unlock()

	for _, fn := range requestObs {
		fn(Message{Text: text, Priority: priority})
	}
}

func (a *Announcer) deliver(region *dom.Element, text string, priority Priority) {
	region.SetText(text)
	slog.Debug("announcement_delivered",
		"priority", string(priority),
		"text", text,
	)

	a.mu.Lock()
	delete(a.pending, priority)
	a.delivered = append(a.delivered, Message{Text: text, Priority: priority})
	observers := make([]func(Message), len(a.observers))
	copy(observers, a.observers)
	a.mu.Unlock()

	for _, fn := range observers {
		fn(Message{Text: text, Priority: priority})
	}
}

// regionLocked returns the channel element for the priority, creating it on
// first use.
func (a *Announcer) regionLocked(priority Priority) *dom.Element {
	if region, ok := a.regions[priority]; ok {
		return region
	}

	region := a.doc.CreateElement("div")
	if priority == Assertive {
		region.SetAttribute("id", assertiveRegionID)
		region.SetAttribute("role", "alert")
	} else {
		region.SetAttribute("id", politeRegionID)
		region.SetAttribute("role", "status")
	}
	region.SetAttribute("aria-live", string(priority))
	region.SetAttribute("aria-atomic", "true")
	region.SetAttribute("class", "visually-hidden")
	a.doc.Root().AppendChild(region)

	a.regions[priority] = region
	return region
}

// Region exposes the channel element for a priority, creating it if needed.
func (a *Announcer) Region(priority Priority) *dom.Element {
	if priority != Assertive {
		priority = Polite
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.regionLocked(priority)
}

// Observe registers a callback invoked for every delivered message, in
// delivery order.
func (a *Announcer) Observe(fn func(Message)) {
	a.mu.Lock()
	a.observers = append(a.observers, fn)
	a.mu.Unlock()
}

// ObserveRequests registers a callback invoked synchronously when a message
// is announced, before its delayed delivery. Tests use this to assert the
// issue order of announcements relative to other effects.
func (a *Announcer) ObserveRequests(fn func(Message)) {
	a.mu.Lock()
	a.requestObs = append(a.requestObs, fn)
	a.mu.Unlock()
}

// Delivered returns a copy of every message delivered so far, oldest first.
func (a *Announcer) Delivered() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Message, len(a.delivered))
	copy(out, a.delivered)
	return out
}

// Last returns the most recently delivered message.
func (a *Announcer) Last() (Message, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.delivered) == 0 {
		return Message{}, false
	}
	return a.delivered[len(a.delivered)-1], true
}

// Transcript renders the delivered log one message per line, for logging and
// the demo server's announcement feed.
func (a *Announcer) Transcript() string {
	var b strings.Builder
	for _, m := range a.Delivered() {
		b.WriteString(string(m.Priority))
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	return b.String()
}
