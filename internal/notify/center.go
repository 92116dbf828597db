// Package notify manages transient on-screen messages, independent of the
// screen-reader announcement channels.
package notify

import (
	"sync"
	"time"

	"allyshop/internal/dom"
	"allyshop/internal/sched"
)

// Severity classifies a notification for styling and live-region politeness.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// DefaultDuration is how long a notification stays up unless the caller says
// otherwise.
const DefaultDuration = 5 * time.Second

const containerID = "notification-container"

// Notification is one visible message. ID is unique for the lifetime of the
// center and never reused, even after Clear.
type Notification struct {
	ID        int
	Text      string
	Severity  Severity
	CreatedAt time.Time
	Duration  time.Duration // 0 means sticky until dismissed
}

// Center renders notifications into a lazily-created container and
// auto-dismisses them when their duration elapses. Messages stack in arrival
// order; there is no de-duplication and no cap.
type Center struct {
	mu        sync.Mutex
	doc       *dom.Document
	scheduler sched.Scheduler
	container *dom.Element
	nextID    int
	active    []Notification
	elements  map[int]*dom.Element
	timers    map[int]sched.Task
	observers []func(Notification)
}

// NewCenter creates a notification center rendering into doc.
func NewCenter(doc *dom.Document, scheduler sched.Scheduler) *Center {
	return &Center{
		doc:       doc,
		scheduler: scheduler,
		elements:  make(map[int]*dom.Element),
		timers:    make(map[int]sched.Task),
	}
}

// Show appends a notification. A duration of 0 keeps it until Dismiss is
// called; anything else schedules a cancellable auto-dismiss.
func (c *Center) Show(text string, severity Severity, duration time.Duration) Notification {
	c.mu.Lock()

	c.nextID++
	n := Notification{
		ID:        c.nextID,
		Text:      text,
		Severity:  severity,
		CreatedAt: c.scheduler.Now(),
		Duration:  duration,
	}

	el := c.doc.CreateElement("div")
	el.SetAttribute("class", "notification notification-"+string(severity))
	if severity == Error {
		el.SetAttribute("role", "alert")
		el.SetAttribute("aria-live", "assertive")
	} else {
		el.SetAttribute("role", "status")
		el.SetAttribute("aria-live", "polite")
	}
	el.SetText(text)
	c.containerLocked().AppendChild(el)

	c.active = append(c.active, n)
	c.elements[n.ID] = el
	if duration > 0 {
		id := n.ID
		c.timers[id] = c.scheduler.After(duration, func() {
			c.Dismiss(id)
		})
	}
	observers := make([]func(Notification), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(n)
	}
	return n
}

// Dismiss removes a notification and cancels its timer. It reports whether
// the notification was still active.
func (c *Center) Dismiss(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dismissLocked(id)
}

func (c *Center) dismissLocked(id int) bool {
	el, ok := c.elements[id]
	if !ok {
		return false
	}
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	el.Remove()
	delete(c.elements, id)
	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			break
		}
	}
	return true
}

// Active returns a copy of the visible notifications, newest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.active))
	for i, n := range c.active {
		out[len(c.active)-1-i] = n
	}
	return out
}

// Count returns the number of visible notifications.
func (c *Center) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// Clear dismisses everything. IDs keep counting from where they left off.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range append([]Notification(nil), c.active...) {
		c.dismissLocked(n.ID)
	}
}

// Observe registers a callback invoked synchronously whenever a notification
// is shown, in arrival order.
func (c *Center) Observe(fn func(Notification)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

func (c *Center) containerLocked() *dom.Element {
	if c.container != nil {
		return c.container
	}
	c.container = c.doc.CreateElement("div")
	c.container.SetAttribute("id", containerID)
	c.doc.Root().AppendChild(c.container)
	return c.container
}
