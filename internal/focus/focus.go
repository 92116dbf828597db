// Package focus performs scoped focus transitions: resolving a target,
// making it focusable, optionally scrolling it into view and optionally
// announcing where focus landed. It also hosts the Tab-cycle trap used by
// contained widgets.
package focus

import (
	"fmt"
	"log/slog"
	"strings"

	"allyshop/internal/announce"
	"allyshop/internal/dom"
)

// Options controls a single focus transition.
type Options struct {
	Scroll         bool
	PreventScroll  bool
	AnnounceTarget bool
	ScrollBehavior string
	ScrollBlock    string
}

// DefaultOptions scrolls smoothly to center and announces the destination.
func DefaultOptions() Options {
	return Options{
		Scroll:         true,
		AnnounceTarget: true,
		ScrollBehavior: "smooth",
		ScrollBlock:    "center",
	}
}

// Silent is DefaultOptions without the announcement, for transitions that
// already announced their own context.
func Silent() Options {
	o := DefaultOptions()
	o.AnnounceTarget = false
	return o
}

// Controller moves document focus.
type Controller struct {
	doc       *dom.Document
	announcer *announce.Announcer
}

// NewController creates a focus controller for the document.
func NewController(doc *dom.Document, announcer *announce.Announcer) *Controller {
	return &Controller{doc: doc, announcer: announcer}
}

// FocusLocator resolves a locator ("#id" or tag) and focuses it. An
// unresolvable locator logs a warning and returns false; it never panics.
func (c *Controller) FocusLocator(locator string, opts Options) bool {
	el := c.doc.Query(locator)
	if el == nil {
		slog.Warn("focus_target_missing", "target", locator)
		return false
	}
	return c.FocusElement(el, opts)
}

// FocusElement focuses a concrete element.
func (c *Controller) FocusElement(el *dom.Element, opts Options) bool {
	if el == nil {
		slog.Warn("focus_target_missing", "target", "<nil>")
		return false
	}

	// Give non-interactive targets a programmatic focus affordance.
	if _, hasTabindex := el.Attribute("tabindex"); !el.Focusable() && !hasTabindex {
		el.SetAttribute("tabindex", "-1")
	}

	c.doc.Focus(el)

	if opts.Scroll && !opts.PreventScroll {
		c.doc.ScrollIntoView(el, opts.ScrollBehavior, opts.ScrollBlock)
	}

	if opts.AnnounceTarget {
		if label := Label(el); label != "" {
			c.announcer.Announce(fmt.Sprintf("%s로 포커스가 이동되었습니다.", label), announce.Polite)
		}
	}

	return true
}

// Trap confines Tab cycling to a container: Shift+Tab on the first focusable
// descendant wraps to the last, Tab on the last wraps to the first. It
// reports whether focus was redirected (the caller consumes the event).
func (c *Controller) Trap(container *dom.Element, shiftKey bool) bool {
	focusables := c.doc.FocusableWithin(container)
	if len(focusables) == 0 {
		return false
	}

	first := focusables[0]
	last := focusables[len(focusables)-1]
	active := c.doc.ActiveElement()

	if shiftKey && active == first {
		c.doc.Focus(last)
		return true
	}
	if !shiftKey && active == last {
		c.doc.Focus(first)
		return true
	}
	return false
}

// Label derives a human-readable name for an element through the fallback
// chain: aria-label, aria-labelledby target text, own text, alt, placeholder
// and finally the tag name.
func Label(el *dom.Element) string {
	if v, ok := el.Attribute("aria-label"); ok && v != "" {
		return v
	}
	if ref, ok := el.Attribute("aria-labelledby"); ok && ref != "" {
		if target := el.Document().ElementByID(ref); target != nil {
			if text := strings.TrimSpace(target.Text()); text != "" {
				return text
			}
		}
	}
	if text := strings.TrimSpace(el.Text()); text != "" {
		return text
	}
	if v, ok := el.Attribute("alt"); ok && v != "" {
		return v
	}
	if v, ok := el.Attribute("placeholder"); ok && v != "" {
		return v
	}
	return el.Tag()
}
