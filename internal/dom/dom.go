// Package dom provides the rendering surface the UI core draws on: a small
// in-memory element tree with the primitives the storefront needs (create
// element, attributes, text, lookup by id, focus and scroll tracking).
// Any real rendering layer satisfying these primitives can replace it.
package dom

import (
	"strings"
	"sync"
)

// ScrollRequest records a scroll-into-view call for inspection.
type ScrollRequest struct {
	Element  *Element
	Behavior string
	Block    string
}

// Document owns an element tree plus the page-level state a browser
// environment would carry: the focused element, media features and the most
// recent scroll request.
type Document struct {
	mu      sync.RWMutex
	root    *Element
	byID    map[string]*Element
	active  *Element
	media   map[string]bool
	scrolls []ScrollRequest
}

// Element is a single node in the tree. All mutation goes through methods so
// the document index and listeners stay consistent.
type Element struct {
	doc      *Document
	tag      string
	attrs    map[string]string
	text     string
	children []*Element
	parent   *Element
}

// NewDocument creates an empty document with a root element.
func NewDocument() *Document {
	d := &Document{
		byID:  make(map[string]*Element),
		media: make(map[string]bool),
	}
	d.root = &Element{doc: d, tag: "root", attrs: make(map[string]string)}
	return d
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// CreateElement creates a detached element owned by this document.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, tag: strings.ToLower(tag), attrs: make(map[string]string)}
}

// ElementByID returns the element with the given id attribute, or nil.
func (d *Document) ElementByID(id string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byID[id]
}

// Query resolves a locator. "#id" locators resolve through the id index;
// anything else is treated as a tag name and matched depth-first.
func (d *Document) Query(locator string) *Element {
	if strings.HasPrefix(locator, "#") {
		return d.ElementByID(locator[1:])
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	tag := strings.ToLower(locator)
	var found *Element
	walk(d.root, func(e *Element) bool {
		if e.tag == tag {
			found = e
			return false
		}
		return true
	})
	return found
}

// Focus moves document focus to the given element.
func (d *Document) Focus(e *Element) {
	d.mu.Lock()
	d.active = e
	d.mu.Unlock()
}

// ActiveElement returns the currently focused element, or nil.
func (d *Document) ActiveElement() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// ScrollIntoView records a scroll request for the element.
func (d *Document) ScrollIntoView(e *Element, behavior, block string) {
	d.mu.Lock()
	d.scrolls = append(d.scrolls, ScrollRequest{Element: e, Behavior: behavior, Block: block})
	d.mu.Unlock()
}

// LastScroll returns the most recent scroll request, if any.
func (d *Document) LastScroll() (ScrollRequest, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.scrolls) == 0 {
		return ScrollRequest{}, false
	}
	return d.scrolls[len(d.scrolls)-1], true
}

// SetMediaFeature sets an environment media feature such as
// "prefers-reduced-motion".
func (d *Document) SetMediaFeature(name string, on bool) {
	d.mu.Lock()
	d.media[name] = on
	d.mu.Unlock()
}

// MediaFeature reports whether the named media feature is active.
func (d *Document) MediaFeature(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.media[name]
}

// FocusableWithin returns the focusable descendants of container in document
// order, mirroring the selector
// 'button, [href], input, select, textarea, [tabindex]:not([tabindex="-1"])'.
func (d *Document) FocusableWithin(container *Element) []*Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Element
	for _, child := range container.children {
		walk(child, func(e *Element) bool {
			if e.focusableLocked() {
				out = append(out, e)
			}
			return true
		})
	}
	return out
}

func walk(e *Element, visit func(*Element) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range e.children {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.tag
}

// Document returns the document that owns this element.
func (e *Element) Document() *Document {
	return e.doc
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	v, _ := e.Attribute("id")
	return v
}

// SetAttribute sets an attribute. Setting "id" registers the element in the
// document index.
func (e *Element) SetAttribute(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if name == "id" {
		if old, ok := e.attrs["id"]; ok {
			delete(e.doc.byID, old)
		}
		e.doc.byID[value] = e
	}
	e.attrs[name] = value
}

// Attribute returns an attribute value and whether it is set.
func (e *Element) Attribute(name string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	v, ok := e.attrs[name]
	return v, ok
}

// RemoveAttribute deletes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if name == "id" {
		if old, ok := e.attrs["id"]; ok {
			delete(e.doc.byID, old)
		}
	}
	delete(e.attrs, name)
}

// SetText replaces the element's text content.
func (e *Element) SetText(s string) {
	e.doc.mu.Lock()
	e.text = s
	e.doc.mu.Unlock()
}

// Text returns the element's own text content.
func (e *Element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.text
}

// AppendChild attaches child as the last child of e. A child already attached
// elsewhere is moved.
func (e *Element) AppendChild(child *Element) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if child.parent != nil {
		child.parent.removeChildLocked(child)
	}
	child.parent = e
	e.children = append(e.children, child)
}

// Remove detaches the element from its parent. The element stays addressable
// by id so callers holding handles keep working.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.parent != nil {
		e.parent.removeChildLocked(e)
		e.parent = nil
	}
}

func (e *Element) removeChildLocked(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

// Parent returns the element's parent, or nil when detached.
func (e *Element) Parent() *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.parent
}

// Children returns a copy of the element's child list.
func (e *Element) Children() []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Closest walks up the tree looking for an ancestor with the given tag,
// starting from the element itself.
func (e *Element) Closest(tag string) *Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	tag = strings.ToLower(tag)
	for cur := e; cur != nil; cur = cur.parent {
		if cur.tag == tag {
			return cur
		}
	}
	return nil
}

// Focused reports whether the element currently holds document focus.
func (e *Element) Focused() bool {
	return e.doc.ActiveElement() == e
}

// Focusable reports whether the element can receive keyboard focus.
func (e *Element) Focusable() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.focusableLocked()
}

func (e *Element) focusableLocked() bool {
	switch e.tag {
	case "button", "input", "select", "textarea":
		return true
	}
	if _, ok := e.attrs["href"]; ok {
		return true
	}
	if ti, ok := e.attrs["tabindex"]; ok && ti != "-1" {
		return true
	}
	return false
}

// AddClass appends a class token to the element's class attribute.
func (e *Element) AddClass(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	classes := strings.Fields(e.attrs["class"])
	for _, c := range classes {
		if c == name {
			return
		}
	}
	e.attrs["class"] = strings.TrimSpace(e.attrs["class"] + " " + name)
}

// RemoveClass removes a class token from the element's class attribute.
func (e *Element) RemoveClass(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	classes := strings.Fields(e.attrs["class"])
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.attrs["class"] = strings.Join(kept, " ")
}

// HasClass reports whether the class attribute contains the token.
func (e *Element) HasClass(name string) bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	for _, c := range strings.Fields(e.attrs["class"]) {
		if c == name {
			return true
		}
	}
	return false
}
