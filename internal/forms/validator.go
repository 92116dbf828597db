// Package forms validates named input fields against rules, marks their
// validity on the rendering surface and drives the announcer and focus
// controller when something fails.
package forms

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"allyshop/internal/announce"
	"allyshop/internal/dom"
	"allyshop/internal/focus"
	"allyshop/internal/sched"
)

// DefaultFocusDelay is how long ValidateForm waits before moving focus to
// the first failing field, letting in-flight rendering settle first.
const DefaultFocusDelay = 500 * time.Millisecond

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Rule checks one constraint on a field value.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// Required fails on an empty (or whitespace-only) value.
func Required(message string) Rule {
	return Rule{
		Check:   func(v string) bool { return strings.TrimSpace(v) != "" },
		Message: message,
	}
}

// MinLength fails on values shorter than n characters, counted as runes so
// multibyte input measures the way users perceive it.
func MinLength(n int, message string) Rule {
	return Rule{
		Check:   func(v string) bool { return utf8.RuneCountInString(v) >= n },
		Message: message,
	}
}

// Email fails on values not shaped like local@domain.tld.
func Email(message string) Rule {
	return Rule{
		Check:   func(v string) bool { return emailShape.MatchString(v) },
		Message: message,
	}
}

// Field binds an input element id to its rule set. The field's value is read
// from the element's "value" attribute.
type Field struct {
	ID    string
	Rules []Rule
}

// FieldError is one failed field with the message shown to the user.
type FieldError struct {
	Field   string
	Message string
}

// Validator marks fields valid or invalid and reports failures.
type Validator struct {
	mu           sync.Mutex
	doc          *dom.Document
	announcer    *announce.Announcer
	focusCtl     *focus.Controller
	scheduler    sched.Scheduler
	focusDelay   time.Duration
	pendingFocus sched.Task
}

// NewValidator creates a validator. A zero focusDelay falls back to
// DefaultFocusDelay.
func NewValidator(doc *dom.Document, announcer *announce.Announcer, focusCtl *focus.Controller, scheduler sched.Scheduler, focusDelay time.Duration) *Validator {
	if focusDelay == 0 {
		focusDelay = DefaultFocusDelay
	}
	return &Validator{
		doc:        doc,
		announcer:  announcer,
		focusCtl:   focusCtl,
		scheduler:  scheduler,
		focusDelay: focusDelay,
	}
}

// ValidateField checks value against the rules. The first failing rule marks
// the field invalid, shows its message next to the field, moves focus there
// and announces the error assertively. Passing all rules clears any prior
// invalid marking.
func (v *Validator) ValidateField(fieldID, value string, rules []Rule) bool {
	for _, rule := range rules {
		if !rule.Check(value) {
			v.markInvalid(fieldID, rule.Message, true)
			return false
		}
	}
	v.ClearField(fieldID)
	return true
}

// ValidateForm runs every field's rules, reading values from the document.
// Failures are aggregated; if there are any, an error-count summary is
// announced assertively and focus is scheduled onto the first failing field.
func (v *Validator) ValidateForm(fields []Field) []FieldError {
	var failures []FieldError
	for _, f := range fields {
		el := v.doc.ElementByID(f.ID)
		if el == nil {
			slog.Warn("form_field_missing", "field", f.ID)
			continue
		}
		value, _ := el.Attribute("value")
		value = strings.TrimSpace(value)

		failed := false
		for _, rule := range f.Rules {
			if !rule.Check(value) {
				// Per-field marking focuses each field in turn; the summary
				// pass below settles focus on the first failure.
				v.markInvalid(f.ID, rule.Message, true)
				failures = append(failures, FieldError{Field: f.ID, Message: rule.Message})
				failed = true
				break
			}
		}
		if !failed {
			v.ClearField(f.ID)
		}
	}

	if len(failures) > 0 {
		v.announcer.Announce(fmt.Sprintf("%d개의 입력 오류가 있습니다.", len(failures)), announce.Assertive)

		first := failures[0].Field
		v.mu.Lock()
		if v.pendingFocus != nil {
			v.pendingFocus.Stop()
		}
		v.pendingFocus = v.scheduler.After(v.focusDelay, func() {
			v.focusCtl.FocusLocator("#"+first, focus.Silent())
		})
		v.mu.Unlock()
	}

	return failures
}

// ClearField removes the invalid marking from a field.
func (v *Validator) ClearField(fieldID string) {
	field := v.doc.ElementByID(fieldID)
	errEl := v.doc.ElementByID(fieldID + "-error")
	if field == nil || errEl == nil {
		return
	}
	field.SetAttribute("aria-invalid", "false")
	field.RemoveClass("error")
	errEl.SetText("")
	errEl.RemoveAttribute("role")
}

func (v *Validator) markInvalid(fieldID, message string, focusOnError bool) {
	field := v.doc.ElementByID(fieldID)
	errEl := v.doc.ElementByID(fieldID + "-error")
	if field == nil || errEl == nil {
		slog.Warn("form_field_missing", "field", fieldID)
		return
	}

	field.SetAttribute("aria-invalid", "true")
	field.AddClass("error")
	errEl.SetText(message)
	errEl.SetAttribute("role", "alert")

	if focusOnError {
		v.focusCtl.FocusElement(field, focus.Silent())
	}
	v.announcer.Announce("입력 오류: "+message, announce.Assertive)
}
