package appstate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"allyshop/internal/announce"
)

// Preferences are the persisted accessibility flags.
type Preferences struct {
	HighContrast     bool `json:"highContrast"`
	LargeText        bool `json:"largeText"`
	EnhancedFocus    bool `json:"enhancedFocus"`
	ScreenReaderMode bool `json:"screenReaderMode"`
	ReducedMotion    bool `json:"reducedMotion"`
}

// Storage keys. Each toggle writes its own key plus the bundled object, and
// both forms must round-trip exactly.
const (
	prefKeyHighContrast     = "a11y-high-contrast"
	prefKeyLargeText        = "a11y-large-text"
	prefKeyEnhancedFocus    = "a11y-enhanced-focus"
	prefKeyScreenReaderMode = "a11y-screen-reader-mode"
	prefKeyBundle           = "a11y-settings"

	reducedMotionFeature = "prefers-reduced-motion"
)

// Preferences returns a copy of the current flags.
func (s *State) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// ToggleHighContrast flips high-contrast mode, reflects it on the document
// root, announces the change and persists it.
func (s *State) ToggleHighContrast() bool {
	s.mu.Lock()
	s.prefs.HighContrast = !s.prefs.HighContrast
	on := s.prefs.HighContrast
	s.mu.Unlock()

	root := s.doc.Root()
	if on {
		root.SetAttribute("data-theme", "high-contrast")
	} else {
		root.RemoveAttribute("data-theme")
	}
	s.setTogglePressed("toggle-high-contrast", on)

	if on {
		s.announcer.Announce("고대비 모드가 활성화되었습니다.", announce.Polite)
	} else {
		s.announcer.Announce("고대비 모드가 비활성화되었습니다.", announce.Polite)
	}

	s.persistPref(prefKeyHighContrast, on)
	return on
}

// ToggleLargeText flips large-text mode.
func (s *State) ToggleLargeText() bool {
	s.mu.Lock()
	s.prefs.LargeText = !s.prefs.LargeText
	on := s.prefs.LargeText
	s.mu.Unlock()

	s.setRootFlag("data-large-text", on)
	s.setTogglePressed("toggle-large-text", on)

	if on {
		s.announcer.Announce("큰 글씨 모드가 활성화되었습니다.", announce.Polite)
	} else {
		s.announcer.Announce("큰 글씨 모드가 비활성화되었습니다.", announce.Polite)
	}

	s.persistPref(prefKeyLargeText, on)
	return on
}

// ToggleEnhancedFocus flips the enhanced focus indicator.
func (s *State) ToggleEnhancedFocus() bool {
	s.mu.Lock()
	s.prefs.EnhancedFocus = !s.prefs.EnhancedFocus
	on := s.prefs.EnhancedFocus
	s.mu.Unlock()

	s.setRootFlag("data-enhanced-focus", on)
	s.setTogglePressed("toggle-focus-indicator", on)

	if on {
		s.announcer.Announce("강화된 포커스 표시가 활성화되었습니다.", announce.Polite)
	} else {
		s.announcer.Announce("강화된 포커스 표시가 비활성화되었습니다.", announce.Polite)
	}

	s.persistPref(prefKeyEnhancedFocus, on)
	return on
}

// ToggleScreenReaderMode flips screen-reader optimization.
func (s *State) ToggleScreenReaderMode() bool {
	s.mu.Lock()
	s.prefs.ScreenReaderMode = !s.prefs.ScreenReaderMode
	on := s.prefs.ScreenReaderMode
	s.mu.Unlock()

	s.setRootFlag("data-screen-reader-mode", on)
	s.setTogglePressed("toggle-screen-reader-mode", on)

	if on {
		s.announcer.Announce("스크린 리더 최적화 모드가 활성화되었습니다.", announce.Polite)
	} else {
		s.announcer.Announce("스크린 리더 최적화 모드가 비활성화되었습니다.", announce.Polite)
	}

	s.persistPref(prefKeyScreenReaderMode, on)
	return on
}

// SetPreference sets a named preference to an explicit value, toggling only
// when the value differs so announcements fire exactly once per change.
func (s *State) SetPreference(name string, value bool) error {
	s.mu.Lock()
	current := s.prefs
	s.mu.Unlock()

	switch name {
	case "highContrast":
		if current.HighContrast != value {
			s.ToggleHighContrast()
		}
	case "largeText":
		if current.LargeText != value {
			s.ToggleLargeText()
		}
	case "enhancedFocus":
		if current.EnhancedFocus != value {
			s.ToggleEnhancedFocus()
		}
	case "screenReaderMode":
		if current.ScreenReaderMode != value {
			s.ToggleScreenReaderMode()
		}
	case "reducedMotion":
		// Derived from the environment, persisted but never announced.
		s.mu.Lock()
		s.prefs.ReducedMotion = value
		s.mu.Unlock()
		s.persistBundle()
	default:
		return fmt.Errorf("unknown preference %q", name)
	}
	return nil
}

// LoadPreferences restores persisted flags at startup, applying each enabled
// toggle, then overlays the environment's reduced-motion signal. Malformed
// persisted data is logged and defaults are kept.
func (s *State) LoadPreferences() {
	if raw, ok := s.storage.Get(prefKeyBundle); ok {
		var saved Preferences
		if err := json.Unmarshal([]byte(raw), &saved); err != nil {
			slog.Warn("prefs_restore_failed", "error", err)
		} else {
			if saved.HighContrast {
				s.ToggleHighContrast()
			}
			if saved.LargeText {
				s.ToggleLargeText()
			}
			if saved.EnhancedFocus {
				s.ToggleEnhancedFocus()
			}
			if saved.ScreenReaderMode {
				s.ToggleScreenReaderMode()
			}
			if saved.ReducedMotion {
				s.mu.Lock()
				s.prefs.ReducedMotion = true
				s.mu.Unlock()
			}
		}
	}

	if s.doc.MediaFeature(reducedMotionFeature) {
		s.mu.Lock()
		s.prefs.ReducedMotion = true
		s.mu.Unlock()
	}
}

func (s *State) persistPref(key string, on bool) {
	if err := s.storage.Set(key, strconv.FormatBool(on)); err != nil {
		slog.Error("prefs_write_failed", "key", key, "error", err)
	}
	s.persistBundle()
}

func (s *State) persistBundle() {
	s.mu.Lock()
	prefs := s.prefs
	s.mu.Unlock()

	data, err := json.Marshal(prefs)
	if err != nil {
		slog.Error("prefs_encode_failed", "error", err)
		return
	}
	if err := s.storage.Set(prefKeyBundle, string(data)); err != nil {
		slog.Error("prefs_write_failed", "key", prefKeyBundle, "error", err)
	}
}

func (s *State) setRootFlag(attr string, on bool) {
	root := s.doc.Root()
	if on {
		root.SetAttribute(attr, "true")
	} else {
		root.RemoveAttribute(attr)
	}
}

func (s *State) setTogglePressed(buttonID string, on bool) {
	if btn := s.doc.ElementByID(buttonID); btn != nil {
		btn.SetAttribute("aria-pressed", strconv.FormatBool(on))
	}
}
