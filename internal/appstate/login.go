package appstate

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"allyshop/internal/announce"
	"allyshop/internal/notify"
)

// emailPattern is the general local@domain.tld shape, nothing stricter.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// FieldError is one login validation failure.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors aggregates every failing field of one submission.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	return fmt.Sprintf("%d개의 입력 오류가 있습니다.", len(e))
}

// ValidateCredentials checks both fields and collects every failure rather
// than stopping at the first. A nil return means the credentials are
// acceptable.
func ValidateCredentials(username, password string) FieldErrors {
	var errs FieldErrors
	switch {
	case username == "":
		errs = append(errs, FieldError{Field: "username", Message: "이메일 주소를 입력해주세요."})
	case !emailPattern.MatchString(username):
		errs = append(errs, FieldError{Field: "username", Message: "올바른 이메일 주소 형식이 아닙니다."})
	}
	switch {
	case password == "":
		errs = append(errs, FieldError{Field: "password", Message: "비밀번호를 입력해주세요."})
	case utf8.RuneCountInString(password) < minPasswordLength:
		errs = append(errs, FieldError{Field: "password", Message: "비밀번호는 8자 이상이어야 합니다."})
	}
	return errs
}

// Login validates credentials and, when they pass, starts the simulated
// authentication. The session transitions to logged-in after the auth delay
// elapses; until then Session() still reports logged out. Validation
// failures come back as FieldErrors with every failing field.
//
// Surfacing failures to the user (field marking, error count announcement)
// is the form validator's job; Login only reports them.
func (s *State) Login(username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if errs := ValidateCredentials(username, password); len(errs) > 0 {
		return errs
	}

	s.announcer.Announce("로그인을 처리하고 있습니다.", announce.Assertive)

	s.mu.Lock()
	if s.pendingAuth != nil {
		s.pendingAuth.Stop()
	}
	s.pendingAuth = s.scheduler.After(s.authDelay, func() {
		s.completeLogin(username)
	})
	s.mu.Unlock()

	return nil
}

func (s *State) completeLogin(username string) {
	s.mu.Lock()
	s.session = Session{LoggedIn: true, CurrentUser: username}
	s.pendingAuth = nil
	s.mu.Unlock()

	slog.Info("login_completed", "user", username)

	msg := fmt.Sprintf("%s님, 환영합니다! 로그인이 완료되었습니다.", username)
	s.announcer.Announce(msg, announce.Assertive)
	s.notes.Show(msg, notify.Success, s.noteTTL)

	// A successful login resets the form fields.
	for _, id := range []string{"username", "password"} {
		if el := s.doc.ElementByID(id); el != nil {
			el.SetAttribute("value", "")
		}
	}
}

// Logout clears the session. A no-op while logged out.
func (s *State) Logout() {
	s.mu.Lock()
	if !s.session.LoggedIn {
		s.mu.Unlock()
		return
	}
	s.session = Session{}
	s.mu.Unlock()

	s.announcer.Announce("로그아웃되었습니다.", announce.Polite)
	s.notes.Show("로그아웃되었습니다.", notify.Info, s.noteTTL)
}
