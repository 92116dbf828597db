package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allyshop/internal/announce"
	"allyshop/internal/dom"
	"allyshop/internal/focus"
	"allyshop/internal/sched"
)

type fixture struct {
	v         *Validator
	doc       *dom.Document
	clock     *sched.Manual
	announcer *announce.Announcer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doc := dom.NewDocument()
	clock := sched.NewManual()
	announcer := announce.New(doc, clock)
	focusCtl := focus.NewController(doc, announcer)
	return &fixture{
		v:         NewValidator(doc, announcer, focusCtl, clock, 0),
		doc:       doc,
		clock:     clock,
		announcer: announcer,
	}
}

func (f *fixture) deliver() {
	f.clock.Advance(16 * time.Millisecond)
}

// addField wires an input plus its matching error element, the shape the
// validator expects.
func (f *fixture) addField(id, value string) *dom.Element {
	input := f.doc.CreateElement("input")
	input.SetAttribute("id", id)
	input.SetAttribute("value", value)
	f.doc.Root().AppendChild(input)

	errEl := f.doc.CreateElement("div")
	errEl.SetAttribute("id", id+"-error")
	f.doc.Root().AppendChild(errEl)
	return input
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		value string
		pass  bool
	}{
		{"required passes", Required("m"), "x", true},
		{"required fails empty", Required("m"), "", false},
		{"required fails whitespace", Required("m"), "   ", false},
		{"min length at boundary", MinLength(8, "m"), "12345678", true},
		{"min length below", MinLength(8, "m"), "1234567", false},
		{"min length counts runes not bytes", MinLength(8, "m"), "가나다", false},
		{"min length multibyte at boundary", MinLength(8, "m"), "가나다라마바사아", true},
		{"email valid", Email("m"), "a@b.co", true},
		{"email plus and subdomain", Email("m"), "x+y@sub.domain.org", true},
		{"email no at", Email("m"), "plain", false},
		{"email no tld", Email("m"), "no@tld", false},
		{"email double at", Email("m"), "two@@a.b", false},
		{"email space", Email("m"), "spa ce@a.co", false},
		{"email empty local", Email("m"), "@a.co", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pass, tt.rule.Check(tt.value))
		})
	}
}

func TestValidateField_FirstFailingRuleWins(t *testing.T) {
	f := newFixture(t)
	input := f.addField("username", "")

	ok := f.v.ValidateField("username", "", []Rule{
		Required("아이디를 입력해주세요."),
		Email("올바른 이메일 형식이 아닙니다."),
	})
	require.False(t, ok)

	invalid, _ := input.Attribute("aria-invalid")
	assert.Equal(t, "true", invalid)
	assert.True(t, input.HasClass("error"))

	errEl := f.doc.ElementByID("username-error")
	assert.Equal(t, "아이디를 입력해주세요.", errEl.Text())
	role, _ := errEl.Attribute("role")
	assert.Equal(t, "alert", role)

	assert.Same(t, input, f.doc.ActiveElement())

	f.deliver()
	last, _ := f.announcer.Last()
	assert.Equal(t, "입력 오류: 아이디를 입력해주세요.", last.Text)
	assert.Equal(t, announce.Assertive, last.Priority)
}

func TestValidateField_PassClearsPriorError(t *testing.T) {
	f := newFixture(t)
	input := f.addField("username", "")

	f.v.ValidateField("username", "", []Rule{Required("아이디를 입력해주세요.")})
	ok := f.v.ValidateField("username", "a@b.co", []Rule{Required("아이디를 입력해주세요.")})
	require.True(t, ok)

	invalid, _ := input.Attribute("aria-invalid")
	assert.Equal(t, "false", invalid)
	assert.False(t, input.HasClass("error"))

	errEl := f.doc.ElementByID("username-error")
	assert.Equal(t, "", errEl.Text())
	_, hasRole := errEl.Attribute("role")
	assert.False(t, hasRole)
}

func TestValidateForm_AggregatesFailures(t *testing.T) {
	f := newFixture(t)
	f.addField("username", "")
	f.addField("password", "short")

	var requested []string
	f.announcer.ObserveRequests(func(m announce.Message) {
		requested = append(requested, m.Text)
	})

	failures := f.v.ValidateForm([]Field{
		{ID: "username", Rules: []Rule{Required("아이디를 입력해주세요."), Email("올바른 이메일 형식이 아닙니다.")}},
		{ID: "password", Rules: []Rule{Required("비밀번호를 입력해주세요."), MinLength(8, "비밀번호는 8자 이상이어야 합니다.")}},
	})

	require.Len(t, failures, 2)
	assert.Equal(t, FieldError{Field: "username", Message: "아이디를 입력해주세요."}, failures[0])
	assert.Equal(t, FieldError{Field: "password", Message: "비밀번호는 8자 이상이어야 합니다."}, failures[1])

	// Per-field errors first, then the summary
	require.Len(t, requested, 3)
	assert.Equal(t, "2개의 입력 오류가 있습니다.", requested[2])
}

func TestValidateForm_SchedulesFocusToFirstFailure(t *testing.T) {
	f := newFixture(t)
	username := f.addField("username", "")
	f.addField("password", "")

	f.v.ValidateForm([]Field{
		{ID: "username", Rules: []Rule{Required("아이디를 입력해주세요.")}},
		{ID: "password", Rules: []Rule{Required("비밀번호를 입력해주세요.")}},
	})

	// Per-field marking leaves focus on the last failing field until the
	// deferred pass settles it on the first.
	f.clock.Advance(DefaultFocusDelay)
	assert.Same(t, username, f.doc.ActiveElement())
}

func TestValidateForm_ResubmitSupersedesPendingFocus(t *testing.T) {
	f := newFixture(t)
	f.addField("username", "")
	password := f.addField("password", "")

	fields := []Field{
		{ID: "username", Rules: []Rule{Required("아이디를 입력해주세요.")}},
		{ID: "password", Rules: []Rule{Required("비밀번호를 입력해주세요.")}},
	}
	f.v.ValidateForm(fields)

	// Fix the first field, then resubmit before the focus timer fires
	f.doc.ElementByID("username").SetAttribute("value", "a@b.co")
	f.v.ValidateForm(fields)

	f.clock.Advance(DefaultFocusDelay)
	assert.Same(t, password, f.doc.ActiveElement())
}

func TestValidateForm_AllPass(t *testing.T) {
	f := newFixture(t)
	f.addField("username", "a@b.co")
	f.addField("password", "12345678")

	failures := f.v.ValidateForm([]Field{
		{ID: "username", Rules: []Rule{Required("r"), Email("e")}},
		{ID: "password", Rules: []Rule{Required("r"), MinLength(8, "m")}},
	})

	assert.Empty(t, failures)
	f.deliver()
	assert.Empty(t, f.announcer.Delivered())
}

func TestValidateForm_TrimsValues(t *testing.T) {
	f := newFixture(t)
	f.addField("username", "  a@b.co  ")

	failures := f.v.ValidateForm([]Field{
		{ID: "username", Rules: []Rule{Required("r"), Email("e")}},
	})

	assert.Empty(t, failures)
}

func TestValidateForm_MissingFieldSkipped(t *testing.T) {
	f := newFixture(t)
	f.addField("password", "12345678")

	failures := f.v.ValidateForm([]Field{
		{ID: "ghost", Rules: []Rule{Required("r")}},
		{ID: "password", Rules: []Rule{Required("r")}},
	})

	assert.Empty(t, failures)
}

func TestClearField_MissingElementsNoPanic(t *testing.T) {
	f := newFixture(t)

	f.v.ClearField("nope")
}
