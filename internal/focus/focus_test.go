package focus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allyshop/internal/announce"
	"allyshop/internal/dom"
	"allyshop/internal/sched"
)

type fixture struct {
	ctl       *Controller
	doc       *dom.Document
	clock     *sched.Manual
	announcer *announce.Announcer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doc := dom.NewDocument()
	clock := sched.NewManual()
	announcer := announce.New(doc, clock)
	return &fixture{
		ctl:       NewController(doc, announcer),
		doc:       doc,
		clock:     clock,
		announcer: announcer,
	}
}

func (f *fixture) deliver() {
	f.clock.Advance(16 * time.Millisecond)
}

func (f *fixture) button(id, text string) *dom.Element {
	el := f.doc.CreateElement("button")
	el.SetAttribute("id", id)
	el.SetText(text)
	f.doc.Root().AppendChild(el)
	return el
}

func TestFocusLocator_MissingTarget(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.ctl.FocusLocator("#nowhere", DefaultOptions()))
	assert.Nil(t, f.doc.ActiveElement())
}

func TestFocusLocator_ByID(t *testing.T) {
	f := newFixture(t)
	btn := f.button("go", "이동")

	assert.True(t, f.ctl.FocusLocator("#go", DefaultOptions()))
	assert.Same(t, btn, f.doc.ActiveElement())
}

func TestFocusElement_NonInteractiveGetsTabindex(t *testing.T) {
	f := newFixture(t)
	div := f.doc.CreateElement("div")
	f.doc.Root().AppendChild(div)

	require.True(t, f.ctl.FocusElement(div, DefaultOptions()))

	ti, ok := div.Attribute("tabindex")
	require.True(t, ok)
	assert.Equal(t, "-1", ti)
	assert.Same(t, div, f.doc.ActiveElement())
}

func TestFocusElement_KeepsExistingTabindex(t *testing.T) {
	f := newFixture(t)
	div := f.doc.CreateElement("div")
	div.SetAttribute("tabindex", "0")
	f.doc.Root().AppendChild(div)

	f.ctl.FocusElement(div, DefaultOptions())

	ti, _ := div.Attribute("tabindex")
	assert.Equal(t, "0", ti)
}

func TestFocusElement_Scrolls(t *testing.T) {
	f := newFixture(t)
	btn := f.button("go", "이동")

	f.ctl.FocusElement(btn, DefaultOptions())

	scroll, ok := f.doc.LastScroll()
	require.True(t, ok)
	assert.Same(t, btn, scroll.Element)
	assert.Equal(t, "smooth", scroll.Behavior)
	assert.Equal(t, "center", scroll.Block)
}

func TestFocusElement_PreventScroll(t *testing.T) {
	f := newFixture(t)
	btn := f.button("go", "이동")

	opts := DefaultOptions()
	opts.PreventScroll = true
	f.ctl.FocusElement(btn, opts)

	_, ok := f.doc.LastScroll()
	assert.False(t, ok)
}

func TestFocusElement_AnnouncesLabel(t *testing.T) {
	f := newFixture(t)
	btn := f.button("go", "장바구니")

	f.ctl.FocusElement(btn, DefaultOptions())
	f.deliver()

	last, ok := f.announcer.Last()
	require.True(t, ok)
	assert.Equal(t, "장바구니로 포커스가 이동되었습니다.", last.Text)
	assert.Equal(t, announce.Polite, last.Priority)
}

func TestFocusElement_Silent(t *testing.T) {
	f := newFixture(t)
	btn := f.button("go", "장바구니")

	f.ctl.FocusElement(btn, Silent())
	f.deliver()

	assert.Empty(t, f.announcer.Delivered())
}

func TestFocusElement_Nil(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.ctl.FocusElement(nil, DefaultOptions()))
}

func TestTrap_WrapsForward(t *testing.T) {
	f := newFixture(t)
	box := f.doc.CreateElement("div")
	f.doc.Root().AppendChild(box)
	a := f.doc.CreateElement("button")
	b := f.doc.CreateElement("button")
	c := f.doc.CreateElement("button")
	box.AppendChild(a)
	box.AppendChild(b)
	box.AppendChild(c)

	f.doc.Focus(c)
	assert.True(t, f.ctl.Trap(box, false))
	assert.Same(t, a, f.doc.ActiveElement())
}

func TestTrap_WrapsBackward(t *testing.T) {
	f := newFixture(t)
	box := f.doc.CreateElement("div")
	f.doc.Root().AppendChild(box)
	a := f.doc.CreateElement("button")
	b := f.doc.CreateElement("button")
	box.AppendChild(a)
	box.AppendChild(b)

	f.doc.Focus(a)
	assert.True(t, f.ctl.Trap(box, true))
	assert.Same(t, b, f.doc.ActiveElement())
}

func TestTrap_MiddleElementPassesThrough(t *testing.T) {
	f := newFixture(t)
	box := f.doc.CreateElement("div")
	f.doc.Root().AppendChild(box)
	a := f.doc.CreateElement("button")
	b := f.doc.CreateElement("button")
	c := f.doc.CreateElement("button")
	box.AppendChild(a)
	box.AppendChild(b)
	box.AppendChild(c)

	f.doc.Focus(b)
	assert.False(t, f.ctl.Trap(box, false))
	assert.Same(t, b, f.doc.ActiveElement())
}

func TestTrap_EmptyContainer(t *testing.T) {
	f := newFixture(t)
	box := f.doc.CreateElement("div")
	f.doc.Root().AppendChild(box)

	assert.False(t, f.ctl.Trap(box, false))
}

func TestLabel(t *testing.T) {
	f := newFixture(t)

	heading := f.doc.CreateElement("h2")
	heading.SetAttribute("id", "dialog-title")
	heading.SetText("  검색  ")
	f.doc.Root().AppendChild(heading)

	tests := []struct {
		name  string
		setup func(*dom.Element)
		want  string
	}{
		{"aria-label wins", func(el *dom.Element) {
			el.SetAttribute("aria-label", "닫기")
			el.SetText("X")
		}, "닫기"},
		{"aria-labelledby resolves and trims", func(el *dom.Element) {
			el.SetAttribute("aria-labelledby", "dialog-title")
		}, "검색"},
		{"own text", func(el *dom.Element) {
			el.SetText("확인")
		}, "확인"},
		{"alt", func(el *dom.Element) {
			el.SetAttribute("alt", "로고")
		}, "로고"},
		{"placeholder", func(el *dom.Element) {
			el.SetAttribute("placeholder", "검색어 입력")
		}, "검색어 입력"},
		{"tag fallback", func(el *dom.Element) {}, "button"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := f.doc.CreateElement("button")
			f.doc.Root().AppendChild(el)
			tt.setup(el)
			assert.Equal(t, tt.want, Label(el))
		})
	}
}

func TestLabel_DanglingLabelledbyFallsThrough(t *testing.T) {
	f := newFixture(t)
	el := f.doc.CreateElement("button")
	el.SetAttribute("aria-labelledby", "gone")
	el.SetText("다음")
	f.doc.Root().AppendChild(el)

	assert.Equal(t, "다음", Label(el))
}
