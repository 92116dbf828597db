package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allyshop/internal/dom"
	"allyshop/internal/sched"
)

func newTestCenter() (*Center, *dom.Document, *sched.Manual) {
	doc := dom.NewDocument()
	clock := sched.NewManual()
	return NewCenter(doc, clock), doc, clock
}

func TestShow_AssignsIncreasingIDs(t *testing.T) {
	c, _, _ := newTestCenter()

	n1 := c.Show("첫 번째", Info, DefaultDuration)
	n2 := c.Show("두 번째", Success, DefaultDuration)

	assert.Equal(t, 1, n1.ID)
	assert.Equal(t, 2, n2.ID)
	assert.Equal(t, 2, c.Count())
}

func TestShow_CreatesContainerLazily(t *testing.T) {
	c, doc, _ := newTestCenter()

	assert.Nil(t, doc.ElementByID("notification-container"))

	c.Show("메시지", Info, DefaultDuration)

	container := doc.ElementByID("notification-container")
	require.NotNil(t, container)
	assert.Len(t, container.Children(), 1)
}

func TestShow_ErrorSeverityIsAssertive(t *testing.T) {
	c, doc, _ := newTestCenter()

	c.Show("오류가 발생했습니다.", Error, DefaultDuration)

	container := doc.ElementByID("notification-container")
	el := container.Children()[0]

	role, _ := el.Attribute("role")
	assert.Equal(t, "alert", role)
	live, _ := el.Attribute("aria-live")
	assert.Equal(t, "assertive", live)
}

func TestShow_OtherSeveritiesArePolite(t *testing.T) {
	c, doc, _ := newTestCenter()

	for _, sev := range []Severity{Info, Success, Warning} {
		c.Show("메시지", sev, DefaultDuration)
	}

	for _, el := range doc.ElementByID("notification-container").Children() {
		role, _ := el.Attribute("role")
		assert.Equal(t, "status", role)
		live, _ := el.Attribute("aria-live")
		assert.Equal(t, "polite", live)
	}
}

func TestShow_AutoDismissAfterDuration(t *testing.T) {
	c, _, clock := newTestCenter()

	c.Show("잠깐 떠 있는 메시지", Info, 5*time.Second)
	assert.Equal(t, 1, c.Count())

	clock.Advance(4 * time.Second)
	assert.Equal(t, 1, c.Count())

	clock.Advance(time.Second)
	assert.Equal(t, 0, c.Count())
}

func TestShow_StickyWithoutDuration(t *testing.T) {
	c, _, clock := newTestCenter()

	n := c.Show("수동으로 닫는 메시지", Warning, 0)

	clock.Advance(time.Hour)
	assert.Equal(t, 1, c.Count())

	assert.True(t, c.Dismiss(n.ID))
	assert.Equal(t, 0, c.Count())
}

func TestDismiss_CancelsTimer(t *testing.T) {
	c, _, clock := newTestCenter()

	n := c.Show("메시지", Info, 5*time.Second)
	require.True(t, c.Dismiss(n.ID))

	// The timer must not fire against a reused slot later
	clock.Advance(10 * time.Second)
	assert.Equal(t, 0, c.Count())
	assert.False(t, c.Dismiss(n.ID))
}

func TestActive_NewestFirst(t *testing.T) {
	c, _, _ := newTestCenter()

	c.Show("하나", Info, DefaultDuration)
	c.Show("둘", Info, DefaultDuration)
	c.Show("셋", Info, DefaultDuration)

	active := c.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "셋", active[0].Text)
	assert.Equal(t, "하나", active[2].Text)
}

func TestClear_KeepsCountingIDs(t *testing.T) {
	c, _, _ := newTestCenter()

	c.Show("하나", Info, DefaultDuration)
	c.Show("둘", Info, DefaultDuration)
	c.Clear()
	assert.Equal(t, 0, c.Count())

	n := c.Show("셋", Info, DefaultDuration)
	assert.Equal(t, 3, n.ID)
}

func TestClear_RemovesElements(t *testing.T) {
	c, doc, _ := newTestCenter()

	c.Show("하나", Info, DefaultDuration)
	c.Show("둘", Error, DefaultDuration)
	c.Clear()

	assert.Empty(t, doc.ElementByID("notification-container").Children())
}

func TestObserve_FiresInArrivalOrder(t *testing.T) {
	c, _, _ := newTestCenter()

	var seen []string
	c.Observe(func(n Notification) { seen = append(seen, n.Text) })

	c.Show("하나", Info, DefaultDuration)
	c.Show("둘", Success, DefaultDuration)

	assert.Equal(t, []string{"하나", "둘"}, seen)
}

func TestShow_RecordsCreationTime(t *testing.T) {
	c, _, clock := newTestCenter()

	before := clock.Now()
	n := c.Show("메시지", Info, DefaultDuration)

	assert.Equal(t, before, n.CreatedAt)
}
