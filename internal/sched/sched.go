// Package sched wraps the clock behind a small scheduling capability so that
// every delayed callback in the UI core (live-region ticks, auto-dismiss
// timers, simulated network latency, deferred focus moves) is cancellable and
// testable without real time passing.
package sched

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a scheduled callback handle. Stop cancels the callback and reports
// whether it was still pending.
type Task interface {
	Stop() bool
}

// Scheduler hands out cancellable one-shot timers.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Task
}

type clockScheduler struct {
	clock clockwork.Clock
}

// New returns a Scheduler backed by the real clock.
func New() Scheduler {
	return NewWithClock(clockwork.NewRealClock())
}

// NewWithClock returns a Scheduler backed by the given clock.
func NewWithClock(clock clockwork.Clock) Scheduler {
	return &clockScheduler{clock: clock}
}

func (s *clockScheduler) Now() time.Time {
	return s.clock.Now()
}

func (s *clockScheduler) After(d time.Duration, fn func()) Task {
	return s.clock.AfterFunc(d, fn)
}

// Manual is a Scheduler for tests. Nothing fires until Advance is called;
// due callbacks then run synchronously in deadline order, so tests observe a
// deterministic sequence of events.
type Manual struct {
	mu      sync.Mutex
	clock   *clockwork.FakeClock
	seq     int
	pending []*manualTask
}

type manualTask struct {
	owner   *Manual
	due     time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManual creates a manual scheduler anchored to a fake clock.
func NewManual() *Manual {
	return &Manual{clock: clockwork.NewFakeClock()}
}

func (m *Manual) Now() time.Time {
	return m.clock.Now()
}

func (m *Manual) After(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{owner: m, due: m.clock.Now().Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves the fake clock forward and runs every callback that came due,
// in deadline order (insertion order breaks ties).
func (m *Manual) Advance(d time.Duration) {
	m.clock.Advance(d)
	for {
		t := m.popDue()
		if t == nil {
			return
		}
		t.fn()
	}
}

func (m *Manual) popDue() *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()

	// Stopped tasks are dropped here so they do not pile up for the
	// scheduler's lifetime.
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.pending = live

	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].due.Equal(m.pending[j].due) {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].due.Before(m.pending[j].due)
	})
	for i, t := range m.pending {
		if t.due.After(now) {
			break
		}
		t.fired = true
		m.pending = append(m.pending[:i], m.pending[i+1:]...)
		return t
	}
	return nil
}

// Pending returns the number of callbacks still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTask) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
