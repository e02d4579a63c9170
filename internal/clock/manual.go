package clock

import (
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called. Every
// NewTimer call is announced on Armed with its requested delay, which lets a
// test wait until a background goroutine has armed its next timer.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer

	armed chan time.Duration
}

// NewManual returns a Manual clock set to now.
func NewManual(now time.Time) *Manual {
	return &Manual{now: now, armed: make(chan time.Duration, 64)}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTimer implements Clock. A timer with a non-positive delay fires at once.
func (m *Manual) NewTimer(d time.Duration) Timer {
	m.mu.Lock()
	t := &manualTimer{
		clock:    m,
		deadline: m.now.Add(d),
		c:        make(chan time.Time, 1),
	}
	if d <= 0 {
		t.c <- m.now
	} else {
		m.timers = append(m.timers, t)
	}
	m.mu.Unlock()

	select {
	case m.armed <- d:
	default:
	}

	return t
}

// Armed delivers the delay of every timer created on this clock.
func (m *Manual) Armed() <-chan time.Duration {
	return m.armed
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves the clock forward by d and fires every timer whose deadline
// has been reached.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)

	pending := m.timers[:0]
	for _, t := range m.timers {
		if !t.deadline.After(m.now) {
			t.c <- m.now
			continue
		}
		pending = append(pending, t)
	}
	m.timers = pending
}

func (m *Manual) remove(t *manualTimer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, candidate := range m.timers {
		if candidate == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	clock    *Manual
	deadline time.Time
	c        chan time.Time
}

func (t *manualTimer) C() <-chan time.Time { return t.c }

func (t *manualTimer) Stop() bool { return t.clock.remove(t) }
