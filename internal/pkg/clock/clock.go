// Package clock abstracts the time source that stamps products, columns and
// events, so tests control it.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

// NewRealClock returns the system clock. Times are UTC and truncated to
// microseconds so they survive a Spanner TIMESTAMP round trip unchanged.
func NewRealClock() Clock {
	return Func(func() time.Time {
		return time.Now().UTC().Truncate(time.Microsecond)
	})
}

// MockClock is a settable clock for tests. It is safe for concurrent use.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewMockClock returns a clock frozen at start until Set or Advance.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{current: start}
}

// NewTickingClock returns a clock that moves forward by step after every Now,
// so records created in sequence get strictly increasing stamps.
func NewTickingClock(start time.Time, step time.Duration) *MockClock {
	return &MockClock{current: start, step: step}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.current
	m.current = now.Add(m.step)
	return now
}

func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}
