package testutil

import (
	"time"

	"github.com/light-bringer/markup-catalog/internal/pkg/clock"
)

// Epoch is the start time of test clocks.
var Epoch = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// NewFixedClock creates a mock clock fixed at the given time.
func NewFixedClock(t time.Time) *clock.MockClock {
	return clock.NewMockClock(t)
}

// NewTickingClock creates a mock clock starting at Epoch that moves one
// second forward on every read, so records created in sequence order by time.
func NewTickingClock() *clock.MockClock {
	return clock.NewTickingClock(Epoch, time.Second)
}
