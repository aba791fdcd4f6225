package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clk := NewMockClock(start)

	assert.Equal(t, start, clk.Now())
	assert.Equal(t, start, clk.Now())

	clk.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), clk.Now())

	later := start.AddDate(0, 1, 0)
	clk.Set(later)
	assert.Equal(t, later, clk.Now())
}

func TestTickingClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clk := NewTickingClock(start, time.Second)

	first := clk.Now()
	second := clk.Now()
	assert.Equal(t, start, first)
	assert.True(t, second.After(first))
}

func TestRealClock(t *testing.T) {
	now := NewRealClock().Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%1000)
}

func TestFunc(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	var c Clock = Func(func() time.Time { return fixed })
	assert.Equal(t, fixed, c.Now())
}
