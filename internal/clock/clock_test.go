package clock

import (
	"testing"
	"time"
)

func TestClock_RealTimeByDefault(t *testing.T) {
	var c Clock

	before := time.Now()
	got := c.Time()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Time() = %v, want between %v and %v", got, before, after)
	}
}

func TestClock_SetAndAdvance(t *testing.T) {
	var c Clock
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	c.Set(base)
	if got := c.Time(); !got.Equal(base) {
		t.Errorf("Time() after Set = %v, want %v", got, base)
	}

	c.Advance(90 * time.Second)
	if got := c.Time(); !got.Equal(base.Add(90 * time.Second)) {
		t.Errorf("Time() after Advance = %v, want %v", got, base.Add(90*time.Second))
	}

	// Set is sticky until Sync.
	if got := c.Time(); !got.Equal(base.Add(90 * time.Second)) {
		t.Errorf("pinned clock moved on its own: %v", got)
	}
}

func TestClock_Sync(t *testing.T) {
	var c Clock
	c.Set(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	c.Sync()

	if c.Time().Year() == 2000 {
		t.Error("Time() still pinned after Sync()")
	}
}

func TestMaxTime_IsFarFuture(t *testing.T) {
	if !MaxTime.After(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Errorf("MaxTime = %v, want far future", MaxTime)
	}
}
