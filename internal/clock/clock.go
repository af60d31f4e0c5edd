// Package clock wraps wall-clock time behind a fakeable source so that
// time-sensitive components can be driven deterministically in tests.
package clock

import "time"

// MaxTime is the largest representable time.Time (nanoseconds dropped).
// Used as a "never" sentinel, e.g. while sample ingestion is paused.
var MaxTime = time.Unix(1<<63-62135596801, 0)

// Clock reads wall-clock time unless a fixed time has been set.
// The zero value tracks real time.
type Clock struct {
	faked bool
	now   time.Time
}

// Set pins the clock to a fixed time.
func (c *Clock) Set(t time.Time) {
	c.faked = true
	c.now = t
}

// Advance moves a pinned clock forward by d. It pins the clock first if it
// was still tracking real time.
func (c *Clock) Advance(d time.Duration) {
	if !c.faked {
		c.Set(time.Now())
	}
	c.now = c.now.Add(d)
}

// Sync returns the clock to real time.
func (c *Clock) Sync() {
	c.faked = false
}

// Time returns the current time on this clock.
func (c *Clock) Time() time.Time {
	if c.faked {
		return c.now
	}
	return time.Now()
}
