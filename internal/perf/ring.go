package perf

import "time"

// ringCapacity bounds how many samples a tracker retains. One slot is kept
// open so a full buffer is distinguishable from an empty one.
const ringCapacity = 1 << 14

// sample pairs the wall-clock span a measurement occupies with the measured
// value. For plain event tracking the two are equal; value tracking overrides
// the value while the span still drives window eviction.
type sample struct {
	duration time.Duration
	value    time.Duration
}

// ring is a fixed-capacity circular buffer of samples with running totals
// kept in lockstep with the contents. It is not safe for concurrent use;
// the tracker's lock guards it. No allocation happens after construction.
type ring struct {
	buf   [ringCapacity]sample
	begin int
	end   int

	totalDuration time.Duration
	totalValue    time.Duration
}

func (r *ring) clear() {
	r.begin = 0
	r.end = 0
	r.totalDuration = 0
	r.totalValue = 0
}

func (r *ring) len() int {
	return (r.end - r.begin + ringCapacity) % ringCapacity
}

func (r *ring) empty() bool {
	return r.begin == r.end
}

func (r *ring) full() bool {
	return r.len() == ringCapacity-1
}

// push appends s at the logical end. The caller's eviction policy must keep
// the buffer below capacity; overflowing it would silently corrupt every
// derived statistic, so push panics instead.
func (r *ring) push(s sample) {
	if r.full() {
		panic("perf: sample ring capacity exceeded")
	}
	r.buf[r.end] = s
	r.end = (r.end + 1) % ringCapacity
	r.totalDuration += s.duration
	r.totalValue += s.value
}

// pop removes and returns the oldest sample.
func (r *ring) pop() sample {
	if r.empty() {
		panic("perf: pop from empty sample ring")
	}
	s := r.buf[r.begin]
	r.begin = (r.begin + 1) % ringCapacity
	r.totalDuration -= s.duration
	r.totalValue -= s.value
	if r.totalDuration < 0 {
		panic("perf: sample ring total duration went negative")
	}
	return s
}

// front returns the oldest sample. Undefined on an empty ring.
func (r *ring) front() sample {
	return r.buf[r.begin]
}

// back returns the newest sample. Undefined on an empty ring.
func (r *ring) back() sample {
	return r.buf[(r.end-1+ringCapacity)%ringCapacity]
}

// at returns the i-th sample counting from the oldest.
func (r *ring) at(i int) sample {
	return r.buf[(r.begin+i)%ringCapacity]
}
