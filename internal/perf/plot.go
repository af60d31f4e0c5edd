package perf

import "time"

// PlotPoint is one vertex of the step function describing how the measured
// value evolved across the window. X counts elapsed milliseconds backwards
// from now; Y is the value in milliseconds.
type PlotPoint struct {
	X float64
	Y float64
}

// PlotPoints returns the step-function vertices for the current window plus
// the time elapsed since the last sample, newest first, for an external
// plotting surface. It never mutates tracker state and returns nil on an
// empty window.
func (t *Tracker) PlotPoints() []PlotPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.ring.empty() {
		return nil
	}

	// A paused tracker parks lastTime in the far future; clamp instead of
	// emitting a negative leading segment.
	sinceLast := t.clk.Time().Sub(t.lastTime)
	if sinceLast < 0 {
		sinceLast = 0
	}

	n := t.ring.len()
	pts := make([]PlotPoint, 0, 2*n+2)

	// The newest value extends from now back to the last sample.
	last := t.ring.back()
	pts = append(pts, PlotPoint{X: 0, Y: millis(last.value)})
	pts = append(pts, PlotPoint{X: millis(sinceLast), Y: millis(last.value)})

	for i := n - 1; i >= 0; i-- {
		s := t.ring.at(i)
		x := pts[len(pts)-1].X
		pts = append(pts, PlotPoint{X: x, Y: millis(s.value)})
		pts = append(pts, PlotPoint{X: x + millis(s.duration), Y: millis(s.value)})
	}
	return pts
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
