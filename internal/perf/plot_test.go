package perf

import (
	"math"
	"testing"
	"time"
)

func TestPlotPoints_EmptyWindow(t *testing.T) {
	tr, _ := newTestTracker(t, 10*time.Second)

	if got := tr.PlotPoints(); got != nil {
		t.Errorf("PlotPoints() = %v, want nil", got)
	}
}

func TestPlotPoints_StepVertices(t *testing.T) {
	tr, clk := newTestTracker(t, 10*time.Second)

	clk.Advance(4 * time.Millisecond)
	tr.Count()
	clk.Advance(6 * time.Millisecond)
	tr.Count()
	clk.Advance(2 * time.Millisecond) // time since the last sample

	pts := tr.PlotPoints()
	if len(pts) != 6 {
		t.Fatalf("len(PlotPoints()) = %d, want 6", len(pts))
	}

	// Two vertices for the live segment (newest value held from now back to
	// the last sample), then two per sample walking into the past.
	want := []PlotPoint{
		{X: 0, Y: 6},
		{X: 2, Y: 6},
		{X: 2, Y: 6},
		{X: 8, Y: 6},
		{X: 8, Y: 4},
		{X: 12, Y: 4},
	}
	for i := range want {
		if math.Abs(pts[i].X-want[i].X) > 1e-9 || math.Abs(pts[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("pts[%d] = (%v, %v), want (%v, %v)", i, pts[i].X, pts[i].Y, want[i].X, want[i].Y)
		}
	}
}

func TestPlotPoints_MonotonicX(t *testing.T) {
	tr, clk := newTestTracker(t, time.Second)

	for i := 0; i < 20; i++ {
		clk.Advance(time.Duration(5+i) * time.Millisecond)
		tr.Count()
	}

	pts := tr.PlotPoints()
	if len(pts) == 0 {
		t.Fatal("PlotPoints() returned no vertices")
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].X < pts[i-1].X {
			t.Fatalf("X not monotonic at %d: %v < %v", i, pts[i].X, pts[i-1].X)
		}
	}
}

func TestPlotPoints_DoesNotMutate(t *testing.T) {
	tr, clk := newTestTracker(t, 10*time.Second)

	clk.Advance(4 * time.Millisecond)
	tr.Count()

	avg, n := tr.ValueAvg(), tr.Samples()
	_ = tr.PlotPoints()
	_ = tr.PlotPoints()

	if got := tr.ValueAvg(); got != avg {
		t.Errorf("ValueAvg() changed: %v, want %v", got, avg)
	}
	if got := tr.Samples(); got != n {
		t.Errorf("Samples() changed: %d, want %d", got, n)
	}
}

func TestPlotPoints_PausedClampsLiveSegment(t *testing.T) {
	tr, clk := newTestTracker(t, 10*time.Second)

	clk.Advance(4 * time.Millisecond)
	tr.Count()
	tr.SetPaused(true)

	pts := tr.PlotPoints()
	if len(pts) < 2 {
		t.Fatalf("len(PlotPoints()) = %d, want >= 2", len(pts))
	}
	if pts[1].X != 0 {
		t.Errorf("live segment X while paused = %v, want 0", pts[1].X)
	}
}
