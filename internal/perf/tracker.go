// Package perf implements a real-time performance-sample tracker: a
// fixed-capacity sliding window over timestamped measurements exposing an
// instantaneous rate, a windowed average, an exponentially smoothed rate, and
// a weighted standard deviation to concurrent readers.
package perf

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/perfpulse/internal/clock"
	"github.com/HerbHall/perfpulse/internal/runstate"
)

// rcRatio fixes the rate EMA's time constant at a third of the sampling
// window, so the smoothed rate settles within roughly one window of samples.
const rcRatio = 0.33

// WindowSource supplies the live sampling window for trackers without a fixed
// override. Implementations own their thread safety; config.Settings is the
// usual source.
type WindowSource interface {
	SampleWindow() time.Duration
}

// StateSource is the slice of the run-state publisher a tracker needs: a
// scoped registration for transition callbacks.
type StateSource interface {
	Subscribe(fn runstate.Callback) (unsubscribe func())
}

// Options configures a Tracker.
type Options struct {
	// Name identifies the tracker in logs and metrics.
	Name string

	// Window fixes the sampling window for this instance. When zero the
	// tracker reads Source on every use instead, which makes the window
	// hot-reloadable.
	Window time.Duration

	// Source supplies the window when Window is zero.
	Source WindowSource

	// LogName enables the per-sample plain-text log when non-empty; the file
	// is created under LogDir on first write.
	LogName string

	// LogDir is the directory sample logs are written under.
	LogDir string

	// LogEnabled gates sample logging at runtime. Nil means always enabled
	// when LogName is set.
	LogEnabled func() bool

	// States, when non-nil, drives pause/resume from run-state transitions.
	// The registration is released by Close.
	States StateSource

	// Clock overrides the wall clock, for tests.
	Clock *clock.Clock
}

// Tracker accumulates samples over a sliding time window and derives
// statistics from them. One writer feeds it via the Count methods; any number
// of readers poll the accessors concurrently. All state sits behind a single
// reader/writer lock with O(1) amortized critical sections.
type Tracker struct {
	name   string
	window time.Duration
	source WindowSource
	clk    *clock.Clock

	unsubscribe func()
	slog        *sampleLog

	mu       sync.RWMutex
	ring     ring
	lastTime time.Time
	paused   bool
	rateAvg  float64
	valueAvg time.Duration
	stdDev   time.Duration
	stdValid bool
}

// New creates a Tracker. Either Options.Window or Options.Source must be set.
func New(opts Options, logger *zap.Logger) (*Tracker, error) {
	if opts.Window <= 0 && opts.Source == nil {
		return nil, errors.New("perf: tracker needs a fixed window or a window source")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &Tracker{
		name:   opts.Name,
		window: opts.Window,
		source: opts.Source,
		clk:    opts.Clock,
	}
	if t.clk == nil {
		t.clk = &clock.Clock{}
	}
	if opts.LogName != "" {
		path := filepath.Join(opts.LogDir, opts.LogName)
		t.slog = newSampleLog(path, opts.LogEnabled, logger.With(zap.String("tracker", opts.Name)))
	}

	t.Reset()

	if opts.States != nil {
		t.unsubscribe = opts.States.Subscribe(func(s runstate.State) {
			switch s {
			case runstate.Paused:
				t.SetPaused(true)
			case runstate.Running:
				t.SetPaused(false)
			}
		})
	}
	return t, nil
}

// Close releases the run-state registration and the sample log file.
// The tracker must not be used after Close.
func (t *Tracker) Close() error {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	if t.slog != nil {
		return t.slog.close()
	}
	return nil
}

// Name returns the tracker's identifying name.
func (t *Tracker) Name() string {
	return t.name
}

// Count ingests one event. Both the sample's value and its window span are
// the wall-clock time elapsed since the previous sample.
func (t *Tracker) Count() {
	t.count(0, false, false)
}

// CountValue ingests one event whose value is v rather than the elapsed time.
// Window eviction and the EMA time constant still use the wall-clock elapsed.
func (t *Tracker) CountValue(v time.Duration) {
	t.count(v, true, false)
}

// CountSpan ingests a continuous-duration measurement: v is both the sample's
// value and the span it occupies in the window, independent of when the
// previous sample arrived.
func (t *Tracker) CountSpan(v time.Duration) {
	t.count(v, true, true)
}

func (t *Tracker) count(custom time.Duration, hasCustom, continuous bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.paused {
		return
	}

	window := t.SampleWindow()

	now := t.clk.Time()
	elapsed := now.Sub(t.lastTime)
	t.lastTime = now

	value := elapsed
	if hasCustom {
		value = custom
	}
	duration := elapsed
	if continuous {
		duration = value
	}

	// A window far longer than the sample cadence can outgrow the ring before
	// time-based eviction kicks in; drop the oldest to make room.
	if t.ring.full() {
		t.ring.pop()
	}
	t.ring.push(sample{duration: duration, value: value})

	// Slide the window: shed trailing samples while the retained span still
	// reaches the configured length. A lone sample survives regardless, so
	// the averages stay defined.
	for t.ring.len() > 1 && t.ring.totalDuration >= window {
		t.ring.pop()
	}

	n := t.ring.len()
	t.valueAvg = t.ring.totalValue / time.Duration(n)

	// Instantaneous rate in samples per second.
	var hz float64
	if t.ring.totalDuration > 0 {
		hz = float64(n) / t.ring.totalDuration.Seconds()
	}

	// One-pole low-pass of the rate. A non-finite stored average (degenerate
	// prior state) is hard-reset instead of smoothed, since the filter would
	// never recover from it.
	rc := rcRatio * window.Seconds()
	a := 1.0 - math.Exp(-duration.Seconds()/rc)
	if math.IsNaN(t.rateAvg) || math.IsInf(t.rateAvg, 0) {
		t.rateAvg = hz
	} else {
		t.rateAvg += a * (hz - t.rateAvg)
	}

	t.stdValid = false

	if t.slog != nil {
		t.slog.write(value)
	}
}

// SampleWindow returns the effective sampling window: the instance override
// when set, otherwise the live source value, floored at one microsecond.
// It reads only immutable or externally-owned configuration and therefore
// takes no lock.
func (t *Tracker) SampleWindow() time.Duration {
	w := t.window
	if w <= 0 {
		w = t.source.SampleWindow()
	}
	if w < time.Microsecond {
		w = time.Microsecond
	}
	return w
}

// RateAvg returns the exponentially smoothed rate in samples per second.
func (t *Tracker) RateAvg() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rateAvg
}

// ValueAvg returns the simple moving average of sample values across the
// current window.
func (t *Tracker) ValueAvg() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.valueAvg
}

// ValueStdDev returns the weighted population standard deviation of sample
// values against the current moving average, zero on an empty window. The
// result is cached until the next ingestion; populating the cache is a write,
// so this takes the exclusive lock.
func (t *Tracker) ValueStdDev() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stdValid {
		return t.stdDev
	}
	t.stdValid = true

	if t.ring.empty() {
		t.stdDev = 0
		return 0
	}

	mean := t.valueAvg.Seconds()
	total := 0.0
	for i := 0; i < t.ring.len(); i++ {
		diff := t.ring.at(i).value.Seconds() - mean
		total += diff * diff
	}
	t.stdDev = time.Duration(math.Sqrt(total/float64(t.ring.len())) * float64(time.Second))
	return t.stdDev
}

// LastRawValue returns the most recently ingested sample value, zero when the
// window is empty.
func (t *Tracker) LastRawValue() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.ring.empty() {
		return 0
	}
	return t.ring.back().value
}

// Samples returns the number of samples currently retained in the window.
func (t *Tracker) Samples() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ring.len()
}

// Reset clears the window and all derived state and re-anchors the
// last-sample timestamp to now.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ring.clear()
	t.lastTime = t.clk.Time()
	t.rateAvg = 0
	t.valueAvg = 0
	t.stdDev = 0
	t.stdValid = false
}

// SetPaused suspends or resumes elapsed-time accounting. While paused,
// ingestion is a no-op and the window keeps its contents. The last-sample
// timestamp parks in the far future so the pause gap never leaks into the
// first sample after resuming.
func (t *Tracker) SetPaused(paused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.paused = paused
	if paused {
		t.lastTime = clock.MaxTime
	} else {
		t.lastTime = t.clk.Time()
	}
}
