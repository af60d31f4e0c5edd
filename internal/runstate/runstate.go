// Package runstate publishes run-state transitions (running, paused, ...) to
// registered observers. It replaces ambient global state with an injected
// publisher: components that care about pause/resume subscribe at construction
// and release their registration on teardown.
package runstate

import (
	"sync"

	"go.uber.org/zap"
)

// State is a coarse lifecycle state of the monitored workload.
type State int

const (
	Starting State = iota
	Running
	Paused
	Stopping
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Callback receives each published state transition. Callbacks run in the
// publisher's calling goroutine and must not block; observers that only care
// about a subset of states ignore the rest.
type Callback func(State)

type subEntry struct {
	id uint64
	fn Callback
}

// Publisher fans state transitions out to subscribers.
type Publisher struct {
	mu     sync.RWMutex
	subs   []subEntry
	nextID uint64
	state  State
	logger *zap.Logger
}

// NewPublisher creates a Publisher in the Starting state.
func NewPublisher(logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{logger: logger}
}

// State returns the most recently published state.
func (p *Publisher) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Set records the new state and notifies all subscribers synchronously.
// Publishing the current state again is a no-op.
func (p *Publisher) Set(s State) {
	p.mu.Lock()
	if p.state == s {
		p.mu.Unlock()
		return
	}
	p.state = s
	subs := make([]subEntry, len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	p.logger.Debug("run state changed", zap.Stringer("state", s))
	for _, e := range subs {
		p.safeCall(e.fn, s)
	}
}

// Subscribe registers a callback for every subsequent state transition.
// The returned closure removes the registration; calling it more than once
// is harmless.
func (p *Publisher) Subscribe(fn Callback) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs = append(p.subs, subEntry{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, e := range p.subs {
			if e.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

func (p *Publisher) safeCall(fn Callback, s State) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("run state callback panicked",
				zap.Stringer("state", s),
				zap.Any("panic", r),
			)
		}
	}()
	fn(s)
}
