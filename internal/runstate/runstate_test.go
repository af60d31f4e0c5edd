package runstate

import (
	"testing"

	"go.uber.org/zap"
)

func TestPublisher_InitialState(t *testing.T) {
	p := NewPublisher(zap.NewNop())
	if got := p.State(); got != Starting {
		t.Errorf("State() = %v, want %v", got, Starting)
	}
}

func TestPublisher_SetNotifiesSubscribers(t *testing.T) {
	p := NewPublisher(zap.NewNop())

	var got []State
	unsub := p.Subscribe(func(s State) { got = append(got, s) })
	defer unsub()

	p.Set(Running)
	p.Set(Paused)
	p.Set(Running)

	want := []State{Running, Paused, Running}
	if len(got) != len(want) {
		t.Fatalf("received %d transitions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPublisher_SetSameStateIsNoOp(t *testing.T) {
	p := NewPublisher(zap.NewNop())

	calls := 0
	unsub := p.Subscribe(func(State) { calls++ })
	defer unsub()

	p.Set(Running)
	p.Set(Running)
	p.Set(Running)

	if calls != 1 {
		t.Errorf("callback invoked %d times, want 1", calls)
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	p := NewPublisher(zap.NewNop())

	calls := 0
	unsub := p.Subscribe(func(State) { calls++ })

	p.Set(Running)
	unsub()
	p.Set(Paused)

	if calls != 1 {
		t.Errorf("callback invoked %d times after unsubscribe, want 1", calls)
	}

	// Second call must be harmless.
	unsub()
}

func TestPublisher_UnsubscribeOnlyRemovesOwnEntry(t *testing.T) {
	p := NewPublisher(zap.NewNop())

	aCalls, bCalls := 0, 0
	unsubA := p.Subscribe(func(State) { aCalls++ })
	unsubB := p.Subscribe(func(State) { bCalls++ })
	defer unsubB()

	unsubA()
	p.Set(Running)

	if aCalls != 0 {
		t.Errorf("unsubscribed callback invoked %d times", aCalls)
	}
	if bCalls != 1 {
		t.Errorf("remaining callback invoked %d times, want 1", bCalls)
	}
}

func TestPublisher_PanickingCallbackDoesNotStopOthers(t *testing.T) {
	p := NewPublisher(zap.NewNop())

	unsubBad := p.Subscribe(func(State) { panic("boom") })
	defer unsubBad()

	calls := 0
	unsub := p.Subscribe(func(State) { calls++ })
	defer unsub()

	p.Set(Running)

	if calls != 1 {
		t.Errorf("callback after panicking sibling invoked %d times, want 1", calls)
	}
	if got := p.State(); got != Running {
		t.Errorf("State() = %v, want %v", got, Running)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Starting, "starting"},
		{Running, "running"},
		{Paused, "paused"},
		{Stopping, "stopping"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
