package records

import (
	"encoding/json"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTimer_NotStarted(t *testing.T) {
	timer := NewTimer(newFakeClock().Now)
	if timer.Running() {
		t.Error("Expected new timer not to be running")
	}
	if got := timer.Elapsed(); got != 0 {
		t.Errorf("Expected 0 elapsed before start, got %v", got)
	}

	// Stopping an unstarted timer is a no-op
	timer.Stop()
	if timer.StoppedAt != nil {
		t.Error("Expected Stop before Start to be ignored")
	}
}

func TestTimer_ElapsedIsRecomputed(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)
	timer.Start()

	clock.Advance(1500 * time.Millisecond)
	if got := timer.Elapsed(); got != 1.5 {
		t.Errorf("Expected 1.5s, got %v", got)
	}

	clock.Advance(2 * time.Second)
	if got := timer.Elapsed(); got != 3.5 {
		t.Errorf("Expected 3.5s, got %v", got)
	}
	if !timer.Running() {
		t.Error("Expected timer to be running")
	}
}

func TestTimer_StopFreezes(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)
	timer.Start()

	clock.Advance(10 * time.Second)
	timer.Stop()
	clock.Advance(5 * time.Second)

	if got := timer.Elapsed(); got != 10 {
		t.Errorf("Expected elapsed frozen at 10s, got %v", got)
	}

	// Second stop keeps the first instant
	timer.Stop()
	if got := timer.Elapsed(); got != 10 {
		t.Errorf("Expected elapsed to stay 10s after second stop, got %v", got)
	}
	if timer.Running() {
		t.Error("Expected stopped timer not to be running")
	}
}

func TestTimer_StartDiscardsPreviousRun(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)
	timer.Start()
	clock.Advance(30 * time.Second)
	timer.Stop()

	clock.Advance(time.Minute)
	timer.Start()
	clock.Advance(2 * time.Second)

	if got := timer.Elapsed(); got != 2 {
		t.Errorf("Expected restarted timer to read 2s, got %v", got)
	}
	if !timer.Running() {
		t.Error("Expected restarted timer to run")
	}
}

func TestTimer_JSONRoundTripKeepsInstants(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)
	timer.Start()
	clock.Advance(4 * time.Second)
	timer.Stop()

	data, err := json.Marshal(timer)
	if err != nil {
		t.Fatalf("Failed to marshal timer: %v", err)
	}

	var decoded Timer
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal timer: %v", err)
	}
	decoded.SetClock(clock.Now)

	if got := decoded.Elapsed(); got != 4 {
		t.Errorf("Expected decoded timer to read 4s, got %v", got)
	}
}
