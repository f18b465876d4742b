package records

import "time"

// Timer measures the time spent on one level. The elapsed value is never
// stored; it is recomputed from StartedAt on every call until Stop freezes it.
type Timer struct {
	StartedAt time.Time  `json:"started_at"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`

	now func() time.Time
}

// NewTimer creates a timer that reads the given clock. A nil clock means time.Now.
func NewTimer(now func() time.Time) *Timer {
	return &Timer{now: now}
}

// SetClock replaces the time source, used after a timer was decoded from JSON
func (t *Timer) SetClock(now func() time.Time) {
	t.now = now
}

func (t *Timer) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

// Start records the current instant as the level start, discarding any
// previous run.
func (t *Timer) Start() {
	t.StartedAt = t.clock()
	t.StoppedAt = nil
}

// Stop freezes the elapsed time. Stopping twice keeps the first instant.
func (t *Timer) Stop() {
	if t.StoppedAt != nil || t.StartedAt.IsZero() {
		return
	}
	now := t.clock()
	t.StoppedAt = &now
}

// Running reports whether the timer has started and not been stopped
func (t *Timer) Running() bool {
	return !t.StartedAt.IsZero() && t.StoppedAt == nil
}

// Elapsed returns the seconds since Start, or between Start and Stop
func (t *Timer) Elapsed() float64 {
	if t.StartedAt.IsZero() {
		return 0
	}
	end := t.clock()
	if t.StoppedAt != nil {
		end = *t.StoppedAt
	}
	d := end.Sub(t.StartedAt)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}
