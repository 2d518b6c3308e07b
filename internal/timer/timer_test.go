package timer

import (
	"testing"
	"time"
)

// fakeClock advances only when told to, making timer math deterministic.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFake() (*RestTimer, *fakeClock) {
	c := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	return New(c.now), c
}

// TestStopwatch verifies start/pause accumulate elapsed time across segments.
func TestStopwatch(t *testing.T) {
	rt, clock := newFake()

	rt.Start()
	clock.advance(30 * time.Second)
	rt.Pause()
	if got := rt.Elapsed(); got != 30*time.Second {
		t.Errorf("elapsed = %v, want 30s", got)
	}

	// Time passing while paused doesn't count.
	clock.advance(time.Minute)
	if got := rt.Elapsed(); got != 30*time.Second {
		t.Errorf("elapsed while paused = %v, want 30s", got)
	}

	rt.Start()
	clock.advance(15 * time.Second)
	if got := rt.Elapsed(); got != 45*time.Second {
		t.Errorf("elapsed after resume = %v, want 45s", got)
	}
}

// TestReset verifies reset zeroes elapsed time and clears the resting flag.
func TestReset(t *testing.T) {
	rt, clock := newFake()

	rt.Start()
	clock.advance(time.Minute)
	rt.StartRest(90 * time.Second)
	rt.Reset()

	if rt.Elapsed() != 0 {
		t.Errorf("elapsed after reset = %v, want 0", rt.Elapsed())
	}
	if rt.Resting() {
		t.Error("still resting after reset")
	}
	if rt.Running() {
		t.Error("still running after reset")
	}
}

// TestStartRestStartsStopwatch verifies starting a rest countdown marks the
// timer resting and running even when the stopwatch was stopped.
func TestStartRestStartsStopwatch(t *testing.T) {
	rt, clock := newFake()

	rt.StartRest(90 * time.Second)
	if !rt.Resting() || !rt.Running() {
		t.Fatal("StartRest did not mark timer resting and running")
	}

	clock.advance(30 * time.Second)
	if got := rt.RestRemaining(); got != time.Minute {
		t.Errorf("rest remaining = %v, want 1m", got)
	}
	if got := rt.Elapsed(); got != 30*time.Second {
		t.Errorf("elapsed = %v, want 30s", got)
	}
}

// TestRestRemainingClamped verifies the countdown clamps at zero after the
// duration passes.
func TestRestRemainingClamped(t *testing.T) {
	rt, clock := newFake()

	rt.StartRest(time.Minute)
	clock.advance(2 * time.Minute)
	if got := rt.RestRemaining(); got != 0 {
		t.Errorf("rest remaining = %v, want 0", got)
	}
	// Still flagged as resting until skipped or reset.
	if !rt.Resting() {
		t.Error("resting flag cleared without skip/reset")
	}
}

// TestSkip verifies skipping ends the rest without touching the stopwatch.
func TestSkip(t *testing.T) {
	rt, clock := newFake()

	rt.Start()
	clock.advance(10 * time.Second)
	rt.StartRest(time.Minute)
	rt.Skip()

	if rt.Resting() {
		t.Error("still resting after skip")
	}
	if rt.RestRemaining() != 0 {
		t.Errorf("rest remaining after skip = %v, want 0", rt.RestRemaining())
	}
	if !rt.Running() {
		t.Error("stopwatch stopped by skip")
	}
	if got := rt.Elapsed(); got != 10*time.Second {
		t.Errorf("elapsed = %v, want 10s", got)
	}
}

// TestStartRestIgnoresNonPositive verifies degenerate durations are no-ops.
func TestStartRestIgnoresNonPositive(t *testing.T) {
	rt, _ := newFake()
	rt.StartRest(0)
	rt.StartRest(-time.Second)
	if rt.Resting() || rt.Running() {
		t.Error("non-positive rest duration changed timer state")
	}
}
