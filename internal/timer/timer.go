// Package timer tracks workout pacing: a general elapsed-time stopwatch and a
// rest countdown sharing one state record. It knows nothing about exercises
// or sets.
package timer

import (
	"sync"
	"time"
)

// RestTimer is the shared stopwatch/countdown state. The zero value is not
// usable; construct with New.
type RestTimer struct {
	mu  sync.Mutex
	now func() time.Time

	running     bool
	startedAt   time.Time
	accumulated time.Duration

	resting       bool
	restStartedAt time.Time
	restDuration  time.Duration
}

// New creates a stopped timer. now may be nil, defaulting to time.Now;
// tests inject a fake clock.
func New(now func() time.Time) *RestTimer {
	if now == nil {
		now = time.Now
	}
	return &RestTimer{now: now}
}

// Start begins (or resumes) the elapsed-time stopwatch. No-op while running.
func (t *RestTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.startedAt = t.now()
}

// Pause freezes elapsed time at the current wall-clock delta.
func (t *RestTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.accumulated += t.now().Sub(t.startedAt)
	t.running = false
}

// Reset zeroes elapsed time and clears the resting flag. Configured default
// durations are untouched; they live in TimerSettings, not here.
func (t *RestTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.accumulated = 0
	t.resting = false
	t.restDuration = 0
}

// StartRest begins a rest countdown. This always marks the timer resting and
// running, regardless of the stopwatch's previous state.
func (t *RestTimer) StartRest(d time.Duration) {
	if d <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if !t.running {
		t.running = true
		t.startedAt = now
	}
	t.resting = true
	t.restStartedAt = now
	t.restDuration = d
}

// Skip ends the rest countdown without touching the stopwatch.
func (t *RestTimer) Skip() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resting = false
	t.restDuration = 0
}

// Elapsed returns total stopwatch time, including the live segment while
// running.
func (t *RestTimer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return t.accumulated + t.now().Sub(t.startedAt)
	}
	return t.accumulated
}

// RestRemaining returns how much of the rest countdown is left, clamped at
// zero. Zero while not resting.
func (t *RestTimer) RestRemaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.resting {
		return 0
	}
	rem := t.restDuration - t.now().Sub(t.restStartedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

// Running reports whether the stopwatch is running.
func (t *RestTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Resting reports whether a rest countdown is active.
func (t *RestTimer) Resting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resting
}
