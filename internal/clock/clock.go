// Package clock provides an injectable time source so lifecycle
// timestamps and billing windows are deterministic in tests.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock {
	return systemClock{}
}

// Fixed is a manually advanced clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}
