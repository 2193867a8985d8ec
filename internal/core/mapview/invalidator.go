package mapview

import (
	"sync"
	"time"
)

// Invalidator coalesces bursts of triggers into a single delayed call.
// Every Trigger restarts the delay. Each map connection owns its own
// Invalidator; Stop cancels a pending call and disables further triggers.
type Invalidator struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

func NewInvalidator(delay time.Duration, fn func()) *Invalidator {
	return &Invalidator{delay: delay, fn: fn}
}

// Trigger schedules fn to run after the delay, replacing any pending run.
func (i *Invalidator) Trigger() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.stopped {
		return
	}
	if i.timer != nil {
		i.timer.Stop()
	}
	i.timer = time.AfterFunc(i.delay, i.fire)
}

func (i *Invalidator) fire() {
	i.mu.Lock()
	if i.stopped {
		i.mu.Unlock()
		return
	}
	i.timer = nil
	i.mu.Unlock()

	i.fn()
}

// Pending reports whether a call is scheduled.
func (i *Invalidator) Pending() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.timer != nil
}

func (i *Invalidator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stopped = true
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
}
