// Package debounce provides a cancel-and-reschedule timer: every Trigger
// pushes the pending commit out by the full cooldown, so a burst of rapid
// changes produces a single commit after the burst settles.
package debounce

import (
	"sync"
	"time"
)

type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	commit  func()
	timer   *time.Timer
	stopped bool
}

func New(delay time.Duration, commit func()) *Debouncer {
	return &Debouncer{
		delay:  delay,
		commit: commit,
	}
}

// Trigger schedules the commit after the cooldown, cancelling any commit
// already pending. No-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.commit()
	})
}

// Flush runs a pending commit immediately, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	stopped := d.stopped
	d.mu.Unlock()

	if pending && !stopped {
		d.commit()
	}
}

// Stop cancels any pending commit and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
