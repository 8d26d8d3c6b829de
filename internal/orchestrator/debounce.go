package orchestrator

import (
	"sync"
	"time"
)

// debouncer collapses rapid successive schedule calls into a single
// callback invocation after a quiet period. The callback never runs
// concurrently with itself from the debouncer.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	seq      uint64
	callback func()
}

func newDebouncer(delay time.Duration, callback func()) *debouncer {
	return &debouncer{delay: delay, callback: callback}
}

// schedule arms the timer, replacing any pending invocation. With a zero
// or negative delay the callback runs synchronously.
func (d *debouncer) schedule(delay time.Duration) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if delay <= 0 {
		d.mu.Unlock()
		d.callback()
		return
	}
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		stale := d.seq != seq
		d.mu.Unlock()
		if !stale {
			d.callback()
		}
	})
	d.mu.Unlock()
}

// scheduleDefault arms the timer with the configured delay.
func (d *debouncer) scheduleDefault() {
	d.schedule(d.delay)
}

// cancel drops any pending invocation.
func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
