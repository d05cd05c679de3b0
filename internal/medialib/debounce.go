package medialib

import (
	"sync"
	"time"
)

// debouncer coalesces rapid calls into one, running only the last function
// passed to trigger after the configured delay of quiet time. It sits
// between user intent and the state apply for high-frequency inputs such
// as search typing.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.delay <= 0 {
		fn()
		return
	}
	d.timer = time.AfterFunc(d.delay, fn)
}
