package fs

import (
	"sync"
	"time"

	"github.com/geotagx/builder/pkg/core"
)

// debouncer coalesces bursts of events per key (file path) and delivers the
// surviving event once the key has been quiet for delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	wg      sync.WaitGroup
	timers  map[string]*time.Timer
	pending map[string]core.Event
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]core.Event),
	}
}

// add schedules e for key. A CREATE that is followed by writes is still
// reported as a CREATE.
func (d *debouncer) add(key string, e core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.pending[key]; ok && prev.Type == core.EventCreate && e.Type == core.EventModify {
		e.Type = core.EventCreate
	}
	d.pending[key] = e

	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.timers[key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		event, ok := d.pending[key]
		delete(d.pending, key)
		d.mu.Unlock()

		if ok {
			deliver(event)
		}
	})
	d.timers[key] = t
}

// stopAndWait drops pending events and waits up to timeout for running
// deliveries to finish.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.pending = make(map[string]core.Event)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
