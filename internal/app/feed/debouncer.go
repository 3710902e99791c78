package feed

import (
	"slices"
	"sync"
	"time"
)

// Debouncer collects changed paths and hands them over once quiet for a delay
type Debouncer interface {
	Trigger(path string)
	Stop()
}

// debouncer implements the Debouncer interface
type debouncer struct {
	delay   time.Duration
	flush   func(paths []string)
	timer   *time.Timer
	pending map[string]struct{}
	mu      sync.Mutex
	stopped bool
}

// NewDebouncer creates a debouncer. A zero delay flushes on every trigger
func NewDebouncer(delay time.Duration, flush func(paths []string)) Debouncer {
	return &debouncer{
		delay:   delay,
		flush:   flush,
		pending: make(map[string]struct{}),
	}
}

// Trigger records path and restarts the quiet period
func (d *debouncer) Trigger(path string) {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	d.pending[path] = struct{}{}

	if d.delay <= 0 {
		d.mu.Unlock()
		d.fire()

		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, d.fire)
	d.mu.Unlock()
}

// Stop discards pending paths; later triggers are ignored
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	clear(d.pending)
}

// fire flushes the pending paths in sorted order
func (d *debouncer) fire() {
	d.mu.Lock()

	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}

	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}

	clear(d.pending)
	d.timer = nil

	d.mu.Unlock()

	slices.Sort(paths)
	d.flush(paths)
}
