package offsets

import "sync"

// Tracker records how many bytes of each log file have been consumed
type Tracker interface {
	Get(path string) int64
	Set(path string, offset int64)
	Forget(path string)
	Reset()
	Replace(offsets map[string]int64)
	Len() int
}

type tracker struct {
	offsets map[string]int64
	mu      sync.RWMutex
}

// NewTracker creates an empty tracker
func NewTracker() Tracker {
	return &tracker{offsets: make(map[string]int64)}
}

// Get returns the consumed length of path, zero when unknown
func (t *tracker) Get(path string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.offsets[path]
}

func (t *tracker) Set(path string, offset int64) {
	if offset < 0 {
		offset = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.offsets[path] = offset
}

func (t *tracker) Forget(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.offsets, path)
}

// Reset drops every recorded offset
func (t *tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.offsets = make(map[string]int64)
}

// Replace swaps every recorded offset for offsets in one step
func (t *tracker) Replace(offsets map[string]int64) {
	next := make(map[string]int64, len(offsets))
	for path, offset := range offsets {
		next[path] = max(offset, 0)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.offsets = next
}

func (t *tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.offsets)
}
