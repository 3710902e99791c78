package selection

import (
	"sync"

	"logscope/internal/app/entry"
	"logscope/internal/app/store"
)

// Coordinator applies the selection rules that accompany user-driven store mutations
type Coordinator interface {
	SetCategoryFilter(category entry.Category) (entry.Entry, bool)
	SetLevelFilter(level entry.Level)
	SetSearchQuery(query string)
	Select(e *entry.Entry)
	SelectFirstMatch() (entry.Entry, bool)
	Clear()
}

type coordinator struct {
	store store.Store
	mu    sync.Mutex
}

// NewCoordinator creates a coordinator over s
func NewCoordinator(s store.Store) Coordinator {
	return &coordinator{store: s}
}

// SetCategoryFilter switches the category and selects the first entry of that
// category under the current level filter. The search query does not take part
func (c *coordinator) SetCategoryFilter(category entry.Category) (entry.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.SetCategoryFilterAndSelectFirst(category)
}

// SetLevelFilter switches the level; the selection stays where it is
func (c *coordinator) SetLevelFilter(level entry.Level) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.SetLevelFilter(level)
}

func (c *coordinator) SetSearchQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.SetSearchQuery(query)
}

func (c *coordinator) Select(e *entry.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Select(e)
}

// SelectFirstMatch selects the head of the filtered view, or none when it is empty
func (c *coordinator) SelectFirstMatch() (entry.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.SelectFirstMatch()
}

func (c *coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Clear()
}
