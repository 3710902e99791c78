package store

import (
	"fmt"
	"slices"
	"sync"

	"logscope/internal/app/entry"
	"logscope/internal/app/filter"
)

// Store owns the log collection, filter state, selection and pause flag.
// Every method is atomic with respect to every other method
type Store interface {
	LoadInitial(entries []entry.Entry) error
	Ingest(batch []entry.Entry) bool
	Clear()

	SetPaused(paused bool)
	TogglePaused() bool

	SetLevelFilter(level entry.Level)
	SetCategoryFilter(category entry.Category)
	SetSearchQuery(query string)

	Select(e *entry.Entry)
	SelectFirst(s filter.State) (entry.Entry, bool)
	SelectFirstMatch() (entry.Entry, bool)
	SetCategoryFilterAndSelectFirst(category entry.Category) (entry.Entry, bool)

	FilteredView() []entry.Entry
	LevelCounts() filter.LevelCounts
	CategoryCounts() filter.CategoryCounts
	CurrentSelection() (entry.Entry, bool)
	IsPaused() bool
	Filter() filter.State
	Len() int
	Snapshot() Snapshot

	OnChange(fn Observer)
}

// Snapshot is a consistent read of every query taken under one lock
type Snapshot struct {
	View       []entry.Entry
	Levels     filter.LevelCounts
	Categories filter.CategoryCounts
	Selection  *entry.Entry
	Filter     filter.State
	Paused     bool
	Total      int
}

// Option configures a store
type Option func(*store)

// WithCapacity caps the collection; the oldest entries are evicted past n. Zero means unbounded
func WithCapacity(n int) Option {
	return func(s *store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// store implements the Store interface
type store struct {
	mu        sync.RWMutex
	entries   []entry.Entry
	selected  *entry.Entry
	filter    filter.State
	paused    bool
	capacity  int
	seq       uint64
	observers []Observer
	obsMu     sync.RWMutex
}

// New creates an empty, unpaused store with the identity filter
func New(opts ...Option) Store {
	s := &store{
		entries: []entry.Entry{},
		filter:  filter.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LoadInitial replaces the collection and clears the selection.
// A malformed entry rejects the whole load and leaves the store untouched
func (s *store) LoadInitial(entries []entry.Entry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	loaded := make([]entry.Entry, len(entries))
	copy(loaded, entries)

	s.mu.Lock()
	s.entries = s.truncate(loaded)
	s.selected = nil
	c := s.record(Change{Kind: Loaded, Count: len(s.entries)})
	s.mu.Unlock()

	s.notify(c)

	return nil
}

// Ingest prepends batch ahead of the held entries, or discards it while paused
func (s *store) Ingest(batch []entry.Entry) bool {
	s.mu.Lock()

	if s.paused {
		c := s.record(Change{Kind: Dropped, Count: len(batch)})
		s.mu.Unlock()
		s.notify(c)

		return false
	}

	if len(batch) == 0 {
		s.mu.Unlock()
		return true
	}

	merged := make([]entry.Entry, 0, len(batch)+len(s.entries))
	merged = append(merged, batch...)
	merged = append(merged, s.entries...)
	s.entries = s.truncate(merged)
	c := s.record(Change{Kind: Ingested, Count: len(batch)})
	s.mu.Unlock()

	s.notify(c)

	return true
}

// Clear empties the collection and the selection; filters and pause are kept
func (s *store) Clear() {
	s.mu.Lock()
	s.entries = []entry.Entry{}
	s.selected = nil
	c := s.record(Change{Kind: Cleared})
	s.mu.Unlock()

	s.notify(c)
}

func (s *store) SetPaused(paused bool) {
	s.mu.Lock()
	s.paused = paused
	c := s.record(pauseChange(paused))
	s.mu.Unlock()

	s.notify(c)
}

func (s *store) TogglePaused() bool {
	s.mu.Lock()
	s.paused = !s.paused
	paused := s.paused
	c := s.record(pauseChange(paused))
	s.mu.Unlock()

	s.notify(c)

	return paused
}

func (s *store) SetLevelFilter(level entry.Level) {
	s.mu.Lock()
	s.filter.Level = level
	c := s.record(Change{Kind: FilterChanged})
	s.mu.Unlock()

	s.notify(c)
}

func (s *store) SetCategoryFilter(category entry.Category) {
	s.mu.Lock()
	s.filter.Category = category
	c := s.record(Change{Kind: FilterChanged})
	s.mu.Unlock()

	s.notify(c)
}

func (s *store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.filter.Search = query
	c := s.record(Change{Kind: FilterChanged})
	s.mu.Unlock()

	s.notify(c)
}

// Select stores e verbatim; nil clears the selection. Membership in the view is not checked
func (s *store) Select(e *entry.Entry) {
	var selected *entry.Entry
	if e != nil {
		held := *e
		selected = &held
	}

	s.mu.Lock()
	s.selected = selected
	c := s.record(Change{Kind: SelectionChanged})
	s.mu.Unlock()

	s.notify(c)
}

// SelectFirst selects the first entry in collection order passing f, or none
func (s *store) SelectFirst(f filter.State) (entry.Entry, bool) {
	s.mu.Lock()
	e, ok := s.selectFirst(f)
	c := s.record(Change{Kind: SelectionChanged})
	s.mu.Unlock()

	s.notify(c)

	return e, ok
}

// SelectFirstMatch selects the head of the current filtered view, or none
func (s *store) SelectFirstMatch() (entry.Entry, bool) {
	s.mu.Lock()
	e, ok := s.selectFirst(s.filter)
	c := s.record(Change{Kind: SelectionChanged})
	s.mu.Unlock()

	s.notify(c)

	return e, ok
}

// SetCategoryFilterAndSelectFirst switches the category and selects the first
// entry of it under the current level filter in one step. The search query
// does not take part
func (s *store) SetCategoryFilterAndSelectFirst(category entry.Category) (entry.Entry, bool) {
	s.mu.Lock()
	s.filter.Category = category
	changed := s.record(Change{Kind: FilterChanged})
	e, ok := s.selectFirst(filter.State{Level: s.filter.Level, Category: category})
	selected := s.record(Change{Kind: SelectionChanged})
	s.mu.Unlock()

	s.notify(changed)
	s.notify(selected)

	return e, ok
}

// selectFirst sets the selection to the first entry passing f; callers hold mu
func (s *store) selectFirst(f filter.State) (entry.Entry, bool) {
	i := filter.First(s.entries, f)
	if i < 0 {
		s.selected = nil
		return entry.Entry{}, false
	}

	held := s.entries[i]
	s.selected = &held

	return held, true
}

func (s *store) FilteredView() []entry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter.Apply(s.entries, s.filter)
}

func (s *store) LevelCounts() filter.LevelCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter.CountLevels(s.entries, s.filter.Category)
}

func (s *store) CategoryCounts() filter.CategoryCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter.CountCategories(s.entries)
}

func (s *store) CurrentSelection() (entry.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return entry.Entry{}, false
	}

	return *s.selected, true
}

func (s *store) IsPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.paused
}

func (s *store) Filter() filter.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter
}

func (s *store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

func (s *store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		View:       filter.Apply(s.entries, s.filter),
		Levels:     filter.CountLevels(s.entries, s.filter.Category),
		Categories: filter.CountCategories(s.entries),
		Filter:     s.filter,
		Paused:     s.paused,
		Total:      len(s.entries),
	}

	if s.selected != nil {
		held := *s.selected
		snap.Selection = &held
	}

	return snap
}

// truncate drops the oldest entries beyond the capacity into a fresh backing
// array so the evicted tail can be collected; callers hold mu
func (s *store) truncate(entries []entry.Entry) []entry.Entry {
	if s.capacity > 0 && len(entries) > s.capacity {
		return slices.Clone(entries[:s.capacity])
	}

	return entries
}
