package selection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logscope/internal/app/entry"
	"logscope/internal/app/filter"
	"logscope/internal/app/store"
)

func seeded(t *testing.T) (store.Store, []entry.Entry) {
	t.Helper()

	entries := []entry.Entry{
		{ID: "1", Level: entry.Info, Category: entry.UI, Message: "tap", Thread: "main"},
		{ID: "2", Level: entry.Error, Category: entry.Network, Message: "timeout", Thread: "net"},
		{ID: "3", Level: entry.Error, Category: entry.UI, Message: "crash", Thread: "main"},
		{ID: "4", Level: entry.Debug, Category: entry.Network, Message: "GET /", Thread: "net"},
	}

	s := store.New()
	require.NoError(t, s.LoadInitial(entries))

	return s, entries
}

func selectedID(s store.Store) string {
	e, ok := s.CurrentSelection()
	if !ok {
		return ""
	}

	return e.ID
}

func Test_SetCategoryFilter(t *testing.T) {
	tests := []struct {
		name     string
		level    entry.Level
		search   string
		category entry.Category
		expected string
	}{
		{name: "First of category", level: filter.AllLevels, category: entry.Network, expected: "2"},
		{name: "Respects level filter", level: entry.Error, category: entry.UI, expected: "3"},
		{name: "Ignores search query", level: filter.AllLevels, search: "zzz", category: entry.UI, expected: "1"},
		{name: "Back to all categories", level: entry.Debug, category: filter.AllCategories, expected: "4"},
		{name: "No match selects none", level: entry.Critical, category: entry.UI, expected: ""},
		{name: "Empty category selects none", level: filter.AllLevels, category: entry.Background, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, entries := seeded(t)
			s.Select(&entries[0])
			s.SetLevelFilter(tt.level)
			s.SetSearchQuery(tt.search)

			c := NewCoordinator(s)
			e, ok := c.SetCategoryFilter(tt.category)

			assert.Equal(t, tt.expected != "", ok)
			assert.Equal(t, tt.expected, e.ID)
			assert.Equal(t, tt.expected, selectedID(s))
			assert.Equal(t, tt.category, s.Filter().Category)
		})
	}
}

func Test_SetLevelFilter_KeepsSelection(t *testing.T) {
	s, entries := seeded(t)
	c := NewCoordinator(s)
	c.Select(&entries[0])

	c.SetLevelFilter(entry.Error)

	assert.Equal(t, "1", selectedID(s))
	assert.Equal(t, entry.Error, s.Filter().Level)

	for _, e := range s.FilteredView() {
		assert.NotEqual(t, "1", e.ID)
	}
}

func Test_SetSearchQuery_KeepsSelection(t *testing.T) {
	s, entries := seeded(t)
	c := NewCoordinator(s)
	c.Select(&entries[1])

	c.SetSearchQuery("crash")

	assert.Equal(t, "2", selectedID(s))
	assert.Equal(t, "crash", s.Filter().Search)
}

func Test_SelectFirstMatch(t *testing.T) {
	s, _ := seeded(t)
	c := NewCoordinator(s)

	s.SetSearchQuery("crash")
	e, ok := c.SelectFirstMatch()
	require.True(t, ok)
	assert.Equal(t, "3", e.ID)

	s.SetSearchQuery("zzz")
	_, ok = c.SelectFirstMatch()
	assert.False(t, ok)
	assert.Equal(t, "", selectedID(s))
}

func Test_Clear(t *testing.T) {
	s, entries := seeded(t)
	c := NewCoordinator(s)
	c.Select(&entries[2])

	c.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", selectedID(s))
}

func Test_IngestDoesNotReselect(t *testing.T) {
	s, entries := seeded(t)
	c := NewCoordinator(s)
	c.SetCategoryFilter(entry.Network)
	c.Select(&entries[3])

	s.Ingest([]entry.Entry{{ID: "5", Level: entry.Error, Category: entry.Network, Message: "new", Thread: "net"}})

	assert.Equal(t, "4", selectedID(s))
	assert.Equal(t, "5", s.FilteredView()[0].ID)
}

func Test_SetCategoryFilter_RacingStoreCategoryChange(t *testing.T) {
	s, _ := seeded(t)
	c := NewCoordinator(s)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := 0; i < 200; i++ {
			c.SetCategoryFilter(entry.UI)
		}
	}()

	go func() {
		defer wg.Done()

		for i := 0; i < 200; i++ {
			s.SetCategoryFilterAndSelectFirst(entry.Network)
		}
	}()

	wg.Wait()

	snap := s.Snapshot()
	require.NotNil(t, snap.Selection)
	assert.Equal(t, snap.Filter.Category, snap.Selection.Category)
}
