package filter

import (
	"logscope/internal/app/entry"
)

// LevelCounts is the per-level breakdown of the entries in the active category
type LevelCounts struct {
	All    int
	Counts map[entry.Level]int
}

// CategoryCounts is the per-category breakdown of the whole collection
type CategoryCounts struct {
	All    int
	Counts map[entry.Category]int
}

// Of returns the count for one level
func (c LevelCounts) Of(level entry.Level) int {
	if level == AllLevels {
		return c.All
	}

	return c.Counts[level]
}

// Of returns the count for one category
func (c CategoryCounts) Of(category entry.Category) int {
	if category == AllCategories {
		return c.All
	}

	return c.Counts[category]
}

// CountLevels counts levels over entries passing the category clause only.
// The level filter and search query are ignored
func CountLevels(entries []entry.Entry, category entry.Category) LevelCounts {
	counts := LevelCounts{Counts: make(map[entry.Level]int, len(entry.Levels))}
	for _, l := range entry.Levels {
		counts.Counts[l] = 0
	}

	for i := range entries {
		if !matchesCategory(&entries[i], category) {
			continue
		}

		counts.All++
		counts.Counts[entries[i].Level]++
	}

	return counts
}

// CountCategories counts categories over the full collection, ignoring every filter
func CountCategories(entries []entry.Entry) CategoryCounts {
	counts := CategoryCounts{
		All:    len(entries),
		Counts: make(map[entry.Category]int, len(entry.Categories)),
	}
	for _, c := range entry.Categories {
		counts.Counts[c] = 0
	}

	for i := range entries {
		counts.Counts[entries[i].Category]++
	}

	return counts
}
