package filter

import (
	"strings"

	"logscope/internal/app/entry"
)

const (
	// AllLevels is the identity value of the level dimension
	AllLevels entry.Level = "all"
	// AllCategories is the identity value of the category dimension
	AllCategories entry.Category = "all"
)

// State holds the active filter of each dimension
type State struct {
	Level    entry.Level
	Category entry.Category
	Search   string
}

// Default returns the identity filter
func Default() State {
	return State{Level: AllLevels, Category: AllCategories}
}

// Matches reports whether e passes the level, category and text clauses in that order
func Matches(e *entry.Entry, s State) bool {
	return matchesLevel(e, s.Level) && matchesCategory(e, s.Category) && matchesText(e, s.Search)
}

// Apply returns the entries that pass s, preserving their order
func Apply(entries []entry.Entry, s State) []entry.Entry {
	view := make([]entry.Entry, 0, len(entries))

	for i := range entries {
		if Matches(&entries[i], s) {
			view = append(view, entries[i])
		}
	}

	return view
}

// First returns the index of the first entry passing s, or -1
func First(entries []entry.Entry, s State) int {
	for i := range entries {
		if Matches(&entries[i], s) {
			return i
		}
	}

	return -1
}

// ParseLevel resolves a level filter; empty and "all" select every level
func ParseLevel(s string) (entry.Level, error) {
	if isAll(s) {
		return AllLevels, nil
	}

	return entry.ParseLevel(s)
}

// ParseCategory resolves a category filter; empty and "all" select every category
func ParseCategory(s string) (entry.Category, error) {
	if isAll(s) {
		return AllCategories, nil
	}

	return entry.ParseCategory(s)
}

func isAll(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || s == "all"
}

func matchesLevel(e *entry.Entry, level entry.Level) bool {
	return level == AllLevels || level == "" || e.Level == level
}

func matchesCategory(e *entry.Entry, category entry.Category) bool {
	return category == AllCategories || category == "" || e.Category == category
}

// matchesText is a case-insensitive substring test over the searchable fields
func matchesText(e *entry.Entry, query string) bool {
	if query == "" {
		return true
	}

	q := strings.ToLower(query)

	fields := [...]string{
		e.Message,
		string(e.Level),
		e.Level.Label(),
		string(e.Category),
		e.Category.Label(),
		e.Thread,
		e.File,
		e.Function,
	}

	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}

	return false
}
