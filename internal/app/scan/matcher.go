package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"logscope/internal/app/errors"
)

// Matcher decides which files under a log folder hold entries
type Matcher interface {
	Match(path string) bool
	SkipDir(name string) bool
}

// matcher implements the Matcher interface
type matcher struct {
	patterns []glob.Glob
}

var skippedDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
}

// NewMatcher compiles patterns. A pattern without a slash is matched against
// the base name, otherwise against the slash separated relative path
func NewMatcher(patterns []string) (Matcher, error) {
	if len(patterns) == 0 {
		return nil, errors.ErrPatternsRequired
	}

	m := &matcher{patterns: make([]glob.Glob, 0, len(patterns))}

	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%w '%s': %w", errors.ErrInvalidPattern, p, err)
		}

		m.patterns = append(m.patterns, g)
	}

	return m, nil
}

// Match reports whether the relative path of a file matches any pattern
func (m *matcher) Match(path string) bool {
	path = normalizePath(path)
	base := filepath.Base(path)

	for _, g := range m.patterns {
		if g.Match(base) || g.Match(path) {
			return true
		}
	}

	return false
}

// SkipDir reports whether a directory is never descended into
func (m *matcher) SkipDir(name string) bool {
	_, skip := skippedDirs[name]
	return skip
}

// normalizePath converts path separators and removes leading ./
func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	return path
}

// Files lists the log files under root accepted by m, in lexical order
func Files(root string, m Matcher) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}

			return nil
		}

		if d.IsDir() {
			if path != root && m.SkipDir(d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if m.Match(rel) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", errors.ErrFailedToReadLogFile, root, err)
	}

	return files, nil
}
