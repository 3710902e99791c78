package loader

//go:generate mockgen -source=loader.go -destination=loader_mock.go -package=loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/offsets"
	"logscope/internal/app/scan"
	"logscope/internal/config/logger"
)

// Loader reads every log file of a folder into entries, newest first
type Loader interface {
	Load(ctx context.Context, path string) ([]entry.Entry, error)
}

// loader implements the Loader interface
type loader struct {
	matcher scan.Matcher
	decoder *scan.Decoder
	offsets offsets.Tracker
	log     logger.Logger
}

// NewLoader creates a loader that records consumed lengths in tracker
func NewLoader(matcher scan.Matcher, decoder *scan.Decoder, tracker offsets.Tracker, log logger.Logger) Loader {
	return &loader{
		matcher: matcher,
		decoder: decoder,
		offsets: tracker,
		log:     log.WithComponent("LOADER"),
	}
}

// Load walks path and decodes every matching file. The consumed offsets are
// replaced only once every file has been read
func (l *loader) Load(ctx context.Context, path string) ([]entry.Entry, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: '%s'", errors.ErrNotADirectory, path)
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", errors.ErrFailedToReadLogFile, path, err)
	}

	files, err := scan.Files(root, l.matcher)
	if err != nil {
		return nil, err
	}

	var (
		entries []entry.Entry
		read    = make(map[string]int64, len(files))
	)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunk, err := l.decoder.ReadFile(file, 0, true)
		if err != nil {
			l.log.Warn().Err(err).Msgf("Skipping unreadable file %s", file)
			continue
		}

		read[file] = chunk.Next
		entries = append(entries, chunk.Entries...)
	}

	l.offsets.Replace(read)

	SortNewestFirst(entries)

	l.log.Info().Msgf("Loaded %d entries from %d files in %s", len(entries), len(files), path)

	return entries, nil
}

// SortNewestFirst orders entries by descending timestamp, keeping file order for ties
func SortNewestFirst(entries []entry.Entry) {
	slices.SortStableFunc(entries, func(a, b entry.Entry) int {
		return strings.Compare(b.Timestamp, a.Timestamp)
	})
}
