package feed

//go:generate mockgen -source=feed.go -destination=feed_mock.go -package=feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/offsets"
	"logscope/internal/app/scan"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// Handler receives each batch of newly appended entries and reports whether it was kept
type Handler func(batch []entry.Entry) bool

// Feed streams lines appended to the log files of a folder
type Feed interface {
	Start(ctx context.Context, path string, handler Handler) error
	Stop()
	Running() bool
}

// watch holds the state of one watched folder
type watch struct {
	root      string
	handler   Handler
	fsw       *fsnotify.Watcher
	debouncer Debouncer
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	readMu    sync.Mutex
}

// feed implements the Feed interface
type feed struct {
	matcher      scan.Matcher
	decoder      *scan.Decoder
	offsets      offsets.Tracker
	pollInterval time.Duration
	debounce     time.Duration
	log          logger.Logger
	current      *watch
	mu           sync.Mutex
}

// NewFeed creates a feed that continues from the offsets recorded in tracker
func NewFeed(cfg *config.Config, matcher scan.Matcher, decoder *scan.Decoder, tracker offsets.Tracker, log logger.Logger) Feed {
	pollInterval := cfg.Feed.PollInterval
	if pollInterval <= 0 {
		pollInterval = config.DefaultPollInterval
	}

	return &feed{
		matcher:      matcher,
		decoder:      decoder,
		offsets:      tracker,
		pollInterval: pollInterval,
		debounce:     cfg.Feed.Debounce,
		log:          log.WithComponent("FEED"),
	}
}

// Start watches path, replacing any previous watch. Change notifications are
// backed by a periodic scan for file growth
func (f *feed) Start(ctx context.Context, path string, handler Handler) error {
	f.Stop()

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: '%s'", errors.ErrNotADirectory, path)
	}

	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w '%s': %w", errors.ErrFailedToWatchFolder, path, err)
	}

	ctx, cancel := context.WithCancel(ctx)

	w := &watch{
		root:    root,
		handler: handler,
		cancel:  cancel,
	}

	w.debouncer = NewDebouncer(f.debounce, func(paths []string) {
		f.read(ctx, w, paths)
	})

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		f.log.Warn().Err(err).Msg("File notifications unavailable, relying on polling")
	} else {
		w.fsw = fsw

		if err := f.addDirRecursive(w, root); err != nil {
			cancel()
			fsw.Close()

			return fmt.Errorf("%w '%s': %w", errors.ErrFailedToWatchFolder, path, err)
		}

		w.wg.Add(1)

		go f.processEvents(ctx, w)
	}

	w.wg.Add(1)

	go f.poll(ctx, w)

	f.mu.Lock()
	f.current = w
	f.mu.Unlock()

	f.log.Info().Msgf("Started watching %s", root)

	return nil
}

// Stop ends the current watch. A batch being delivered completes first
func (f *feed) Stop() {
	f.mu.Lock()
	w := f.current
	f.current = nil
	f.mu.Unlock()

	if w == nil {
		return
	}

	w.cancel()
	w.debouncer.Stop()

	if w.fsw != nil {
		w.fsw.Close()
	}

	w.wg.Wait()

	w.readMu.Lock()
	defer w.readMu.Unlock()

	f.log.Info().Msgf("Stopped watching %s", w.root)
}

func (f *feed) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.current != nil
}

// processEvents routes fsnotify events of matching files to the debouncer
func (f *feed) processEvents(ctx context.Context, w *watch) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			f.handleEvent(w, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			f.log.Error().Err(err).Msg("Watcher error")
		}
	}
}

// handleEvent processes a single fsnotify event
func (f *feed) handleEvent(w *watch, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !f.matcher.SkipDir(info.Name()) {
				if err := f.addDirRecursive(w, event.Name); err != nil {
					f.log.Warn().Err(err).Msgf("Failed to watch new directory: %s", event.Name)
				}
			}

			return
		}
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") || !f.matcher.Match(rel) {
		return
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.debouncer.Trigger(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		f.offsets.Forget(event.Name)
	}
}

// poll rescans the folder on every tick
func (f *feed) poll(ctx context.Context, w *watch) {
	defer w.wg.Done()

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			files, err := scan.Files(w.root, f.matcher)
			if err != nil {
				f.log.Warn().Err(err).Msg("Polling scan failed")
				continue
			}

			f.read(ctx, w, files)
		}
	}
}

// read delivers the lines appended to each file since its recorded offset
func (f *feed) read(ctx context.Context, w *watch, paths []string) {
	w.readMu.Lock()
	defer w.readMu.Unlock()

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}

		chunk, err := f.decoder.ReadFile(path, f.offsets.Get(path), false)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				f.offsets.Forget(path)
				continue
			}

			f.log.Warn().Err(err).Msgf("Failed to read %s", path)

			continue
		}

		if chunk.Truncated {
			f.log.Info().Msgf("File %s was truncated, reading from the start", path)
		}

		f.offsets.Set(path, chunk.Next)

		if len(chunk.Entries) == 0 {
			continue
		}

		if !w.handler(chunk.Entries) {
			f.log.Debug().Msgf("Dropped %d entries from %s while paused", len(chunk.Entries), path)
			continue
		}

		f.log.Debug().Msgf("Delivered %d entries from %s", len(chunk.Entries), path)
	}
}

// addDirRecursive adds a directory and all subdirectories to the watch list
func (f *feed) addDirRecursive(w *watch, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}

			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && f.matcher.SkipDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			f.log.Warn().Err(err).Msgf("Failed to watch directory: %s", path)
		}

		return nil
	})
}
