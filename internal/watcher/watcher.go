// Package watcher reruns the transform when input files change on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces editor save bursts into one rebuild.
const debounceDelay = 100 * time.Millisecond

// Watcher observes a set of source files and invokes a callback when
// any of them is written.
type Watcher struct {
	files  map[string]bool
	logger *slog.Logger
}

// New creates a watcher over the given files. Paths are compared after
// filepath.Clean, so callers may mix relative and cleaned forms.
func New(files []string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[filepath.Clean(f)] = true
	}
	return &Watcher{files: set, logger: logger}
}

// Run blocks until ctx is cancelled, calling onChange with the changed
// path after each (debounced) write. Directories are watched rather
// than the files themselves so editors that replace files on save
// (write to temp, rename over) keep triggering events.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.logger.Info("watching for changes", "files", len(w.files))

	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			for _, t := range timers {
				t.Stop()
			}
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path := filepath.Clean(event.Name)
			if !w.files[path] {
				continue
			}

			// Debounce per file
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounceDelay, func() {
				w.logger.Debug("change detected", "path", path)
				onChange(path)
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
