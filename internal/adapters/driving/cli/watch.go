package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// watchDebounce collapses the burst of writes an editor or copy produces.
const watchDebounce = 500 * time.Millisecond

// isDocumentChange reports whether ev means target has new content.
// Remove and chmod events are ignored; a rename onto target shows up as
// create.
func isDocumentChange(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(target) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// watchDocument calls reindex each time path changes, until ctx is done.
// The parent directory is watched so replacing the file is seen too.
// Reindex errors are logged and watching continues.
func watchDocument(ctx context.Context, path string, reindex func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("Watching %s", filepath.Dir(abs))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDocumentChange(ev, abs) {
				continue
			}
			logger.Debug("Change detected: %s", ev)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := reindex(ctx); err != nil {
				logger.Warn("Re-index failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
