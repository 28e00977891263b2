// Package watch re-runs the conformance pipeline whenever a library
// document changes on disk. Useful while authoring a library: every save
// produces a fresh verdict.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"libgov/internal/runner"
)

// debounceDefault is how long after the last write before re-running.
// Editors produce bursts of write events per save.
const debounceDefault = 300 * time.Millisecond

// Watcher re-runs conformance for one document on change.
type Watcher struct {
	path     string
	runner   *runner.Runner
	debounce time.Duration

	// OnResult receives every re-run outcome; err is non-nil for
	// input-resolution faults (e.g. the file became unparseable).
	OnResult func(res *runner.Result, err error)
}

// New creates a watcher for the given document path.
func New(path string, r *runner.Runner, onResult func(*runner.Result, error)) *Watcher {
	return &Watcher{
		path:     path,
		runner:   r,
		debounce: debounceDefault,
		OnResult: onResult,
	}
}

// Run watches the document until ctx is cancelled. The containing directory
// is watched rather than the file itself so atomic-rename saves keep
// working.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: watch %q: %w", dir, err)
	}

	target := filepath.Clean(w.path)
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, func() {
				res, err := w.runner.RunFile(ctx, w.path)
				if w.OnResult != nil {
					w.OnResult(res, err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnResult != nil {
				w.OnResult(nil, fmt.Errorf("watch: %w", err))
			}
		}
	}
}
