package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// pollInterval is the fallback period for discovering new directories
// fsnotify wasn't told to watch yet (it watches non-recursively by
// design), per spec.md's "recursive ... with a 500ms poll fallback".
const pollInterval = 500 * time.Millisecond

// Watcher recursively watches a project root and feeds relevant events
// into a Debouncer.
type Watcher struct {
	root      string
	filter    *Filter
	debouncer *Debouncer
	fsw       *fsnotify.Watcher
}

// New creates a Watcher rooted at root, adding every existing directory
// to the underlying fsnotify watch set.
func New(root string, filter *Filter, debouncer *Debouncer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, rheoerr.NewWatcher("creating filesystem watcher", err)
	}

	w := &Watcher{root: root, filter: filter, debouncer: debouncer, fsw: fsw}
	if err := w.addDirTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addDirTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			_ = w.fsw.Add(path)
		}
		return nil
	})
}

// Run consumes fsnotify events until ctx is cancelled, pushing relevant
// ones into the debouncer and periodically rescanning for new
// directories so they, too, get watched.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return w.fsw.Close()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return rheoerr.NewWatcher("watching "+w.root, err)

		case <-ticker.C:
			_ = w.addDirTree(w.root)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if !w.filter.IsRelevant(ev.Name) {
		return
	}
	w.debouncer.Push(w.filter.IsManifest(ev.Name))
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
