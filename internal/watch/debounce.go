package watch

import (
	"sync"
	"time"
)

// EventKind distinguishes the two debounced outcomes spec.md §4.H names.
type EventKind int

const (
	// FilesChanged means one or more spine/asset files changed.
	FilesChanged EventKind = iota
	// ConfigChanged means the manifest itself changed; it takes
	// precedence over FilesChanged within the same batch.
	ConfigChanged
)

// Debouncer accumulates relevant filesystem events and, after a quiet
// period, emits exactly one EventKind for the whole batch. Push runs on
// the watcher goroutine while flush runs on its own timer goroutine
// (time.AfterFunc), so mu guards every field below it.
type Debouncer struct {
	quiet time.Duration
	out   chan EventKind

	mu          sync.Mutex
	timer       *time.Timer
	sawManifest bool
	pending     bool
}

// NewDebouncer creates a Debouncer that fires after quiet inactivity.
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet, out: make(chan EventKind, 1)}
}

// Events returns the channel the debounced EventKind is delivered on.
func (d *Debouncer) Events() <-chan EventKind { return d.out }

// Push records one relevant filesystem event. isManifest marks whether
// this particular event touched the manifest file.
func (d *Debouncer) Push(isManifest bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = true
	if isManifest {
		d.sawManifest = true
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	kind := FilesChanged
	if d.sawManifest {
		kind = ConfigChanged
	}
	d.pending = false
	d.sawManifest = false
	d.mu.Unlock()

	select {
	case d.out <- kind:
	default:
		// A previous batch hasn't been drained yet; drop this one rather
		// than block the fsnotify callback goroutine. The next event
		// will re-arm the timer and flush again.
	}
}

// Stop cancels any pending flush.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
