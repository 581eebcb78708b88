package watch

import "time"

// FormatOutcome is one format driver's result within a build cycle, the
// shape Reporter implementations (e.g. the watch dashboard UI) render.
type FormatOutcome struct {
	Format   string
	Err      error
	Duration time.Duration
}

// Reporter receives build-cycle lifecycle notifications from a Loop. It
// is how internal/watchui observes recompilation without Loop importing
// a UI package.
type Reporter interface {
	CycleStarted(kind EventKind)
	CycleComplete(kind EventKind, results []FormatOutcome, err error, duration time.Duration)
}

// noopReporter discards every notification; the Loop's zero value for
// Reporter.
type noopReporter struct{}

func (noopReporter) CycleStarted(EventKind)                                            {}
func (noopReporter) CycleComplete(EventKind, []FormatOutcome, error, time.Duration) {}
