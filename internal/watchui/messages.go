package watchui

import "time"

// CycleKind distinguishes what triggered a build cycle, mirroring
// watch.EventKind without importing internal/watch (the UI only needs
// the label, not the debounce machinery).
type CycleKind int

const (
	// CycleFiles is a recompile triggered by source/asset changes.
	CycleFiles CycleKind = iota
	// CycleConfig is a full reload triggered by a manifest change.
	CycleConfig
)

func (k CycleKind) String() string {
	if k == CycleConfig {
		return "config reload"
	}
	return "recompile"
}

// FormatResult is one format driver's outcome within a build cycle.
type FormatResult struct {
	Format   string
	Err      error
	Duration time.Duration
}

// CycleStartedMsg is sent when the loop begins a new build cycle.
type CycleStartedMsg struct {
	Kind CycleKind
}

// CycleCompleteMsg is sent when a build cycle finishes, successfully or
// not.
type CycleCompleteMsg struct {
	Kind     CycleKind
	Results  []FormatResult
	Err      error
	Duration time.Duration
	At       time.Time
}
