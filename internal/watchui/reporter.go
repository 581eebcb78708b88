package watchui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/freecomputinglab/rheo/internal/watch"
)

// ProgramReporter adapts a running *tea.Program into a watch.Reporter,
// translating watch's EventKind/FormatOutcome vocabulary into the
// dashboard's own message types so this package never needs to import
// watch's internals beyond the Reporter contract.
type ProgramReporter struct {
	program *tea.Program
}

// NewProgramReporter wraps program for use as a watch.Reporter.
func NewProgramReporter(program *tea.Program) *ProgramReporter {
	return &ProgramReporter{program: program}
}

var _ watch.Reporter = (*ProgramReporter)(nil)

func (r *ProgramReporter) CycleStarted(kind watch.EventKind) {
	r.program.Send(CycleStartedMsg{Kind: toCycleKind(kind)})
}

func (r *ProgramReporter) CycleComplete(kind watch.EventKind, results []watch.FormatOutcome, err error, duration time.Duration) {
	out := make([]FormatResult, 0, len(results))
	for _, res := range results {
		out = append(out, FormatResult{Format: res.Format, Err: res.Err, Duration: res.Duration})
	}
	r.program.Send(CycleCompleteMsg{
		Kind:     toCycleKind(kind),
		Results:  out,
		Err:      err,
		Duration: duration,
		At:       cycleTimestamp(),
	})
}

func toCycleKind(kind watch.EventKind) CycleKind {
	if kind == watch.ConfigChanged {
		return CycleConfig
	}
	return CycleFiles
}

// cycleTimestamp is a seam so tests can stub out the wall clock.
var cycleTimestamp = time.Now
