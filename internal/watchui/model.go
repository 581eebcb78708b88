// Package watchui provides the interactive terminal dashboard shown
// during `rheo watch` (spec.md §4.H): current compile status, the most
// recent cycle's per-format outcomes, and a scrolling history log.
package watchui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/freecomputinglab/rheo/internal/helpers"
)

// maxErrorLineLen keeps one history line's error text from wrapping the
// terminal; the full message is still in the log that produced it.
const maxErrorLineLen = 120

// maxHistory bounds the scrolling cycle log.
const maxHistory = 50

type dashboardState int

const (
	stateWatching dashboardState = iota
	stateCompiling
)

// cycleRecord is one completed build cycle, kept for the history log.
type cycleRecord struct {
	kind     CycleKind
	results  []FormatResult
	err      error
	duration time.Duration
	at       time.Time
}

// Model is the watch dashboard's Bubble Tea model.
type Model struct {
	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	state       dashboardState
	currentKind CycleKind
	history     []cycleRecord

	showLog  bool
	showHelp bool
	quitting bool

	width, height int
}

// New creates the dashboard model in its initial watching state.
func New() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	return Model{
		spinner: s,
		help:    help.New(),
		keys:    DefaultKeyMap(),
		state:   stateWatching,
		showLog: true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Log):
			m.showLog = !m.showLog
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CycleStartedMsg:
		m.state = stateCompiling
		m.currentKind = msg.Kind
		return m, nil

	case CycleCompleteMsg:
		m.state = stateWatching
		m.history = append(m.history, cycleRecord{
			kind:     msg.Kind,
			results:  msg.Results,
			err:      msg.Err,
			duration: msg.Duration,
			at:       msg.At,
		})
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "Stopped watching.\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Rheo — watching for changes"))
	b.WriteString("\n\n")

	switch m.state {
	case stateCompiling:
		b.WriteString(m.spinner.View())
		fmt.Fprintf(&b, " %s...\n", m.currentKind)
	case stateWatching:
		b.WriteString(SuccessStyle.Render("idle") + " — waiting for the next change\n")
	}

	if last, ok := m.lastRecord(); ok {
		b.WriteString("\n")
		b.WriteString(m.renderRecord(last))
		b.WriteString("\n")
	}

	if m.showLog && len(m.history) > 1 {
		b.WriteString("\n" + MutedStyle.Render("history") + "\n")
		for i := len(m.history) - 2; i >= 0 && i >= len(m.history)-10; i-- {
			b.WriteString(m.renderRecord(m.history[i]))
			b.WriteString("\n")
		}
	}

	if m.showHelp {
		b.WriteString("\n" + m.help.View(m.keys))
	} else {
		b.WriteString("\n" + HelpStyle.Render("l history • ? help • q quit"))
	}

	return b.String()
}

func (m Model) lastRecord() (cycleRecord, bool) {
	if len(m.history) == 0 {
		return cycleRecord{}, false
	}
	return m.history[len(m.history)-1], true
}

func (m Model) renderRecord(r cycleRecord) string {
	stamp := r.at.Format("15:04:05")
	badges := make([]string, 0, len(r.results))
	for _, res := range r.results {
		badges = append(badges, FormatBadge(res.Format, res.Err == nil))
	}

	line := fmt.Sprintf("%s  %s (%s)  %s", stamp, r.kind, r.duration.Round(time.Millisecond), strings.Join(badges, " "))
	if r.err != nil {
		line += "  " + ErrorStyle.Render(helpers.TruncateText(r.err.Error(), maxErrorLineLen))
	}
	return line
}
