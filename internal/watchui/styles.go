package watchui

import "github.com/charmbracelet/lipgloss"

// Color palette, carried over from the teacher's UI package verbatim —
// the same five-color semantic palette (primary/secondary/success/error/
// warning) fits a build-status dashboard as well as a link-check report.
var (
	PrimaryColor   = lipgloss.Color("205")
	SecondaryColor = lipgloss.Color("241")
	SuccessColor   = lipgloss.Color("82")
	ErrorColor     = lipgloss.Color("196")
	WarningColor   = lipgloss.Color("214")
	MutedColor     = lipgloss.Color("245")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			MarginTop(1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// SpinnerStyle is the style applied to the compiling-state spinner.
func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(PrimaryColor)
}

// FormatBadge renders a small colored tag for a format's outcome.
func FormatBadge(format string, ok bool) string {
	if ok {
		return SuccessStyle.Render(format + " ✓")
	}
	return ErrorStyle.Render(format + " ✗")
}
