package watchui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestModelTracksCycleLifecycle(t *testing.T) {
	m := New()

	updated, _ := m.Update(CycleStartedMsg{Kind: CycleFiles})
	m = updated.(Model)
	assert.Equal(t, stateCompiling, m.state)

	updated, _ = m.Update(CycleCompleteMsg{
		Kind:     CycleFiles,
		Results:  []FormatResult{{Format: "pdf"}, {Format: "html", Err: errors.New("boom")}},
		Duration: 12 * time.Millisecond,
		At:       time.Unix(0, 0),
	})
	m = updated.(Model)

	assert.Equal(t, stateWatching, m.state)
	require := assert.New(t)
	require.Len(m.history, 1)

	view := m.View()
	require.Contains(view, "pdf")
	require.Contains(view, "html")
}

func TestModelTogglesLogAndQuits(t *testing.T) {
	m := New()
	assert.True(t, m.showLog)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m = updated.(Model)
	assert.False(t, m.showLog)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(Model)
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}

func TestModelCapsHistory(t *testing.T) {
	m := New()
	for i := 0; i < maxHistory+10; i++ {
		updated, _ := m.Update(CycleCompleteMsg{Kind: CycleFiles, At: time.Unix(int64(i), 0)})
		m = updated.(Model)
	}
	assert.Len(t, m.history, maxHistory)
}

func TestProgramReporterTranslatesKinds(t *testing.T) {
	assert.Equal(t, CycleFiles, toCycleKind(0))
}
