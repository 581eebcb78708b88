package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Summary {
	return Summary{
		GeneratedAt: time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC),
		ProjectRoot: "/tmp/proj",
		BuildDir:    "./build",
		Overall:     "success",
		Formats: []FormatOutcome{
			{Format: "pdf", Succeeded: 1, Duration: 5 * time.Millisecond, Outputs: []string{"build/pdf/proj.pdf"}},
			{Format: "html", Succeeded: 3, Duration: 9 * time.Millisecond},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := Render(sample(), FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overall": "success"`)
	assert.Contains(t, string(data), `"duration_ms"`)
}

func TestRenderYAML(t *testing.T) {
	data, err := Render(sample(), FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "overall: success")
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := Render(sample(), Format("xml"))
	assert.Error(t, err)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, IsValidFormat("JSON"))
	assert.True(t, IsValidFormat("yaml"))
	assert.False(t, IsValidFormat("junit"))
}

func TestSummaryString(t *testing.T) {
	s := sample().String()
	assert.Contains(t, s, "pdf")
	assert.Contains(t, s, "html")
	assert.Contains(t, s, "build success")
}
