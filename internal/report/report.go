// Package report formats build summaries for `rheo compile --report`,
// trimmed from the teacher's internal/report/output_src_ref down to
// JSON and YAML (§2 of SPEC_FULL.md's dropped-deps note: XML/JUnit have
// no CI-test-case analog in a publishing pipeline).
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/freecomputinglab/rheo/internal/helpers"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// maxOutputPathLen keeps one console summary line from wrapping on a
// deeply nested build path.
const maxOutputPathLen = 72

// Format is an output format name accepted by --report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IsValidFormat reports whether s names a supported format
// (case-insensitive).
func IsValidFormat(s string) bool {
	switch Format(strings.ToLower(s)) {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// FormatOutcome is one format driver's result within the run.
type FormatOutcome struct {
	Format     string        `json:"format" yaml:"format"`
	Succeeded  int           `json:"succeeded" yaml:"succeeded"`
	Failed     int           `json:"failed" yaml:"failed"`
	Duration   time.Duration `json:"-" yaml:"-"`
	DurationMS int64         `json:"duration_ms" yaml:"duration_ms"`
	Outputs    []string      `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary is the top-level build report (spec.md §4.I's per-format
// accounting, serialized).
type Summary struct {
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	ProjectRoot string          `json:"project_root" yaml:"project_root"`
	BuildDir    string          `json:"build_dir" yaml:"build_dir"`
	Overall     string          `json:"overall" yaml:"overall"` // "success", "partial", "failure"
	Formats     []FormatOutcome `json:"formats" yaml:"formats"`
}

// Render serializes summary in the requested format.
func Render(summary Summary, format Format) ([]byte, error) {
	for i := range summary.Formats {
		summary.Formats[i].DurationMS = summary.Formats[i].Duration.Milliseconds()
	}

	switch Format(strings.ToLower(string(format))) {
	case FormatJSON:
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, rheoerr.NewInvalidData("marshaling build summary as JSON: %v", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(summary)
		if err != nil {
			return nil, rheoerr.NewInvalidData("marshaling build summary as YAML: %v", err)
		}
		return data, nil
	default:
		return nil, rheoerr.NewProjectConfig("invalid report format %q: valid formats are json, yaml", format)
	}
}

// String renders a short human-readable line per format, for the
// non-structured default console output.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "build %s (%s)\n", s.Overall, s.GeneratedAt.Format(time.RFC3339))

	var allOutputs []string
	for _, f := range s.Formats {
		status := "ok"
		if f.Failed > 0 {
			status = "failed"
		}
		fmt.Fprintf(&b, "  %-5s %-6s succeeded=%d failed=%d (%s)\n",
			f.Format, status, f.Succeeded, f.Failed, f.Duration.Round(time.Millisecond))
		if f.Error != "" {
			fmt.Fprintf(&b, "        %s\n", f.Error)
		}
		for _, out := range f.Outputs {
			fmt.Fprintf(&b, "        %s\n", helpers.TruncateURL(out, maxOutputPathLen))
		}
		allOutputs = append(allOutputs, f.Outputs...)
	}

	if n := helpers.CountUniqueStrings(allOutputs); n > 0 {
		fmt.Fprintf(&b, "%d unique output file(s)\n", n)
	}
	return b.String()
}
