// Package config decodes and validates the project manifest (rheo.toml).
//
// The manifest is the one piece of external configuration the reticulation
// pipeline depends on: it names the supported spec version, the build
// output directory, which formats to produce, and a per-format spine
// declaration (title + glob patterns + an optional merge toggle).
package config

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/pelletier/go-toml/v2"

	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// SupportedVersion is the highest manifest `version` this binary accepts.
const SupportedVersion = "0.3.0"

// DefaultManifestFileName is the manifest file name Rheo looks for in a
// project root.
const DefaultManifestFileName = "rheo.toml"

// DefaultBuildDir is used when the manifest omits build_dir.
const DefaultBuildDir = "./build"

// Format names accepted in manifest.formats (case-insensitive).
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
	FormatEPUB = "epub"
)

// AllFormats is the default format set when the manifest omits `formats`.
var AllFormats = []string{FormatPDF, FormatHTML, FormatEPUB}

// SpineConfig is the shared shape of the three per-format spine
// declarations (§9: "expose them behind a narrow capability rather than a
// class hierarchy"). Merge is nil where the format doesn't support the
// toggle (HTML never merges, EPUB always does).
type SpineConfig struct {
	Title    string   `toml:"title"`
	Patterns []string `toml:"patterns"`
	Merge    *bool    `toml:"merge"`
}

// WantsMerge reports whether this spine should be compiled as one merged
// document. HTML spines (Merge == nil) never merge.
func (s *SpineConfig) WantsMerge() bool {
	return s != nil && s.Merge != nil && *s.Merge
}

// HasPatterns reports whether any glob pattern was declared.
func (s *SpineConfig) HasPatterns() bool {
	return s != nil && len(s.Patterns) > 0
}

// HTMLConfig holds `[html]` manifest settings.
type HTMLConfig struct {
	Stylesheets []string     `toml:"stylesheets"`
	Fonts       []string     `toml:"fonts"`
	Spine       *SpineConfig `toml:"spine"`
}

// PDFConfig holds `[pdf]` manifest settings.
type PDFConfig struct {
	Spine *SpineConfig `toml:"spine"`
}

// EPUBConfig holds `[epub]` manifest settings.
type EPUBConfig struct {
	Identifier string       `toml:"identifier"`
	Date       string       `toml:"date"`
	Authors    []string     `toml:"authors"`
	Spine      *SpineConfig `toml:"spine"`
}

// Manifest is the typed decode of rheo.toml.
type Manifest struct {
	Version    string      `toml:"version"`
	ContentDir string      `toml:"content_dir"`
	BuildDir   string      `toml:"build_dir"`
	Formats    []string    `toml:"formats"`
	HTML       HTMLConfig  `toml:"html"`
	PDF        PDFConfig   `toml:"pdf"`
	EPUB       EPUBConfig  `toml:"epub"`
}

// Load reads and decodes the manifest at path, then validates it.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rheoerr.NewIoFailure("reading manifest "+path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, rheoerr.NewProjectConfig("parsing manifest %s: %v", path, err)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// applyDefaults fills in every optional field's default (spec.md §6.1).
func (m *Manifest) applyDefaults() {
	if m.BuildDir == "" {
		m.BuildDir = DefaultBuildDir
	}
	if len(m.Formats) == 0 {
		m.Formats = AllFormats
	}
	if len(m.HTML.Stylesheets) == 0 && m.HTML.Spine == nil {
		// Default when no stylesheets are listed and [html] declares no
		// spine. An explicit empty list is not told apart from an absent
		// one, so it also gets the default.
		m.HTML.Stylesheets = []string{"style.css"}
	}
}

// Validate checks every manifest invariant: version gate, format names,
// and that every declared glob pattern compiles.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return rheoerr.NewProjectConfig("manifest is missing required field `version`")
	}

	running, err := semver.NewVersion(SupportedVersion)
	if err != nil {
		return rheoerr.NewProjectConfig("internal: bad SupportedVersion %q: %v", SupportedVersion, err)
	}
	declared, err := semver.NewVersion(m.Version)
	if err != nil {
		return rheoerr.NewProjectConfig("manifest version %q is not valid semver: %v", m.Version, err)
	}
	if declared.GreaterThan(running) {
		return rheoerr.NewProjectConfig(
			"manifest requires version %s, this binary supports up to %s", m.Version, SupportedVersion)
	}

	for _, f := range m.Formats {
		if !isValidFormat(f) {
			return rheoerr.NewProjectConfig("invalid format %q: valid formats are pdf, html, epub", f)
		}
	}

	for _, spine := range []*SpineConfig{m.HTML.Spine, m.PDF.Spine, m.EPUB.Spine} {
		if spine == nil {
			continue
		}
		for _, p := range spine.Patterns {
			if _, err := glob.Compile(p); err != nil {
				return rheoerr.NewProjectConfig("invalid glob pattern %q: %v", p, err)
			}
		}
	}

	return nil
}

func isValidFormat(f string) bool {
	for _, v := range AllFormats {
		if equalFold(v, f) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// WantsFormat reports whether the manifest's (or CLI-overridden) format
// list includes f.
func (m *Manifest) WantsFormat(f string) bool {
	for _, v := range m.Formats {
		if equalFold(v, f) {
			return true
		}
	}
	return false
}

// SpineFor returns the per-format spine config, or nil if the manifest
// didn't declare one for that format.
func (m *Manifest) SpineFor(format string) *SpineConfig {
	switch format {
	case FormatPDF:
		return m.PDF.Spine
	case FormatHTML:
		return m.HTML.Spine
	case FormatEPUB:
		return m.EPUB.Spine
	default:
		return nil
	}
}

// String implements fmt.Stringer for diagnostics.
func (m *Manifest) String() string {
	return fmt.Sprintf("Manifest{version=%s build_dir=%s formats=%v}", m.Version, m.BuildDir, m.Formats)
}
