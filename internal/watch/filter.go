// Package watch implements the Watch & Reload loop (component H):
// relevance filtering, debounce, incremental recompile, and a loopback
// SSE live-reload server.
package watch

import (
	"path/filepath"
	"strings"

	"github.com/freecomputinglab/rheo/internal/markup"
)

// defaultBibliographyNames are the bibliography filenames recognized at
// the project root (spec.md §4.H).
var defaultBibliographyNames = map[string]bool{
	"references.bib": true,
	"bibliography.bib": true,
}

// Filter decides whether a filesystem event under the project root is
// relevant to a rebuild. The domain/glob/regex-rule shape here is
// adapted from the teacher's internal/filter.Filter (same "is this one
// of a small set of named categories" decision, rebuilt around path
// categories instead of URL ignore rules).
type Filter struct {
	root       string
	manifestName string
	imageDirs  []string
}

// NewFilter builds a Filter for a project rooted at root, with
// manifestName as the manifest's basename (e.g. "rheo.toml") and
// imageDirs as project-relative image subdirectories registered by the
// manifest.
func NewFilter(root, manifestName string, imageDirs []string) *Filter {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	dirs := make([]string, 0, len(imageDirs))
	for _, d := range imageDirs {
		dirs = append(dirs, filepath.Clean(filepath.Join(abs, d)))
	}
	return &Filter{root: filepath.Clean(abs), manifestName: manifestName, imageDirs: dirs}
}

// IsRelevant reports whether path (absolute or project-relative) should
// trigger a rebuild.
func (f *Filter) IsRelevant(path string) bool {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(f.root, abs)
	}
	abs = filepath.Clean(abs)

	if abs != f.root && !strings.HasPrefix(abs, f.root+string(filepath.Separator)) {
		return false
	}

	base := filepath.Base(abs)
	dir := filepath.Dir(abs)

	switch {
	case strings.EqualFold(filepath.Ext(abs), markup.MarkupExt):
		return true
	case base == f.manifestName:
		return true
	case dir == f.root && base == "style.css":
		return true
	case dir == f.root && defaultBibliographyNames[strings.ToLower(base)]:
		return true
	}

	for _, imgDir := range f.imageDirs {
		if abs == imgDir || strings.HasPrefix(abs, imgDir+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// IsManifest reports whether path is the project manifest file, the
// signal the debouncer uses to prefer ConfigChanged over FilesChanged.
func (f *Filter) IsManifest(path string) bool {
	return filepath.Base(path) == f.manifestName
}
