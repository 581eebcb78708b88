// Package examples backs the `list-examples` command (spec.md §6.3,
// supplemented per original_source/src/rs/cli.rs's ListExamples
// subcommand, a stub in the original the distillation only gestures
// at). It walks the scaffold templates internal/assets embeds and
// reports them as example projects a user can start from.
package examples

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/freecomputinglab/rheo/internal/assets"
)

// descriptions gives each template a one-line summary; templates
// without an entry here still list, just without a description.
var descriptions = map[string]string{
	"book":   "A multi-chapter book with a merged PDF and a paginated EPUB.",
	"thesis": "An academic thesis scaffold with a references bibliography.",
	"blog":   "A blog laid out as one post per content file, HTML-only friendly.",
	"cv":     "A single-page curriculum vitae.",
}

// Example is one listed scaffold project.
type Example struct {
	Name        string
	Description string
	Files       []string
}

// List enumerates every embedded template, in name order, along with
// the relative paths of the files it would write.
func List() ([]Example, error) {
	names := append([]string(nil), assets.Templates...)
	sort.Strings(names)

	out := make([]Example, 0, len(names))
	for _, name := range names {
		files, err := filesFor(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Example{
			Name:        name,
			Description: descriptions[name],
			Files:       files,
		})
	}
	return out, nil
}

func filesFor(name string) ([]string, error) {
	var files []string
	err := fs.WalkDir(assets.TemplateFS(), filepath.Join("templates", name), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(filepath.Join("templates", name), path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}
