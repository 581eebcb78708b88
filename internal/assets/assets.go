// Package assets embeds the default HTML stylesheet and the project
// scaffold templates `rheo init` writes out, grounded on
// original_source/src/rs/assets.rs and init.rs: the same "project CSS
// with a bundled fallback" and "write a fixed set of named template
// files" shapes, rebuilt on embed.FS since Go has no separate
// asset-embedding ecosystem library to reach for instead.
package assets

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

//go:embed default/style.css
var defaultFS embed.FS

//go:embed templates
var templatesFS embed.FS

// TemplateFS exposes the embedded template tree read-only, for callers
// (internal/examples) that need to walk it themselves rather than
// extract it to disk.
func TemplateFS() embed.FS { return templatesFS }

// DefaultStyleCSS returns the bundled fallback stylesheet, used when a
// project directory has no style.css of its own.
func DefaultStyleCSS() []byte {
	data, err := defaultFS.ReadFile("default/style.css")
	if err != nil {
		// Embedded at build time; a read failure here means the embed
		// directive itself is broken, not a runtime condition callers
		// can recover from.
		panic(err)
	}
	return data
}

// Templates lists the scaffold template names `rheo init --template`
// accepts.
var Templates = []string{"book", "thesis", "blog", "cv"}

// IsTemplate reports whether name is a recognized scaffold template.
func IsTemplate(name string) bool {
	for _, t := range Templates {
		if t == name {
			return true
		}
	}
	return false
}

// WriteTemplate writes every file under templates/<name> into destDir,
// preserving its relative directory structure. destDir must already
// exist.
func WriteTemplate(name, destDir string) error {
	if !IsTemplate(name) {
		return rheoerr.NewProjectConfig("unknown template %q: valid templates are %v", name, Templates)
	}

	root := filepath.Join("templates", name)
	return fs.WalkDir(templatesFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dest := filepath.Join(destDir, rel)

		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}

		data, err := templatesFS.ReadFile(path)
		if err != nil {
			return rheoerr.NewIoFailure("reading embedded template file "+path, err)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return rheoerr.NewIoFailure("creating "+filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return rheoerr.NewAssetCopy(path, dest, err)
		}
		return nil
	})
}
