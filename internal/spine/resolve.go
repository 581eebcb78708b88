// Package spine implements the Manifest & Spine Resolver (component A):
// it expands the manifest's glob patterns (the *vertebrae*) into an
// ordered, duplicate-free list of source files, or falls back to
// single-file auto-discovery when no patterns are configured.
//
// The walk-then-glob-filter algorithm is the same shape as the teacher's
// extension-filtered recursive walk plus include/exclude glob matching;
// here it is generalized to named, ordered pattern groups instead of a
// flat include/exclude pair.
package spine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/freecomputinglab/rheo/internal/markup"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// Options configures a Resolve call.
type Options struct {
	// Root is the project root to walk.
	Root string
	// Patterns are the spine's vertebrae, in declaration order. An empty
	// slice selects single-file auto-discovery.
	Patterns []string
	// RequireMerge fails the resolve immediately when Patterns is empty.
	RequireMerge bool
}

// Resolve expands Patterns (or falls back to auto-discovery) into an
// ordered list of absolute source paths, then rejects duplicate filenames.
// The resolver does no I/O beyond directory reads and glob expansion, and
// is deterministic for a fixed tree.
func Resolve(opts Options) ([]string, error) {
	if opts.RequireMerge && len(opts.Patterns) == 0 {
		return nil, rheoerr.NewProjectConfig("merge requested but no spine patterns are configured")
	}

	var files []string
	var err error
	if len(opts.Patterns) == 0 {
		files, err = autoDiscover(opts.Root)
	} else {
		files, err = expandPatterns(opts.Root, opts.Patterns)
	}
	if err != nil {
		return nil, err
	}

	if err := CheckDuplicateFilenames(files); err != nil {
		return nil, err
	}
	return files, nil
}

// expandPatterns walks Root once, then for each pattern (in order) filters
// the markup-extension files matching it, sorted lexicographically by
// filename, and concatenates the per-pattern results preserving pattern
// order. A pattern matching zero files is a hard error.
func expandPatterns(root string, patterns []string) ([]string, error) {
	candidates, err := walkMarkupFiles(root)
	if err != nil {
		return nil, rheoerr.NewIoFailure("walking project root "+root, err)
	}

	var out []string
	for _, pat := range patterns {
		g, err := glob.Compile(pat)
		if err != nil {
			return nil, rheoerr.NewProjectConfig("invalid glob pattern %q: %v", pat, err)
		}

		matched := make([]string, 0, len(candidates))
		for _, f := range candidates {
			rel, err := filepath.Rel(root, f)
			if err != nil {
				rel = f
			}
			rel = filepath.ToSlash(rel)
			if g.Match(rel) {
				matched = append(matched, f)
			}
		}
		if len(matched) == 0 {
			return nil, rheoerr.NewProjectConfig("spine pattern %q matched no files", pat)
		}

		sort.Slice(matched, func(i, j int) bool {
			return filepath.Base(matched[i]) < filepath.Base(matched[j])
		})
		out = append(out, matched...)
	}
	return out, nil
}

// autoDiscover walks Root for markup files when no spine patterns are
// configured: exactly one file succeeds, zero or more than one fails.
func autoDiscover(root string) ([]string, error) {
	files, err := walkMarkupFiles(root)
	if err != nil {
		return nil, rheoerr.NewIoFailure("walking project root "+root, err)
	}
	switch len(files) {
	case 0:
		return nil, rheoerr.NewProjectConfig("need at least one source")
	case 1:
		return files, nil
	default:
		return nil, rheoerr.NewProjectConfig("multiple files found, specify spine")
	}
}

// walkMarkupFiles recursively collects every regular file under root with
// the markup extension, skipping hidden directories (like .git).
func walkMarkupFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), markup.MarkupExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// CheckDuplicateFilenames rejects a spine where two entries share a
// filename, naming both paths in the error.
func CheckDuplicateFilenames(files []string) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		if first, ok := seen[name]; ok {
			return rheoerr.NewProjectConfig(
				"duplicate filename in spine: %q appears at both %q and %q", name, first, f)
		}
		seen[name] = f
	}
	return nil
}

// Stems returns the filename stems (basename without the markup
// extension) of files, in order — used to build the spineStems set the
// link transformer's merged-PDF label resolution needs.
func Stems(files []string) []string {
	stems := make([]string, len(files))
	for i, f := range files {
		stems[i] = strings.TrimSuffix(filepath.Base(f), markup.MarkupExt)
	}
	return stems
}

// StemSet is Stems as a membership set.
func StemSet(files []string) map[string]bool {
	set := make(map[string]bool, len(files))
	for _, s := range Stems(files) {
		set[s] = true
	}
	return set
}
