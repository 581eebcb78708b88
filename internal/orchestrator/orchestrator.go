// Package orchestrator implements the Compilation Orchestrator
// (component I, spec.md §4.I): it drives components A–G once per
// requested format, in the deterministic PDF→HTML→EPUB order spec.md §5
// requires, and tallies per-format success/failure. Timing follows the
// start/end-pair shape of the teacher's internal/stats scan/parse/check
// phase timing, rebuilt here as one timing pair per format driver call
// instead of a single linear pipeline.
package orchestrator

import (
	"path/filepath"
	"time"

	"github.com/freecomputinglab/rheo/internal/assets"
	"github.com/freecomputinglab/rheo/internal/compiler"
	"github.com/freecomputinglab/rheo/internal/config"
	"github.com/freecomputinglab/rheo/internal/formats/epub"
	"github.com/freecomputinglab/rheo/internal/formats/html"
	"github.com/freecomputinglab/rheo/internal/formats/pdf"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
	"github.com/freecomputinglab/rheo/internal/spine"
	"github.com/freecomputinglab/rheo/internal/world"
)

// runOrder is the deterministic cross-format ordering spec.md §5
// requires: "Across formats requested in one run: deterministic (PDF,
// HTML, EPUB order)."
var runOrder = []string{config.FormatPDF, config.FormatHTML, config.FormatEPUB}

// FormatResult is one format's outcome: "fully succeeded" per spec.md
// §4.I means Failed == 0 && Succeeded > 0.
type FormatResult struct {
	Format   string
	Succeeded int
	Failed    int
	Outputs   []string
	Duration  time.Duration
	Err       error
}

// FullySucceeded reports whether this format's run produced at least one
// output with zero failures.
func (f FormatResult) FullySucceeded() bool {
	return f.Failed == 0 && f.Succeeded > 0
}

// Options configures a Run.
type Options struct {
	// Root is the project directory (or the directory containing a
	// single .typ file).
	Root string
	// ManifestPath overrides the default rheo.toml location.
	ManifestPath string
	// Formats, if non-empty, overrides the manifest's format list
	// (CLI --pdf/--html/--epub flags).
	Formats []string
	// BuildDir overrides the manifest's build_dir.
	BuildDir string
	// Compiler is the collaborator driving paged/HTML compilation.
	// Defaults to compiler.NewStub() when nil.
	Compiler compiler.Compiler
}

// Result is the orchestrator's overall outcome.
type Result struct {
	Overall  string // "success", "partial", "failure"
	Formats  []FormatResult
	Warnings []string
}

// Run drives every requested format driver once. Once the formats have
// run, it returns a non-nil error only when no requested format fully
// succeeded (spec.md §4.I); partial success is reported through
// Result.Warnings with a nil error. A manifest, spine or world that cannot
// be set up before any format runs is returned as an error with a nil
// Result.
func Run(opts Options) (*Result, error) {
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = filepath.Join(opts.Root, config.DefaultManifestFileName)
	}
	manifest, err := config.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = manifest.BuildDir
	}
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(opts.Root, buildDir)
	}

	wanted := opts.Formats
	if len(wanted) == 0 {
		wanted = manifest.Formats
	}
	wantedSet := map[string]bool{}
	for _, f := range wanted {
		wantedSet[normalizeFormat(f)] = true
	}

	comp := opts.Compiler
	if comp == nil {
		comp = compiler.NewStub()
	}

	fonts := world.ScanFonts()
	packages := world.NewPackageCache(filepath.Join(opts.Root, ".rheo-cache"), world.SilentProgress{})

	files, err := resolveAnySpine(opts.Root, manifest)
	if err != nil {
		return nil, err
	}
	main := opts.Root
	if len(files) > 0 {
		main = files[0]
	}
	w, err := world.New(opts.Root, main, fonts, packages)
	if err != nil {
		return nil, err
	}

	var results []FormatResult
	for _, format := range runOrder {
		if !wantedSet[format] {
			continue
		}
		results = append(results, runFormat(format, opts.Root, manifest, w, comp, buildDir))
	}

	return summarize(results)
}

func runFormat(format, root string, manifest *config.Manifest, w *world.World, comp compiler.Compiler, buildDir string) FormatResult {
	start := time.Now()
	result := FormatResult{Format: format}

	switch format {
	case config.FormatPDF:
		files, err := spine.Resolve(spine.Options{Root: root, Patterns: patternsFor(manifest.PDF.Spine)})
		if err != nil {
			result.Err = err
			break
		}
		title := ""
		if manifest.PDF.Spine != nil {
			title = manifest.PDF.Spine.Title
		}
		outputs, err := pdf.Compile(w, comp, files, manifest.PDF.Spine.WantsMerge(), title, filepath.Join(buildDir, "pdf"))
		if err != nil {
			result.Err = err
			break
		}
		for _, o := range outputs {
			result.Outputs = append(result.Outputs, o.Path)
		}

	case config.FormatHTML:
		files, err := spine.Resolve(spine.Options{Root: root, Patterns: patternsFor(manifest.HTML.Spine)})
		if err != nil {
			result.Err = err
			break
		}
		htmlDir := filepath.Join(buildDir, "html")
		outputs, err := html.Compile(w, comp, files, root, htmlDir, manifest.HTML.Stylesheets, manifest.HTML.Fonts)
		if err != nil {
			result.Err = err
			break
		}
		for _, o := range outputs {
			result.Outputs = append(result.Outputs, o.Path)
		}
		if err := assets.CopyCSS(root, htmlDir); err != nil {
			result.Err = err
			break
		}
		if err := assets.CopyImages(root, htmlDir); err != nil {
			result.Err = err
			break
		}

	case config.FormatEPUB:
		files, err := spine.Resolve(spine.Options{Root: root, Patterns: patternsFor(manifest.EPUB.Spine)})
		if err != nil {
			result.Err = err
			break
		}
		title := ""
		if manifest.EPUB.Spine != nil {
			title = manifest.EPUB.Spine.Title
		}
		out, err := epub.Compile(w, comp, files, epub.Options{
			Identifier:  manifest.EPUB.Identifier,
			Authors:     manifest.EPUB.Authors,
			Title:       title,
			ProjectRoot: root,
		}, filepath.Join(buildDir, "epub"))
		if err != nil {
			result.Err = err
			break
		}
		result.Outputs = append(result.Outputs, out.Path)
	}

	result.Duration = time.Since(start)
	if result.Err != nil {
		result.Failed = 1
		result.Succeeded = 0
	} else {
		result.Succeeded = len(result.Outputs)
	}
	return result
}

// summarize computes Result.Overall and aggregates per-format failures
// per spec.md §4.I: overall succeeds if at least one requested format
// fully succeeded; partial success warns; no successes is an aggregate
// error.
func summarize(results []FormatResult) (*Result, error) {
	var fullSuccesses, failures int
	var messages []string
	for _, r := range results {
		if r.FullySucceeded() {
			fullSuccesses++
		}
		if r.Err != nil {
			failures++
			messages = append(messages, r.Format+": "+r.Err.Error())
		}
	}

	res := &Result{Formats: results}
	switch {
	case fullSuccesses == 0:
		res.Overall = "failure"
		return res, rheoerr.NewCompilationErrors(messages)
	case failures > 0:
		res.Overall = "partial"
		res.Warnings = append(res.Warnings, messages...)
	default:
		res.Overall = "success"
	}
	return res, nil
}

func resolveAnySpine(root string, manifest *config.Manifest) ([]string, error) {
	for _, sp := range []*config.SpineConfig{manifest.PDF.Spine, manifest.HTML.Spine, manifest.EPUB.Spine} {
		files, err := spine.Resolve(spine.Options{Root: root, Patterns: patternsFor(sp)})
		if err == nil && len(files) > 0 {
			return files, nil
		}
	}
	return spine.Resolve(spine.Options{Root: root})
}

func patternsFor(sp *config.SpineConfig) []string {
	if sp == nil {
		return nil
	}
	return sp.Patterns
}

func normalizeFormat(f string) string {
	switch f {
	case config.FormatPDF, config.FormatHTML, config.FormatEPUB:
		return f
	default:
		// manifest.Validate already rejects unknown names; this just
		// folds any differently-cased match onto the canonical one.
		for _, v := range config.AllFormats {
			if len(v) == len(f) {
				match := true
				for i := range v {
					a, b := v[i], f[i]
					if 'A' <= b && b <= 'Z' {
						b += 'a' - 'A'
					}
					if a != b {
						match = false
						break
					}
				}
				if match {
					return v
				}
			}
		}
		return f
	}
}
