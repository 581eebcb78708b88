package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/freecomputinglab/rheo/internal/compiler"
	"github.com/freecomputinglab/rheo/internal/config"
	"github.com/freecomputinglab/rheo/internal/formats/epub"
	"github.com/freecomputinglab/rheo/internal/formats/html"
	"github.com/freecomputinglab/rheo/internal/formats/pdf"
	"github.com/freecomputinglab/rheo/internal/spine"
	"github.com/freecomputinglab/rheo/internal/world"
)

// evictRetain bounds the compiler's memoization cache after each watch
// cycle (spec.md §9: a retention budget of ≈10).
const evictRetain = 10

// Loop ties a Watcher's debounced events to world/compiler/format-driver
// recompilation and a ReloadServer broadcast. It owns the long-lived
// World and Compiler across cycles so unaffected compilation state
// survives a FilesChanged cycle; a ConfigChanged cycle reloads the manifest
// and rebuilds the World, and keeps the same Compiler.
type Loop struct {
	root         string
	manifestPath string
	logger       *log.Logger
	reload       *ReloadServer
	reporter     Reporter

	manifest *config.Manifest
	w        *world.World
	comp     compiler.Compiler
}

// NewLoop loads the manifest once and constructs the long-lived world
// and compiler the loop will reuse across FilesChanged cycles.
func NewLoop(root, manifestPath string, comp compiler.Compiler, reload *ReloadServer, logger *log.Logger) (*Loop, error) {
	l := &Loop{root: root, manifestPath: manifestPath, comp: comp, reload: reload, logger: logger, reporter: noopReporter{}}
	if err := l.rebuildWorld(); err != nil {
		return nil, err
	}
	return l, nil
}

// SetReporter attaches a Reporter (e.g. the watch dashboard UI) that
// observes build-cycle lifecycle notifications. Defaults to a no-op.
func (l *Loop) SetReporter(r Reporter) {
	if r == nil {
		r = noopReporter{}
	}
	l.reporter = r
}

func (l *Loop) rebuildWorld() error {
	manifest, err := config.Load(l.manifestPath)
	if err != nil {
		return err
	}
	l.manifest = manifest

	fonts := world.ScanFonts()
	packages := world.NewPackageCache(filepath.Join(l.root, ".rheo-cache"), world.SilentProgress{})

	files, err := l.resolveAnySpine()
	if err != nil {
		return err
	}
	main := l.root
	if len(files) > 0 {
		main = files[0]
	}

	w, err := world.New(l.root, main, fonts, packages)
	if err != nil {
		return err
	}
	l.w = w
	return nil
}

// resolveAnySpine picks a representative spine just to seed the world's
// main file; each format driver resolves its own spine again before
// compiling.
func (l *Loop) resolveAnySpine() ([]string, error) {
	for _, sp := range []*config.SpineConfig{l.manifest.PDF.Spine, l.manifest.HTML.Spine, l.manifest.EPUB.Spine} {
		files, err := spine.Resolve(spine.Options{Root: l.root, Patterns: spinePatterns(sp)})
		if err == nil && len(files) > 0 {
			return files, nil
		}
	}
	return spine.Resolve(spine.Options{Root: l.root})
}

func spinePatterns(sp *config.SpineConfig) []string {
	if sp == nil {
		return nil
	}
	return sp.Patterns
}

// Run drives the watcher and debouncer until ctx is cancelled,
// recompiling on every debounced event and broadcasting a reload
// afterward.
func (l *Loop) Run(ctx context.Context, watcher *Watcher, debouncer *Debouncer) error {
	errs := make(chan error, 1)
	go func() {
		errs <- watcher.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			debouncer.Stop()
			return <-errs

		case err := <-errs:
			return err

		case kind := <-debouncer.Events():
			l.handleEvent(kind)
		}
	}
}

func (l *Loop) handleEvent(kind EventKind) {
	start := time.Now()
	l.reporter.CycleStarted(kind)

	if kind == ConfigChanged {
		l.logger.Info("manifest changed, reloading project")
		if err := l.rebuildWorld(); err != nil {
			l.logger.Error("failed to reload manifest", "error", err)
			l.reporter.CycleComplete(kind, nil, err, time.Since(start))
			return
		}
	} else {
		l.logger.Info("source changed, recompiling")
	}

	results, err := l.recompileAll()
	if err != nil {
		l.logger.Error("recompile failed", "error", err)
		l.reporter.CycleComplete(kind, results, err, time.Since(start))
		return
	}

	l.comp.Evict(evictRetain)
	l.reporter.CycleComplete(kind, results, nil, time.Since(start))
	l.reload.Broadcast()
}

// recompileAll runs every manifest-enabled format driver in turn,
// stopping at the first failure, and returns the per-format timing
// collected so far (successes and the failure, if any).
func (l *Loop) recompileAll() ([]FormatOutcome, error) {
	buildDir := l.manifest.BuildDir
	var results []FormatOutcome

	run := func(format string, fn func() error) error {
		start := time.Now()
		err := fn()
		results = append(results, FormatOutcome{Format: format, Err: err, Duration: time.Since(start)})
		return err
	}

	if l.manifest.WantsFormat(config.FormatPDF) {
		err := run(config.FormatPDF, func() error {
			files, err := spine.Resolve(spine.Options{Root: l.root, Patterns: spinePatterns(l.manifest.PDF.Spine)})
			if err != nil {
				return err
			}
			title := ""
			if l.manifest.PDF.Spine != nil {
				title = l.manifest.PDF.Spine.Title
			}
			_, err = pdf.Compile(l.w, l.comp, files, l.manifest.PDF.Spine.WantsMerge(), title, filepath.Join(buildDir, "pdf"))
			return err
		})
		if err != nil {
			return results, err
		}
	}

	if l.manifest.WantsFormat(config.FormatHTML) {
		err := run(config.FormatHTML, func() error {
			files, err := spine.Resolve(spine.Options{Root: l.root, Patterns: spinePatterns(l.manifest.HTML.Spine)})
			if err != nil {
				return err
			}
			_, err = html.Compile(l.w, l.comp, files, l.root, filepath.Join(buildDir, "html"), l.manifest.HTML.Stylesheets, l.manifest.HTML.Fonts)
			return err
		})
		if err != nil {
			return results, err
		}
	}

	if l.manifest.WantsFormat(config.FormatEPUB) {
		err := run(config.FormatEPUB, func() error {
			files, err := spine.Resolve(spine.Options{Root: l.root, Patterns: spinePatterns(l.manifest.EPUB.Spine)})
			if err != nil {
				return err
			}
			title := ""
			if l.manifest.EPUB.Spine != nil {
				title = l.manifest.EPUB.Spine.Title
			}
			opts := epub.Options{
				Identifier:  l.manifest.EPUB.Identifier,
				Authors:     l.manifest.EPUB.Authors,
				Title:       title,
				ProjectRoot: l.root,
			}
			_, err = epub.Compile(l.w, l.comp, files, opts, filepath.Join(buildDir, "epub"))
			return err
		})
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
