package epub

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freecomputinglab/rheo/internal/compiler"
	"github.com/freecomputinglab/rheo/internal/linktransform"
	"github.com/freecomputinglab/rheo/internal/markup"
	"github.com/freecomputinglab/rheo/internal/postprocess"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

type syntheticWorld interface {
	compiler.World
	SwapMain(id compiler.FileID)
	SetSource(id compiler.FileID, text string)
}

// Options carries the EPUB-specific manifest fields the driver needs
// beyond the resolved spine file list.
type Options struct {
	Identifier string
	Authors    []string
	Title      string
	ProjectRoot string
}

// Output is the single written EPUB (EPUB always assembles one archive,
// never one-per-file, per spec.md §4.F).
type Output struct {
	Path  string
	Items []Item
}

// Compile drives the EPUB driver: compile each spine file's HTML flavor,
// rewrite its internal links to `.xhtml`, convert to portable XHTML,
// extract its outline, then assemble the OCF archive.
func Compile(w syntheticWorld, comp compiler.Compiler, files []string, opts Options, buildDir string) (*Output, error) {
	if len(files) == 0 {
		return nil, rheoerr.NewProjectConfig("epub spine resolved to zero files")
	}

	stems := make(map[string]bool, len(files))
	for _, f := range files {
		stems[strings.TrimSuffix(filepath.Base(f), markup.MarkupExt)] = true
	}

	items := make([]Item, 0, len(files))
	language := "en"
	for _, f := range files {
		item, lang, err := compileItem(w, comp, f, stems, opts.ProjectRoot)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if lang != "" {
			language = lang
		}
	}

	title := opts.Title
	if title == "" {
		if len(items) > 1 {
			title = "Untitled"
		} else {
			title = items[0].Stem
		}
	}

	identifier := opts.Identifier
	if identifier == "" {
		identifier = "urn:uuid:" + uuid.NewString()
	}

	meta := Metadata{
		Identifier: identifier,
		Title:      title,
		Language:   language,
		Creator:    strings.Join(opts.Authors, ", "),
		Modified:   time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}

	opf, err := buildOPF(meta, items)
	if err != nil {
		return nil, rheoerr.NewEpubGenerationErrors(buildDir, err)
	}
	nav := renderNav(title, combineOutlines(items))

	archive, err := assembleOCF(opf, []byte(nav), items)
	if err != nil {
		return nil, rheoerr.NewEpubGenerationErrors(buildDir, err)
	}

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return nil, rheoerr.NewIoFailure("creating EPUB build dir "+buildDir, err)
	}
	outPath := filepath.Join(buildDir, linktransform.SanitizeLabel(title)+".epub")
	if err := os.WriteFile(outPath, archive, 0o644); err != nil {
		return nil, rheoerr.NewIoFailure("writing "+outPath, err)
	}

	return &Output{Path: outPath, Items: items}, nil
}

func compileItem(w syntheticWorld, comp compiler.Compiler, file string, stems map[string]bool, projectRoot string) (Item, string, error) {
	// The source keeps its `.typ` links so RewriteLinks below can check
	// each target exists before swapping it to `.xhtml`.
	src, err := os.ReadFile(file)
	if err != nil {
		return Item{}, "", rheoerr.NewIoFailure("reading spine file "+file, err)
	}

	id := w.Main()
	w.SetSource(id, string(src))
	w.SwapMain(id)

	doc, warnings, err := comp.CompileHTML(w)
	if err != nil {
		return Item{}, "", rheoerr.NewCompilationErrors([]string{fmt.Sprintf("%s: %v", file, err)})
	}
	rendered, err := doc.ExportHTML()
	if err != nil {
		return Item{}, "", rheoerr.NewHtmlExportErrors(file, err)
	}

	stem := strings.TrimSuffix(filepath.Base(file), markup.MarkupExt)
	href := stem + ".xhtml"

	sourceDir := filepath.Dir(file)
	rewritten, diags, err := postprocess.RewriteLinks(rendered, sourceDir, projectRoot, ".xhtml", func(abs string) bool {
		_, statErr := os.Stat(abs)
		return statErr == nil
	})
	if err != nil {
		return Item{}, "", rheoerr.NewHtmlExportErrors(file, err)
	}
	if len(diags) > 0 {
		return Item{}, "", diagnosticsToError(file, diags)
	}

	xhtml, err := postprocess.ToXHTML(rewritten)
	if err != nil {
		return Item{}, "", rheoerr.NewHtmlExportErrors(file, err)
	}

	return Item{
		Stem:     stem,
		Href:     href,
		XHTML:    xhtml,
		Scripted: doc.HasScripts(),
		MathML:   doc.HasMathML(),
		Outline:  buildOutline(href, doc.Headings()),
		Warnings: warnings,
	}, doc.Language(), nil
}

// diagnosticsToError turns unresolved-link diagnostics into the
// CompilationErrors spec.md §4.G requires ("fail if target does not
// exist or lies outside the project root"), one message per diagnostic.
func diagnosticsToError(file string, diags []postprocess.Diagnostic) error {
	messages := make([]string, len(diags))
	for i, d := range diags {
		messages[i] = fmt.Sprintf("%s: %s", file, d.String())
	}
	return rheoerr.NewCompilationErrors(messages)
}
