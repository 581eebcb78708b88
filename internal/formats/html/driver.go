// Package html implements the HTML format driver (component F): drive
// HTML compilation, run the post-processor's link rewrite and head
// injection, and write the result.
package html

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/freecomputinglab/rheo/internal/compiler"
	"github.com/freecomputinglab/rheo/internal/markup"
	"github.com/freecomputinglab/rheo/internal/postprocess"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

type syntheticWorld interface {
	compiler.World
	SwapMain(id compiler.FileID)
	SetSource(id compiler.FileID, text string)
}

// Output is one written HTML file.
type Output struct {
	Path     string
	Warnings []compiler.Warning
}

// Compile drives the HTML driver over files: one HTML document per file
// (HTML never merges, per spec.md). sourceDir is each file's own
// directory, passed to the post-processor for relative link resolution;
// projectRoot bounds escaping links. Stylesheets and fonts are injected
// into each document's <head>, fonts first.
func Compile(w syntheticWorld, comp compiler.Compiler, files []string, projectRoot, buildDir string, stylesheets, fonts []string) ([]Output, error) {
	if len(files) == 0 {
		return nil, rheoerr.NewProjectConfig("html spine resolved to zero files")
	}

	stems := make(map[string]bool, len(files))
	for _, f := range files {
		stems[strings.TrimSuffix(filepath.Base(f), markup.MarkupExt)] = true
	}

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return nil, rheoerr.NewIoFailure("creating HTML build dir "+buildDir, err)
	}

	outputs := make([]Output, 0, len(files))
	for _, f := range files {
		out, err := compileOne(w, comp, f, stems, projectRoot, buildDir, stylesheets, fonts)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func compileOne(w syntheticWorld, comp compiler.Compiler, file string, stems map[string]bool, projectRoot, buildDir string, stylesheets, fonts []string) (Output, error) {
	// The source keeps its `.typ` links so RewriteLinks below can check
	// each target exists before swapping it to `.html`.
	src, err := os.ReadFile(file)
	if err != nil {
		return Output{}, rheoerr.NewIoFailure("reading spine file "+file, err)
	}

	id := w.Main()
	w.SetSource(id, string(src))
	w.SwapMain(id)

	doc, warnings, err := comp.CompileHTML(w)
	if err != nil {
		return Output{}, rheoerr.NewCompilationErrors([]string{fmt.Sprintf("%s: %v", file, err)})
	}

	rendered, err := doc.ExportHTML()
	if err != nil {
		return Output{}, rheoerr.NewHtmlExportErrors(file, err)
	}

	sourceDir := filepath.Dir(file)
	rewritten, diags, err := postprocess.RewriteLinks(rendered, sourceDir, projectRoot, ".html", func(abs string) bool {
		_, statErr := os.Stat(abs)
		return statErr == nil
	})
	if err != nil {
		return Output{}, rheoerr.NewHtmlExportErrors(file, err)
	}
	if len(diags) > 0 {
		return Output{}, diagnosticsToError(file, diags)
	}

	injected, err := postprocess.InjectHead(rewritten, fonts, stylesheets)
	if err != nil {
		return Output{}, rheoerr.NewHtmlExportErrors(file, err)
	}

	stem := strings.TrimSuffix(filepath.Base(file), markup.MarkupExt)
	outPath := filepath.Join(buildDir, stem+".html")
	if err := os.WriteFile(outPath, []byte(injected), 0o644); err != nil {
		return Output{}, rheoerr.NewIoFailure("writing "+outPath, err)
	}

	return Output{Path: outPath, Warnings: warnings}, nil
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
