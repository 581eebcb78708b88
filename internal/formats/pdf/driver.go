// Package pdf implements the PDF format driver (component F): drive paged
// compilation, merged or per-file per the manifest's spine config, and
// write the exported bytes.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/freecomputinglab/rheo/internal/compiler"
	"github.com/freecomputinglab/rheo/internal/linktransform"
	"github.com/freecomputinglab/rheo/internal/markup"
	"github.com/freecomputinglab/rheo/internal/reticulate"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// syntheticWorld is the subset of internal/world.World the driver needs:
// compiler.World itself, plus seeding an in-memory source and swapping
// the compiled main file.
type syntheticWorld interface {
	compiler.World
	SwapMain(id compiler.FileID)
	SetSource(id compiler.FileID, text string)
}

// Output is one written PDF: its path, page count, and any compiler
// warnings surfaced while producing it.
type Output struct {
	Path      string
	PageCount int
	Warnings  []compiler.Warning
}

// Compile drives the PDF driver against an already-resolved spine file
// list. When merge is true, files are reticulated into a single source
// and written to one PDF named after linktransform.SanitizeLabel(title)
// in buildDir (or "merged.pdf" if title is empty); otherwise each file
// compiles and writes separately, named after its stem.
func Compile(w syntheticWorld, comp compiler.Compiler, files []string, merge bool, title, buildDir string) ([]Output, error) {
	if len(files) == 0 {
		return nil, rheoerr.NewProjectConfig("pdf spine resolved to zero files")
	}

	format := linktransform.FormatPDFSingle
	if merge {
		format = linktransform.FormatPDFMerged
	}

	built, err := reticulate.Build(files, format, title)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return nil, rheoerr.NewIoFailure("creating PDF build dir "+buildDir, err)
	}

	if built.Merged {
		name := title
		if name == "" {
			name = "merged"
		}
		out, err := compileOne(w, comp, built.Sources[0], filepath.Join(buildDir, linktransform.SanitizeLabel(name)+".pdf"))
		if err != nil {
			return nil, err
		}
		return []Output{out}, nil
	}

	outputs := make([]Output, 0, len(files))
	for i, src := range built.Sources {
		stem := strings.TrimSuffix(filepath.Base(files[i]), markup.MarkupExt)
		out, err := compileOne(w, comp, src, filepath.Join(buildDir, stem+".pdf"))
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func compileOne(w syntheticWorld, comp compiler.Compiler, source, outPath string) (Output, error) {
	id := w.Main()
	w.SetSource(id, source)
	w.SwapMain(id)

	doc, warnings, err := comp.CompilePaged(w)
	if err != nil {
		return Output{}, rheoerr.NewCompilationErrors([]string{fmt.Sprintf("%s: %v", outPath, err)})
	}

	bytes, err := doc.ExportPDF()
	if err != nil {
		return Output{}, rheoerr.NewPdfExportErrors(outPath, err)
	}
	if err := os.WriteFile(outPath, bytes, 0o644); err != nil {
		return Output{}, rheoerr.NewIoFailure("writing "+outPath, err)
	}

	return Output{Path: outPath, PageCount: doc.PageCount(), Warnings: warnings}, nil
}
