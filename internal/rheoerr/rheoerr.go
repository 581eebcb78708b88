// Package rheoerr defines the error taxonomy shared across the reticulation
// pipeline. Every component returns one of these types (or wraps one with
// fmt.Errorf's %w) so the orchestrator and CLI can tell fatal errors from
// per-file failures without string matching.
package rheoerr

import (
	"errors"
	"fmt"
	"strings"
)

// IoFailure wraps an I/O error with the operation that triggered it.
type IoFailure struct {
	Context string
	Cause   error
}

func (e *IoFailure) Error() string { return fmt.Sprintf("%s: %v", e.Context, e.Cause) }
func (e *IoFailure) Unwrap() error { return e.Cause }

// NewIoFailure builds an IoFailure.
func NewIoFailure(context string, cause error) *IoFailure {
	return &IoFailure{Context: context, Cause: cause}
}

// PathResolution reports a path that could not be resolved (outside root,
// missing, not representable as a virtual path).
type PathResolution struct {
	Path   string
	Reason string
}

func (e *PathResolution) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Path, e.Reason)
}

// NewPathResolution builds a PathResolution error.
func NewPathResolution(path, reason string) *PathResolution {
	return &PathResolution{Path: path, Reason: reason}
}

// CompilationErrors aggregates per-file compilation failures for a single
// format run. Count is always len(Messages); kept as a field so callers
// can report it without re-deriving it from the slice.
type CompilationErrors struct {
	Count    int
	Messages []string
}

func (e *CompilationErrors) Error() string {
	return fmt.Sprintf("%d compilation error(s): %s", e.Count, strings.Join(e.Messages, "; "))
}

// NewCompilationErrors builds a CompilationErrors from per-file messages.
func NewCompilationErrors(messages []string) *CompilationErrors {
	return &CompilationErrors{Count: len(messages), Messages: messages}
}

// PdfExportErrors reports failures exporting a compiled document to PDF bytes.
type PdfExportErrors struct {
	Path  string
	Cause error
}

func (e *PdfExportErrors) Error() string { return fmt.Sprintf("%s: pdf export: %v", e.Path, e.Cause) }
func (e *PdfExportErrors) Unwrap() error { return e.Cause }

// NewPdfExportErrors builds a PdfExportErrors for the named output path.
func NewPdfExportErrors(path string, cause error) *PdfExportErrors {
	return &PdfExportErrors{Path: path, Cause: cause}
}

// HtmlExportErrors reports failures exporting a compiled document to an HTML string.
type HtmlExportErrors struct {
	Path  string
	Cause error
}

func (e *HtmlExportErrors) Error() string {
	return fmt.Sprintf("%s: html export: %v", e.Path, e.Cause)
}
func (e *HtmlExportErrors) Unwrap() error { return e.Cause }

// NewHtmlExportErrors builds an HtmlExportErrors for the named output path.
func NewHtmlExportErrors(path string, cause error) *HtmlExportErrors {
	return &HtmlExportErrors{Path: path, Cause: cause}
}

// EpubGenerationErrors reports failures assembling the OCF archive.
type EpubGenerationErrors struct {
	Path  string
	Cause error
}

func (e *EpubGenerationErrors) Error() string {
	return fmt.Sprintf("%s: epub generation: %v", e.Path, e.Cause)
}
func (e *EpubGenerationErrors) Unwrap() error { return e.Cause }

// NewEpubGenerationErrors builds an EpubGenerationErrors for the named output path.
func NewEpubGenerationErrors(path string, cause error) *EpubGenerationErrors {
	return &EpubGenerationErrors{Path: path, Cause: cause}
}

// ProjectConfig reports a manifest or project-layout problem.
type ProjectConfig struct{ Msg string }

func (e *ProjectConfig) Error() string { return e.Msg }

// NewProjectConfig builds a ProjectConfig error.
func NewProjectConfig(format string, args ...any) *ProjectConfig {
	return &ProjectConfig{Msg: fmt.Sprintf(format, args...)}
}

// AssetCopy reports a failure copying a static asset (stylesheet, font, image).
type AssetCopy struct {
	Source string
	Dest   string
	Cause  error
}

func (e *AssetCopy) Error() string {
	return fmt.Sprintf("copying asset %s -> %s: %v", e.Source, e.Dest, e.Cause)
}
func (e *AssetCopy) Unwrap() error { return e.Cause }

// NewAssetCopy builds an AssetCopy error.
func NewAssetCopy(source, dest string, cause error) *AssetCopy {
	return &AssetCopy{Source: source, Dest: dest, Cause: cause}
}

// Watcher reports a failure in the filesystem watch loop.
type Watcher struct {
	Context string
	Cause   error
}

func (e *Watcher) Error() string { return fmt.Sprintf("watcher: %s: %v", e.Context, e.Cause) }
func (e *Watcher) Unwrap() error { return e.Cause }

// NewWatcher builds a Watcher error.
func NewWatcher(context string, cause error) *Watcher {
	return &Watcher{Context: context, Cause: cause}
}

// ParseError reports a syntax problem found while walking a source's tree.
type ParseError struct{ Msg string }

func (e *ParseError) Error() string { return e.Msg }

// NewParseError builds a ParseError.
func NewParseError(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidData reports malformed data that isn't a parse or config problem
// (a malformed OPF field, an unresolvable label, and the like).
type InvalidData struct{ Msg string }

func (e *InvalidData) Error() string { return e.Msg }

// NewInvalidData builds an InvalidData error.
func NewInvalidData(format string, args ...any) *InvalidData {
	return &InvalidData{Msg: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err should abort the current run rather than be
// logged and counted. PathResolution and ProjectConfig errors (unresolvable
// paths, manifest and spine problems) are fatal. Every other type is not,
// including an IoFailure from reading the manifest or walking the project,
// and per-file compilation and export errors (the orchestrator counts them
// instead).
func IsFatal(err error) bool {
	var pathErr *PathResolution
	var cfgErr *ProjectConfig
	if errors.As(err, &pathErr) || errors.As(err, &cfgErr) {
		return true
	}
	return false
}
