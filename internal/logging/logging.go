// Package logging configures the single charmbracelet/log logger
// instance cmd/ injects top-down into every component, per SPEC_FULL.md
// §1's "one logger, injected top-down from cmd/, with per-component
// prefixes."
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	// Quiet restricts output to errors only (`-q`).
	Quiet bool
	// Verbose enables debug-level output (`-v`).
	Verbose bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds the root logger. Component loggers are derived from it via
// With("component", name), which prefixes every line.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	switch {
	case opts.Quiet:
		logger.SetLevel(log.ErrorLevel)
	case opts.Verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	return logger
}

// For derives a component-scoped logger carrying a "component" field,
// which charmbracelet/log renders as a prefix-like key/value pair.
func For(logger *log.Logger, component string) *log.Logger {
	return logger.With("component", component)
}
