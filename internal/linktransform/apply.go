package linktransform

import (
	"sort"

	"github.com/freecomputinglab/rheo/internal/markup"
)

// Result is the outcome of applying a set of edits to one source, mirroring
// the Applied/Skipped accounting the teacher's fixer package reports for
// its own string-replace runs.
type Result struct {
	Output  string
	Applied int
	Skipped int
}

// Apply filters out edits whose range overlaps any verbatim range, applies
// the rest back-to-front (descending start offset) so earlier edits' byte
// positions never shift under later ones, and returns the rewritten text.
func Apply(source []byte, edits []Edit, verbatim []markup.ByteRange) Result {
	var active []Edit
	skipped := 0

	for _, e := range edits {
		if e.Transform.Kind == Keep {
			continue
		}
		if overlapsAny(e.Range, verbatim) {
			skipped++
			continue
		}
		active = append(active, e)
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].Range.Start > active[j].Range.Start
	})

	out := append([]byte(nil), source...)
	applied := 0
	for _, e := range active {
		original := out[e.Range.Start:e.Range.End]
		replacement := render(string(original), e.Transform)
		out = append(out[:e.Range.Start], append([]byte(replacement), out[e.Range.End:]...)...)
		applied++
	}

	return Result{Output: string(out), Applied: applied, Skipped: skipped}
}

func overlapsAny(r markup.ByteRange, ranges []markup.ByteRange) bool {
	for _, v := range ranges {
		if r.Overlaps(v) {
			return true
		}
	}
	return false
}

// render computes the replacement text for one call given its original
// source slice (e.g. `#link("old.typ")[body]`).
func render(original string, t Transform) string {
	switch t.Kind {
	case Remove:
		return "[" + t.Body + "]"
	case ReplaceURL:
		return replaceQuoted(original, t.Value, false)
	case ReplaceURLWithLabel:
		return replaceQuoted(original, "<"+t.Value+">", true)
	default:
		return original
	}
}

// replaceQuoted finds the first `(` then the first `"..."` string after it
// and replaces either its contents (keeping the quotes, asLabel=false) or
// the whole quoted token including its quotes (asLabel=true, producing an
// unquoted `<label>` reference) with replacement.
func replaceQuoted(original, replacement string, asLabel bool) string {
	openParen := indexByte(original, '(')
	if openParen < 0 {
		return original
	}
	afterParen := original[openParen+1:]
	firstQuote := indexByte(afterParen, '"')
	if firstQuote < 0 {
		return original
	}
	quoteStart := openParen + 1 + firstQuote
	afterFirstQuote := original[quoteStart+1:]
	closingQuote := indexByte(afterFirstQuote, '"')
	if closingQuote < 0 {
		return original
	}
	quoteEnd := quoteStart + 1 + closingQuote // index of closing quote

	if asLabel {
		return original[:quoteStart] + replacement + original[quoteEnd+1:]
	}
	return original[:quoteStart+1] + replacement + original[quoteEnd:]
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
