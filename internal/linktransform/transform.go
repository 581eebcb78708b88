// Package linktransform implements the Link Transformer (spec component
// C): given the links and verbatim ranges a markup.ExtractLinks call
// produced, decide a per-link byte-range edit and apply the surviving
// edits back-to-front so earlier offsets never shift under later ones.
package linktransform

import (
	"path"
	"strings"

	"github.com/freecomputinglab/rheo/internal/markup"
)

// Format is the compilation target the decision table is keyed on.
type Format int

const (
	// FormatPDFSingle is a single-file (non-merged) PDF compile.
	FormatPDFSingle Format = iota
	// FormatPDFMerged is a merged-spine PDF compile.
	FormatPDFMerged
	FormatHTML
	FormatEPUB
)

// Kind identifies which edit a Transform performs.
type Kind int

const (
	// Keep leaves the call untouched.
	Keep Kind = iota
	// Remove replaces the call with just its bracketed body text.
	Remove
	// ReplaceURL swaps the quoted URL string for a new quoted string.
	ReplaceURL
	// ReplaceURLWithLabel swaps the quoted URL string for an unquoted
	// label reference token.
	ReplaceURLWithLabel
)

// Transform is the decision computed for one link.
type Transform struct {
	Kind  Kind
	Body  string // for Remove
	Value string // new URL (ReplaceURL) or label (ReplaceURLWithLabel)
}

// Edit pairs a source byte range with the transform to apply there.
type Edit struct {
	Range     markup.ByteRange
	Transform Transform
}

// Decide computes edits for every link, given the compilation format and,
// for a merged PDF, the set of filename stems present in the spine (used
// to resolve ReplaceURLWithLabel targets).
func Decide(links []markup.Link, format Format, spineStems map[string]bool) []Edit {
	edits := make([]Edit, 0, len(links))
	for _, l := range links {
		edits = append(edits, Edit{Range: l.Range, Transform: decideOne(l, format, spineStems)})
	}
	return edits
}

func decideOne(l markup.Link, format Format, spineStems map[string]bool) Transform {
	if !markup.IsInternalMarkup(l.URL) {
		return Transform{Kind: Keep}
	}

	switch format {
	case FormatPDFSingle:
		return Transform{Kind: Remove, Body: l.Body}
	case FormatPDFMerged:
		stem := stemOf(l.URL)
		if spineStems[stem] {
			return Transform{Kind: ReplaceURLWithLabel, Value: SanitizeLabel(stem)}
		}
		return Transform{Kind: Remove, Body: l.Body}
	case FormatHTML:
		return Transform{Kind: ReplaceURL, Value: swapExt(l.URL, ".html")}
	case FormatEPUB:
		return Transform{Kind: ReplaceURL, Value: swapExt(l.URL, ".xhtml")}
	default:
		return Transform{Kind: Keep}
	}
}

func stemOf(url string) string {
	base := path.Base(url)
	return strings.TrimSuffix(base, markup.MarkupExt)
}

func swapExt(url, newExt string) string {
	return strings.TrimSuffix(url, markup.MarkupExt) + newExt
}

// SanitizeLabel turns a filename stem into a label token: lowercased,
// every non-alphanumeric run collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func SanitizeLabel(stem string) string {
	var b strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(stem) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
