// Package reticulate implements the Reticulated Spine Builder (component
// D): it combines the spine resolver's file list (A) with the link engine
// (B) and the link transformer (C) to produce the final source text handed
// to the compilation world.
package reticulate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/freecomputinglab/rheo/internal/linktransform"
	"github.com/freecomputinglab/rheo/internal/markup"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
	"github.com/freecomputinglab/rheo/internal/spine"
)

// Spine is the reticulated output: either one merged source (PDF merge) or
// one source per input file.
type Spine struct {
	Title   string
	Merged  bool
	Sources []string
}

// Build reads each file in files, transforms its links for format, and
// assembles the Spine. When format is linktransform.FormatPDFMerged every
// file is additionally prefixed with a `#metadata("title") <label>` anchor
// and concatenated into a single source.
func Build(files []string, format linktransform.Format, title string) (*Spine, error) {
	stems := spine.StemSet(files)
	merged := format == linktransform.FormatPDFMerged

	if merged {
		parts := make([]string, 0, len(files))
		for _, f := range files {
			transformed, raw, err := transformFile(f, format, stems)
			if err != nil {
				return nil, err
			}
			stem := strings.TrimSuffix(filepath.Base(f), markup.MarkupExt)
			label := linktransform.SanitizeLabel(stem)
			docTitle := ExtractDocumentTitle(raw, stem)
			parts = append(parts, fmt.Sprintf("#metadata(%q) <%s>\n\n%s", docTitle, label, transformed))
		}
		return &Spine{Title: title, Merged: true, Sources: []string{strings.Join(parts, "\n\n")}}, nil
	}

	sources := make([]string, 0, len(files))
	for _, f := range files {
		transformed, _, err := transformFile(f, format, stems)
		if err != nil {
			return nil, err
		}
		sources = append(sources, transformed)
	}
	return &Spine{Title: title, Merged: false, Sources: sources}, nil
}

// TransformFile runs B+C on a single file against an externally-supplied
// stem set, so a file transformed on its own can still have
// ReplaceURLWithLabel resolved against every stem in the whole spine, not
// just this one file.
func TransformFile(path string, format linktransform.Format, stems map[string]bool) (string, error) {
	transformed, _, err := transformFile(path, format, stems)
	return transformed, err
}

func transformFile(path string, format linktransform.Format, stems map[string]bool) (transformed string, raw []byte, err error) {
	raw, err = os.ReadFile(path)
	if err != nil {
		return "", nil, rheoerr.NewIoFailure("reading spine file "+path, err)
	}

	links, verbatim := markup.ExtractLinks(raw)
	edits := linktransform.Decide(links, format, stems)
	res := linktransform.Apply(raw, edits, verbatim)
	return res.Output, raw, nil
}
