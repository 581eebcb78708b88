package linktransform

import (
	"testing"

	"github.com/freecomputinglab/rheo/internal/markup"
	"github.com/stretchr/testify/assert"
)

func TestDecideOne(t *testing.T) {
	t.Parallel()

	t.Run("ExternalIsKept", func(t *testing.T) {
		t.Parallel()
		l := markup.Link{URL: "https://example.com"}
		got := decideOne(l, FormatHTML, nil)
		assert.Equal(t, Keep, got.Kind)
	})

	t.Run("FragmentIsKept", func(t *testing.T) {
		t.Parallel()
		got := decideOne(markup.Link{URL: "#section"}, FormatEPUB, nil)
		assert.Equal(t, Keep, got.Kind)
	})

	t.Run("NonMarkupInternalIsKept", func(t *testing.T) {
		t.Parallel()
		got := decideOne(markup.Link{URL: "./image.png"}, FormatHTML, nil)
		assert.Equal(t, Keep, got.Kind)
	})

	t.Run("PDFSingleRemoves", func(t *testing.T) {
		t.Parallel()
		l := markup.Link{URL: "./b.typ", Body: "see b"}
		got := decideOne(l, FormatPDFSingle, nil)
		assert.Equal(t, Remove, got.Kind)
		assert.Equal(t, "see b", got.Body)
	})

	t.Run("PDFMergedReplacesWithLabelWhenInSpine", func(t *testing.T) {
		t.Parallel()
		l := markup.Link{URL: "./b.typ", Body: "see b"}
		got := decideOne(l, FormatPDFMerged, map[string]bool{"b": true})
		assert.Equal(t, ReplaceURLWithLabel, got.Kind)
		assert.Equal(t, "b", got.Value)
	})

	t.Run("PDFMergedRemovesWhenNotInSpine", func(t *testing.T) {
		t.Parallel()
		l := markup.Link{URL: "./c.typ", Body: "see c"}
		got := decideOne(l, FormatPDFMerged, map[string]bool{"b": true})
		assert.Equal(t, Remove, got.Kind)
	})

	t.Run("HTMLSwapsExtension", func(t *testing.T) {
		t.Parallel()
		got := decideOne(markup.Link{URL: "./b.typ"}, FormatHTML, nil)
		assert.Equal(t, ReplaceURL, got.Kind)
		assert.Equal(t, "./b.html", got.Value)
	})

	t.Run("EPUBSwapsExtension", func(t *testing.T) {
		t.Parallel()
		got := decideOne(markup.Link{URL: "./b.typ"}, FormatEPUB, nil)
		assert.Equal(t, ReplaceURL, got.Kind)
		assert.Equal(t, "./b.xhtml", got.Value)
	})
}

func TestSanitizeLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Chapter One":   "chapter-one",
		"chapter_1":     "chapter-1",
		"--leading":     "leading",
		"trailing--":    "trailing",
		"a---b":         "a-b",
		"UPPER.case.ID": "upper-case-id",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeLabel(in), "input=%q", in)
	}
}
