package linktransform

import (
	"testing"

	"github.com/freecomputinglab/rheo/internal/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("ReplaceURLKeepsQuotesAndBody", func(t *testing.T) {
		t.Parallel()
		src := []byte(`#link("./b.typ")[B]`)
		links, verbatim := markup.ExtractLinks(src)
		require.Len(t, links, 1)
		edits := Decide(links, FormatHTML, nil)
		res := Apply(src, edits, verbatim)
		assert.Equal(t, `#link("./b.html")[B]`, res.Output)
		assert.Equal(t, 1, res.Applied)
		assert.Equal(t, 0, res.Skipped)
	})

	t.Run("ReplaceURLWithLabelDropsQuotes", func(t *testing.T) {
		t.Parallel()
		src := []byte(`#link("./b.typ")[B]`)
		links, verbatim := markup.ExtractLinks(src)
		edits := Decide(links, FormatPDFMerged, map[string]bool{"b": true})
		res := Apply(src, edits, verbatim)
		assert.Equal(t, `#link(<b>)[B]`, res.Output)
	})

	t.Run("RemoveKeepsOnlyBody", func(t *testing.T) {
		t.Parallel()
		src := []byte(`see #link("./b.typ")[the next chapter] for more`)
		links, verbatim := markup.ExtractLinks(src)
		edits := Decide(links, FormatPDFSingle, nil)
		res := Apply(src, edits, verbatim)
		assert.Equal(t, `see [the next chapter] for more`, res.Output)
	})

	t.Run("VerbatimOverlapIsSkipped", func(t *testing.T) {
		t.Parallel()
		src := []byte("`` `#link(\"./b.typ\")[B]` ``")
		links, verbatim := markup.ExtractLinks(src)
		assert.Empty(t, links, "link syntax inside raw ticks should not even be parsed as a call")
		edits := Decide(links, FormatHTML, nil)
		res := Apply(src, edits, verbatim)
		assert.Equal(t, string(src), res.Output)
		assert.Equal(t, 0, res.Applied)
	})

	t.Run("BackToFrontStability", func(t *testing.T) {
		t.Parallel()
		src := []byte(`#link("./a.typ")[A] and #link("./b.typ")[B]`)
		links, verbatim := markup.ExtractLinks(src)
		require.Len(t, links, 2)
		edits := Decide(links, FormatHTML, nil)
		res := Apply(src, edits, verbatim)
		assert.Equal(t, `#link("./a.html")[A] and #link("./b.html")[B]`, res.Output)
		assert.Equal(t, 2, res.Applied)
	})

	t.Run("HTMLIsIdempotentOnOwnOutput", func(t *testing.T) {
		t.Parallel()
		src := []byte(`#link("./b.typ")[B]`)
		links, verbatim := markup.ExtractLinks(src)
		edits := Decide(links, FormatHTML, nil)
		first := Apply(src, edits, verbatim)

		links2, verbatim2 := markup.ExtractLinks([]byte(first.Output))
		require.Len(t, links2, 1)
		edits2 := Decide(links2, FormatHTML, nil)
		assert.Equal(t, Keep, edits2[0].Transform.Kind, "already-html link has no markup extension left to rewrite")
		second := Apply([]byte(first.Output), edits2, verbatim2)
		assert.Equal(t, first.Output, second.Output)
	})
}
