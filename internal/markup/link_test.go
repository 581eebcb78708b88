package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("SingleLinkWithContentBlock", func(t *testing.T) {
		t.Parallel()
		src := []byte(`#link("./file.typ")[text]`)
		links, verbatim := ExtractLinks(src)
		require.Len(t, links, 1)
		assert.Equal(t, "./file.typ", links[0].URL)
		assert.Equal(t, "text", links[0].Body)
		assert.Empty(t, verbatim)
		assert.Equal(t, 0, links[0].Range.Start)
		assert.Equal(t, len(src), links[0].Range.End)
	})

	t.Run("MultipleLinks", func(t *testing.T) {
		t.Parallel()
		src := []byte("Some text #link(\"./a.typ\")[first] and more\n#link(\"./b.typ\")[second] content.")
		links, _ := ExtractLinks(src)
		require.Len(t, links, 2)
		assert.Equal(t, "./a.typ", links[0].URL)
		assert.Equal(t, "first", links[0].Body)
		assert.Equal(t, "./b.typ", links[1].URL)
		assert.Equal(t, "second", links[1].Body)
	})

	t.Run("NoLinks", func(t *testing.T) {
		t.Parallel()
		links, verbatim := ExtractLinks([]byte("Just plain text with no links"))
		assert.Empty(t, links)
		assert.Empty(t, verbatim)
	})

	t.Run("ExternalURL", func(t *testing.T) {
		t.Parallel()
		links, _ := ExtractLinks([]byte(`#link("https://example.com")[external]`))
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com", links[0].URL)
		assert.True(t, IsExternal(links[0].URL))
	})

	t.Run("BodyConcatenatesTextLeavesWithSpacing", func(t *testing.T) {
		t.Parallel()
		src := []byte(`#link("./b.typ")[hello  world]`)
		links, _ := ExtractLinks(src)
		require.Len(t, links, 1)
		assert.Equal(t, "hello  world", links[0].Body)
	})

	t.Run("OtherCallsAreIgnored", func(t *testing.T) {
		t.Parallel()
		links, _ := ExtractLinks([]byte(`#emph[not a link] and #metadata("x") <y>`))
		assert.Empty(t, links)
	})

	t.Run("NonLinkFuncCallWithoutArgsDoesNotPanic", func(t *testing.T) {
		t.Parallel()
		assert.NotPanics(t, func() {
			ExtractLinks([]byte(`#line(length: 1cm)`))
		})
	})
}

func TestExtractLinksVerbatimRanges(t *testing.T) {
	t.Parallel()

	t.Run("FencedCodeBlockIsVerbatim", func(t *testing.T) {
		t.Parallel()
		src := []byte("before ```#link(\"./x.typ\")[x]``` after")
		links, verbatim := ExtractLinks(src)
		assert.Empty(t, links, "link syntax inside a raw fence is not parsed as a call")
		require.Len(t, verbatim, 1)
		assert.Equal(t, "```#link(\"./x.typ\")[x]```", string(src[verbatim[0].Start:verbatim[0].End]))
	})

	t.Run("InlineRawIsVerbatim", func(t *testing.T) {
		t.Parallel()
		src := []byte("see `code.typ` for details")
		_, verbatim := ExtractLinks(src)
		require.Len(t, verbatim, 1)
		assert.Equal(t, "`code.typ`", string(src[verbatim[0].Start:verbatim[0].End]))
	})

	t.Run("LinkInsideBodyIsStillFound", func(t *testing.T) {
		t.Parallel()
		src := []byte(`#link("./a.typ")[see #link("./b.typ")[nested]]`)
		links, _ := ExtractLinks(src)
		require.Len(t, links, 2)
		assert.Equal(t, "./a.typ", links[0].URL)
		assert.Equal(t, "./b.typ", links[1].URL)
	})
}

func TestByteRangeOverlaps(t *testing.T) {
	t.Parallel()
	assert.True(t, ByteRange{0, 10}.Overlaps(ByteRange{5, 15}))
	assert.True(t, ByteRange{0, 10}.Overlaps(ByteRange{0, 10}))
	assert.False(t, ByteRange{0, 10}.Overlaps(ByteRange{10, 20}))
	assert.False(t, ByteRange{10, 20}.Overlaps(ByteRange{0, 10}))
}

func TestClassifyURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsInternalMarkup("./chapter1.typ"))
	assert.True(t, IsInternalMarkup("../other.typ"))
	assert.True(t, IsInternalMarkup("file.typ"))

	assert.False(t, IsInternalMarkup("https://example.com/file.typ"))
	assert.False(t, IsInternalMarkup("http://example.com"))
	assert.False(t, IsInternalMarkup("mailto:test@example.com"))
	assert.False(t, IsInternalMarkup("#anchor"))
	assert.False(t, IsInternalMarkup("./file.md"))

	assert.True(t, IsFragment("#anchor"))
	assert.False(t, IsFragment("./file.typ"))

	assert.True(t, IsExternal("//cdn.example.com/x.typ"))
}
