package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorld struct {
	main FileID
	src  string
}

func (w *fakeWorld) Main() FileID                      { return w.main }
func (w *fakeWorld) Source(id FileID) (string, error)  { return w.src, nil }
func (w *fakeWorld) File(id FileID) ([]byte, error)    { return []byte(w.src), nil }

func TestStubCompilePaged(t *testing.T) {
	t.Parallel()

	t.Run("SinglePageByDefault", func(t *testing.T) {
		t.Parallel()
		w := &fakeWorld{main: FileID{Path: "/main.typ"}, src: "hello"}
		doc, warnings, err := NewStub().CompilePaged(w)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, 1, doc.PageCount())

		pdf, err := doc.ExportPDF()
		require.NoError(t, err)
		assert.Contains(t, string(pdf), "%PDF-1.7")
	})

	t.Run("CountsPagebreaks", func(t *testing.T) {
		t.Parallel()
		w := &fakeWorld{main: FileID{Path: "/main.typ"}, src: "a #pagebreak() b #pagebreak() c"}
		doc, _, err := NewStub().CompilePaged(w)
		require.NoError(t, err)
		assert.Equal(t, 3, doc.PageCount())
	})
}

func TestStubCompileHTML(t *testing.T) {
	t.Parallel()

	t.Run("RendersLinkAsAnchor", func(t *testing.T) {
		t.Parallel()
		w := &fakeWorld{main: FileID{Path: "/main.typ"}, src: `see #link("./b.typ")[the next chapter]`}
		doc, _, err := NewStub().CompileHTML(w)
		require.NoError(t, err)
		out, err := doc.ExportHTML()
		require.NoError(t, err)
		assert.Contains(t, out, `<a href="./b.typ">the next chapter</a>`)
	})

	t.Run("ExtractsHeadings", func(t *testing.T) {
		t.Parallel()
		w := &fakeWorld{main: FileID{Path: "/main.typ"}, src: "= Title\n\n== Sub Heading\n\nbody text"}
		doc, _, err := NewStub().CompileHTML(w)
		require.NoError(t, err)
		headings := doc.Headings()
		require.Len(t, headings, 2)
		assert.Equal(t, 1, headings[0].Level)
		assert.Equal(t, "Title", headings[0].Text)
		assert.Equal(t, "title", headings[0].Label)
		assert.Equal(t, 2, headings[1].Level)
		assert.Equal(t, "sub-heading", headings[1].Label)
	})

	t.Run("LinkInsideRawIsNotRenderedAsAnchor", func(t *testing.T) {
		t.Parallel()
		w := &fakeWorld{main: FileID{Path: "/main.typ"}, src: "see `` `#link(\"x.typ\")[x]` `` here"}
		doc, _, err := NewStub().CompileHTML(w)
		require.NoError(t, err)
		out, err := doc.ExportHTML()
		require.NoError(t, err)
		assert.NotContains(t, out, "<a href=")
	})
}

func TestStubEvict(t *testing.T) {
	t.Parallel()
	s := NewStub()
	w := &fakeWorld{main: FileID{Path: "/main.typ"}, src: "x"}
	_, _, _ = s.CompilePaged(w)
	assert.NotPanics(t, func() { s.Evict(10) })
	assert.NotPanics(t, func() { s.Evict(-1) })
}

func TestFileIDString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/main.typ", FileID{Path: "/main.typ"}.String())
	assert.Equal(t, "pkg:/main.typ", FileID{Package: "pkg", Path: "/main.typ"}.String())
}
