package world

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/freecomputinglab/rheo/internal/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestWorldSource(t *testing.T) {
	t.Parallel()

	t.Run("PrependsPreludeToMainOnce", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "main.typ", "hello")

		w, err := New(dir, "main.typ", nil, nil)
		require.NoError(t, err)

		text, err := w.Source(w.Main())
		require.NoError(t, err)
		assert.Contains(t, text, mainFilePrelude)
		assert.Contains(t, text, "hello")

		text2, err := w.Source(w.Main())
		require.NoError(t, err)
		assert.Equal(t, text, text2)
		assert.Equal(t, 1, countOccurrences(text2, "#show: rheo_template"))
	})

	t.Run("SecondaryFileHasNoPrelude", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "main.typ", "main")
		writeFile(t, dir, "chapter1.typ", "chapter body")

		w, err := New(dir, "main.typ", nil, nil)
		require.NoError(t, err)

		id, err := fileIDForPath(w.Root(), "chapter1.typ")
		require.NoError(t, err)

		text, err := w.Source(id)
		require.NoError(t, err)
		assert.Equal(t, "chapter body", text)
	})

	t.Run("RejectsEscapingRoot", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "main.typ", "main")

		_, err := New(dir, "../outside.typ", nil, nil)
		assert.Error(t, err)
	})
}

func TestWorldSwapMain(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "a.typ", "A")
	writeFile(t, dir, "b.typ", "B")

	w, err := New(dir, "a.typ", nil, nil)
	require.NoError(t, err)

	aText, err := w.Source(w.Main())
	require.NoError(t, err)
	assert.Contains(t, aText, "A")

	bID, err := fileIDForPath(w.Root(), "b.typ")
	require.NoError(t, err)
	w.SwapMain(bID)

	bText, err := w.Source(w.Main())
	require.NoError(t, err)
	assert.Contains(t, bText, "B")
	assert.Contains(t, bText, mainFilePrelude)
}

func TestWorldFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := writeFile(t, dir, "image.png", "binary-ish")

	w, err := New(dir, p, nil, nil)
	require.NoError(t, err)

	data, err := w.File(w.Main())
	require.NoError(t, err)
	assert.Equal(t, "binary-ish", string(data))
}

func TestWorldImplementsCompilerWorld(t *testing.T) {
	t.Parallel()
	var _ compiler.World = (*World)(nil)
}

func TestFontBook(t *testing.T) {
	t.Parallel()

	t.Run("ScansAndLoadsLazily", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "Custom.ttf", "fontbytes")

		b := ScanFonts(dir)
		require.Equal(t, 1, b.Len())

		info, ok := b.Info(0)
		require.True(t, ok)
		assert.Equal(t, "Custom", info.Name)

		data, err := b.Font(0)
		require.NoError(t, err)
		assert.Equal(t, "fontbytes", string(data))
	})

	t.Run("OutOfRangeIsError", func(t *testing.T) {
		t.Parallel()
		b := ScanFonts()
		_, err := b.Font(99)
		assert.Error(t, err)
	})

	t.Run("IgnoresNonFontFiles", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "notes.txt", "not a font")
		b := ScanFonts(dir)
		assert.Equal(t, 0, b.Len())
	})
}

func TestPackageCacheResolve(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	t.Run("RejectsMalformedSpec", func(t *testing.T) {
		t.Parallel()
		c := NewPackageCache(t.TempDir(), nil)
		_, err := c.Resolve("not-a-spec")
		assert.Error(t, err)
	})

	t.Run("ReusesExistingCacheDir", func(t *testing.T) {
		t.Parallel()
		cacheDir := t.TempDir()
		pkgDir := filepath.Join(cacheDir, "preview", "mylib", "1.0.0")
		require.NoError(t, os.MkdirAll(pkgDir, 0o755))
		writeFile(t, pkgDir, "lib.typ", "content")

		c := NewPackageCache(cacheDir, nil)
		resolved, err := c.Resolve("@preview/mylib:1.0.0")
		require.NoError(t, err)
		assert.Equal(t, pkgDir, resolved)
	})
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}
