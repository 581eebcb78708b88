package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStyleCSSIsEmbedded(t *testing.T) {
	css := DefaultStyleCSS()
	assert.Contains(t, string(css), "font-family")
}

func TestWriteTemplateWritesEveryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteTemplate("book", dir))

	assert.FileExists(t, filepath.Join(dir, "rheo.toml"))
	assert.FileExists(t, filepath.Join(dir, "style.css"))
	assert.FileExists(t, filepath.Join(dir, "content", "index.typ"))
	assert.FileExists(t, filepath.Join(dir, "content", "about.typ"))
	assert.FileExists(t, filepath.Join(dir, "content", "references.bib"))
	assert.FileExists(t, filepath.Join(dir, "content", "img", "header.svg"))

	data, err := os.ReadFile(filepath.Join(dir, "content", "index.typ"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "=")
}

func TestWriteTemplateRejectsUnknownName(t *testing.T) {
	err := WriteTemplate("nonexistent", t.TempDir())
	assert.Error(t, err)
}

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("blog"))
	assert.False(t, IsTemplate("novel"))
}
