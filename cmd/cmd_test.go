package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitScaffoldsProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-book")

	_, err := execRoot(t, "init", dir, "--template", "book")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "rheo.toml"))
	assert.FileExists(t, filepath.Join(dir, "style.css"))
	assert.FileExists(t, filepath.Join(dir, "content", "index.typ"))
}

func TestInitRejectsNonEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("x"), 0o644))

	_, err := execRoot(t, "init", dir, "--template", "book")
	assert.Error(t, err)
}

func TestInitRejectsUnknownTemplate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	_, err := execRoot(t, "init", dir, "--template", "nope")
	assert.Error(t, err)
}

func TestListExamplesPrintsEveryTemplate(t *testing.T) {
	out, err := execRoot(t, "list-examples")
	require.NoError(t, err)
	assert.Contains(t, out, "book")
	assert.Contains(t, out, "thesis")
	assert.Contains(t, out, "blog")
	assert.Contains(t, out, "cv")
}

func TestCleanRemovesBuildDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rheo.toml"), []byte(`
version = "0.3.0"
content_dir = "content"
build_dir = "build"
formats = ["html"]
`), 0o644))
	buildDir := filepath.Join(dir, "build")
	require.NoError(t, os.MkdirAll(filepath.Join(buildDir, "html"), 0o755))

	_, err := execRoot(t, "clean", dir)
	require.NoError(t, err)
	assert.NoDirExists(t, buildDir)
}

func TestCompileBuildsRequestedFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rheo.toml"), []byte(`
version = "0.3.0"
content_dir = "content"
build_dir = "build"
formats = ["html"]

[html]
spine = { patterns = ["content/*.typ"] }
`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "index.typ"), []byte("= Title\n\nHello.\n"), 0o644))

	out, err := execRoot(t, "compile", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "build success")
}
