package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rheo.toml"), []byte(manifest), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "content"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content", "index.typ"), []byte("= Title\n\nHello world.\n"), 0o644))
	return dir
}

const minimalManifest = `
version = "0.3.0"
content_dir = "content"
build_dir = "build"
formats = ["html"]

[html]
spine = { patterns = ["content/*.typ"] }
`

func TestRunFullySucceedsForSingleFormat(t *testing.T) {
	dir := writeProject(t, minimalManifest)

	result, err := Run(Options{Root: dir})
	require.NoError(t, err)
	require.Len(t, result.Formats, 1)
	assert.Equal(t, "success", result.Overall)
	assert.True(t, result.Formats[0].FullySucceeded())
	assert.Empty(t, result.Warnings)
}

func TestRunOrdersFormatsDeterministically(t *testing.T) {
	dir := writeProject(t, `
version = "0.3.0"
content_dir = "content"
build_dir = "build"
formats = ["epub", "html", "pdf"]

[pdf]
spine = { patterns = ["content/*.typ"], merge = true }
[html]
spine = { patterns = ["content/*.typ"] }
[epub]
spine = { patterns = ["content/*.typ"], merge = true }
identifier = "urn:uuid:test"
authors = ["A. Writer"]
`)

	result, err := Run(Options{Root: dir})
	require.NoError(t, err)
	require.Len(t, result.Formats, 3)
	assert.Equal(t, "pdf", result.Formats[0].Format)
	assert.Equal(t, "html", result.Formats[1].Format)
	assert.Equal(t, "epub", result.Formats[2].Format)
}

func TestRunReportsAggregateErrorWhenNoFormatSucceeds(t *testing.T) {
	dir := writeProject(t, `
version = "0.3.0"
content_dir = "content"
build_dir = "build"
formats = ["html"]

[html]
spine = { patterns = ["content/does-not-exist-*.typ"] }
`)

	result, err := Run(Options{Root: dir})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "failure", result.Overall)
}

func TestRunOverridesManifestFormatsAndBuildDir(t *testing.T) {
	dir := writeProject(t, minimalManifest)

	result, err := Run(Options{Root: dir, Formats: []string{"html"}, BuildDir: filepath.Join(dir, "out")})
	require.NoError(t, err)
	require.Len(t, result.Formats, 1)
	assert.Contains(t, result.Formats[0].Outputs[0], filepath.Join(dir, "out"))
}

func TestFormatResultFullySucceeded(t *testing.T) {
	assert.True(t, FormatResult{Succeeded: 1, Failed: 0}.FullySucceeded())
	assert.False(t, FormatResult{Succeeded: 0, Failed: 0}.FullySucceeded())
	assert.False(t, FormatResult{Succeeded: 1, Failed: 1}.FullySucceeded())
}
