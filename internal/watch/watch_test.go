package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

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

func TestFilterIsRelevant(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))

	f := NewFilter(dir, "rheo.toml", []string{"img"})

	assert.True(t, f.IsRelevant(filepath.Join(dir, "chapter1.typ")))
	assert.True(t, f.IsRelevant(filepath.Join(dir, "rheo.toml")))
	assert.True(t, f.IsRelevant(filepath.Join(dir, "style.css")))
	assert.True(t, f.IsRelevant(filepath.Join(dir, "references.bib")))
	assert.True(t, f.IsRelevant(filepath.Join(dir, "img", "cover.png")))

	assert.False(t, f.IsRelevant(filepath.Join(dir, "notes.txt")))
	assert.False(t, f.IsRelevant(filepath.Join(dir, "subdir", "style.css")))
	assert.False(t, f.IsRelevant(filepath.Join(os.TempDir(), "outside.typ")))
}

func TestFilterIsManifest(t *testing.T) {
	t.Parallel()
	f := NewFilter(t.TempDir(), "rheo.toml", nil)
	assert.True(t, f.IsManifest("/proj/rheo.toml"))
	assert.False(t, f.IsManifest("/proj/chapter1.typ"))
}

func TestDebouncerFlushesAfterQuietPeriod(t *testing.T) {
	t.Parallel()
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Push(false)
	d.Push(false)

	select {
	case kind := <-d.Events():
		assert.Equal(t, FilesChanged, kind)
	case <-time.After(time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestDebouncerPrefersConfigChanged(t *testing.T) {
	t.Parallel()
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Push(false)
	d.Push(true)

	select {
	case kind := <-d.Events():
		assert.Equal(t, ConfigChanged, kind)
	case <-time.After(time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestWatcherDetectsFileWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "main.typ", "hello")

	filter := NewFilter(dir, "rheo.toml", nil)
	debouncer := NewDebouncer(20 * time.Millisecond)
	defer debouncer.Stop()

	w, err := New(dir, filter, debouncer)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.typ"), []byte("hello again"), 0o644))

	select {
	case kind := <-debouncer.Events():
		assert.Equal(t, FilesChanged, kind)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never observed the write")
	}
}

func TestReloadServerServesFileAndInjectsScript(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "index.html", "<html><body><h1>hi</h1></body></html>")

	srv := NewReloadServer(dir)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])

	assert.Contains(t, body, "<h1>hi</h1>")
	assert.Contains(t, body, "EventSource")
	assert.True(t, strings.Index(body, "EventSource") < strings.Index(body, "</body>"))
}

func TestReloadServerDirectoryListing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "chapter1.html", "<html><body></body></html>")
	writeFile(t, dir, "chapter2.html", "<html><body></body></html>")

	srv := NewReloadServer(dir)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])

	assert.Contains(t, body, "chapter1.html")
	assert.Contains(t, body, "chapter2.html")
}

func TestReloadServerBroadcastsToEventsStream(t *testing.T) {
	t.Parallel()
	srv := NewReloadServer(t.TempDir())
	ts := httptest.NewServer(srv)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	time.Sleep(50 * time.Millisecond)
	srv.Broadcast()

	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	assert.Contains(t, string(buf[:n]), "event: reload")
}
