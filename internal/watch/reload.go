package watch

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const keepaliveInterval = 30 * time.Second

// clientScript is injected before </body> on every HTML response: it
// opens an EventSource to /events and reloads the page on a "reload"
// message.
const clientScript = `<script>
(function() {
  var es = new EventSource("/events");
  es.addEventListener("reload", function() { location.reload(); });
})();
</script>`

// ReloadServer is the loopback live-reload HTTP/SSE server (spec.md
// §4.H). It serves the HTML output directory and broadcasts "reload"
// events to every connected client.
type ReloadServer struct {
	outputDir string

	mu      sync.Mutex
	clients map[chan struct{}]bool
}

// NewReloadServer serves outputDir and is ready to accept SSE clients.
func NewReloadServer(outputDir string) *ReloadServer {
	return &ReloadServer{outputDir: outputDir, clients: make(map[chan struct{}]bool)}
}

// Broadcast notifies every connected client to reload.
func (s *ReloadServer) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *ReloadServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/events" {
		s.serveEvents(w, r)
		return
	}
	s.serveFile(w, r)
}

func (s *ReloadServer) serveEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.clients[ch] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		s.mu.Unlock()
	}()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			fmt.Fprint(w, "event: reload\ndata: {}\n\n")
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (s *ReloadServer) serveFile(w http.ResponseWriter, r *http.Request) {
	reqPath := strings.TrimPrefix(r.URL.Path, "/")
	abs := filepath.Join(s.outputDir, filepath.FromSlash(reqPath))

	info, err := os.Stat(abs)
	if err == nil && info.IsDir() {
		index := filepath.Join(abs, "index.html")
		if _, statErr := os.Stat(index); statErr == nil {
			abs = index
		} else {
			s.serveDirectoryListing(w, abs, r.URL.Path)
			return
		}
	} else if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ext := filepath.Ext(abs)
	ctype := mime.TypeByExtension(ext)
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	if strings.EqualFold(ext, ".html") || strings.EqualFold(ext, ".htm") {
		data = injectClientScript(data)
	}

	w.Header().Set("Content-Type", ctype)
	w.Write(data)
}

func injectClientScript(html []byte) []byte {
	idx := bytes.LastIndex(html, []byte("</body>"))
	if idx < 0 {
		return append(html, []byte(clientScript)...)
	}
	out := make([]byte, 0, len(html)+len(clientScript))
	out = append(out, html[:idx]...)
	out = append(out, []byte(clientScript)...)
	out = append(out, html[idx:]...)
	return out
}

func (s *ReloadServer) serveDirectoryListing(w http.ResponseWriter, dir, urlPath string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		http.NotFound(w, nil)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html><head><title>%s</title></head><body>\n<ul>\n", urlPath)
	for _, name := range names {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`+"\n", name, name)
	}
	b.WriteString("</ul>\n</body></html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(injectClientScript([]byte(b.String())))
}
