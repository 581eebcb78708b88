package world

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// packageRegistry is the base URL packages are fetched from, mirroring
// the preview namespace a typst-like toolchain resolves `@preview/name:version`
// specs against.
const packageRegistry = "https://packages.typst.org"

// Progress receives package download lifecycle events. SilentProgress and
// LoggingProgress are the two stock implementations.
type Progress interface {
	Start(pkg string)
	Finish(pkg string, bytes int)
}

// SilentProgress discards all events.
type SilentProgress struct{}

func (SilentProgress) Start(pkg string)        {}
func (SilentProgress) Finish(pkg string, n int) {}

// LoggingProgress reports events through a callback, e.g. wired to
// charmbracelet/log in the CLI.
type LoggingProgress struct {
	Log func(msg string)
}

func (p LoggingProgress) Start(pkg string) {
	if p.Log != nil {
		p.Log(fmt.Sprintf("downloading package %s", pkg))
	}
}

func (p LoggingProgress) Finish(pkg string, n int) {
	if p.Log != nil {
		p.Log(fmt.Sprintf("downloaded package %s (%d bytes)", pkg, n))
	}
}

// PackageCache fetches and caches `@preview/name:version`-style package
// specs as extracted directories under a local cache root. It deduplicates
// concurrent requests for the same spec through a per-spec channel that
// later callers wait on; each download runs on the calling goroutine. The
// http.Client{Timeout, CheckRedirect} is matched to the teacher's link
// checker.
type PackageCache struct {
	mu       sync.Mutex
	cacheDir string
	client   *http.Client
	progress Progress
	inflight map[string]chan error
	resolved map[string]string
}

// NewPackageCache creates a cache rooted at cacheDir (created lazily on
// first Resolve). A nil progress defaults to SilentProgress.
func NewPackageCache(cacheDir string, progress Progress) *PackageCache {
	if progress == nil {
		progress = SilentProgress{}
	}
	return &PackageCache{
		cacheDir: cacheDir,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		progress: progress,
		inflight: make(map[string]chan error),
		resolved: make(map[string]string),
	}
}

// Resolve returns the local directory holding spec's extracted contents,
// fetching and extracting it on first use. spec has the form
// "@preview/name:version" or "name:version" (default namespace "preview").
func (c *PackageCache) Resolve(spec string) (string, error) {
	name, version, err := parsePackageSpec(spec)
	if err != nil {
		return "", err
	}
	key := name + ":" + version
	dir := filepath.Join(c.cacheDir, "preview", name, version)

	c.mu.Lock()
	if d, ok := c.resolved[key]; ok {
		c.mu.Unlock()
		return d, nil
	}
	if ch, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		if err := <-ch; err != nil {
			return "", err
		}
		return dir, nil
	}
	ch := make(chan error, 1)
	c.inflight[key] = ch
	c.mu.Unlock()

	err = c.fetch(name, version, dir)

	c.mu.Lock()
	if err == nil {
		c.resolved[key] = dir
	}
	delete(c.inflight, key)
	c.mu.Unlock()

	ch <- err
	close(ch)
	if err != nil {
		return "", err
	}
	return dir, nil
}

func (c *PackageCache) fetch(name, version, dir string) error {
	if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
		return nil
	}

	spec := name + ":" + version
	c.progress.Start(spec)

	url := fmt.Sprintf("%s/preview/%s-%s.tar.gz", packageRegistry, name, version)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return rheoerr.NewIoFailure("building package request for "+spec, err)
	}
	req.Header.Set("User-Agent", "rheo-package-cache/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return rheoerr.NewIoFailure("downloading package "+spec, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return rheoerr.NewIoFailure(fmt.Sprintf("downloading package %s", spec), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rheoerr.NewIoFailure("creating package cache dir "+dir, err)
	}

	n, err := extractTarGz(resp.Body, dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return rheoerr.NewIoFailure("extracting package "+spec, err)
	}

	c.progress.Finish(spec, n)
	return nil
}

// extractTarGz extracts a gzip-compressed tarball into dest, returning the
// total number of bytes written.
func extractTarGz(r io.Reader, dest string) (int, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return 0, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	total := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}

		target := filepath.Join(dest, filepath.FromSlash(hdr.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return total, fmt.Errorf("illegal file path in package archive: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return total, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return total, err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return total, err
			}
			n, err := io.Copy(f, tr)
			f.Close()
			total += int(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// parsePackageSpec accepts "@preview/name:version" or "name:version".
func parsePackageSpec(spec string) (name, version string, err error) {
	s := strings.TrimPrefix(spec, "@preview/")
	s = strings.TrimPrefix(s, "preview/")
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", rheoerr.NewPathResolution(spec, "malformed package spec, expected name:version")
	}
	return parts[0], parts[1], nil
}
