package world

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// FontInfo is metadata for one discovered font, available immediately;
// the font's bytes are loaded lazily on first Font call.
type FontInfo struct {
	Name string
	Path string
}

// FontBook scans system and caller-supplied font directories at construction and
// exposes their metadata immediately, deferring byte loading.
type FontBook struct {
	mu    sync.Mutex
	infos []FontInfo
	bytes map[string][]byte
}

// systemFontDirs returns the well-known font directories for the current
// OS; missing directories are skipped silently during the scan.
func systemFontDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts", os.ExpandEnv("$HOME/Library/Fonts")}
	case "windows":
		return []string{os.ExpandEnv("${WINDIR}\\Fonts")}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", os.ExpandEnv("$HOME/.local/share/fonts")}
	}
}

var fontExtensions = map[string]bool{".ttf": true, ".otf": true, ".ttc": true}

// ScanFonts walks the system font directories plus any additional
// directories (e.g. project-bundled fonts) and collects font metadata.
// It never fails: unreadable or missing directories are simply skipped,
// matching the "scan at construction, load lazily" contract — a missing
// font directory is not a project error.
func ScanFonts(extraDirs ...string) *FontBook {
	b := &FontBook{bytes: make(map[string][]byte)}
	seen := make(map[string]bool)

	for _, dir := range append(systemFontDirs(), extraDirs...) {
		if dir == "" {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !fontExtensions[ext] {
				return nil
			}
			if seen[path] {
				return nil
			}
			seen[path] = true
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			b.infos = append(b.infos, FontInfo{Name: name, Path: path})
			return nil
		})
	}

	return b
}

// Len returns the number of discovered fonts.
func (b *FontBook) Len() int { return len(b.infos) }

// Info returns the metadata for font index without touching its bytes.
func (b *FontBook) Info(index int) (FontInfo, bool) {
	if index < 0 || index >= len(b.infos) {
		return FontInfo{}, false
	}
	return b.infos[index], true
}

// Font lazily loads and caches font index's raw bytes.
func (b *FontBook) Font(index int) ([]byte, error) {
	info, ok := b.Info(index)
	if !ok {
		return nil, rheoerr.NewInvalidData("font index %d out of range", index)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if data, ok := b.bytes[info.Path]; ok {
		return data, nil
	}
	data, err := os.ReadFile(info.Path)
	if err != nil {
		return nil, rheoerr.NewIoFailure("reading font "+info.Path, err)
	}
	b.bytes[info.Path] = data
	return data, nil
}
