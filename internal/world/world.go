// Package world implements the Compilation World (component E): a
// virtual filesystem plus font book plus package cache satisfying the
// contract the external compiler expects (compiler.World), with a
// memoization cache keyed by file id.
package world

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/freecomputinglab/rheo/internal/compiler"
	"github.com/freecomputinglab/rheo/internal/rheoerr"
)

// mainFilePrelude is prepended to the main file's source on its first
// read: an import of the project template module and its "show" rule.
const mainFilePrelude = "#import \"/src/typst/rheo.typ\": *\n#show: rheo_template\n\n"

type fileSlot struct {
	source       string
	sourceLoaded bool
	bytes        []byte
	bytesLoaded  bool
}

// World is the compile-time environment handed to the compiler. It
// implements compiler.World.
type World struct {
	mu   sync.Mutex
	root string
	main compiler.FileID

	slots    map[compiler.FileID]*fileSlot
	mainRead bool

	Fonts    *FontBook
	Packages *PackageCache
}

// New canonicalizes root and builds a World whose main file is mainPath
// (absolute, or relative to root).
func New(root, mainPath string, fonts *FontBook, packages *PackageCache) (*World, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, rheoerr.NewPathResolution(root, err.Error())
	}
	absRoot = filepath.Clean(absRoot)

	id, err := fileIDForPath(absRoot, mainPath)
	if err != nil {
		return nil, err
	}

	return &World{
		root:     absRoot,
		main:     id,
		slots:    make(map[compiler.FileID]*fileSlot),
		Fonts:    fonts,
		Packages: packages,
	}, nil
}

// Root returns the world's canonicalized root directory.
func (w *World) Root() string { return w.root }

// Main returns the current main file id.
func (w *World) Main() compiler.FileID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.main
}

// SwapMain cheaply replaces the main file, e.g. to recompile a different
// spine file during watch mode without rebuilding the world.
func (w *World) SwapMain(id compiler.FileID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.main != id {
		w.mainRead = false
	}
	w.main = id
}

// fileIDForPath resolves an absolute or root-relative path into a FileID
// rooted at absRoot.
func fileIDForPath(absRoot, p string) (compiler.FileID, error) {
	abs := p
	if !filepath.IsAbs(p) {
		abs = filepath.Join(absRoot, p)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(absRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return compiler.FileID{}, rheoerr.NewPathResolution(p, "path does not resolve beneath the project root")
	}
	return compiler.FileID{Path: "/" + filepath.ToSlash(rel)}, nil
}

// pathForID resolves id to an absolute filesystem path: without a
// package, against the world root; with one, against the package's
// fetched root. A virtual path beginning with `<` (the sentinel for
// stdin-sourced input) is rejected as not-found.
func (w *World) pathForID(id compiler.FileID) (string, error) {
	if strings.HasPrefix(id.Path, "<") {
		return "", rheoerr.NewPathResolution(id.String(), "not found")
	}

	relPath := strings.TrimPrefix(id.Path, "/")

	if id.Package == "" {
		return filepath.Join(w.root, filepath.FromSlash(relPath)), nil
	}

	if w.Packages == nil {
		return "", rheoerr.NewPathResolution(id.String(), "no package cache configured")
	}
	pkgRoot, err := w.Packages.Resolve(id.Package)
	if err != nil {
		return "", err
	}
	return filepath.Join(pkgRoot, filepath.FromSlash(relPath)), nil
}

// Source returns id's text, caching it on first read. The main file gets
// mainFilePrelude prepended exactly once.
func (w *World) Source(id compiler.FileID) (string, error) {
	w.mu.Lock()
	slot, ok := w.slots[id]
	if ok && slot.sourceLoaded {
		text := slot.source
		w.mu.Unlock()
		return text, nil
	}
	w.mu.Unlock()

	p, err := w.pathForID(id)
	if err != nil {
		return "", err
	}
	data, err := readFile(p)
	if err != nil {
		return "", rheoerr.NewIoFailure("reading source "+id.String(), err)
	}
	text := string(data)

	w.mu.Lock()
	defer w.mu.Unlock()
	if id == w.main && !w.mainRead {
		text = mainFilePrelude + text
		w.mainRead = true
	}
	slot = w.slotFor(id)
	slot.source = text
	slot.sourceLoaded = true
	return text, nil
}

// File returns id's raw bytes, caching them on first read.
func (w *World) File(id compiler.FileID) ([]byte, error) {
	w.mu.Lock()
	slot, ok := w.slots[id]
	if ok && slot.bytesLoaded {
		data := slot.bytes
		w.mu.Unlock()
		return data, nil
	}
	w.mu.Unlock()

	p, err := w.pathForID(id)
	if err != nil {
		return nil, err
	}
	data, err := readFile(p)
	if err != nil {
		return nil, rheoerr.NewIoFailure("reading file "+id.String(), err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	slot = w.slotFor(id)
	slot.bytes = data
	slot.bytesLoaded = true
	return data, nil
}

// SetSource seeds id's cached source directly, bypassing disk. Format
// drivers use this to hand the world a reticulated (link-rewritten,
// title-anchored) source that exists only in memory, then SwapMain to
// id to compile it. Like Source, it prepends mainFilePrelude exactly
// once if id is (becoming) the main file.
func (w *World) SetSource(id compiler.FileID, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id == w.main && !w.mainRead {
		text = mainFilePrelude + text
		w.mainRead = true
	}
	slot := w.slotFor(id)
	slot.source = text
	slot.sourceLoaded = true
}

// slotFor returns (creating if absent) the cache slot for id. Callers
// must hold w.mu.
func (w *World) slotFor(id compiler.FileID) *fileSlot {
	slot, ok := w.slots[id]
	if !ok {
		slot = &fileSlot{}
		w.slots[id] = slot
	}
	return slot
}
