// Package epub implements the EPUB 3 format driver (component F): per-item
// HTML-flavored compilation and XHTML conversion, navigation document and
// OPF package generation, and OCF zip assembly. The OPF/NAV data model
// here is adapted from adammathes-epubverify/pkg/epub/types.go's reading
// model (Package/Metadata/ManifestItem/SpineItemref), rebuilt as a writer.
package epub

import "github.com/freecomputinglab/rheo/internal/compiler"

// Item is one compiled, XHTML-rendered spine member bound for the EPUB.
type Item struct {
	Stem     string // filename stem, also used as the manifest item id
	Href     string // "<stem>.xhtml", relative to EPUB/
	XHTML    string
	Scripted bool
	MathML   bool
	Outline  []OutlineEntry
	Warnings []compiler.Warning
}

// OutlineEntry is one heading in an item's (or the book's combined) table
// of contents, nested by level.
type OutlineEntry struct {
	Level    int
	Text     string
	Label    string
	Href     string // "<item href>#<label>"
	Children []OutlineEntry
}

// Metadata is the book-level OPF metadata.
type Metadata struct {
	Identifier string
	Title      string
	Language   string
	Creator    string // comma-joined author list
	Modified   string // dcterms:modified, RFC3339 UTC
}
