package compiler

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/freecomputinglab/rheo/internal/linktransform"
	"github.com/freecomputinglab/rheo/internal/markup"
)

// Stub is a deterministic Compiler used where no real typesetting engine
// is wired in: tests, and any build run without one. It renders the
// source text into plausible paged/HTML output using only the markup
// parser, so the rest of the pipeline (world, format drivers,
// post-processor, EPUB assembly) can be exercised end-to-end.
type Stub struct {
	cache map[FileID]bool
}

// NewStub creates an empty Stub.
func NewStub() *Stub {
	return &Stub{cache: make(map[FileID]bool)}
}

var headingRe = regexp.MustCompile(`(?m)^(=+)\s+(.+)$`)

// pagebreakRe matches `#pagebreak()` calls, used by the stub purely as a
// page-count heuristic.
var pagebreakRe = regexp.MustCompile(`#pagebreak\(\)`)

func (s *Stub) CompilePaged(w World) (PagedDocument, []Warning, error) {
	text, err := w.Source(w.Main())
	if err != nil {
		return nil, nil, err
	}
	s.cache[w.Main()] = true

	pages := len(pagebreakRe.FindAllStringIndex(text, -1)) + 1
	return &stubPaged{text: text, pages: pages}, nil, nil
}

func (s *Stub) CompileHTML(w World) (HTMLDocument, []Warning, error) {
	text, err := w.Source(w.Main())
	if err != nil {
		return nil, nil, err
	}
	s.cache[w.Main()] = true

	return &stubHTML{text: text, headings: extractHeadings(text)}, nil, nil
}

// Evict clears the stub's cache once it holds more than retain entries.
// The stub's "cache" is just a seen-set with no recency information, so
// eviction empties it entirely rather than keeping retain entries; a real
// compiler's content-hash memoization would evict by age instead.
func (s *Stub) Evict(retain int) {
	if retain < 0 {
		retain = 0
	}
	if len(s.cache) <= retain {
		return
	}
	s.cache = make(map[FileID]bool, retain)
}

type stubPaged struct {
	text  string
	pages int
}

func (p *stubPaged) PageCount() int { return p.pages }

// ExportPDF emits a PDF-shaped byte stream: a %PDF header, a comment
// recording PageCount, the source text on one comment line, and the %%EOF
// trailer. It has no objects or pages, so PDF readers will not open it —
// not a real typesetting export, but enough for the orchestrator and tests
// to observe page count and round-trip the source.
func (p *stubPaged) ExportPDF() ([]byte, error) {
	var b strings.Builder
	b.WriteString("%PDF-1.7\n")
	fmt.Fprintf(&b, "%% rendered %d page(s)\n", p.pages)
	b.WriteString("%% ")
	b.WriteString(strings.ReplaceAll(p.text, "\n", " "))
	b.WriteString("\n%%EOF\n")
	return []byte(b.String()), nil
}

type stubHTML struct {
	text     string
	headings []Heading
}

func (h *stubHTML) Headings() []Heading { return h.headings }
func (h *stubHTML) Language() string    { return "en" }
func (h *stubHTML) HasScripts() bool    { return strings.Contains(h.text, "#script(") }
func (h *stubHTML) HasMathML() bool     { return strings.Contains(h.text, "$") }

// ExportHTML renders the source's link calls as anchors, its heading
// lines as <h1>..<h6>, and everything else as paragraph text.
func (h *stubHTML) ExportHTML() (string, error) {
	links, verbatim := markup.ExtractLinks([]byte(h.text))

	var body strings.Builder
	cursor := 0
	writePlain := func(upto int) {
		if upto <= cursor {
			return
		}
		renderPlainText(&body, h.text[cursor:upto])
	}

	for _, l := range links {
		if overlapsVerbatim(l.Range, verbatim) {
			continue
		}
		writePlain(l.Range.Start)
		fmt.Fprintf(&body, `<a href="%s">%s</a>`, html.EscapeString(l.URL), html.EscapeString(l.Body))
		cursor = l.Range.End
	}
	writePlain(len(h.text))

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"></head><body>\n")
	doc.WriteString(body.String())
	doc.WriteString("\n</body></html>\n")
	return doc.String(), nil
}

func overlapsVerbatim(r markup.ByteRange, verbatim []markup.ByteRange) bool {
	for _, v := range verbatim {
		if r.Overlaps(v) {
			return true
		}
	}
	return false
}

// renderPlainText turns heading lines into <hN> tags and everything else
// into <p> paragraphs split on blank lines.
func renderPlainText(b *strings.Builder, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if m := headingRe.FindStringSubmatch(para); m != nil {
			level := len(m[1])
			if level > 6 {
				level = 6
			}
			fmt.Fprintf(b, "<h%d>%s</h%d>\n", level, html.EscapeString(strings.TrimSpace(m[2])), level)
			continue
		}
		fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(para))
	}
}

func extractHeadings(text string) []Heading {
	var out []Heading
	for _, m := range headingRe.FindAllStringSubmatch(text, -1) {
		level := len(m[1])
		headingText := strings.TrimSpace(m[2])
		out = append(out, Heading{
			Level: level,
			Text:  headingText,
			Label: linktransform.SanitizeLabel(headingText),
		})
	}
	return out
}
