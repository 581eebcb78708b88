package epub

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// renderNav builds the EPUB 3 navigation document (nav.xhtml): an
// epub:type="toc" <nav> containing a nested <ol> of the combined outline.
func renderNav(title string, outline []OutlineEntry) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE html>` + "\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` + "\n")
	fmt.Fprintf(&b, "<head><title>%s</title></head>\n", html.EscapeString(title))
	b.WriteString(`<body>` + "\n")
	b.WriteString(`<nav epub:type="toc" id="toc">` + "\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	writeOutlineList(&b, outline)
	b.WriteString("</nav>\n</body>\n</html>\n")
	return b.String()
}

func writeOutlineList(b *strings.Builder, entries []OutlineEntry) {
	if len(entries) == 0 {
		return
	}
	b.WriteString("<ol>\n")
	for _, e := range entries {
		fmt.Fprintf(b, `<li><a href="%s">%s</a>`, html.EscapeString(e.Href), html.EscapeString(e.Text))
		if len(e.Children) > 0 {
			b.WriteString("\n")
			writeOutlineList(b, e.Children)
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n")
}
