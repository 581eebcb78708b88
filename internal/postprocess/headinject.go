package postprocess

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
)

// InjectHead parses docHTML, locates its <head> element, and prepends a
// <link rel="stylesheet" href="..."> for each entry in fonts then
// stylesheets. Injection order is fonts-first then stylesheets with each
// group's original config order preserved; since each insertion prepends
// at the front of <head>, that's achieved by inserting both groups in
// reverse, stylesheets before fonts, so fonts end up first overall.
func InjectHead(docHTML string, fonts, stylesheets []string) (string, error) {
	doc, err := html.Parse(bytes.NewReader([]byte(docHTML)))
	if err != nil {
		return "", fmt.Errorf("parsing compiled HTML: %w", err)
	}

	head := findElement(doc, "head")
	if head == nil {
		return "", fmt.Errorf("compiled HTML has no <head> element")
	}

	for i := len(stylesheets) - 1; i >= 0; i-- {
		prependStylesheetLink(head, stylesheets[i])
	}
	for i := len(fonts) - 1; i >= 0; i-- {
		prependStylesheetLink(head, fonts[i])
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("rendering HTML after head injection: %w", err)
	}
	return buf.String(), nil
}

func prependStylesheetLink(head *html.Node, href string) {
	link := &html.Node{
		Type: html.ElementNode,
		Data: "link",
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: href},
		},
	}
	head.InsertBefore(link, head.FirstChild)
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
