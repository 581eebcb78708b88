package postprocess

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never get a closing tag in HTML5 and are emitted
// self-closed ("<br/>") in the portable XHTML serialization.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// ToXHTML parses docHTML and re-serializes it as portable XHTML: an XML
// declaration and XHTML DOCTYPE prelude, every element always closed
// (void elements self-closed), attribute values always quoted, and the
// document body's content wrapped in a synthetic <article> element —
// the shape an EPUB reading system's strict XML parser requires.
func ToXHTML(docHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(docHTML))
	if err != nil {
		return "", fmt.Errorf("parsing compiled HTML: %w", err)
	}

	htmlNode := findElement(doc, "html")
	headNode := findElement(doc, "head")
	bodyNode := findElement(doc, "body")
	if htmlNode == nil || bodyNode == nil {
		return "", fmt.Errorf("compiled HTML is missing <html> or <body>")
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE html>` + "\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml">` + "\n")

	if headNode != nil {
		b.WriteString("<head>")
		for c := headNode.FirstChild; c != nil; c = c.NextSibling {
			writeXHTMLNode(&b, c)
		}
		b.WriteString("</head>\n")
	}

	b.WriteString("<body>\n<article>\n")
	for c := bodyNode.FirstChild; c != nil; c = c.NextSibling {
		writeXHTMLNode(&b, c)
	}
	b.WriteString("\n</article>\n</body>\n</html>\n")

	return b.String(), nil
}

func writeXHTMLNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case html.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, attr := range n.Attr {
			fmt.Fprintf(b, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
		}
		if voidElements[n.Data] {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXHTMLNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXHTMLNode(b, c)
		}
	}
}
