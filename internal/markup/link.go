package markup

import "strings"

// linkCallName is the identifier this engine treats as a link construct.
const linkCallName = "link"

// ByteRange is a half-open [Start, End) byte span in a source's text.
type ByteRange struct {
	Start int
	End   int
}

// Overlaps reports whether r and other share at least one byte.
func (r ByteRange) Overlaps(other ByteRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Len returns the range's width in bytes.
func (r ByteRange) Len() int { return r.End - r.Start }

// Link is a single `#link(url)[body]` call found in a source's tree.
type Link struct {
	URL   string
	Body  string
	Range ByteRange
}

// ExtractLinks parses source and returns every link call plus every
// verbatim (raw) byte range found anywhere in the tree, including inside
// link bodies.
func ExtractLinks(source []byte) (links []Link, verbatim []ByteRange) {
	root := Parse(source)

	_ = Walk(root, func(n *Node, entering bool) (WalkStatus, error) {
		if !entering {
			return WalkContinue, nil
		}
		switch n.Kind {
		case KindRaw:
			verbatim = append(verbatim, ByteRange{Start: n.Start, End: n.End})
		case KindFuncCall:
			if l, ok := extractLink(n); ok {
				links = append(links, l)
			}
		}
		return WalkContinue, nil
	})

	return links, verbatim
}

func extractLink(call *Node) (Link, bool) {
	if call.FuncName() != linkCallName {
		return Link{}, false
	}

	args := call.Child(KindArgs)
	if args == nil {
		return Link{}, false
	}
	var url string
	found := false
	for _, c := range args.Children {
		if c.Kind == KindStr {
			url = unquote(c.Text)
			found = true
			break
		}
	}
	if !found {
		return Link{}, false
	}

	block := call.Child(KindContentBlock)
	body := ""
	if block != nil {
		body = collectText(block)
	}

	return Link{
		URL:   url,
		Body:  body,
		Range: ByteRange{Start: call.Start, End: call.End},
	}, true
}

// unquote strips the surrounding double quotes a Str node's raw text
// carries (the parser keeps them so the node's Text is exact source).
func unquote(s string) string {
	return strings.Trim(s, `"`)
}

// collectText concatenates every Text leaf under n, in document order,
// preserving the inter-word spacing those leaves carry.
func collectText(n *Node) string {
	var b strings.Builder
	_ = Walk(n, func(node *Node, entering bool) (WalkStatus, error) {
		if entering && node.Kind == KindText {
			b.WriteString(node.Text)
		}
		return WalkContinue, nil
	})
	return b.String()
}
