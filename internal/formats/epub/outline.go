package epub

import "github.com/freecomputinglab/rheo/internal/compiler"

// outlineNode is the pointer-based intermediate used while nesting a flat
// heading list, so appending children never invalidates an ancestor's
// address the way appending to a []OutlineEntry slice in place would.
type outlineNode struct {
	entry    OutlineEntry
	children []*outlineNode
}

func (n *outlineNode) toEntry() OutlineEntry {
	e := n.entry
	for _, c := range n.children {
		e.Children = append(e.Children, c.toEntry())
	}
	return e
}

// buildOutline nests a flat heading list into a tree by level: each
// heading becomes a child of the nearest preceding heading with a
// strictly lower level, or a root entry if none exists.
func buildOutline(href string, headings []compiler.Heading) []OutlineEntry {
	var roots []*outlineNode
	var stack []*outlineNode

	for _, h := range headings {
		node := &outlineNode{entry: OutlineEntry{Level: h.Level, Text: h.Text, Label: h.Label, Href: href + "#" + h.Label}}

		for len(stack) > 0 && stack[len(stack)-1].entry.Level >= node.entry.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
		}
		stack = append(stack, node)
	}

	out := make([]OutlineEntry, 0, len(roots))
	for _, r := range roots {
		out = append(out, r.toEntry())
	}
	return out
}

// combineOutlines concatenates each item's outline under a synthetic root
// entry named for the item, used for the book-wide nav document when more
// than one item is present.
func combineOutlines(items []Item) []OutlineEntry {
	if len(items) == 1 {
		return items[0].Outline
	}

	combined := make([]OutlineEntry, 0, len(items))
	for _, it := range items {
		combined = append(combined, OutlineEntry{
			Level:    0,
			Text:     it.Stem,
			Label:    it.Stem,
			Href:     it.Href,
			Children: it.Outline,
		})
	}
	return combined
}
