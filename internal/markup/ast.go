// Package markup implements the Link AST Engine: a parser for the
// typesetting markup's `#name(args)[body]` call syntax and its raw/verbatim
// blocks, plus link extraction over the resulting tree.
//
// The tree shape and node names (FuncCall, Args, ContentBlock, Markup, Str,
// Ident, Raw, Text) mirror typst's own syntax tree, which is the grammar
// this markup is drawn from; byte offsets are tracked by accumulating
// spans while descending from the document root rather than by querying a
// span facility, since synthesized sources (the merged-PDF spine) have no
// such facility to query.
package markup

// Kind identifies the syntactic category of a Node.
type Kind int

const (
	KindDocument Kind = iota
	KindText
	KindRaw
	KindFuncCall
	KindIdent
	KindArgs
	KindStr
	KindContentBlock
	KindMarkup
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindText:
		return "Text"
	case KindRaw:
		return "Raw"
	case KindFuncCall:
		return "FuncCall"
	case KindIdent:
		return "Ident"
	case KindArgs:
		return "Args"
	case KindStr:
		return "Str"
	case KindContentBlock:
		return "ContentBlock"
	case KindMarkup:
		return "Markup"
	default:
		return "Unknown"
	}
}

// Node is one node of the parsed markup tree. Start/End are absolute byte
// offsets into the original source. Text carries the node's own literal
// content for leaf kinds (Text, Raw, Ident, Str); container kinds carry
// their content in Children instead.
type Node struct {
	Kind     Kind
	Start    int
	End      int
	Text     string
	Children []*Node
}

// FuncName returns the identifier of a FuncCall node, or "" if n is not a
// FuncCall or has no Ident child.
func (n *Node) FuncName() string {
	if n.Kind != KindFuncCall {
		return ""
	}
	for _, c := range n.Children {
		if c.Kind == KindIdent {
			return c.Text
		}
	}
	return ""
}

// Child returns the first direct child of the given kind, or nil.
func (n *Node) Child(k Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// WalkStatus controls traversal, mirroring goldmark's ast.WalkStatus.
type WalkStatus int

const (
	WalkContinue WalkStatus = iota
	WalkSkipChildren
	WalkStop
)

// WalkFunc is called once on entering a node and once on leaving it
// (entering=false), except when the entering call returns WalkStop. When it
// returns WalkSkipChildren the children are not visited, but the leaving
// call is still made.
type WalkFunc func(n *Node, entering bool) (WalkStatus, error)

// Walk traverses the tree rooted at n in document order.
func Walk(n *Node, fn WalkFunc) error {
	status, err := fn(n, true)
	if err != nil {
		return err
	}
	switch status {
	case WalkStop:
		return errWalkStop
	case WalkSkipChildren:
		_, err := fn(n, false)
		return err
	}

	for _, c := range n.Children {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}

	_, err = fn(n, false)
	return err
}

// errWalkStop unwinds Walk when a handler returns WalkStop. Callers that
// want to distinguish an intentional stop from a real error can compare
// against this value with errors.Is.
var errWalkStop = &walkStopError{}

type walkStopError struct{}

func (*walkStopError) Error() string { return "walk stopped" }
