package markup

// Parse builds a Node tree from markup source. It recognizes two
// constructs beyond plain text: raw/verbatim spans delimited by one or
// more backticks, and calls of the form `#ident(args)[body]` where both
// the argument list and the content block are optional.
func Parse(source []byte) *Node {
	children := parseSequence(source, 0, len(source))
	return &Node{Kind: KindDocument, Start: 0, End: len(source), Children: children}
}

func parseSequence(src []byte, start, end int) []*Node {
	var nodes []*Node
	pos := start
	textStart := start

	flushText := func(upto int) {
		if upto > textStart {
			nodes = append(nodes, &Node{
				Kind: KindText, Start: textStart, End: upto, Text: string(src[textStart:upto]),
			})
		}
	}

	for pos < end {
		switch {
		case src[pos] == '`':
			if raw, next := parseRaw(src, pos, end); raw != nil {
				flushText(pos)
				nodes = append(nodes, raw)
				pos = next
				textStart = pos
				continue
			}
			pos++
		case src[pos] == '#':
			if call, next := parseCall(src, pos, end); call != nil {
				flushText(pos)
				nodes = append(nodes, call)
				pos = next
				textStart = pos
				continue
			}
			pos++
		default:
			pos++
		}
	}
	flushText(end)
	return nodes
}

// parseRaw recognizes a run of N>=1 backticks at pos, followed by content,
// followed by a matching run of N backticks (or end of input). Returns nil
// if pos doesn't start a backtick run.
func parseRaw(src []byte, pos, end int) (*Node, int) {
	if pos >= end || src[pos] != '`' {
		return nil, pos
	}
	runStart := pos
	for pos < end && src[pos] == '`' {
		pos++
	}
	fenceLen := pos - runStart

	closeAt := -1
	for i := pos; i+fenceLen <= end; i++ {
		if src[i] != '`' {
			continue
		}
		run := 0
		for i+run < end && src[i+run] == '`' {
			run++
		}
		if run == fenceLen {
			closeAt = i
			break
		}
	}

	var rawEnd int
	if closeAt == -1 {
		rawEnd = end
	} else {
		rawEnd = closeAt + fenceLen
	}

	return &Node{Kind: KindRaw, Start: runStart, End: rawEnd, Text: string(src[runStart:rawEnd])}, rawEnd
}

// isIdentStart/isIdentPart classify markup identifier characters: a letter
// or underscore to start, then letters, digits, underscore or hyphen.
func isIdentStart(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || ('0' <= b && b <= '9') || b == '-'
}

// parseCall recognizes `#ident`, optionally followed immediately by a
// parenthesized argument list and/or a bracketed content block. Returns
// nil if pos doesn't start a valid identifier call (bare `#` or `#<digit>`
// is left as literal text).
func parseCall(src []byte, pos, end int) (*Node, int) {
	if pos >= end || src[pos] != '#' {
		return nil, pos
	}
	identStart := pos + 1
	if identStart >= end || !isIdentStart(src[identStart]) {
		return nil, pos
	}
	identEnd := identStart + 1
	for identEnd < end && isIdentPart(src[identEnd]) {
		identEnd++
	}

	children := []*Node{
		{Kind: KindIdent, Start: identStart, End: identEnd, Text: string(src[identStart:identEnd])},
	}
	cursor := identEnd

	if cursor < end && src[cursor] == '(' {
		args, next := parseArgs(src, cursor, end)
		children = append(children, args)
		cursor = next
	}

	if cursor < end && src[cursor] == '[' {
		block, next := parseContentBlock(src, cursor, end)
		children = append(children, block)
		cursor = next
	}

	return &Node{Kind: KindFuncCall, Start: pos, End: cursor, Children: children}, cursor
}

// parseArgs scans a balanced `(...)` argument list starting at pos (which
// must point at the opening paren), collecting top-level quoted string
// literals as Str children. Nested parens and brackets are skipped without
// inspection; only depth-0 strings are recorded, matching the shape of a
// link call's single positional URL argument.
func parseArgs(src []byte, pos, end int) (*Node, int) {
	openAt := pos
	pos++ // past '('
	depth := 1
	var strs []*Node

	for pos < end && depth > 0 {
		switch src[pos] {
		case '(', '[':
			depth++
			pos++
		case ')', ']':
			depth--
			pos++
		case '"':
			strStart := pos
			pos++
			for pos < end && src[pos] != '"' {
				if src[pos] == '\\' && pos+1 < end {
					pos++
				}
				pos++
			}
			if pos < end {
				pos++ // past closing quote
			}
			if depth == 1 {
				strs = append(strs, &Node{
					Kind: KindStr, Start: strStart, End: pos, Text: string(src[strStart:pos]),
				})
			}
		default:
			pos++
		}
	}

	return &Node{Kind: KindArgs, Start: openAt, End: pos, Children: strs}, pos
}

// parseContentBlock scans a balanced `[...]` content block starting at pos
// (which must point at the opening bracket) and recursively parses its
// interior as markup, so nested calls and raw spans inside link bodies are
// still found.
func parseContentBlock(src []byte, pos, end int) (*Node, int) {
	openAt := pos
	pos++ // past '['
	depth := 1
	innerStart := pos

	for pos < end && depth > 0 {
		switch src[pos] {
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 {
			break
		}
		pos++
	}
	innerEnd := pos
	if pos < end {
		pos++ // past closing ']'
	}

	markup := &Node{
		Kind: KindMarkup, Start: innerStart, End: innerEnd,
		Children: parseSequence(src, innerStart, innerEnd),
	}
	return &Node{Kind: KindContentBlock, Start: openAt, End: pos, Children: []*Node{markup}}, pos
}
