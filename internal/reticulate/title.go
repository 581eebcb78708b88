package reticulate

import (
	"bytes"
	"strings"
)

// documentTitleDirective is the prefix of the directive a source can use
// to declare its own title: `#set document(title: [...])`.
var documentTitleDirective = []byte("#set document(")

// ExtractDocumentTitle looks for a `#set document(title: [...])` directive
// and returns its bracketed content; if none is found (or it's empty), it
// returns fallback (the filename stem).
func ExtractDocumentTitle(source []byte, fallback string) string {
	idx := bytes.Index(source, documentTitleDirective)
	if idx < 0 {
		return fallback
	}
	rest := source[idx:]

	tIdx := bytes.Index(rest, []byte("title:"))
	if tIdx < 0 {
		return fallback
	}
	after := rest[tIdx+len("title:"):]

	i := 0
	for i < len(after) && (after[i] == ' ' || after[i] == '\t') {
		i++
	}
	if i >= len(after) || after[i] != '[' {
		return fallback
	}

	depth := 0
	j := i
	for j < len(after) {
		switch after[j] {
		case '[':
			depth++
		case ']':
			depth--
		}
		j++
		if depth == 0 {
			break
		}
	}
	if depth != 0 {
		return fallback
	}

	title := strings.TrimSpace(string(after[i+1 : j-1]))
	if title == "" {
		return fallback
	}
	return title
}
