package markup

import "strings"

// MarkupExt is the file extension of the markup language Rheo compiles.
const MarkupExt = ".typ"

// IsFragment reports whether url is a same-document fragment reference.
func IsFragment(url string) bool {
	return strings.HasPrefix(url, "#")
}

// IsExternal reports whether url leaves the project: a network scheme, a
// mailto link, or a scheme-relative URL.
func IsExternal(url string) bool {
	if strings.HasPrefix(url, "//") || strings.HasPrefix(url, "mailto:") {
		return true
	}
	if i := strings.Index(url, ":"); i > 0 {
		scheme := url[:i]
		if isKnownScheme(scheme) {
			return true
		}
	}
	return false
}

func isKnownScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https", "ftp", "ftps", "mailto", "tel", "data":
		return true
	default:
		return false
	}
}

// IsInternalMarkup reports whether url is neither external nor
// fragment-only, and targets the markup extension — a candidate for
// link-transformer rewriting.
func IsInternalMarkup(url string) bool {
	if IsExternal(url) || IsFragment(url) {
		return false
	}
	return strings.HasSuffix(url, MarkupExt)
}
