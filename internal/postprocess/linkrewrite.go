// Package postprocess implements the post-processor (component G): HTML
// link rewrite, stylesheet/font head injection, and portable XHTML
// serialization. It walks the parsed HTML tree with golang.org/x/net/html,
// the same dependency gardener-docforge's markdown renderer uses for its
// own link-rewrite pass, adapted from a goldmark-renderer ResolveLink
// callback to a direct post-compile HTML tree walk.
package postprocess

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Diagnostic is a single link-rewrite failure: the location it occurred
// at, the target that could not be resolved, and a one-line hint.
type Diagnostic struct {
	Location string
	Target   string
	Help     string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: cannot resolve link target %q\n  help: %s", d.Location, d.Target, d.Help)
}

// RewriteLinks scans docHTML for href attributes pointing at internal
// markup sources and rewrites them to targetExt (".html" or ".xhtml"),
// resolving relative hrefs against sourceDir and absolute ones against
// projectRoot. Every link whose target does not exist, or resolves
// outside projectRoot, is reported as a Diagnostic and left untouched.
func RewriteLinks(docHTML, sourceDir, projectRoot, targetExt string, exists func(absPath string) bool) (string, []Diagnostic, error) {
	doc, err := html.Parse(strings.NewReader(docHTML))
	if err != nil {
		return "", nil, fmt.Errorf("parsing compiled HTML: %w", err)
	}

	var diags []Diagnostic
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for i, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				rewritten, diag, ok := rewriteHref(attr.Val, sourceDir, projectRoot, targetExt, exists)
				if !ok {
					diags = append(diags, diag)
					break
				}
				if rewritten != attr.Val {
					n.Attr[i].Val = rewritten
				}
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", diags, fmt.Errorf("rendering rewritten HTML: %w", err)
	}
	return buf.String(), diags, nil
}

// rewriteHref decides whether href targets an internal markup source
// and, if so, resolves and rewrites it. Non-internal links (external
// URLs, fragments, already-rewritten hrefs) pass through unchanged.
func rewriteHref(href, sourceDir, projectRoot, targetExt string, exists func(string) bool) (string, Diagnostic, bool) {
	if href == "" || strings.HasPrefix(href, "#") || isExternalURL(href) {
		return href, Diagnostic{}, true
	}
	if !strings.HasSuffix(strings.ToLower(pathOnly(href)), ".typ") {
		return href, Diagnostic{}, true
	}

	fragment := ""
	target := href
	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		target, fragment = href[:idx], href[idx:]
	}

	var abs string
	if path.IsAbs(target) {
		abs = filepath.Join(projectRoot, filepath.FromSlash(strings.TrimPrefix(target, "/")))
	} else {
		abs = filepath.Join(sourceDir, filepath.FromSlash(target))
	}
	abs = filepath.Clean(abs)

	rootClean := filepath.Clean(projectRoot)
	if abs != rootClean && !strings.HasPrefix(abs, rootClean+string(filepath.Separator)) {
		return href, Diagnostic{
			Location: sourceDir,
			Target:   href,
			Help:     "link target resolves outside the project root",
		}, false
	}
	if exists != nil && !exists(abs) {
		return href, Diagnostic{
			Location: sourceDir,
			Target:   href,
			Help:     "file not found",
		}, false
	}

	rewritten := strings.TrimSuffix(target, ".typ") + targetExt
	return rewritten + fragment, Diagnostic{}, true
}

func pathOnly(href string) string {
	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		href = href[:idx]
	}
	if idx := strings.IndexByte(href, '?'); idx >= 0 {
		href = href[:idx]
	}
	return href
}

func isExternalURL(href string) bool {
	for _, scheme := range []string{"http://", "https://", "mailto:", "tel:", "ftp://"} {
		if strings.HasPrefix(href, scheme) {
			return true
		}
	}
	return strings.HasPrefix(href, "//")
}
