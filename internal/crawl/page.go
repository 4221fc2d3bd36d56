package crawl

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// blockElements are skipped entirely: neither their text nor their links
// contribute to the page.
var blockElements = map[string]struct{}{
	"head":     {},
	"script":   {},
	"style":    {},
	"noscript": {},
	"svg":      {},
}

// Page is the indexable view of one fetched HTML document.
type Page struct {
	// Links holds every valid absolute http(s) anchor target in document
	// order, fragments stripped. Duplicates are preserved.
	Links []*url.URL
	// Lines holds the visible text, one entry per text node.
	Lines []string
}

// ParsePage extracts links and visible text from raw HTML, resolving
// relative links against base.
func ParsePage(base *url.URL, body string) *Page {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return &Page{}
	}

	page := &Page{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := blockElements[strings.ToLower(n.Data)]; skip {
				return
			}
			if strings.EqualFold(n.Data, "a") {
				if link, ok := anchorTarget(base, n); ok {
					page.Links = append(page.Links, link)
				}
			}
		}
		if n.Type == html.TextNode {
			page.Lines = append(page.Lines, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return page
}

// anchorTarget resolves the anchor's href against base, strips the fragment,
// and keeps only http(s) targets.
func anchorTarget(base *url.URL, n *html.Node) (*url.URL, bool) {
	for _, attr := range n.Attr {
		if !strings.EqualFold(attr.Key, "href") {
			continue
		}
		href := strings.TrimSpace(attr.Val)
		if href == "" {
			return nil, false
		}
		ref, err := url.Parse(href)
		if err != nil {
			return nil, false
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		if !isHTTP(resolved) {
			return nil, false
		}
		return resolved, true
	}
	return nil, false
}

func isHTTP(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
