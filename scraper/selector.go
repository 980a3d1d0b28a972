package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// selectorBuilder derives CSS selectors that match exactly one node of doc.
type selectorBuilder struct {
	doc *html.Node
	ids map[string]int
}

func newSelectorBuilder(doc *html.Node) *selectorBuilder {
	b := &selectorBuilder{doc: doc, ids: make(map[string]int)}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				b.ids[id]++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b
}

// path returns a child-combinator chain from html (or the nearest ancestor
// with a unique id) down to n. :nth-of-type is added only where a sibling
// shares the tag.
func (b *selectorBuilder) path(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id := attr(cur, "id"); id != "" && b.ids[id] == 1 && reIdent.MatchString(id) {
			parts = append(parts, "#"+id)
			break
		}
		if cur.Data == "html" || cur.Parent == nil || cur.Parent.Type != html.ElementNode {
			parts = append(parts, cur.Data)
			break
		}
		parts = append(parts, step(cur))
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

// attrSelector returns tag[key="value"], e.g. meta[name="description"].
func attrSelector(tag, key, value string) string {
	return fmt.Sprintf("%s[%s=%s]", tag, key, strconv.Quote(value))
}

// unique reports whether sel parses and matches n and nothing else.
func (b *selectorBuilder) unique(sel string, n *html.Node) bool {
	s, err := cascadia.Parse(sel)
	if err != nil {
		return false
	}
	matches := cascadia.QueryAll(b.doc, s)
	return len(matches) == 1 && matches[0] == n
}

// For returns the first of the preferred selectors that uniquely matches n,
// falling back to the structural path. ok is false when no candidate
// round-trips.
func (b *selectorBuilder) For(n *html.Node, preferred ...string) (sel string, ok bool) {
	for _, p := range preferred {
		if b.unique(p, n) {
			return p, true
		}
	}
	p := b.path(n)
	return p, b.unique(p, n)
}

func step(n *html.Node) string {
	index, total := 0, 0
	for s := n.Parent.FirstChild; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode || s.Data != n.Data {
			continue
		}
		total++
		if s == n {
			index = total
		}
	}
	if total == 1 {
		return n.Data
	}
	return fmt.Sprintf("%s:nth-of-type(%d)", n.Data, index)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
