// Package dom provides the tree queries selektr needs over an
// golang.org/x/net/html node tree: tag-set matching, ancestor and
// descendant lookups, and document-order helpers.
package dom

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TagSet is an enumerated set of element tags.
type TagSet map[atom.Atom]struct{}

// NewTagSet builds a TagSet from atom constants.
func NewTagSet(atoms ...atom.Atom) TagSet {
	s := make(TagSet, len(atoms))
	for _, a := range atoms {
		s[a] = struct{}{}
	}
	return s
}

// Sections are the block tags that are always significant for offset
// counting: paragraphs, headings and list items.
var Sections = NewTagSet(atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Li)

// Lists are the list container tags.
var Lists = NewTagSet(atom.Ul, atom.Ol)

// Tag returns the resolved tag atom of n, or zero for non-elements.
// Nodes built by hand often carry only Data; fall back to a lookup.
func Tag(n *html.Node) atom.Atom {
	if n == nil || n.Type != html.ElementNode {
		return 0
	}
	if n.DataAtom != 0 {
		return n.DataAtom
	}
	return atom.Lookup([]byte(strings.ToLower(n.Data)))
}

// Is reports whether n is an element whose tag is in tags.
func Is(n *html.Node, tags TagSet) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	_, ok := tags[Tag(n)]
	return ok
}

// Closest returns the nearest ancestor of n (including n itself) whose
// tag is in tags, or nil.
func Closest(n *html.Node, tags TagSet) *html.Node {
	for ; n != nil; n = n.Parent {
		if Is(n, tags) {
			return n
		}
	}
	return nil
}

// Contains reports whether n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// ChildrenMatching returns the direct element children of n whose tag is
// in tags.
func ChildrenMatching(n *html.Node, tags TagSet) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if Is(c, tags) {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns the descendants of n, in document order, for which
// match returns true. n itself is not considered.
func Descendants(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// DescendantsMatching returns the element descendants of n whose tag is
// in tags, in document order.
func DescendantsMatching(n *html.Node, tags TagSet) []*html.Node {
	return Descendants(n, func(c *html.Node) bool { return Is(c, tags) })
}

// Index returns n's position among its parent's children, or 0 when n
// has no parent.
func Index(n *html.Node) int {
	i := 0
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		i++
	}
	return i
}

// ChildCount returns the number of children of n.
func ChildCount(n *html.Node) int {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		i++
	}
	return i
}

// ChildAt returns the i'th child of n, or nil when out of range.
func ChildAt(n *html.Node, i int) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

// TextLength returns the rune count of a text node's content.
func TextLength(n *html.Node) int {
	if n == nil || n.Type != html.TextNode {
		return 0
	}
	return utf8.RuneCountInString(n.Data)
}

// FirstText returns the first text node in n's subtree, or nil.
func FirstText(n *html.Node) *html.Node {
	if n.Type == html.TextNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := FirstText(c); t != nil {
			return t
		}
	}
	return nil
}

// LastText returns the last text node in n's subtree, or nil.
func LastText(n *html.Node) *html.Node {
	if n.Type == html.TextNode {
		return n
	}
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		if t := LastText(c); t != nil {
			return t
		}
	}
	return nil
}

// NextElementSibling returns the first following sibling of n that is an
// element, skipping whitespace-only text nodes. Any other intervening
// node breaks the adjacency.
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.TextNode && strings.TrimSpace(s.Data) == "" {
			continue
		}
		if s.Type == html.ElementNode {
			return s
		}
		return nil
	}
	return nil
}
