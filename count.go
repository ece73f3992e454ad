package selektr

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lkmill/selektr/dom"
)

// Count returns the linear offset of ref within root: one unit per
// significant element and one per text rune, accumulated in document
// order. root itself is never counted.
//
// With ref == nil the result is the total significant length of root's
// subtree. With a non-nil ref the result covers everything strictly
// before ref in document order; ancestors of ref precede it and are
// included, ref itself is not. Count(root, root, ·) is 0. Count is a
// pure read; it never touches the tree or the host selection.
func Count(root, ref *html.Node, countAll bool) int {
	if root == nil || ref == root {
		return 0
	}
	offset := 0
	var walk func(*html.Node) bool
	walk = func(p *html.Node) bool {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c == ref {
				return false
			}
			if c.Type == html.TextNode {
				offset += dom.TextLength(c)
			} else if significant(c, countAll) {
				offset++
			}
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)
	return offset
}

// Uncount converts a linear offset back into a tree position inside
// root, inverting Count. A text root is returned unchanged with the
// given offset.
//
// The walk consumes the offset in document order: text nodes absorb up
// to their length and become the result when the remainder fits, and
// each significant element consumes one unit. Once the offset is
// exhausted the walk stops at the next stop-able node: a text node at
// offset 0, or a significant element at child index 0. An exhausting
// line break resolves to the position just after itself in its parent,
// and an exhausting element without text content to itself at child
// index 0, so carets land inside empty sections. Offsets beyond the
// subtree clamp to the end of root.
//
// For n in [1, Count(root, nil, countAll)] the round trip
// Count(root, Uncount(root, n).Ref) + Uncount(root, n).Offset == n
// holds whenever the walk lands in text or just past a line break; a
// landing inside a childless element sits on the element's own step,
// one unit before its content would start. Offset 0 itself resolves
// one seam inward, onto the first text node.
func Uncount(root *html.Node, offset int, countAll bool) Position {
	if root.Type == html.TextNode {
		return Position{Ref: root, Offset: offset}
	}
	landed := false
	var pos *Position
	var walk func(*html.Node) bool
	walk = func(p *html.Node) bool {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				l := dom.TextLength(c)
				if offset <= l {
					pos = &Position{Ref: c, Offset: offset}
					return false
				}
				offset -= l
			} else if significant(c, countAll) {
				if landed {
					pos = &Position{Ref: c, Offset: 0}
					return false
				}
				if offset > 0 {
					offset--
					if offset == 0 {
						if dom.FirstText(c) == nil {
							pos = stopAt(c)
							return false
						}
						landed = true
					}
				}
			}
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)
	if pos == nil {
		p := endOf(root)
		pos = &p
	}
	return *pos
}

// stopAt turns a childless element a resolution landed on into a
// position. A line break becomes a child-index position just after
// itself, so the caret sits behind the break instead of inside it.
func stopAt(n *html.Node) *Position {
	if dom.Tag(n) == atom.Br && n.Parent != nil {
		return &Position{Ref: n.Parent, Offset: dom.Index(n) + 1}
	}
	return &Position{Ref: n, Offset: 0}
}

// endOf returns the position at the end of n's content: the last text
// node at its full length, or n itself past its last child.
func endOf(n *html.Node) Position {
	if t := dom.LastText(n); t != nil {
		return Position{Ref: t, Offset: dom.TextLength(t)}
	}
	return Position{Ref: n, Offset: dom.ChildCount(n)}
}

// span is a node's full contribution to offsets past it: the rune count
// for text, its own step plus total significant length for elements.
func span(n *html.Node, countAll bool) int {
	if n.Type == html.TextNode {
		return dom.TextLength(n)
	}
	step := 0
	if significant(n, countAll) {
		step = 1
	}
	return step + Count(n, nil, countAll)
}
