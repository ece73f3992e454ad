// Package selektr maps between tree positions and linear offsets over an
// html node tree, tests nodes for selection containment, and captures and
// restores selection state across structural edits.
package selektr

import (
	"golang.org/x/net/html"

	"github.com/lkmill/selektr/dom"
)

// Position locates a caret boundary relative to a node. For an element
// Ref the offset is a child index (0..child count); for a text Ref it is
// a rune index (0..length).
type Position struct {
	Ref    *html.Node
	Offset int
}

// InBounds reports whether the offset is within Ref's current structural
// bound. A position captured before a tree mutation may no longer be.
func (p Position) InBounds() bool {
	if p.Ref == nil || p.Offset < 0 {
		return false
	}
	if p.Ref.Type == html.TextNode {
		return p.Offset <= dom.TextLength(p.Ref)
	}
	return p.Offset <= dom.ChildCount(p.Ref)
}

// Positions holds the two boundaries of a possibly collapsed selection.
type Positions struct {
	Start Position
	End   Position
}

// Collapsed reports whether both boundaries are the same point.
func (p Positions) Collapsed() bool {
	return p.Start == p.End
}

// Collapse returns collapsed Positions at pos.
func Collapse(pos Position) Positions {
	return Positions{Start: pos, End: pos}
}
