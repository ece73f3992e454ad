package selektr

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lkmill/selektr/dom"
)

// significant reports whether an element counts as one step in the
// linear offset. Text nodes are never steps; they contribute their
// length instead.
//
// With countAll every element is a step. Otherwise list containers are
// skipped (their children are still traversed, so list items keep their
// steps), and a BR immediately followed by a list container is absorbed
// into that list's boundary rather than counted on its own.
func significant(n *html.Node, countAll bool) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if countAll {
		return true
	}
	if dom.Is(n, dom.Lists) {
		return false
	}
	if dom.Tag(n) == atom.Br && dom.Is(dom.NextElementSibling(n), dom.Lists) {
		return false
	}
	return true
}
