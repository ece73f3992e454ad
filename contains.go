package selektr

import (
	"golang.org/x/net/html"

	"github.com/lkmill/selektr/dom"
	"github.com/lkmill/selektr/selection"
)

// Contains reports whether node lies within the active selection's
// span. With partlyContained a node straddling a selection boundary
// also counts. Text nodes always use partly-contained semantics,
// matching native boundary-inclusive behavior for point-like content.
// Without an active selection nothing is contained.
func (s *Selektr) Contains(node *html.Node, partlyContained bool) bool {
	if node == nil {
		return false
	}
	rng := s.sel.Current()
	if rng == nil {
		return false
	}
	if node.Type == html.TextNode {
		partlyContained = true
	}
	if nc, ok := s.sel.(selection.NodeContainer); ok {
		return nc.ContainsNode(node, partlyContained)
	}

	ancestor := rng.CommonAncestor()
	if ancestor != nil && ancestor.Type == html.TextNode {
		ancestor = ancestor.Parent
	}
	if ancestor == nil {
		return false
	}
	if !dom.Contains(ancestor, node) {
		// The selection lives outside node's subtree unless node is an
		// ancestor of it, which is at most a partial overlap.
		return partlyContained && dom.Contains(node, ancestor)
	}

	selStart, _, err := s.offsetIn(ancestor, CaretStart, true)
	if err != nil {
		return false
	}
	selEnd, _, err := s.offsetIn(ancestor, CaretEnd, true)
	if err != nil {
		return false
	}
	nodeStart := Count(ancestor, node, true)
	nodeEnd := nodeStart + span(node, true)

	if selStart <= nodeStart && nodeEnd <= selEnd {
		return true
	}
	if partlyContained {
		return (nodeStart < selStart && selStart < nodeEnd) ||
			(nodeStart < selEnd && selEnd < nodeEnd)
	}
	return false
}

// ContainsEvery reports whether every node in nodes is contained.
func (s *Selektr) ContainsEvery(nodes []*html.Node, partlyContained bool) bool {
	for _, n := range nodes {
		if !s.Contains(n, partlyContained) {
			return false
		}
	}
	return true
}

// ContainsSome reports whether at least one node in nodes is contained.
func (s *Selektr) ContainsSome(nodes []*html.Node, partlyContained bool) bool {
	for _, n := range nodes {
		if s.Contains(n, partlyContained) {
			return true
		}
	}
	return false
}

// Contained filters candidates down to the nodes the selection
// contains, preserving order.
func (s *Selektr) Contained(candidates []*html.Node, partlyContained bool) []*html.Node {
	var out []*html.Node
	for _, n := range candidates {
		if s.Contains(n, partlyContained) {
			out = append(out, n)
		}
	}
	return out
}

// ContainedSections returns the contained section descendants of the
// default scoping element, or of the selection's common ancestor when
// no default is set.
func (s *Selektr) ContainedSections(partlyContained bool) []*html.Node {
	scope := s.element
	if scope == nil {
		rng := s.sel.Current()
		if rng == nil {
			return nil
		}
		scope = rng.CommonAncestor()
		if scope != nil && scope.Type == html.TextNode {
			scope = scope.Parent
		}
	}
	if scope == nil {
		return nil
	}
	return s.Contained(dom.DescendantsMatching(scope, s.sections), partlyContained)
}
