// Package selection defines the boundary to the host's selection state.
// selektr reads and writes the active selection only through a Provider,
// so hosts can plug in a native selection object or use the in-memory
// implementation shipped here.
package selection

import "golang.org/x/net/html"

// Range is one selection range: two boundary points in the host tree.
// Offsets follow DOM conventions: a child index for element containers,
// a rune index for text containers.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// Collapsed reports whether the range is a caret (zero width).
func (r *Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// CommonAncestor returns the deepest node containing both boundaries.
func (r *Range) CommonAncestor() *html.Node {
	seen := map[*html.Node]bool{}
	for n := r.StartContainer; n != nil; n = n.Parent {
		seen[n] = true
	}
	for n := r.EndContainer; n != nil; n = n.Parent {
		if seen[n] {
			return n
		}
	}
	return nil
}

// Provider is the host selection object.
type Provider interface {
	// Current returns the active range, or nil when nothing is selected.
	Current() *Range
	// SetRange replaces the active range.
	SetRange(r *Range)
}

// NodeContainer is implemented by providers with a native containment
// primitive. When available, selektr delegates containment tests to it.
type NodeContainer interface {
	ContainsNode(node *html.Node, partlyContained bool) bool
}

// Memory is an in-memory Provider for hosts without a native selection.
type Memory struct {
	r *Range
}

// NewMemory returns an empty in-memory selection.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Current() *Range {
	return m.r
}

func (m *Memory) SetRange(r *Range) {
	m.r = r
}

// Clear removes the active range.
func (m *Memory) Clear() {
	m.r = nil
}
