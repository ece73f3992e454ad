package selektr

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Handle is a stable identifier for a tree node. Captured positions
// keyed by handles survive serialization boundaries and make staleness
// after a mutation detectable instead of undefined: a handle whose node
// was forgotten resolves to ErrUnknownHandle rather than a dangling
// reference.
type Handle string

// Registry maps handles to nodes and back. The host owns node
// lifetimes; it should Forget nodes it removes from the tree.
type Registry struct {
	byHandle map[Handle]*html.Node
	byNode   map[*html.Node]Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byHandle: make(map[Handle]*html.Node),
		byNode:   make(map[*html.Node]Handle),
	}
}

// Handle returns n's handle, assigning a fresh one on first use.
func (r *Registry) Handle(n *html.Node) Handle {
	if h, ok := r.byNode[n]; ok {
		return h
	}
	h := Handle(uuid.NewString())
	r.byHandle[h] = n
	r.byNode[n] = h
	return h
}

// Node resolves a handle back to its node.
func (r *Registry) Node(h Handle) (*html.Node, bool) {
	n, ok := r.byHandle[h]
	return n, ok
}

// Forget drops a node and its handle from the registry.
func (r *Registry) Forget(n *html.Node) {
	if h, ok := r.byNode[n]; ok {
		delete(r.byHandle, h)
		delete(r.byNode, n)
	}
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	return len(r.byNode)
}

// SavedPosition is one captured boundary: a handle to the reference
// node and a linear offset within it.
type SavedPosition struct {
	Ref    Handle `json:"ref"`
	Offset int    `json:"offset"`
}

// SavedPositions is a captured selection.
type SavedPositions struct {
	Start SavedPosition `json:"start"`
	End   SavedPosition `json:"end"`
}

// Save captures the current selection as handle-keyed linear offsets,
// registering the reference elements in reg.
func (s *Selektr) Save(reg *Registry, countAll bool) (SavedPositions, error) {
	pos, err := s.GetPositions(countAll)
	if err != nil {
		return SavedPositions{}, err
	}
	return SavedPositions{
		Start: SavedPosition{Ref: reg.Handle(pos.Start.Ref), Offset: pos.Start.Offset},
		End:   SavedPosition{Ref: reg.Handle(pos.End.Ref), Offset: pos.End.Offset},
	}, nil
}

// RestoreSaved resolves a captured selection through reg and restores
// it. A handle missing from the registry fails with ErrUnknownHandle.
func (s *Selektr) RestoreSaved(reg *Registry, sp SavedPositions, countAll bool) error {
	start, ok := reg.Node(sp.Start.Ref)
	if !ok {
		return fmt.Errorf("%w: start %q", ErrUnknownHandle, sp.Start.Ref)
	}
	end, ok := reg.Node(sp.End.Ref)
	if !ok {
		return fmt.Errorf("%w: end %q", ErrUnknownHandle, sp.End.Ref)
	}
	return s.Restore(Positions{
		Start: Position{Ref: start, Offset: sp.Start.Offset},
		End:   Position{Ref: end, Offset: sp.End.Offset},
	}, countAll)
}
