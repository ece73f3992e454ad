package selektr

import (
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/lkmill/selektr/dom"
	"github.com/lkmill/selektr/selection"
)

// Caret names one boundary of a selection range.
type Caret string

const (
	CaretStart Caret = "start"
	CaretEnd   Caret = "end"
)

// normalizeCaret applies the default and rejects unknown values.
func normalizeCaret(c Caret) (Caret, error) {
	switch c {
	case "":
		return CaretEnd, nil
	case CaretStart, CaretEnd:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCaret, string(c))
}

// Selektr orchestrates selection state over a host tree: it reads the
// host selection into tree positions and linear offsets, writes them
// back, and normalizes boundary ambiguities. The tree itself is owned
// and mutated by the host; Selektr holds only references valid at the
// time of capture.
type Selektr struct {
	sel      selection.Provider
	element  *html.Node
	sections dom.TagSet
	log      *slog.Logger
}

// New returns a Selektr reading and writing selection state through p.
func New(p selection.Provider, opts ...Option) *Selektr {
	s := &Selektr{
		sel:      p,
		sections: dom.Sections,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDefaultElement replaces the default scoping element.
func (s *Selektr) SetDefaultElement(el *html.Node) {
	s.element = el
}

// Range returns the host's active selection range, or nil when nothing
// is selected.
func (s *Selektr) Range() *selection.Range {
	return s.sel.Current()
}

// rawBoundary reads one boundary of rng as an unconverted position.
func rawBoundary(rng *selection.Range, caret Caret) Position {
	if caret == CaretStart {
		return Position{Ref: rng.StartContainer, Offset: rng.StartOffset}
	}
	return Position{Ref: rng.EndContainer, Offset: rng.EndOffset}
}

// Offset returns the linear offset of the selection boundary named by
// caret, relative to element. A nil element resolves to the nearest
// section ancestor of the boundary's container, falling back to the
// default scoping element.
func (s *Selektr) Offset(element *html.Node, caret Caret, countAll bool) (int, error) {
	n, _, err := s.offsetIn(element, caret, countAll)
	return n, err
}

// offsetIn also reports the element the offset ended up relative to.
func (s *Selektr) offsetIn(element *html.Node, caret Caret, countAll bool) (int, *html.Node, error) {
	caret, err := normalizeCaret(caret)
	if err != nil {
		return 0, nil, err
	}
	rng := s.sel.Current()
	if rng == nil {
		return 0, nil, ErrNoSelection
	}
	raw := rawBoundary(rng, caret)
	if element == nil {
		element = dom.Closest(raw.Ref, s.sections)
		if element == nil {
			element = s.element
		}
	}
	if element == nil {
		return 0, nil, fmt.Errorf("selektr: no scoping element for offset")
	}
	// An element-boundary position points between children; convert it
	// to the end of the preceding child so it lives in content units.
	if raw.Ref.Type == html.ElementNode && raw.Offset > 0 {
		if child := dom.ChildAt(raw.Ref, raw.Offset-1); child != nil {
			return Count(element, child, countAll) + span(child, countAll), element, nil
		}
	}
	return Count(element, raw.Ref, countAll) + raw.Offset, element, nil
}

// Get reads one selection boundary as a position relative to the
// default scoping element: Ref is the element the offset is measured
// from, Offset the linear offset within it. For a collapsed range the
// start boundary is read from the end one, which hosts report more
// reliably. An unknown caret value fails with ErrInvalidCaret.
func (s *Selektr) Get(caret Caret, countAll bool) (Position, error) {
	return s.GetIn(s.element, caret, countAll)
}

// GetIn is Get against an explicit scoping element.
func (s *Selektr) GetIn(element *html.Node, caret Caret, countAll bool) (Position, error) {
	caret, err := normalizeCaret(caret)
	if err != nil {
		return Position{}, err
	}
	rng := s.sel.Current()
	if rng == nil {
		return Position{}, ErrNoSelection
	}
	if caret == CaretStart && rng.Collapsed() {
		caret = CaretEnd
	}
	n, el, err := s.offsetIn(element, caret, countAll)
	if err != nil {
		return Position{}, err
	}
	return Position{Ref: el, Offset: n}, nil
}

// GetRaw reads one boundary as the host reports it: the container node
// and its local offset, unconverted.
func (s *Selektr) GetRaw(caret Caret) (Position, error) {
	caret, err := normalizeCaret(caret)
	if err != nil {
		return Position{}, err
	}
	rng := s.sel.Current()
	if rng == nil {
		return Position{}, ErrNoSelection
	}
	return rawBoundary(rng, caret), nil
}

// GetPositions reads both boundaries. For a collapsed range the end
// boundary is used for both.
func (s *Selektr) GetPositions(countAll bool) (Positions, error) {
	end, err := s.Get(CaretEnd, countAll)
	if err != nil {
		return Positions{}, err
	}
	rng := s.sel.Current()
	if rng.Collapsed() {
		return Positions{Start: end, End: end}, nil
	}
	start, err := s.Get(CaretStart, countAll)
	if err != nil {
		return Positions{}, err
	}
	return Positions{Start: start, End: end}, nil
}

// Set installs p as the active selection. A zero End boundary collapses
// onto Start. Boundaries are checked against their node's current
// structural bound and, when a default scoping element is set, against
// attachment under it; a failed check leaves the selection untouched
// and reports why.
func (s *Selektr) Set(p Positions) error {
	if p.End.Ref == nil {
		p.End = p.Start
	}
	for _, b := range []Position{p.Start, p.End} {
		if b.Ref == nil || !b.InBounds() {
			s.log.Debug("set rejected", "reason", "out of bounds", "offset", b.Offset)
			return fmt.Errorf("%w: offset %d", ErrOutOfBounds, b.Offset)
		}
		if s.element != nil && !dom.Contains(s.element, b.Ref) {
			s.log.Debug("set rejected", "reason", "detached node")
			return ErrDetachedNode
		}
	}
	s.sel.SetRange(&selection.Range{
		StartContainer: p.Start.Ref,
		StartOffset:    p.Start.Offset,
		EndContainer:   p.End.Ref,
		EndOffset:      p.End.Offset,
	})
	return nil
}

// Restore resolves each boundary's linear offset against its captured
// reference node and installs the result. This is the write half of the
// capture/restore cycle: positions taken with Get name a stable
// ancestor plus a linear offset, so they survive insertions and
// deletions elsewhere in that ancestor's subtree.
func (s *Selektr) Restore(p Positions, countAll bool) error {
	if p.End.Ref == nil {
		p.End = p.Start
	}
	if p.Start.Ref == nil {
		return fmt.Errorf("%w: nil reference node", ErrOutOfBounds)
	}
	return s.Set(Positions{
		Start: Uncount(p.Start.Ref, p.Start.Offset, countAll),
		End:   Uncount(p.End.Ref, p.End.Offset, countAll),
	})
}

// Select spans the selection over node's text content, from the first
// text descendant to the end of the last. A node without text gets a
// collapsed selection at child index 0.
func (s *Selektr) Select(node *html.Node) error {
	if node == nil {
		return fmt.Errorf("selektr: select nil node")
	}
	first := dom.FirstText(node)
	if first == nil {
		return s.Set(Collapse(Position{Ref: node, Offset: 0}))
	}
	last := dom.LastText(node)
	return s.Set(Positions{
		Start: Position{Ref: first, Offset: 0},
		End:   Position{Ref: last, Offset: dom.TextLength(last)},
	})
}

// Normalize fixes two cross-host inconsistencies at range boundaries.
// A non-collapsed range ending at offset 0 of a section has its end
// pulled back to the end of the previous sibling subtree, so the next
// section is not spuriously included. A collapsed caret at offset 0 of
// a text node is re-resolved through its section, giving every host the
// same canonical caret for that point. Normalize is idempotent.
func (s *Selektr) Normalize() {
	rng := s.sel.Current()
	if rng == nil {
		return
	}
	if !rng.Collapsed() {
		s.normalizeEnd(rng)
		return
	}
	if rng.EndContainer.Type != html.TextNode || rng.EndOffset != 0 {
		return
	}
	section := dom.Closest(rng.EndContainer, s.sections)
	if section == nil {
		return
	}
	pos := Uncount(section, Count(section, rng.EndContainer, false), false)
	if (pos == Position{Ref: rng.EndContainer, Offset: 0}) {
		return
	}
	s.log.Debug("normalize caret", "offset", pos.Offset)
	s.Set(Collapse(pos))
}

// normalizeEnd pulls a section-start end boundary back to the end of
// the previous sibling subtree, walking up through ancestors that have
// no previous sibling. Repeats until stable so empty siblings cannot
// leave the boundary on another section start.
func (s *Selektr) normalizeEnd(rng *selection.Range) {
	end := Position{Ref: rng.EndContainer, Offset: rng.EndOffset}
	for end.Offset == 0 && dom.Is(end.Ref, s.sections) {
		node := end.Ref
		for node.PrevSibling == nil && node.Parent != nil && node.Parent != s.element {
			node = node.Parent
		}
		if node.PrevSibling == nil {
			break
		}
		end = endOf(node.PrevSibling)
	}
	if end.Ref == rng.EndContainer && end.Offset == rng.EndOffset {
		return
	}
	s.log.Debug("normalize end", "offset", end.Offset)
	s.Set(Positions{
		Start: Position{Ref: rng.StartContainer, Offset: rng.StartOffset},
		End:   end,
	})
}

// IsAtStartOfSection reports whether the selection start sits at the
// very beginning of section's content.
func (s *Selektr) IsAtStartOfSection(section *html.Node) bool {
	if !s.boundaryWithin(section, CaretStart) {
		return false
	}
	n, err := s.Offset(section, CaretStart, false)
	return err == nil && n == 0
}

// IsAtEndOfSection reports whether the selection end sits at the very
// end of section's content.
func (s *Selektr) IsAtEndOfSection(section *html.Node) bool {
	if !s.boundaryWithin(section, CaretEnd) {
		return false
	}
	n, err := s.Offset(section, CaretEnd, false)
	return err == nil && n == Count(section, nil, false)
}

func (s *Selektr) boundaryWithin(section *html.Node, caret Caret) bool {
	rng := s.sel.Current()
	if rng == nil || section == nil {
		return false
	}
	return dom.Contains(section, rawBoundary(rng, caret).Ref)
}
