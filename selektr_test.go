package selektr

import (
	"errors"
	"testing"

	"golang.org/x/net/html/atom"

	"github.com/lkmill/selektr/selection"
)

func TestGet_ReturnsScopedLinearOffset(t *testing.T) {
	body, _, t2 := twoParagraphs()
	sel := selection.NewMemory()
	sel.SetRange(rangeBetween(Position{Ref: t2, Offset: 0}, Position{Ref: t2, Offset: 2}))
	s := New(sel, WithElement(body))

	start, err := s.Get(CaretStart, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Ref != body || start.Offset != 4 {
		t.Errorf("start = {%s %d}, want {body 4}", start.Ref.Data, start.Offset)
	}

	end, err := s.Get(CaretEnd, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.Ref != body || end.Offset != 6 {
		t.Errorf("end = {%s %d}, want {body 6}", end.Ref.Data, end.Offset)
	}
}

func TestGet_CollapsedUsesEndForStart(t *testing.T) {
	body, t1, _ := twoParagraphs()
	sel := selection.NewMemory()
	sel.SetRange(caretAt(Position{Ref: t1, Offset: 1}))
	s := New(sel, WithElement(body))

	pos, err := s.GetPositions(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pos.Collapsed() {
		t.Errorf("positions = %+v, want collapsed", pos)
	}
	if pos.End.Offset != 2 {
		t.Errorf("end offset = %d, want 2", pos.End.Offset)
	}
}

func TestGet_InvalidCaret(t *testing.T) {
	body, t1, _ := twoParagraphs()
	sel := selection.NewMemory()
	sel.SetRange(caretAt(Position{Ref: t1, Offset: 0}))
	s := New(sel, WithElement(body))

	if _, err := s.Get(Caret("middle"), false); !errors.Is(err, ErrInvalidCaret) {
		t.Errorf("err = %v, want ErrInvalidCaret", err)
	}
}

func TestGetRaw(t *testing.T) {
	body, _, t2 := twoParagraphs()
	sel := selection.NewMemory()
	sel.SetRange(rangeBetween(Position{Ref: t2, Offset: 0}, Position{Ref: t2, Offset: 2}))
	s := New(sel, WithElement(body))

	raw, err := s.GetRaw(CaretEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Ref != t2 || raw.Offset != 2 {
		t.Errorf("raw = {%s %d}, want the host container and offset", raw.Ref.Data, raw.Offset)
	}
}

func TestSet_InstallsRange(t *testing.T) {
	_, t1, t2 := twoParagraphs()
	sel := selection.NewMemory()
	s := New(sel)

	err := s.Set(Positions{
		Start: Position{Ref: t1, Offset: 1},
		End:   Position{Ref: t2, Offset: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := sel.Current()
	if rng == nil || rng.StartContainer != t1 || rng.StartOffset != 1 || rng.EndContainer != t2 || rng.EndOffset != 2 {
		t.Errorf("installed range = %+v", rng)
	}
}

func TestSet_ZeroEndCollapses(t *testing.T) {
	_, t1, _ := twoParagraphs()
	sel := selection.NewMemory()
	s := New(sel)

	if err := s.Set(Positions{Start: Position{Ref: t1, Offset: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rng := sel.Current(); rng == nil || !rng.Collapsed() || rng.EndOffset != 1 {
		t.Errorf("range = %+v, want collapsed at offset 1", sel.Current())
	}
}

func TestSet_OutOfBoundsLeavesSelectionUntouched(t *testing.T) {
	_, t1, t2 := twoParagraphs()
	sel := selection.NewMemory()
	s := New(sel)
	before := caretAt(Position{Ref: t1, Offset: 0})
	sel.SetRange(before)

	err := s.Set(Positions{Start: Position{Ref: t2, Offset: 7}})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	if sel.Current() != before {
		t.Error("selection must not change on a rejected set")
	}
}

func TestSet_DetachedNode(t *testing.T) {
	body, _, _ := twoParagraphs()
	stray := txt("zz")
	sel := selection.NewMemory()
	s := New(sel, WithElement(body))

	err := s.Set(Collapse(Position{Ref: stray, Offset: 0}))
	if !errors.Is(err, ErrDetachedNode) {
		t.Errorf("err = %v, want ErrDetachedNode", err)
	}
	if sel.Current() != nil {
		t.Error("selection must not change on a rejected set")
	}
}

func TestRestore_SurvivesSiblingMutation(t *testing.T) {
	body, _, t2 := twoParagraphs()
	p2 := body.LastChild
	sel := selection.NewMemory()
	sel.SetRange(rangeBetween(Position{Ref: t2, Offset: 0}, Position{Ref: t2, Offset: 2}))
	// No default element: positions are captured relative to the
	// closest section, which insulates them from sibling edits.
	s := New(sel)

	saved, err := s.GetPositions(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Start.Ref != p2 || saved.Start.Offset != 0 || saved.End.Offset != 2 {
		t.Fatalf("saved = %+v, want offsets 0..2 in the second paragraph", saved)
	}

	// Structural edit elsewhere: a new paragraph prepended to the tree.
	body.InsertBefore(el(atom.P, txt("XY")), body.FirstChild)
	sel.Clear()

	if err := s.Restore(saved, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := sel.Current()
	if rng == nil || rng.StartContainer != t2 || rng.StartOffset != 0 || rng.EndOffset != 2 {
		t.Errorf("restored range = %+v, want 0..2 in the original text", rng)
	}
}

func TestRestore_SurvivesTextReplacement(t *testing.T) {
	body, _, t2 := twoParagraphs()
	p2 := body.LastChild
	sel := selection.NewMemory()
	sel.SetRange(caretAt(Position{Ref: t2, Offset: 2}))
	s := New(sel)

	saved, err := s.GetPositions(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The captured text node is replaced wholesale.
	replacement := txt("CDE")
	p2.RemoveChild(t2)
	p2.AppendChild(replacement)
	sel.Clear()

	if err := s.Restore(saved, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := sel.Current()
	if rng == nil || rng.EndContainer != replacement || rng.EndOffset != 2 {
		t.Errorf("restored range = %+v, want offset 2 in the replacement text", rng)
	}
}

func TestRestore_NilReference(t *testing.T) {
	_, t1, _ := twoParagraphs()
	sel := selection.NewMemory()
	existing := caretAt(Position{Ref: t1, Offset: 1})
	sel.SetRange(existing)
	s := New(sel)

	if err := s.Restore(Positions{}, false); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
	if sel.Current() != existing {
		t.Error("selection must not change on a rejected restore")
	}
}

func TestSelect_SpansTextContent(t *testing.T) {
	body, _, t2 := twoParagraphs()
	p2 := body.LastChild
	sel := selection.NewMemory()
	s := New(sel)

	if err := s.Select(p2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := sel.Current()
	if rng == nil || rng.StartContainer != t2 || rng.StartOffset != 0 || rng.EndContainer != t2 || rng.EndOffset != 2 {
		t.Errorf("range = %+v, want 0..2 over the paragraph's text", rng)
	}
}

func TestSelect_EmptyNodeCollapses(t *testing.T) {
	empty := el(atom.P)
	el(atom.Body, empty)
	sel := selection.NewMemory()
	s := New(sel)

	if err := s.Select(empty); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := sel.Current()
	if rng == nil || !rng.Collapsed() || rng.EndContainer != empty || rng.EndOffset != 0 {
		t.Errorf("range = %+v, want collapsed at the empty node", rng)
	}
}

func TestNormalize_PullsEndOffSectionStart(t *testing.T) {
	body, t1, _ := twoParagraphs()
	p2 := body.LastChild
	sel := selection.NewMemory()
	sel.SetRange(rangeBetween(Position{Ref: t1, Offset: 0}, Position{Ref: p2, Offset: 0}))
	s := New(sel, WithElement(body))

	s.Normalize()
	rng := sel.Current()
	if rng == nil || rng.EndContainer != t1 || rng.EndOffset != 2 {
		t.Fatalf("range = %+v, want end at the end of the first paragraph", rng)
	}

	// Idempotent: a second pass changes nothing.
	after := sel.Current()
	s.Normalize()
	if sel.Current() != after {
		t.Error("second Normalize changed the selection")
	}
}

func TestNormalize_WalksUpThroughFirstChildren(t *testing.T) {
	t1 := txt("AB")
	p1 := el(atom.P, t1)
	p2 := el(atom.P, txt("CD"))
	wrapper := el(atom.Div, p2)
	body := el(atom.Body, p1, wrapper)
	sel := selection.NewMemory()
	sel.SetRange(rangeBetween(Position{Ref: t1, Offset: 0}, Position{Ref: p2, Offset: 0}))
	s := New(sel, WithElement(body))

	s.Normalize()
	rng := sel.Current()
	if rng == nil || rng.EndContainer != t1 || rng.EndOffset != 2 {
		t.Errorf("range = %+v, want end pulled past the wrapper onto the first paragraph", rng)
	}
}

func TestNormalize_CanonicalizesCollapsedTextStart(t *testing.T) {
	t2 := txt("cd")
	p := el(atom.P, txt("ab"), el(atom.Br), t2)
	body := el(atom.Body, p)
	sel := selection.NewMemory()
	sel.SetRange(caretAt(Position{Ref: t2, Offset: 0}))
	s := New(sel, WithElement(body))

	s.Normalize()
	rng := sel.Current()
	// Offset 0 of the text after a break canonicalizes to the
	// child-index position just behind the break.
	if rng == nil || rng.EndContainer != p || rng.EndOffset != 2 {
		t.Fatalf("range = %+v, want collapsed at child index 2 of the paragraph", rng)
	}

	after := sel.Current()
	s.Normalize()
	if sel.Current() != after {
		t.Error("second Normalize changed the selection")
	}
}

func TestNormalize_NoSelection(t *testing.T) {
	s := New(selection.NewMemory())
	s.Normalize() // must not panic
}

func TestIsAtStartOfSection(t *testing.T) {
	body, t1, _ := twoParagraphs()
	p1 := body.FirstChild
	p2 := body.LastChild
	sel := selection.NewMemory()
	sel.SetRange(caretAt(Position{Ref: t1, Offset: 0}))
	s := New(sel, WithElement(body))

	if !s.IsAtStartOfSection(p1) {
		t.Error("caret at offset 0 of the first text is the start of its section")
	}
	if s.IsAtStartOfSection(p2) {
		t.Error("caret is not inside the second section")
	}

	sel.SetRange(caretAt(Position{Ref: t1, Offset: 1}))
	if s.IsAtStartOfSection(p1) {
		t.Error("caret at offset 1 is not the section start")
	}
}

func TestIsAtEndOfSection(t *testing.T) {
	body, t1, _ := twoParagraphs()
	p1 := body.FirstChild
	sel := selection.NewMemory()
	sel.SetRange(caretAt(Position{Ref: t1, Offset: 2}))
	s := New(sel, WithElement(body))

	if !s.IsAtEndOfSection(p1) {
		t.Error("caret at the end of the only text is the end of its section")
	}

	sel.SetRange(caretAt(Position{Ref: t1, Offset: 1}))
	if s.IsAtEndOfSection(p1) {
		t.Error("caret at offset 1 is not the section end")
	}
}

func TestSetDefaultElement(t *testing.T) {
	body, _, t2 := twoParagraphs()
	sel := selection.NewMemory()
	sel.SetRange(caretAt(Position{Ref: t2, Offset: 1}))
	s := New(sel)
	s.SetDefaultElement(body)

	got, err := s.Get(CaretEnd, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Ref != body || got.Offset != 5 {
		t.Errorf("got = {%s %d}, want {body 5}", got.Ref.Data, got.Offset)
	}
}
