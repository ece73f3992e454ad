package selektr

import "errors"

var (
	// ErrNoSelection is returned when an operation needs an active
	// selection range and the host reports none.
	ErrNoSelection = errors.New("selektr: no active selection")

	// ErrInvalidCaret is returned by Get for a caret value other than
	// CaretStart or CaretEnd.
	ErrInvalidCaret = errors.New("selektr: invalid caret")

	// ErrOutOfBounds is returned by Set when a boundary offset exceeds
	// its node's structural bound. The selection is left untouched.
	ErrOutOfBounds = errors.New("selektr: position out of bounds")

	// ErrDetachedNode is returned by Set when a boundary node is no
	// longer attached under the scoping element.
	ErrDetachedNode = errors.New("selektr: node detached from scope")

	// ErrUnknownHandle is returned when a saved position's handle is
	// not present in the registry.
	ErrUnknownHandle = errors.New("selektr: unknown node handle")
)
