package selektr

import (
	"log/slog"

	"golang.org/x/net/html"

	"github.com/lkmill/selektr/dom"
)

// Option configures a Selektr instance.
type Option func(*Selektr)

// WithLogger sets the logger used for debug output on rejected
// boundaries and normalization adjustments.
func WithLogger(log *slog.Logger) Option {
	return func(s *Selektr) {
		s.log = log
	}
}

// WithElement sets the default scoping element consulted when an
// operation is not given an explicit one.
func WithElement(el *html.Node) Option {
	return func(s *Selektr) {
		s.element = el
	}
}

// WithSections overrides the tag set treated as sections.
func WithSections(tags dom.TagSet) Option {
	return func(s *Selektr) {
		s.sections = tags
	}
}
