package selektr

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lkmill/selektr/selection"
)

func el(a atom.Atom, kids ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, k := range kids {
		n.AppendChild(k)
	}
	return n
}

func txt(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// twoParagraphs builds body > p(AB) + p(CD), the reference tree used
// throughout: one significant step per paragraph plus four text runes.
func twoParagraphs() (body, t1, t2 *html.Node) {
	t1 = txt("AB")
	t2 = txt("CD")
	body = el(atom.Body, el(atom.P, t1), el(atom.P, t2))
	return body, t1, t2
}

func caretAt(p Position) *selection.Range {
	return &selection.Range{
		StartContainer: p.Ref, StartOffset: p.Offset,
		EndContainer: p.Ref, EndOffset: p.Offset,
	}
}

func rangeBetween(start, end Position) *selection.Range {
	return &selection.Range{
		StartContainer: start.Ref, StartOffset: start.Offset,
		EndContainer: end.Ref, EndOffset: end.Offset,
	}
}
