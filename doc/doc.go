// Package doc builds selectable node trees from HTML, Markdown and
// DOCX sources. Parsed fragments are cleaned of inter-block whitespace
// so their offset structure matches trees built directly by an editor.
package doc

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lkmill/selektr/dom"
)

// blockContainers are elements whose whitespace-only text children are
// formatting artifacts, not content.
var blockContainers = dom.NewTagSet(atom.Body, atom.Div, atom.Ul, atom.Ol, atom.Blockquote)

// ParseHTML parses an HTML document or fragment and returns its body
// element as the editing root.
func ParseHTML(r io.Reader) (*html.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	body := findBody(root)
	if body == nil {
		return nil, fmt.Errorf("parse html: no body element")
	}
	stripWhitespace(body)
	return body, nil
}

// ParseHTMLString is ParseHTML over a string.
func ParseHTMLString(s string) (*html.Node, error) {
	return ParseHTML(strings.NewReader(s))
}

// ParseMarkdown renders Markdown through goldmark and parses the
// result, returning the body element.
func ParseMarkdown(src []byte) (*html.Node, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return ParseHTML(&buf)
}

// block is one Word paragraph reduced to what the tree needs: its
// heading level (0 for body text) and its text.
type block struct {
	level int
	text  string
}

var headings = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// ParseDocx reads a .docx document and returns a body element with one
// section per paragraph: headings become h1..h6, everything else p.
// Empty paragraphs are dropped.
func ParseDocx(r io.Reader) (*html.Node, error) {
	// go-docx needs a ReaderAt plus size, so buffer the input.
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	d, err := docx.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var blocks []block
	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		blocks = append(blocks, block{level: paragraphLevel(para), text: text})
	}
	return blockTree(blocks), nil
}

// blockTree builds the body element the rest of the library selects
// within.
func blockTree(blocks []block) *html.Node {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	for _, b := range blocks {
		tag := atom.P
		if b.level >= 1 && b.level <= len(headings) {
			tag = headings[b.level-1]
		}
		sec := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
		sec.AppendChild(&html.Node{Type: html.TextNode, Data: b.text})
		body.AppendChild(sec)
	}
	return body
}

// headingLevel maps a Word paragraph style name to a heading level.
// Word uses both "Heading1" and "heading 1" depending on locale and
// producer; anything else is body text.
func headingLevel(style string) int {
	s := strings.ReplaceAll(strings.ToLower(style), " ", "")
	rest, ok := strings.CutPrefix(s, "heading")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > len(headings) {
		return 0
	}
	return n
}

func paragraphLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	return headingLevel(para.Properties.Style.Val)
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// Text returns the concatenated text content of n's subtree.
func Text(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// stripWhitespace removes whitespace-only text nodes sitting between
// blocks, where serializers put newlines that carry no content.
func stripWhitespace(n *html.Node) {
	c := n.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type == html.TextNode && dom.Is(n, blockContainers) && strings.TrimSpace(c.Data) == "" {
			n.RemoveChild(c)
		} else {
			stripWhitespace(c)
		}
		c = next
	}
}
