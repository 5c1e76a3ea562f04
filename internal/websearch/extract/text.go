// Package extract turns fetched HTML into plain text and clips it for tool output.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// mainRegion matches the first <main> element, tags included
var mainRegion = regexp.MustCompile(`(?is)<main[^>]*>.*?</main>`)

// SkipSelectors are page chrome elements that produce no text at all.
// Anchors are dropped with their text, not just their href.
var SkipSelectors = []string{"nav", "img", "form", "button", "input", "select", "a"}

// nonContent never renders as text in a browser either
var nonContent = []string{"script", "style", "noscript", "template", "head", "iframe", "svg"}

// paragraph-level elements are separated by a blank line, the rest by a single newline
var blockGaps = map[atom.Atom]int{
	atom.P:          2,
	atom.H1:         2,
	atom.H2:         2,
	atom.H3:         2,
	atom.H4:         2,
	atom.H5:         2,
	atom.H6:         2,
	atom.Blockquote: 2,
	atom.Pre:        2,
	atom.Table:      2,
	atom.Ul:         2,
	atom.Ol:         2,
	atom.Hr:         2,
	atom.Div:        1,
	atom.Li:         1,
	atom.Tr:         1,
	atom.Dt:         1,
	atom.Dd:         1,
	atom.Dl:         1,
	atom.Section:    1,
	atom.Article:    1,
	atom.Header:     1,
	atom.Footer:     1,
	atom.Main:       1,
	atom.Aside:      1,
	atom.Figure:     1,
	atom.Figcaption: 1,
	atom.Address:    1,
	atom.Body:       1,
}

// ToText converts an HTML document to readable plain text without word wrapping.
// When the document has a <main> region only that region is converted.
func ToText(raw string) string {
	if region := mainRegion.FindString(raw); region != "" {
		raw = region
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	doc.Find(strings.Join(nonContent, ", ")).Remove()
	doc.Find(strings.Join(SkipSelectors, ", ")).Remove()

	var w textWriter
	for _, n := range doc.Nodes {
		w.walk(n)
	}
	return w.String()
}

type textWriter struct {
	sb     strings.Builder
	breaks int  // newlines owed before the next text run
	space  bool // a separating space is owed before the next text run
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Br:
			w.lineBreak(1)
			return
		case atom.Td, atom.Th:
			w.space = true
		}
	}

	gap := 0
	if n.Type == html.ElementNode {
		gap = blockGaps[n.DataAtom]
	}
	w.lineBreak(gap)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	w.lineBreak(gap)
}

func (w *textWriter) text(s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			w.space = true
		}
		return
	}

	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)

	if w.sb.Len() > 0 {
		switch {
		case w.breaks > 0:
			w.sb.WriteString(strings.Repeat("\n", w.breaks))
		case w.space || unicode.IsSpace(first):
			w.sb.WriteByte(' ')
		}
	}
	w.breaks = 0
	w.space = unicode.IsSpace(last)
	w.sb.WriteString(strings.Join(fields, " "))
}

func (w *textWriter) lineBreak(n int) {
	if n > w.breaks {
		w.breaks = n
	}
}

func (w *textWriter) String() string {
	return w.sb.String()
}
