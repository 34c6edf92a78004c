// Package extract turns page HTML into plain readable text and reading
// position. All functions are best-effort: malformed or sparse input yields
// a sentinel text or zero values, never an error.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// DefaultMaxChars bounds extracted text when the caller passes 0.
	DefaultMaxChars = 4000

	// TooShort is returned when a page has no usable text.
	TooShort = "Content too short for summarization."

	minCandidateChars = 200
	minFragmentChars  = 20
	maxFragments      = 200
)

// candidates are tried in order; the first one with enough text wins.
var candidates = []string{"article", "main", "section", "#content", "body"}

// skipped elements never contribute text.
var skipped = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"head":     {},
}

// block elements are separated by whitespace in the visible text.
var block = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "figcaption": {}, "figure": {},
	"footer": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"header": {}, "hr": {}, "li": {}, "main": {}, "nav": {}, "ol": {}, "p": {},
	"pre": {}, "section": {}, "table": {}, "td": {}, "th": {}, "tr": {}, "ul": {},
}

// ExtractReadableText returns the primary text of doc, whitespace-collapsed
// and cut to maxChars runes.
func ExtractReadableText(doc *goquery.Document, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if doc == nil {
		return TooShort
	}

	text := ""
	for _, sel := range candidates {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if t := collapse(VisibleText(s)); utf8.RuneCountInString(t) > minCandidateChars {
			text = t
			break
		}
	}

	if text == "" {
		text = collapse(strings.Join(textFragments(doc.Selection), " "))
	}

	if text == "" {
		return TooShort
	}
	return truncate(text, maxChars)
}

// VisibleText renders the text of a selection the way a browser would
// expose it: script-like elements skipped, blocks separated by whitespace.
func VisibleText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeText(&b, n)
	}
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if _, ok := skipped[n.Data]; ok {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	_, isBlock := block[n.Data]
	if isBlock {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if isBlock {
		b.WriteByte(' ')
	}
}

// textFragments walks every text node under the selection and keeps the
// ones long enough to be prose, up to maxFragments.
func textFragments(s *goquery.Selection) []string {
	parts := make([]string, 0, 32)

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if _, ok := skipped[n.Data]; ok {
				return true
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); utf8.RuneCountInString(t) > minFragmentChars {
				parts = append(parts, t)
				if len(parts) >= maxFragments {
					return false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}

	for _, n := range s.Nodes {
		if !walk(n) {
			break
		}
	}
	return parts
}

// collapse replaces runs of whitespace with a single space and trims.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
