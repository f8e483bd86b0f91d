// Package blocks splits a markup stream into its ordered top-level blocks.
package blocks

import (
	"strings"

	"golang.org/x/net/html"
)

// Kind is the category of a top-level block.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindTable     Kind = "table"
	KindListItem  Kind = "list-item"
)

// Block is one top-level unit of markup. Markup is the exact source text of
// the span; Text is its plain text with whitespace runs collapsed.
type Block struct {
	Index  int
	Kind   Kind
	Level  int // heading level 1-6, 0 otherwise
	Markup string
	Text   string
}

// span accumulates a block while its closing tag is pending.
type span struct {
	tag   string
	kind  Kind
	level int
	// depth counts nested tables inside a table span, or nested lists
	// inside a list-item span.
	depth int
	raw   strings.Builder
	text  strings.Builder
}

func (s *span) block(index int) Block {
	return Block{
		Index:  index,
		Kind:   s.kind,
		Level:  s.level,
		Markup: s.raw.String(),
		Text:   collapse(s.text.String()),
	}
}

// Extract returns the top-level p, h1-h6, table and li spans of markup in
// document order. Markup outside those spans is skipped, as is a span left
// unclosed at the end of input. End tags HTML allows to be omitted are
// inferred: a paragraph or heading ends where the next block starts, and
// a list item ends at the next sibling item or the end of its list. Runs
// in a single pass over the input.
func Extract(markup string) []Block {
	z := html.NewTokenizer(strings.NewReader(markup))
	var out []Block
	var cur *span

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a tokenizer error; either way nothing more to read.
			break
		}
		raw := string(z.Raw())
		var tag string
		if tt == html.StartTagToken || tt == html.EndTagToken || tt == html.SelfClosingTagToken {
			name, _ := z.TagName()
			tag = string(name)
		}

		if cur != nil && closedBy(cur, tt, tag) {
			out = append(out, cur.block(len(out)))
			cur = nil
		}

		if cur == nil {
			if tt != html.StartTagToken {
				continue
			}
			kind, level, ok := blockTag(tag)
			if !ok {
				continue
			}
			cur = &span{tag: tag, kind: kind, level: level}
			cur.raw.WriteString(raw)
			continue
		}

		cur.raw.WriteString(raw)
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if tt == html.StartTagToken && nests(cur.kind, tag) {
				cur.depth++
			}
			if separatesText(tag) {
				cur.text.WriteByte(' ')
			}
		case html.EndTagToken:
			if separatesText(tag) {
				cur.text.WriteByte(' ')
			}
			if nests(cur.kind, tag) && cur.depth > 0 {
				cur.depth--
				continue
			}
			if ends(cur, tag) {
				out = append(out, cur.block(len(out)))
				cur = nil
			}
		case html.TextToken:
			cur.text.Write(z.Text())
		}
	}
	return out
}

// nests reports whether tag opens a nested level inside a span of kind.
func nests(kind Kind, tag string) bool {
	switch kind {
	case KindTable:
		return tag == "table"
	case KindListItem:
		return tag == "ul" || tag == "ol"
	}
	return false
}

// ends reports whether the end tag closes cur at its own level.
func ends(cur *span, tag string) bool {
	switch cur.kind {
	case KindHeading:
		return isHeading(tag)
	case KindTable, KindListItem:
		return tag == cur.tag && cur.depth == 0
	}
	return tag == cur.tag
}

// closedBy reports whether the token implicitly ends cur before it. The
// token itself is not part of cur.
func closedBy(cur *span, tt html.TokenType, tag string) bool {
	switch cur.kind {
	case KindParagraph, KindHeading:
		if tt != html.StartTagToken {
			return false
		}
		switch tag {
		case "p", "table", "ul", "ol", "li":
			return true
		}
		return isHeading(tag)
	case KindListItem:
		if cur.depth > 0 {
			return false
		}
		return (tt == html.StartTagToken && tag == "li") ||
			(tt == html.EndTagToken && (tag == "ul" || tag == "ol"))
	}
	return false
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

func blockTag(tag string) (Kind, int, bool) {
	switch tag {
	case "p":
		return KindParagraph, 0, true
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return KindHeading, int(tag[1] - '0'), true
	case "table":
		return KindTable, 0, true
	case "li":
		return KindListItem, 0, true
	}
	return "", 0, false
}

// separatesText reports whether a nested tag marks a word boundary in the
// block's plain text.
func separatesText(tag string) bool {
	switch tag {
	case "td", "th", "tr", "p", "li", "br", "div",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Kinds lists the kind of each block in order.
func Kinds(bs []Block) []Kind {
	out := make([]Kind, len(bs))
	for i, b := range bs {
		out[i] = b.Kind
	}
	return out
}

// Join concatenates the markup of bs in order.
func Join(bs []Block) string {
	var sb strings.Builder
	for _, b := range bs {
		sb.WriteString(b.Markup)
	}
	return sb.String()
}
