// Package convert maps document trees to markup and back.
package convert

import (
	"strconv"
	"strings"

	"github.com/dgallion1/docpager/internal/blocks"
	"github.com/dgallion1/docpager/internal/doctree"
)

var tagTable = map[doctree.Kind]string{
	doctree.KindDocument:  "div",
	doctree.KindBody:      "div",
	doctree.KindParagraph: "p",
	doctree.KindTable:     "table",
	doctree.KindTableRow:  "tr",
	doctree.KindTableCell: "td",
	doctree.KindHeading:   "h2",
	doctree.KindList:      "ul",
	doctree.KindListItem:  "li",
}

// genericTag wraps containers of unknown kind.
const genericTag = "div"

// ToMarkup renders a tree as markup. Text leaves are written verbatim.
// A paragraph whose first payload element is text that reads as a heading
// is emitted as that heading level instead.
func ToMarkup(n doctree.Node) string {
	var sb strings.Builder
	render(&sb, n)
	return sb.String()
}

func render(sb *strings.Builder, n doctree.Node) {
	switch v := n.(type) {
	case doctree.Text:
		sb.WriteString(string(v))
	case doctree.Seq:
		for _, c := range v {
			render(sb, c)
		}
	case *doctree.Container:
		if v == nil {
			return
		}
		tag := tagFor(v)
		sb.WriteString("<" + tag + ">")
		render(sb, v.Payload)
		sb.WriteString("</" + tag + ">")
	}
}

func tagFor(c *doctree.Container) string {
	if c.Kind == doctree.KindParagraph {
		if text, ok := leadingText(c.Payload); ok {
			if level := InferHeading(text); level > 0 {
				return "h" + strconv.Itoa(level)
			}
		}
	}
	if tag, ok := tagTable[c.Kind]; ok {
		return tag
	}
	return genericTag
}

func leadingText(payload doctree.Node) (string, bool) {
	switch v := payload.(type) {
	case doctree.Text:
		return string(v), true
	case doctree.Seq:
		if len(v) > 0 {
			if t, ok := v[0].(doctree.Text); ok {
				return string(t), true
			}
		}
	}
	return "", false
}

// BlockKinds lists the kinds of the top-level blocks the rendering of n
// would contain, in order.
func BlockKinds(n doctree.Node) []blocks.Kind {
	var out []blocks.Kind
	var walk func(doctree.Node)
	walk = func(n doctree.Node) {
		switch v := n.(type) {
		case doctree.Seq:
			for _, c := range v {
				walk(c)
			}
		case *doctree.Container:
			if v == nil {
				return
			}
			switch v.Kind {
			case doctree.KindParagraph:
				if strings.HasPrefix(tagFor(v), "h") {
					out = append(out, blocks.KindHeading)
				} else {
					out = append(out, blocks.KindParagraph)
				}
			case doctree.KindHeading:
				out = append(out, blocks.KindHeading)
			case doctree.KindTable:
				out = append(out, blocks.KindTable)
			case doctree.KindListItem:
				out = append(out, blocks.KindListItem)
			default:
				walk(v.Payload)
			}
		}
	}
	walk(n)
	return out
}
