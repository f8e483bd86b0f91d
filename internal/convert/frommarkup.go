package convert

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docpager/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromMarkup parses an HTML fragment into a document→body tree. Inline
// formatting is flattened into text; elements with no tree equivalent keep
// their tag name as an unknown kind.
func FromMarkup(markup string) (doctree.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	var children []doctree.Node
	for _, n := range nodes {
		children = append(children, blockNodes(n)...)
	}
	return doctree.Document(children...), nil
}

func blockNodes(n *html.Node) []doctree.Node {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			return []doctree.Node{doctree.Paragraph(t)}
		}
		return nil
	case html.ElementNode:
	default:
		return nil
	}

	switch n.Data {
	case "p":
		return []doctree.Node{doctree.New(doctree.KindParagraph, inline(n))}
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return []doctree.Node{doctree.New(doctree.KindHeading, inline(n))}
	case "table":
		return []doctree.Node{tableNode(n)}
	case "ul", "ol":
		return []doctree.Node{listNode(n)}
	case "li":
		return []doctree.Node{listItemNode(n)}
	case "div", "section", "article", "main", "body", "span", "header", "footer":
		return childBlocks(n)
	case "script", "style", "head", "br", "hr":
		return nil
	}
	return []doctree.Node{doctree.New(doctree.Kind(n.Data), inline(n))}
}

func childBlocks(n *html.Node) []doctree.Node {
	var out []doctree.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, blockNodes(c)...)
	}
	return out
}

func tableNode(n *html.Node) doctree.Node {
	var rows doctree.Seq
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				rows = append(rows, rowNode(c))
			case "thead", "tbody", "tfoot":
				walk(c)
			}
		}
	}
	walk(n)
	return doctree.New(doctree.KindTable, rows)
}

func rowNode(tr *html.Node) doctree.Node {
	var cells doctree.Seq
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, doctree.New(doctree.KindTableCell, doctree.Seq(childBlocks(c))))
		}
	}
	return doctree.New(doctree.KindTableRow, cells)
}

func listNode(n *html.Node) doctree.Node {
	var items doctree.Seq
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			items = append(items, listItemNode(c))
		}
	}
	return doctree.New(doctree.KindList, items)
}

// listItemNode keeps nested lists as children after the item's own text.
func listItemNode(li *html.Node) doctree.Node {
	var text strings.Builder
	var nested doctree.Seq
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
			nested = append(nested, listNode(c))
			continue
		}
		text.WriteString(textContent(c))
	}
	payload := doctree.Seq{doctree.Text(strings.TrimSpace(text.String()))}
	return doctree.New(doctree.KindListItem, append(payload, nested...))
}

func inline(n *html.Node) doctree.Seq {
	return doctree.Seq{doctree.Text(strings.TrimSpace(textContent(n)))}
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
