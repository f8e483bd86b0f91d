package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docpager/internal/blocks"
	"github.com/dgallion1/docpager/internal/convert"
	"github.com/dgallion1/docpager/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. The source markup is kept as-is and each
// extracted block is converted to its own tree node.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	src, err := fromMarkup(string(data), titleFrom(filename))
	if err != nil {
		return nil, err
	}
	if title := findTitle(string(data)); title != "" {
		src.Title = title
	}
	return src, nil
}

// fromMarkup pairs every top-level block of markup with its tree form.
func fromMarkup(markup, title string) (*Source, error) {
	var b builder
	for _, blk := range blocks.Extract(markup) {
		tree, err := convert.FromMarkup(blk.Markup)
		if err != nil {
			return nil, fmt.Errorf("convert block %d: %w", blk.Index, err)
		}
		var node doctree.Node
		if children := doctree.BodyChildren(tree); len(children) > 0 {
			node = children[0]
		}
		b.add(blk.Markup, node, blk.Text)
	}
	src := b.source(title)
	// Keep the original text verbatim, including markup between blocks.
	src.Markup = markup
	return src, nil
}

func findTitle(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	var find func(*html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if t := find(c); t != "" {
				return t
			}
		}
		return ""
	}
	return find(doc)
}
