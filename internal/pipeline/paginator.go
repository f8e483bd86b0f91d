package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/dgallion1/docpager/internal/blocks"
	"github.com/dgallion1/docpager/internal/convert"
	"github.com/dgallion1/docpager/internal/doctree"
	"github.com/dgallion1/docpager/internal/paginate"
)

// Input is one document in both linear forms plus the optional page
// signals.
type Input struct {
	Markup string
	// Tree is the structured form; when nil it is derived block by block
	// from Markup.
	Tree doctree.Node
	// Breaks[i] flags a page break before block i; nil when unknown.
	Breaks []bool
	// PageTexts is the plain text of each rendered page; nil when the
	// document could not be rendered.
	PageTexts []string
	// PageEstimate is the initial page count, used for equal division.
	PageEstimate int
}

// PageResult is one page of output.
type PageResult struct {
	Number   int    `json:"page"`
	Markup   string `json:"html"`
	TreeJSON string `json:"json"`
	Blocks   []int  `json:"blocks"`
}

// Result is the paged form of a document.
type Result struct {
	Filename  string        `json:"filename,omitempty"`
	Title     string        `json:"title,omitempty"`
	Markup    string        `json:"html"`
	TreeJSON  string        `json:"json"`
	Pages     []PageResult  `json:"pages"`
	PageCount int           `json:"page_count"`
	Tier      paginate.Tier `json:"tier"`
	Blocks    int           `json:"blocks"`
	Image     string        `json:"image,omitempty"`
	// Warnings lists renderer steps that failed and were skipped.
	Warnings []string `json:"warnings,omitempty"`
}

// Paginator splits documents into pages. It holds no per-document state and
// is safe for concurrent use.
type Paginator struct {
	log *slog.Logger
}

func NewPaginator(log *slog.Logger) *Paginator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Paginator{log: log}
}

// Run extracts the block sequence, picks the first applicable tier and
// projects the partition onto both forms. The reported page count is the
// number of pages in the chosen partition.
func (p *Paginator) Run(in Input) (*Result, error) {
	bs := blocks.Extract(in.Markup)

	tree := in.Tree
	var nodes []doctree.Node
	if tree != nil {
		nodes = doctree.BodyChildren(tree)
	} else {
		nodes = nodesFromBlocks(bs)
		tree = doctree.Document(nodes...)
	}
	if len(nodes) != len(bs) {
		p.log.Warn("tree and markup block counts differ",
			"blocks", len(bs), "tree_nodes", len(nodes))
	}

	texts := make([]string, len(bs))
	for i, b := range bs {
		texts[i] = b.Text
	}

	sel := paginate.Select(paginate.Input{
		Blocks:     len(bs),
		Breaks:     in.Breaks,
		PageTexts:  in.PageTexts,
		BlockTexts: texts,
		NumPages:   max(1, in.PageEstimate),
	})
	for _, t := range sel.Rejected {
		p.log.Debug("tier rejected", "tier", t)
	}
	p.log.Info("paginated document",
		"tier", sel.Tier, "pages", len(sel.Partition), "blocks", len(bs), "estimate", in.PageEstimate)

	treeJSON, err := doctree.EncodeIndent(tree)
	if err != nil {
		return nil, err
	}

	pages := paginate.Assemble(sel.Partition, bs, nodes)
	out := make([]PageResult, len(pages))
	for i, pg := range pages {
		js, err := doctree.EncodeIndent(pg.Tree)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pg.Number, err)
		}
		out[i] = PageResult{Number: pg.Number, Markup: pg.Markup, TreeJSON: js, Blocks: pg.Indices}
	}

	return &Result{
		Markup:    in.Markup,
		TreeJSON:  treeJSON,
		Pages:     out,
		PageCount: len(out),
		Tier:      sel.Tier,
		Blocks:    len(bs),
	}, nil
}

// nodesFromBlocks converts each block's markup into its tree form.
func nodesFromBlocks(bs []blocks.Block) []doctree.Node {
	nodes := make([]doctree.Node, len(bs))
	for i, b := range bs {
		tree, err := convert.FromMarkup(b.Markup)
		if err != nil {
			continue
		}
		if children := doctree.BodyChildren(tree); len(children) > 0 {
			nodes[i] = children[0]
		}
	}
	return nodes
}

// PagesMarkup lists the markup of each page in order.
func (r *Result) PagesMarkup() []string {
	out := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		out[i] = p.Markup
	}
	return out
}

// PagesTreeJSON lists the tree JSON of each page in order.
func (r *Result) PagesTreeJSON() []string {
	out := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		out[i] = p.TreeJSON
	}
	return out
}
