package paginate

import (
	"strings"

	"github.com/dgallion1/docpager/internal/blocks"
	"github.com/dgallion1/docpager/internal/doctree"
)

// Page is one reconstructed page in both representations.
type Page struct {
	Number  int // 1-based
	Indices []int
	Markup  string
	Tree    *doctree.Container
}

// Assemble projects p onto the block markup and the matching tree nodes.
// nodes[i] is the tree form of blocks[i]; missing or nil nodes are skipped.
// An empty page yields empty markup and a body with no children.
func Assemble(p Partition, bs []blocks.Block, nodes []doctree.Node) []Page {
	out := make([]Page, len(p))
	for pi, indices := range p {
		var sb strings.Builder
		children := make([]doctree.Node, 0, len(indices))
		for _, idx := range indices {
			if idx < len(bs) {
				sb.WriteString(bs[idx].Markup)
			}
			if idx < len(nodes) && nodes[idx] != nil {
				children = append(children, nodes[idx])
			}
		}
		out[pi] = Page{
			Number:  pi + 1,
			Indices: indices,
			Markup:  sb.String(),
			Tree:    doctree.Document(children...),
		}
	}
	return out
}
