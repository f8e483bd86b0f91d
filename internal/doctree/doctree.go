// Package doctree models the structured document tree shared by the parsers,
// the converter and the paginator.
package doctree

import "strings"

// Kind labels a container node.
type Kind string

const (
	KindDocument  Kind = "document"
	KindBody      Kind = "body"
	KindParagraph Kind = "paragraph"
	KindTable     Kind = "table"
	KindTableRow  Kind = "table-row"
	KindTableCell Kind = "table-cell"
	KindHeading   Kind = "heading"
	KindList      Kind = "list"
	KindListItem  Kind = "list-item"

	// kindText is the wire label of a text leaf; it never appears on a Container.
	kindText Kind = "text"
)

// Known reports whether k is one of the fixed container kinds.
func (k Kind) Known() bool {
	switch k {
	case KindDocument, KindBody, KindParagraph, KindTable, KindTableRow,
		KindTableCell, KindHeading, KindList, KindListItem:
		return true
	}
	return false
}

// Node is one of Text, Seq or *Container.
type Node interface {
	node()
}

// Text is a leaf holding verbatim text.
type Text string

// Seq is an ordered run of child nodes.
type Seq []Node

// Container is a tagged node wrapping a single payload. Payload may be nil.
type Container struct {
	Kind    Kind
	Payload Node
}

func (Text) node()       {}
func (Seq) node()        {}
func (*Container) node() {}

// New returns a container with the given payload.
func New(kind Kind, payload Node) *Container {
	return &Container{Kind: kind, Payload: payload}
}

// Paragraph is a shorthand for a paragraph holding a single text leaf.
func Paragraph(text string) *Container {
	return New(KindParagraph, Seq{Text(text)})
}

// Document wraps top-level block nodes in the canonical document→body shape.
// Nil children are skipped.
func Document(children ...Node) *Container {
	body := make(Seq, 0, len(children))
	for _, c := range children {
		if c != nil {
			body = append(body, c)
		}
	}
	return New(KindDocument, Seq{New(KindBody, body)})
}

// BodyChildren returns the top-level block nodes of a tree: the payload of
// the first body container found in document order. A tree without a body
// yields the elements of its root sequence, or the root itself.
func BodyChildren(n Node) []Node {
	if body := findBody(n); body != nil {
		return Elements(body.Payload)
	}
	if c, ok := n.(*Container); ok && c.Kind == KindDocument {
		return Elements(c.Payload)
	}
	return Elements(n)
}

func findBody(n Node) *Container {
	switch v := n.(type) {
	case *Container:
		if v == nil {
			return nil
		}
		if v.Kind == KindBody {
			return v
		}
		return findBody(v.Payload)
	case Seq:
		for _, c := range v {
			if b := findBody(c); b != nil {
				return b
			}
		}
	}
	return nil
}

// Elements flattens one level: a Seq yields its children, nil yields
// nothing, anything else yields itself.
func Elements(n Node) []Node {
	switch v := n.(type) {
	case nil:
		return nil
	case Seq:
		return []Node(v)
	case *Container:
		if v == nil {
			return nil
		}
	}
	return []Node{n}
}

// PlainText concatenates every text leaf under n. Sibling block containers
// are separated by a single space.
func PlainText(n Node) string {
	var sb strings.Builder
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case Text:
			sb.WriteString(string(v))
		case Seq:
			for _, c := range v {
				walk(c)
			}
		case *Container:
			if v == nil {
				return
			}
			if sb.Len() > 0 && v.Kind != KindDocument && v.Kind != KindBody {
				sb.WriteByte(' ')
			}
			walk(v.Payload)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
