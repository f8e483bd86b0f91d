package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docpager/internal/doctree"
)

// Source is a parsed document in both linear forms. Markup and Tree list
// the same top-level blocks in the same order.
type Source struct {
	Title  string
	Markup string
	Tree   doctree.Node
	// Breaks[i] reports a page break before block i. Nil when the format
	// carries no page-break markers.
	Breaks []bool
	// PageEstimate is the page count recorded by the document itself, 0
	// when unknown.
	PageEstimate int
	Words        int
}

// Parser converts raw document bytes into a Source.
type Parser interface {
	Parse(r io.Reader, filename string) (*Source, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func titleFrom(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

// builder emits blocks to markup and tree in lock-step.
type builder struct {
	markup  strings.Builder
	nodes   []doctree.Node
	breaks  []bool
	pending bool
	marked  bool
	words   int
}

// add appends one block. A pending break attaches to it.
func (b *builder) add(markup string, node doctree.Node, text string) {
	b.markup.WriteString(markup)
	b.nodes = append(b.nodes, node)
	b.breaks = append(b.breaks, b.pending)
	b.pending = false
	b.words += len(strings.Fields(text))
}

// breakNext marks a page break before the next block added.
func (b *builder) breakNext() {
	b.pending = true
	b.marked = true
}

// source finishes the document. Breaks stay nil unless the format reported
// at least one marker.
func (b *builder) source(title string) *Source {
	src := &Source{
		Title:  title,
		Markup: b.markup.String(),
		Tree:   doctree.Document(b.nodes...),
		Words:  b.words,
	}
	if b.marked {
		src.Breaks = b.breaks
	}
	return src
}
