package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docpager/internal/doctree"
	"golang.org/x/net/html"
)

// TextParser handles plain text files. Blank lines separate paragraphs and
// a form feed marks a page break.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b builder
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		para := current.String()
		b.add("<p>"+html.EscapeString(para)+"</p>", doctree.Paragraph(para), para)
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		for strings.Contains(line, "\f") {
			head, tail, _ := strings.Cut(line, "\f")
			if strings.TrimSpace(head) != "" {
				appendLine(&current, head)
			}
			flush()
			b.breakNext()
			line = tail
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		appendLine(&current, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.source(titleFrom(filename)), nil
}

func appendLine(sb *strings.Builder, line string) {
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(line)
}
