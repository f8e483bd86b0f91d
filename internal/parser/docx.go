package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docpager/internal/doctree"
	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
)

// DOCXParser handles .docx files. Page-break runs become break markers.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var b builder
	walkBody(&b, doc.Document.Body.Items)
	src := b.source(titleFrom(filename))
	src.PageEstimate = docxPageCount(data)
	return src, nil
}

// walkBody emits one block per non-empty paragraph and one per table.
func walkBody(b *builder, items []interface{}) {
	for _, item := range items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text, before, after := docxParagraph(it)
			if before {
				b.breakNext()
			}
			if text != "" {
				escaped := html.EscapeString(text)
				if level := docxHeadingLevel(it); level > 0 {
					tag := fmt.Sprintf("h%d", level)
					b.add("<"+tag+">"+escaped+"</"+tag+">",
						doctree.New(doctree.KindHeading, doctree.Seq{doctree.Text(text)}), text)
				} else {
					b.add("<p>"+escaped+"</p>", doctree.Paragraph(text), text)
				}
			}
			if after {
				b.breakNext()
			}
		case *docx.Table:
			markup, node, text := docxTable(it)
			b.add(markup, node, text)
		}
	}
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if len(style) == len("heading1") && strings.HasPrefix(style, "heading") {
		if d := style[len(style)-1]; d >= '1' && d <= '6' {
			return int(d - '0')
		}
	}
	return 0
}

// docxParagraph returns the paragraph text and whether a page break run
// sits before any text (before) or after some text (after).
func docxParagraph(para *docx.Paragraph) (text string, before, after bool) {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch v := rc.(type) {
			case *docx.Text:
				buf.WriteString(v.Text)
			case *docx.BarterRabbet:
				if v.Type != "page" {
					buf.WriteByte(' ')
					continue
				}
				if strings.TrimSpace(buf.String()) == "" {
					before = true
				} else {
					after = true
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), before, after
}

func docxTable(tbl *docx.Table) (string, doctree.Node, string) {
	var sb, plain strings.Builder
	var rows doctree.Seq
	sb.WriteString("<table>")
	for _, row := range tbl.TableRows {
		var cells doctree.Seq
		sb.WriteString("<tr>")
		for _, cell := range row.TableCells {
			var paras doctree.Seq
			sb.WriteString("<td>")
			for _, para := range cell.Paragraphs {
				text, _, _ := docxParagraph(para)
				if text == "" {
					continue
				}
				sb.WriteString("<p>" + html.EscapeString(text) + "</p>")
				plain.WriteString(text + " ")
				paras = append(paras, doctree.Paragraph(text))
			}
			sb.WriteString("</td>")
			cells = append(cells, doctree.New(doctree.KindTableCell, paras))
		}
		sb.WriteString("</tr>")
		rows = append(rows, doctree.New(doctree.KindTableRow, cells))
	}
	sb.WriteString("</table>")
	return sb.String(), doctree.New(doctree.KindTable, rows), plain.String()
}

// docxPageCount reads the <Pages> count the authoring app saved in
// docProps/app.xml. It returns 0 when absent.
func docxPageCount(data []byte) int {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	for _, f := range zr.File {
		if f.Name != "docProps/app.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return 0
		}
		defer rc.Close()
		var props struct {
			Pages int `xml:"Pages"`
		}
		if err := xml.NewDecoder(rc).Decode(&props); err != nil {
			return 0
		}
		return props.Pages
	}
	return 0
}
