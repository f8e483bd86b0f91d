package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docpager/internal/doctree"
	"golang.org/x/net/html"
)

// csvBatchSize is the number of data rows per table block.
const csvBatchSize = 20

// CSVParser handles CSV files. Rows are grouped into tables of
// csvBatchSize, each repeating the header row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Source, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var b builder
	if len(records) == 0 {
		return b.source(titleFrom(filename)), nil
	}

	headers := records[0]
	dataRows := records[1:]
	if len(dataRows) == 0 {
		markup, node, text := csvTable(headers, nil)
		b.add(markup, node, text)
	}
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))
		markup, node, text := csvTable(headers, dataRows[i:end])
		b.add(markup, node, text)
	}
	return b.source(titleFrom(filename)), nil
}

func csvTable(headers []string, rows [][]string) (string, doctree.Node, string) {
	var sb, plain strings.Builder
	var treeRows doctree.Seq

	writeRow := func(cells []string, tag string) {
		var treeCells doctree.Seq
		sb.WriteString("<tr>")
		for _, cell := range cells {
			sb.WriteString("<" + tag + ">" + html.EscapeString(cell) + "</" + tag + ">")
			plain.WriteString(cell + " ")
			treeCells = append(treeCells, doctree.New(doctree.KindTableCell, doctree.Seq{doctree.Text(cell)}))
		}
		sb.WriteString("</tr>")
		treeRows = append(treeRows, doctree.New(doctree.KindTableRow, treeCells))
	}

	sb.WriteString("<table>")
	writeRow(headers, "th")
	for _, row := range rows {
		writeRow(row, "td")
	}
	sb.WriteString("</table>")
	return sb.String(), doctree.New(doctree.KindTable, treeRows), plain.String()
}
