package tables

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/leofalp/marketdata/core/fetch"
)

// Table is a rectangular view of an HTML table. Rows may be shorter than the
// widest row; Text pads them.
type Table struct {
	Caption string
	Header  []string
	Rows    [][]string
}

// Columns returns the number of columns of the widest row, header included.
func (t Table) Columns() int {
	return lo.Reduce(t.Rows, func(acc int, row []string, _ int) int {
		return max(acc, len(row))
	}, len(t.Header))
}

// Text renders the table as aligned plain text:
//
//	Index    | Last
//	---------+---------
//	NIFTY 50 | 24500.50
func (t Table) Text() string {
	columns := t.Columns()
	if columns == 0 {
		return strings.TrimSpace(t.Caption)
	}

	widths := make([]int, columns)
	measure := func(row []string, _ int) {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	measure(t.Header, 0)
	lo.ForEach(t.Rows, measure)

	var b strings.Builder
	if t.Caption != "" {
		b.WriteString(t.Caption)
		b.WriteString("\n\n")
	}
	if len(t.Header) > 0 {
		writeRow(&b, t.Header, widths)
		separators := lo.Map(widths, func(w int, _ int) string {
			return strings.Repeat("-", w)
		})
		b.WriteString(strings.Join(separators, "-+-"))
		b.WriteString("\n")
	}
	for _, row := range t.Rows {
		writeRow(&b, row, widths)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRow(b *strings.Builder, row []string, widths []int) {
	cells := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = cell + strings.Repeat(" ", w-utf8.RuneCountInString(cell))
	}
	b.WriteString(strings.TrimRight(strings.Join(cells, " | "), " "))
	b.WriteString("\n")
}

// Extract returns every non-empty table in the document, outermost first in
// document order. Cells of nested tables belong to the nested table only.
// A document without any usable table yields a ParseFailure error.
func Extract(htmlText string) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fetch.NewParseFailureError("parse html for tables", err)
	}

	var tables []Table
	doc.Find("table").Each(func(_ int, tableSel *goquery.Selection) {
		if table, ok := extractTable(tableSel); ok {
			tables = append(tables, table)
		}
	})

	if len(tables) == 0 {
		return nil, fetch.NewParseFailureError("no table found in page", nil)
	}
	return tables, nil
}

// ExtractFirst returns the first table of the document.
func ExtractFirst(htmlText string) (Table, error) {
	tables, err := Extract(htmlText)
	if err != nil {
		return Table{}, err
	}
	return tables[0], nil
}

// TextAll renders tables one after another, separated by a blank line.
func TextAll(tables []Table) string {
	return strings.Join(lo.Map(tables, func(t Table, _ int) string {
		return t.Text()
	}), "\n\n")
}

func extractTable(tableSel *goquery.Selection) (Table, bool) {
	table := Table{
		Caption: cleanText(tableSel.ChildrenFiltered("caption").First().Text()),
	}

	rows := tableSel.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(tableSel)
	})

	rows.Each(func(i int, tr *goquery.Selection) {
		cellSel := tr.ChildrenFiltered("th, td")
		cells := cellSel.Map(func(_ int, cell *goquery.Selection) string {
			return cleanText(cell.Text())
		})
		if lo.EveryBy(cells, func(cell string) bool { return cell == "" }) {
			return
		}

		inHead := tr.ParentsFiltered("thead").Length() > 0
		allHeaderCells := cellSel.Length() == cellSel.Filter("th").Length()
		if table.Header == nil && len(table.Rows) == 0 && (inHead || allHeaderCells) {
			table.Header = cells
			return
		}
		table.Rows = append(table.Rows, cells)
	})

	if table.Header == nil && len(table.Rows) == 0 {
		return Table{}, false
	}
	return table, true
}

// cleanText collapses runs of whitespace, non-breaking spaces included.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
