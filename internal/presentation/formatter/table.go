package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-pkviz/internal/util"
)

// TableFormatter prints the aggregated groups as a box-drawn table.
type TableFormatter struct {
	w io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

func (f *TableFormatter) Format(r Report) error {
	if r.Status != "" {
		fmt.Fprintln(f.w, r.Status)
	}
	if len(r.Groups) == 0 {
		fmt.Fprintln(f.w, "No data")
		return nil
	}

	var headers []string
	for _, kv := range r.Groups[0].Identity {
		headers = append(headers, string(kv.Key))
	}
	keyCols := len(headers)
	headers = append(headers, "Time", "Mean", "SD", "N")

	rows := make([][]string, 0, len(r.Groups))
	total := 0
	for _, g := range r.Groups {
		row := make([]string, 0, len(headers))
		for _, kv := range g.Identity {
			row = append(row, kv.Value)
		}
		row = append(row,
			util.FormatTime(g.Time),
			util.FormatMeasure(g.Mean),
			util.FormatMeasure(g.StdDev),
			fmt.Sprintf("%d", g.Count),
		)
		rows = append(rows, row)
		total += g.Count
	}

	box := newBoxTable(headers, keyCols)
	box.addRows(rows)
	box.footer = make([]string, len(headers))
	box.footer[0] = "Total"
	box.footer[len(headers)-1] = formatNumber(total)
	box.render(f.w)

	if r.Measure != "" {
		fmt.Fprintf(f.w, "%s, %d groups\n", r.Measure.Label(), len(r.Groups))
	}
	return nil
}

// boxTable renders rows with box-drawing borders. The first leftCols
// columns are left aligned, the rest right aligned.
type boxTable struct {
	headers  []string
	rows     [][]string
	footer   []string
	leftCols int
	widths   []int
}

func newBoxTable(headers []string, leftCols int) *boxTable {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	return &boxTable{headers: headers, leftCols: leftCols, widths: widths}
}

func (b *boxTable) addRows(rows [][]string) {
	for _, row := range rows {
		b.fit(row)
	}
	b.rows = append(b.rows, rows...)
}

func (b *boxTable) fit(row []string) {
	for i, value := range row {
		if i < len(b.widths) {
			if w := util.GetDisplayWidth(value); w > b.widths[i] {
				b.widths[i] = w
			}
		}
	}
}

func (b *boxTable) render(w io.Writer) {
	if b.footer != nil {
		b.fit(b.footer)
	}
	b.border(w, "top")
	b.row(w, b.headers, true)
	b.border(w, "middle")
	for _, row := range b.rows {
		b.row(w, row, false)
	}
	if b.footer != nil {
		b.border(w, "middle")
		b.row(w, b.footer, false)
	}
	b.border(w, "bottom")
}

// border prints table borders (top, middle, bottom)
func (b *boxTable) border(w io.Writer, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range b.widths {
		sb.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(b.widths)-1 {
			sb.WriteString(middle)
		}
	}
	sb.WriteString(right)
	fmt.Fprintln(w, sb.String())
}

func (b *boxTable) row(w io.Writer, values []string, header bool) {
	var sb strings.Builder
	sb.WriteString("│")
	for i, width := range b.widths {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		if header || i < b.leftCols {
			sb.WriteString(" " + util.PadRight(value, width) + " │")
		} else {
			sb.WriteString(" " + util.PadLeft(value, width) + " │")
		}
	}
	fmt.Fprintln(w, sb.String())
}

func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, digit)
	}

	return string(result)
}
