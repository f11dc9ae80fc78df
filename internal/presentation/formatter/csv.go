package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

// CSVFormatter writes the filtered records as CSV.
type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Format(r Report) error {
	return WriteTableCSV(f.w, r.Table)
}

// WriteTableCSV writes a header of the schema columns followed by one row
// per record. Floats use the shortest exact representation and missing
// measures are empty cells, so the output parses back into the same table.
func WriteTableCSV(out io.Writer, table *model.Table) error {
	w := csv.NewWriter(out)

	if table == nil {
		w.Flush()
		return w.Error()
	}
	schema := table.Schema
	if err := w.Write(schema.Columns()); err != nil {
		return err
	}

	row := make([]string, 0, len(schema.Dimensions)+1+len(schema.Measures))
	for _, rec := range table.Records {
		row = row[:0]
		for _, d := range schema.Dimensions {
			row = append(row, rec.Dims[d])
		}
		row = append(row, formatFloat(rec.Time))
		for _, m := range schema.Measures {
			if v, ok := rec.Value(m); ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
