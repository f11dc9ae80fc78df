package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/pipeline"
)

// Report is the output of one render cycle.
type Report struct {
	Measure  model.Measure
	Table    *model.Table // filtered records
	Groups   []model.AggregatedGroup
	Chart    pipeline.ChartSpec
	Summary  []pipeline.SubjectSummary
	Controls []pipeline.Control
	Status   string
}

// Formatter writes a report in one output format.
type Formatter interface {
	Format(r Report) error
}

// New returns the formatter for an output name: table, json, csv or summary.
func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "", "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	}
	return nil, fmt.Errorf("unsupported output format %q", name)
}
