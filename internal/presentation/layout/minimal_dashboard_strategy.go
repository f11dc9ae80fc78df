package layout

import (
	"fmt"
	"io"

	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/penwyp/go-pkviz/internal/util"
)

// MinimalLayoutStrategy prints a single status line
type MinimalLayoutStrategy struct{}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal Dashboard"
}

func (s *MinimalLayoutStrategy) Render(w io.Writer, report formatter.Report, param LayoutParam) {
	updated := "-"
	if !param.LastUpdate.IsZero() {
		updated = param.LastUpdate.Format("15:04:05")
	}
	line := fmt.Sprintf("pkviz: %s | %d series | %s groups | %s | updated %s",
		report.Measure, len(report.Chart.Series), util.FormatNumber(len(report.Groups)), scaleName(report.Chart), updated)
	if report.Chart.Annotation != "" {
		line += " | " + report.Chart.Annotation
	}
	if param.Sizer != nil {
		line = param.Sizer.Fit(line)
	}
	fmt.Fprintln(w, line)
}
