package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/penwyp/go-pkviz/internal/util"
)

// FullLayoutStrategy draws the chart settings, the filter controls and the
// aggregated points
type FullLayoutStrategy struct{}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Dashboard"
}

func (s *FullLayoutStrategy) Render(w io.Writer, report formatter.Report, param LayoutParam) {
	sizer := param.Sizer
	if sizer == nil {
		sizer = NewSizer(defaultWidth, defaultHeight)
	}
	chart := report.Chart

	fmt.Fprintln(w, util.FormatHeaderTitle(sizer.Fit("go-pkviz · "+chart.Title)))
	fmt.Fprintln(w, util.FormatSectionSeparator(sizer.Width))

	fmt.Fprintln(w, sizer.Fit(fmt.Sprintf("Measure: %s   Scale: %s   Error bars: %s   Fit: %s",
		report.Measure.Label(), scaleName(chart), onOff(param.State.ShowErrorBars), param.FitModel)))
	fmt.Fprintln(w, sizer.Fit(fmt.Sprintf("Series: %d   Groups: %d   Clipped: %d   Sort: %s",
		len(chart.Series), len(report.Groups), chart.Clipped, param.SortLabel)))
	if chart.Annotation != "" {
		fmt.Fprintln(w, util.FormatWarning(sizer.Fit(chart.Annotation)))
	}
	fmt.Fprintln(w)

	header := 5
	if len(report.Controls) > 0 {
		fmt.Fprintln(w, util.FormatDataTitle("Filters"))
		for _, c := range report.Controls {
			fmt.Fprintln(w, sizer.Fit(fmt.Sprintf("  %s %s of %s",
				sizer.PadString(string(c.Dimension), 12, true),
				selectionLabel(c.Selected),
				strings.Join(c.Choices, ", "))))
		}
		fmt.Fprintln(w)
		header += len(report.Controls) + 2
	}

	groups := param.Groups
	if groups == nil {
		groups = report.Groups
	}
	if len(groups) == 0 {
		return
	}

	fmt.Fprintln(w, util.FormatDataTitle("Aggregated points"))
	labelWidth := sizer.Width - 44
	if labelWidth < 16 {
		labelWidth = 16
	}
	fmt.Fprintln(w, sizer.PadString("Series", labelWidth, true)+
		sizer.PadString("Time", 10, false)+
		sizer.PadString("Mean", 12, false)+
		sizer.PadString("SD", 12, false)+
		sizer.PadString("N", 6, false))

	rows := sizer.BodyLines(header+2, 2)
	for i, g := range groups {
		if i >= rows {
			fmt.Fprintf(w, "  … %d more\n", len(groups)-rows)
			break
		}
		fmt.Fprintln(w, util.PadRight(g.Identity.Label(), labelWidth)+
			sizer.PadString(util.FormatTime(g.Time), 10, false)+
			sizer.PadString(util.FormatMeasure(g.Mean), 12, false)+
			sizer.PadString(util.FormatMeasure(g.StdDev), 12, false)+
			sizer.PadString(fmt.Sprintf("%d", g.Count), 6, false))
	}
}

func scaleName(chart pipeline.ChartSpec) string {
	if chart.YAxis.Type == pipeline.AxisLog {
		return "log"
	}
	return "linear"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func selectionLabel(selected []string) string {
	if len(selected) == 0 {
		return "[all]"
	}
	return "[" + strings.Join(selected, ", ") + "]"
}
