// Package render turns a ChartSpec into an interactive HTML page.
package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/penwyp/go-pkviz/internal/pipeline"
)

// echarts symbol and line type names for the chart palette
var (
	symbolNames = map[string]string{
		"square":      "rect",
		"circle":      "circle",
		"diamond":     "diamond",
		"cross":       "pin",
		"triangle-up": "triangle",
		"pentagon":    "roundRect",
		"x":           "arrow",
		"triangle-se": "triangle",
		"hexagon":     "emptyCircle",
	}
	dashNames = map[string]string{
		"solid":       "solid",
		"dash":        "dashed",
		"dot":         "dotted",
		"dashdot":     "dashed",
		"longdash":    "dashed",
		"longdashdot": "dotted",
	}
)

// EChartsRenderer renders charts with go-echarts.
type EChartsRenderer struct {
	PageTitle string
}

func NewEChartsRenderer() *EChartsRenderer {
	return &EChartsRenderer{PageTitle: "go-pkviz"}
}

// Render writes a complete HTML page holding the chart.
func (r *EChartsRenderer) Render(w io.Writer, spec pipeline.ChartSpec) error {
	page := components.NewPage()
	page.PageTitle = r.PageTitle
	page.AddCharts(r.Chart(spec))
	return page.Render(w)
}

// Chart converts the spec into a line chart on a numeric time axis.
func (r *EChartsRenderer) Chart(spec pipeline.ChartSpec) *charts.Line {
	line := charts.NewLine()

	width, height := spec.Width, spec.Height
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 400
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", width),
			Height: fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    spec.Title,
			Subtitle: subtitle(spec),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(!spec.Empty()),
			Orient: "vertical",
			Type:   "scroll",
			Right:  "0",
			Top:    "middle",
		}),
		charts.WithGridOpts(opts.Grid{
			Right: "25%",
		}),
		charts.WithXAxisOpts(xAxis(spec)),
		charts.WithYAxisOpts(yAxis(spec)),
	)

	for _, s := range spec.Series {
		addSeries(line, s)
	}
	return line
}

func subtitle(spec pipeline.ChartSpec) string {
	switch {
	case spec.Annotation != "":
		return spec.Annotation
	case spec.Clipped > 0:
		return fmt.Sprintf("%d non-positive points hidden on log scale", spec.Clipped)
	}
	return ""
}

func xAxis(spec pipeline.ChartSpec) opts.XAxis {
	axis := opts.XAxis{
		Name: spec.XLabel,
		Type: "value",
		Min:  spec.XAxis.Min,
		Max:  spec.XAxis.Max,
	}
	if len(spec.XAxis.MajorTicks) > 1 {
		step := spec.XAxis.MajorTicks[1] - spec.XAxis.MajorTicks[0]
		axis.MinInterval = step
		axis.MaxInterval = step
	}
	return axis
}

func yAxis(spec pipeline.ChartSpec) opts.YAxis {
	axis := opts.YAxis{
		Name: spec.YLabel,
		Type: "value",
	}
	if spec.YAxis.Type == pipeline.AxisLog {
		axis.Type = "log"
		if spec.YAxis.Floor > 0 {
			axis.Min = spec.YAxis.Floor
		}
	}
	return axis
}

func addSeries(line *charts.Line, s pipeline.Series) {
	symbol := symbolNames[s.Symbol]
	if !s.ShowMarkers {
		symbol = "none"
	}

	data := make([]opts.LineData, len(s.X))
	for i := range s.X {
		data[i] = opts.LineData{
			Value:  []interface{}{s.X[i], s.Y[i]},
			Symbol: symbol,
			Name:   fmt.Sprintf("n=%d", s.Counts[i]),
		}
	}
	line.AddSeries(s.Name, data,
		charts.WithLineChartOpts(opts.LineChart{
			ShowSymbol: opts.Bool(s.ShowMarkers),
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Color: s.Color,
			Type:  dashNames[s.Dash],
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color: s.Color,
		}),
	)

	if len(s.ErrorLow) == 0 {
		return
	}
	for _, band := range []struct {
		suffix string
		values []float64
	}{{" -SD", s.ErrorLow}, {" +SD", s.ErrorHigh}} {
		bandData := make([]opts.LineData, len(s.X))
		for i := range s.X {
			bandData[i] = opts.LineData{Value: []interface{}{s.X[i], band.values[i]}}
		}
		line.AddSeries(s.Name+band.suffix, bandData,
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(false),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: s.Color,
				Type:  "dotted",
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: s.Color,
			}),
		)
	}
}
