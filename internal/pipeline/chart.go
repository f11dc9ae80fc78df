package pipeline

import (
	"math"
	"sort"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

const (
	AxisLinear = "linear"
	AxisLog    = "log"

	// NoDataAnnotation is the annotation of a chart built from no points.
	NoDataAnnotation = "No data"

	defaultLogFloor = 1e-3
	// maxTicks bounds the tick count on one axis.
	maxTicks = 1000
)

// ChartOptions are the display toggles and styling choices of a chart.
type ChartOptions struct {
	Title         string
	XLabel        string
	YLabel        string
	ShowErrorBars bool
	UseLogScale   bool
	LogFloor      float64 // <= 0 derives the floor from the data
	ColorBy       model.Dimension
	SymbolBy      model.Dimension
	DashBy        model.Dimension
	MajorTick     float64
	MinorTick     float64
	Width         int
	Height        int
}

// DefaultChartOptions returns the styling used for a schema and measure.
func DefaultChartOptions(schema model.Schema, measure model.Measure) ChartOptions {
	opts := ChartOptions{
		YLabel:    measure.Label(),
		MajorTick: 7,
		MinorTick: 1,
		Width:     800,
		Height:    400,
	}
	if schema.Table == model.TrendSchema.Table {
		opts.Title = "Process Trend"
		opts.XLabel = "Elapsed Time (days)"
		opts.ColorBy = model.DimRun
		opts.SymbolBy = model.DimStrain
		opts.DashBy = model.DimScale
		return opts
	}
	opts.Title = "Mean Concentrations Over Time"
	opts.XLabel = "Time after Dose (days)"
	opts.ColorBy = model.DimCompound
	opts.SymbolBy = model.DimStrain
	opts.DashBy = model.DimStudy
	return opts
}

// ChartSpec is a renderer-agnostic chart description.
type ChartSpec struct {
	Title      string   `json:"title"`
	XLabel     string   `json:"x_label"`
	YLabel     string   `json:"y_label"`
	Series     []Series `json:"series"`
	XAxis      Axis     `json:"x_axis"`
	YAxis      Axis     `json:"y_axis"`
	Legend     Legend   `json:"legend"`
	Annotation string   `json:"annotation,omitempty"`
	Clipped    int      `json:"clipped"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
}

// Series is one line of the chart.
type Series struct {
	Name        string           `json:"name"`
	Identity    model.Identity   `json:"identity"`
	Provenance  model.Provenance `json:"provenance"`
	X           []float64        `json:"x"`
	Y           []float64        `json:"y"`
	ErrorLow    []float64        `json:"error_low,omitempty"`
	ErrorHigh   []float64        `json:"error_high,omitempty"`
	Counts      []int            `json:"counts"`
	Color       string           `json:"color"`
	Symbol      string           `json:"symbol"`
	Dash        string           `json:"dash"`
	ShowMarkers bool             `json:"show_markers"`
}

type Axis struct {
	Type       string    `json:"type"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	MajorTicks []float64 `json:"major_ticks,omitempty"`
	MinorTicks []float64 `json:"minor_ticks,omitempty"`
	Floor      float64   `json:"floor,omitempty"`
}

// Legend placement in plot-relative coordinates.
type Legend struct {
	Orientation string  `json:"orientation"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"x_anchor"`
	YAnchor     string  `json:"y_anchor"`
}

// Empty reports whether the chart carries no series.
func (c ChartSpec) Empty() bool {
	return len(c.Series) == 0
}

type plotPoint struct {
	model.SeriesPoint
	low, high float64
}

// BuildChart converts normalized points into a ChartSpec. It never fails:
// no plottable points yield a chart annotated "No data".
func BuildChart(points []model.SeriesPoint, opts ChartOptions) ChartSpec {
	if opts.MajorTick <= 0 {
		opts.MajorTick = 7
	}
	if opts.MinorTick <= 0 {
		opts.MinorTick = 1
	}

	spec := ChartSpec{
		Title:  opts.Title,
		XLabel: opts.XLabel,
		YLabel: opts.YLabel,
		Series: []Series{},
		XAxis:  Axis{Type: AxisLinear},
		YAxis:  Axis{Type: AxisLinear},
		Legend: Legend{Orientation: "v", X: 1.02, Y: 0.5, XAnchor: "left", YAnchor: "middle"},
		Width:  opts.Width,
		Height: opts.Height,
	}
	if opts.UseLogScale {
		spec.YAxis.Type = AxisLog
	}

	plotted := make([]plotPoint, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		sd := p.StdDev
		if math.IsNaN(sd) || sd < 0 {
			sd = 0
		}
		pp := plotPoint{SeriesPoint: p, low: p.Value, high: p.Value}
		if opts.ShowErrorBars && p.Provenance == model.ProvenanceActual {
			pp.low = math.Max(0, p.Value-sd)
			pp.high = p.Value + sd
		}
		plotted = append(plotted, pp)
	}

	if opts.UseLogScale {
		floor := logFloor(plotted, opts.LogFloor)
		spec.YAxis.Floor = floor
		kept := plotted[:0]
		for _, pp := range plotted {
			if pp.Value <= 0 {
				spec.Clipped++
				continue
			}
			if pp.low <= 0 {
				pp.low = floor
			}
			kept = append(kept, pp)
		}
		plotted = kept
	}

	if len(plotted) == 0 {
		spec.Annotation = NoDataAnnotation
		return spec
	}

	spec.XAxis = timeAxis(plotted, opts)
	spec.YAxis = valueAxis(plotted, spec.YAxis)
	spec.Series = buildSeries(plotted, opts)
	return spec
}

// logFloor picks the smallest value a log axis shows.
func logFloor(points []plotPoint, configured float64) float64 {
	if configured > 0 {
		return configured
	}
	minPositive := math.Inf(1)
	for _, pp := range points {
		for _, v := range []float64{pp.Value, pp.low} {
			if v > 0 && v < minPositive {
				minPositive = v
			}
		}
	}
	if math.IsInf(minPositive, 1) {
		return defaultLogFloor
	}
	return minPositive / 10
}

func timeAxis(points []plotPoint, opts ChartOptions) Axis {
	maxT := 0.0
	for _, pp := range points {
		maxT = math.Max(maxT, pp.Time)
	}
	limit := math.Floor(maxT)
	if math.IsInf(limit, 0) || math.IsNaN(limit) {
		limit = 0
	}

	axis := Axis{Type: AxisLinear, Min: 0, Max: maxT}
	axis.MajorTicks = ticks(limit, majorStep(limit, opts.MajorTick))
	if limit/opts.MinorTick < maxTicks {
		axis.MinorTicks = ticks(limit, opts.MinorTick)
	}
	return axis
}

// majorStep widens the major step to a whole multiple of step once the
// axis would carry more than maxTicks majors.
func majorStep(limit, step float64) float64 {
	if n := limit / step; n >= maxTicks {
		return step * math.Ceil(n/maxTicks)
	}
	return step
}

// ticks returns 0, step, 2*step, ... up to limit.
func ticks(limit, step float64) []float64 {
	n := int(limit/step) + 1
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, float64(i)*step)
	}
	return out
}

func valueAxis(points []plotPoint, axis Axis) Axis {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pp := range points {
		lo = math.Min(lo, pp.low)
		hi = math.Max(hi, pp.high)
	}
	if axis.Type == AxisLog {
		axis.Min = math.Min(axis.Floor, lo)
	} else {
		axis.Min = math.Max(0, lo)
	}
	axis.Max = hi
	return axis
}

func buildSeries(points []plotPoint, opts ChartOptions) []Series {
	colorIdx := valueIndex(points, opts.ColorBy)
	symbolIdx := valueIndex(points, opts.SymbolBy)
	dashIdx := valueIndex(points, opts.DashBy)

	bySeries := make(map[string]*Series)
	order := make([]*Series, 0)
	for _, pp := range points {
		key := pp.Identity.Key() + "\x1e" + string(pp.Provenance)
		s, ok := bySeries[key]
		if !ok {
			s = &Series{
				Name:        seriesName(pp.Identity, pp.Provenance),
				Identity:    pp.Identity,
				Provenance:  pp.Provenance,
				Color:       pick(MarkerColors, colorIdx[pp.Identity.Get(opts.ColorBy)]),
				Symbol:      pick(MarkerShapes, symbolIdx[pp.Identity.Get(opts.SymbolBy)]),
				Dash:        pick(LineDashes, dashIdx[pp.Identity.Get(opts.DashBy)]),
				ShowMarkers: pp.Provenance != model.ProvenanceFitted,
			}
			bySeries[key] = s
			order = append(order, s)
		}
		s.X = append(s.X, pp.Time)
		s.Y = append(s.Y, pp.Value)
		s.Counts = append(s.Counts, pp.Count)
		if opts.ShowErrorBars && pp.Provenance == model.ProvenanceActual {
			s.ErrorLow = append(s.ErrorLow, pp.low)
			s.ErrorHigh = append(s.ErrorHigh, pp.high)
		}
	}

	series := make([]Series, 0, len(order))
	for _, s := range order {
		sortSeriesByTime(s)
		series = append(series, *s)
	}
	sort.SliceStable(series, func(i, j int) bool {
		if c := model.CompareIdentity(series[i].Identity, series[j].Identity); c != 0 {
			return c < 0
		}
		return series[i].Provenance < series[j].Provenance
	})
	return series
}

func seriesName(id model.Identity, prov model.Provenance) string {
	name := id.Label()
	if name == "" {
		name = "All"
	}
	if prov == model.ProvenanceFitted {
		name += " (Fitted)"
	}
	return name
}

// valueIndex maps each distinct value of d to its position in sorted order.
func valueIndex(points []plotPoint, d model.Dimension) map[string]int {
	seen := make(map[string]struct{})
	for _, pp := range points {
		seen[pp.Identity.Get(d)] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}

func sortSeriesByTime(s *Series) {
	perm := make([]int, len(s.X))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool { return s.X[perm[i]] < s.X[perm[j]] })

	s.X = permuteFloats(s.X, perm)
	s.Y = permuteFloats(s.Y, perm)
	if s.ErrorLow != nil {
		s.ErrorLow = permuteFloats(s.ErrorLow, perm)
		s.ErrorHigh = permuteFloats(s.ErrorHigh, perm)
	}
	counts := make([]int, len(perm))
	for i, p := range perm {
		counts[i] = s.Counts[p]
	}
	s.Counts = counts
}

func permuteFloats(values []float64, perm []int) []float64 {
	out := make([]float64, len(perm))
	for i, p := range perm {
		out[i] = values[p]
	}
	return out
}
