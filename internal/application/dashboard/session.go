// Package dashboard wires the data source, the reactive pipeline and the
// live terminal view together.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/data/source"
	"github.com/penwyp/go-pkviz/internal/metrics"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/penwyp/go-pkviz/internal/reactive"
	"github.com/penwyp/go-pkviz/internal/util"
)

// Toggles are the chart display switches.
type Toggles struct {
	ShowErrorBars bool
	UseLogScale   bool
	LogFloor      float64
}

type loadResult struct {
	table *model.Table
	err   error
}

type cascadeResult struct {
	controls []pipeline.Control
	criteria model.FilterCriteria
}

// Session owns one reactive graph. All methods are safe for concurrent use;
// they serialize on the session lock.
type Session struct {
	mu sync.Mutex

	id        string
	loader    DataSource
	schema    model.Schema
	ids       []string
	policy    pipeline.Policy
	gridSize  int
	graph     *reactive.Graph
	lastError string

	loaded   *reactive.Input[loadResult]
	criteria *reactive.Input[model.FilterCriteria]
	measure  *reactive.Input[model.Measure]
	toggles  *reactive.Input[Toggles]
	fitModel *reactive.Input[pipeline.FitModel]

	table      *reactive.Calc[*model.Table]
	options    *reactive.Calc[cascadeResult]
	filtered   *reactive.Calc[*model.Table]
	aggregated *reactive.Calc[[]model.AggregatedGroup]
	annotated  *reactive.Calc[[]model.SeriesPoint]
	fitted     *reactive.Calc[[]model.SeriesPoint]
	chart      *reactive.Calc[pipeline.ChartSpec]
	summary    *reactive.Calc[[]pipeline.SubjectSummary]
}

// NewSession builds the graph for a validated config. m may be nil.
func NewSession(id string, config *Config, loader DataSource, m *metrics.Metrics) *Session {
	g := reactive.NewGraph()
	if m != nil {
		g.SetObserver(m.ObserveStage)
	}

	s := &Session{
		id:       id,
		loader:   loader,
		schema:   config.Schema(),
		ids:      append([]string(nil), config.IDs...),
		policy:   config.CascadePolicy(),
		gridSize: pipeline.DefaultGridSize,
		graph:    g,
	}

	s.loaded = reactive.NewInput(g, "loaded", loadResult{}, func(a, b loadResult) bool {
		return a.table == b.table && errors.Is(a.err, b.err) && errors.Is(b.err, a.err)
	})
	s.criteria = reactive.NewInput(g, "criteria", config.Criteria(), model.FilterCriteria.Equal)
	s.measure = reactive.NewInput(g, "measure", config.ResolvedMeasure(), reactive.Equal[model.Measure])
	s.toggles = reactive.NewInput(g, "toggles", config.Toggles(), reactive.Equal[Toggles])
	s.fitModel = reactive.NewInput(g, "fit_model", config.ResolvedFit(), reactive.Equal[pipeline.FitModel])

	s.table = reactive.NewCalc(g, "table", s.computeTable, s.loaded)
	s.options = reactive.NewCalc(g, "options", s.computeOptions, s.table, s.criteria)
	s.filtered = reactive.NewCalc(g, "filtered", s.computeFiltered, s.table, s.options)
	s.aggregated = reactive.NewCalc(g, "aggregated", s.computeAggregated, s.filtered, s.measure)
	s.annotated = reactive.NewCalc(g, "annotated", s.computeAnnotated, s.aggregated)
	s.fitted = reactive.NewCalc(g, "fitted", s.computeFitted, s.aggregated, s.fitModel)
	s.chart = reactive.NewCalc(g, "chart", s.computeChart, s.table, s.measure, s.toggles, s.annotated, s.fitted)
	s.summary = reactive.NewCalc(g, "summary", s.computeSummary, s.filtered)
	return s
}

func (s *Session) ID() string { return s.id }

// Graph exposes the session graph for inspection.
func (s *Session) Graph() *reactive.Graph { return s.graph }

// Load queries the source for the session's ids. The query runs outside the
// session lock; its outcome, success or failure, becomes the table input.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	ids := append([]string(nil), s.ids...)
	s.mu.Unlock()

	t, err := s.loader.Load(ctx, s.schema.Table, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded.Set(loadResult{table: t, err: err})
	return err
}

// Reload drops cached tables and loads again.
func (s *Session) Reload(ctx context.Context) error {
	s.loader.Invalidate()
	return s.Load(ctx)
}

// SetIDs replaces the id list used by the next Load.
func (s *Session) SetIDs(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append([]string(nil), ids...)
}

func (s *Session) SetCriteria(c model.FilterCriteria) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Set(c)
}

func (s *Session) SetMeasure(m model.Measure) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.measure.Set(m)
}

func (s *Session) SetToggles(t Toggles) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggles.Set(t)
}

func (s *Session) SetFitModel(m pipeline.FitModel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fitModel.Set(m)
}

// UpdateToggles applies fn to a copy of the current toggles.
func (s *Session) UpdateToggles(fn func(*Toggles)) Toggles {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.toggles.Get()
	fn(&t)
	s.toggles.Set(t)
	return t
}

func (s *Session) Toggles() Toggles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggles.Get()
}

func (s *Session) Measure() model.Measure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.measure.Get()
}

func (s *Session) FitModel() pipeline.FitModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fitModel.Get()
}

func (s *Session) Schema() model.Schema { return s.schema }

// Options returns the cascaded controls and the criteria they imply.
func (s *Session) Options() ([]pipeline.Control, model.FilterCriteria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.options.Get()
	return res.controls, res.criteria, err
}

// Filtered returns the filtered records, as exported to CSV.
func (s *Session) Filtered() (*model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered.Get()
}

func (s *Session) Summary() ([]pipeline.SubjectSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary.Get()
}

// Report evaluates the graph and maps failures onto a placeholder chart and
// a status message. It never returns an error.
func (s *Session) Report() formatter.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := formatter.Report{Measure: s.measure.Get()}
	if opts, err := s.options.Get(); err == nil {
		r.Controls = opts.controls
	}

	chart, err := s.chart.Get()
	if err != nil {
		r.Status = StatusFor(err)
		r.Chart = s.placeholder(r.Status)
		if r.Status != s.lastError {
			util.LogWarn("Render cycle failed", util.Field{Key: "session", Value: s.id}, util.Field{Key: "error", Value: err.Error()})
			s.lastError = r.Status
		}
		return r
	}
	s.lastError = ""

	r.Chart = chart
	r.Table, _ = s.filtered.Get()
	r.Groups, _ = s.aggregated.Get()
	r.Summary, _ = s.summary.Get()
	return r
}

// StatusFor turns a render cycle error into the message shown to the user.
func StatusFor(err error) string {
	var mismatch *model.SchemaMismatchError
	switch {
	case errors.As(err, &mismatch):
		return fmt.Sprintf("Schema mismatch: column %s not present in %s", mismatch.Column, mismatch.Table)
	case source.IsUnavailable(err):
		return "Data unavailable: " + err.Error()
	}
	return "Error: " + err.Error()
}

func (s *Session) chartOptions(schema model.Schema) pipeline.ChartOptions {
	t := s.toggles.Get()
	opts := pipeline.DefaultChartOptions(schema, s.measure.Get())
	opts.ShowErrorBars = t.ShowErrorBars
	opts.UseLogScale = t.UseLogScale
	opts.LogFloor = t.LogFloor
	return opts
}

func (s *Session) placeholder(status string) pipeline.ChartSpec {
	spec := pipeline.BuildChart(nil, s.chartOptions(s.schema))
	spec.Annotation = status
	return spec
}

func (s *Session) computeTable() (*model.Table, error) {
	res := s.loaded.Get()
	if res.err != nil {
		return nil, res.err
	}
	if res.table == nil {
		return model.NewTable(s.schema, nil), nil
	}
	return res.table, nil
}

func (s *Session) computeOptions() (cascadeResult, error) {
	t, err := s.table.Get()
	if err != nil {
		return cascadeResult{}, err
	}
	controls, criteria, err := pipeline.CascadeFor(t.Schema).Update(t, s.criteria.Get(), s.policy)
	if err != nil {
		return cascadeResult{}, fmt.Errorf("cascade: %w", err)
	}
	return cascadeResult{controls: controls, criteria: criteria}, nil
}

func (s *Session) computeFiltered() (*model.Table, error) {
	t, err := s.table.Get()
	if err != nil {
		return nil, err
	}
	opts, err := s.options.Get()
	if err != nil {
		return nil, err
	}
	return pipeline.Filter(t, opts.criteria)
}

func (s *Session) computeAggregated() ([]model.AggregatedGroup, error) {
	t, err := s.filtered.Get()
	if err != nil {
		return nil, err
	}
	return pipeline.Aggregate(t, s.measure.Get(), t.Schema.Keys)
}

func (s *Session) computeAnnotated() ([]model.SeriesPoint, error) {
	groups, err := s.aggregated.Get()
	if err != nil {
		return nil, err
	}
	return pipeline.Annotate(groups), nil
}

func (s *Session) computeFitted() ([]model.SeriesPoint, error) {
	groups, err := s.aggregated.Get()
	if err != nil {
		return nil, err
	}
	points, results := pipeline.Fit(groups, s.fitModel.Get(), s.gridSize)
	for _, r := range results {
		util.LogDebugf("session %s: %s fit for %s params=%v sse=%.4g", s.id, r.Model, r.Identity, r.Params, r.SSE)
	}
	return points, nil
}

func (s *Session) computeChart() (pipeline.ChartSpec, error) {
	t, err := s.table.Get()
	if err != nil {
		return pipeline.ChartSpec{}, err
	}
	actual, err := s.annotated.Get()
	if err != nil {
		return pipeline.ChartSpec{}, err
	}
	fitted, err := s.fitted.Get()
	if err != nil {
		return pipeline.ChartSpec{}, err
	}

	points := make([]model.SeriesPoint, 0, len(actual)+len(fitted))
	points = append(points, actual...)
	points = append(points, fitted...)
	return pipeline.BuildChart(points, s.chartOptions(t.Schema)), nil
}

// computeSummary is only defined for tables carrying subject columns.
func (s *Session) computeSummary() ([]pipeline.SubjectSummary, error) {
	t, err := s.filtered.Get()
	if err != nil {
		return nil, err
	}
	if !t.Schema.HasDimension(model.DimAnimal) {
		return nil, nil
	}
	return pipeline.Summarize(t)
}
