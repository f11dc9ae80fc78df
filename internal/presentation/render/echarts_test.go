package render

import (
	"bytes"
	"testing"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []model.SeriesPoint {
	id := model.Identity{{Key: model.DimCompound, Value: "SP-100"}, {Key: model.DimStudy, Value: "S1"}, {Key: model.DimStrain, Value: "X"}}
	return []model.SeriesPoint{
		{Provenance: model.ProvenanceActual, Identity: id, Time: 0, Value: 110, StdDev: 14, Count: 2},
		{Provenance: model.ProvenanceActual, Identity: id, Time: 7, Value: 40, StdDev: 5, Count: 2},
	}
}

func TestRenderChartPage(t *testing.T) {
	opts := pipeline.DefaultChartOptions(model.PKSchema, model.MeasureConc)
	opts.ShowErrorBars = true
	spec := pipeline.BuildChart(samplePoints(), opts)

	var buf bytes.Buffer
	require.NoError(t, NewEChartsRenderer().Render(&buf, spec))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Mean Concentrations Over Time")
	assert.Contains(t, html, "SP-100 / S1 / X")
	assert.Contains(t, html, "SP-100 / S1 / X +SD")
}

func TestChartSeriesCount(t *testing.T) {
	opts := pipeline.DefaultChartOptions(model.PKSchema, model.MeasureConc)

	plain := NewEChartsRenderer().Chart(pipeline.BuildChart(samplePoints(), opts))
	assert.Len(t, plain.MultiSeries, 1)

	opts.ShowErrorBars = true
	withBands := NewEChartsRenderer().Chart(pipeline.BuildChart(samplePoints(), opts))
	assert.Len(t, withBands.MultiSeries, 3)
}

func TestRenderLogAndEmpty(t *testing.T) {
	opts := pipeline.DefaultChartOptions(model.PKSchema, model.MeasureConc)
	opts.UseLogScale = true

	var buf bytes.Buffer
	require.NoError(t, NewEChartsRenderer().Render(&buf, pipeline.BuildChart(samplePoints(), opts)))
	assert.Contains(t, buf.String(), `"log"`)

	buf.Reset()
	require.NoError(t, NewEChartsRenderer().Render(&buf, pipeline.BuildChart(nil, opts)))
	assert.Contains(t, buf.String(), pipeline.NoDataAnnotation)
}
