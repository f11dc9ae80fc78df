package layout

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/stretchr/testify/assert"
)

func TestGetLayoutStrategy(t *testing.T) {
	tests := []struct {
		name        string
		layoutStyle int
		wantName    string
	}{
		{"full_dashboard_style", 0, "Full Dashboard"},
		{"minimal_dashboard_style", 1, "Minimal Dashboard"},
		{"unknown_style_defaults_to_full", 99, "Full Dashboard"},
		{"negative_style_defaults_to_full", -1, "Full Dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, GetLayoutStrategy(tt.layoutStyle).GetName())
		})
	}
}

func TestSizer(t *testing.T) {
	s := NewSizer(20, 24)
	assert.Equal(t, "ab   ", s.PadString("ab", 5, true))
	assert.Equal(t, "   ab", s.PadString("ab", 5, false))
	assert.Equal(t, "abcdef", s.PadString("abcdef", 3, true))
	assert.Equal(t, "中文 ", s.PadString("中文", 5, true))

	assert.Equal(t, 16, s.BodyLines(5, 3))
	assert.Equal(t, 0, s.BodyLines(20, 10))

	long := strings.Repeat("x", 30)
	assert.Equal(t, 20, len([]rune(s.Fit(long))))
	assert.Equal(t, "short", s.Fit("short"))
}

func sampleReport() formatter.Report {
	id := model.Identity{{Key: model.DimCompound, Value: "SP-1"}, {Key: model.DimStudy, Value: "S1"}}
	groups := []model.AggregatedGroup{
		{Identity: id, Time: 0, Mean: 110, Count: 2, StdDev: 14.1},
		{Identity: id, Time: 7, Mean: 50, Count: 1},
	}
	opts := pipeline.DefaultChartOptions(model.PKSchema, model.MeasureConc)
	return formatter.Report{
		Measure: model.MeasureConc,
		Groups:  groups,
		Chart:   pipeline.BuildChart(pipeline.Annotate(groups), opts),
		Controls: []pipeline.Control{
			{Dimension: model.DimCompound, Choices: []string{"SP-1", "SP-2"}, Selected: []string{"SP-1"}},
			{Dimension: model.DimStudy, Choices: []string{"S1"}, Selected: []string{}},
		},
	}
}

func TestFullLayoutRender(t *testing.T) {
	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, sampleReport(), LayoutParam{
		Sizer:     NewSizer(100, 40),
		FitModel:  "none",
		SortLabel: "identity",
	})

	out := buf.String()
	assert.Contains(t, out, "Mean Concentrations Over Time")
	assert.Contains(t, out, "Scale: linear")
	assert.Contains(t, out, "Series: 1   Groups: 2")
	assert.Contains(t, out, "[SP-1] of SP-1, SP-2")
	assert.Contains(t, out, "[all] of S1")
	assert.Contains(t, out, "SP-1 / S1")
	assert.Contains(t, out, "110")
}

func TestFullLayoutTruncatesRows(t *testing.T) {
	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, sampleReport(), LayoutParam{Sizer: NewSizer(100, 14)})
	assert.Contains(t, buf.String(), "more")
}

func TestMinimalLayoutRender(t *testing.T) {
	var buf bytes.Buffer
	(&MinimalLayoutStrategy{}).Render(&buf, sampleReport(), LayoutParam{
		LastUpdate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	assert.Equal(t, "pkviz: CONC | 1 series | 2 groups | linear | updated 03:04:05\n", buf.String())
}
