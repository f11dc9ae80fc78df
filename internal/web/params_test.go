package web

import (
	"net/url"
	"testing"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultsConfig(t *testing.T) *dashboard.Config {
	t.Helper()
	cfg := &dashboard.Config{
		DSN:         "memory",
		IDs:         []string{"A"},
		MaxTime:     24,
		UseLogScale: true,
		Selections:  map[model.Dimension][]string{model.DimStudy: {"S1"}},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestDecodeParamsDefaults(t *testing.T) {
	p, err := DecodeParams(url.Values{}, defaultsConfig(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, p.IDs)
	assert.Equal(t, []string{"S1"}, p.Criteria.Selection(model.DimStudy))
	maxTime, ok := p.Criteria.MaxTime()
	assert.True(t, ok)
	assert.Equal(t, 24.0, maxTime)
	assert.Equal(t, model.MeasureConc, p.Measure)
	assert.True(t, p.Toggles.UseLogScale)
	assert.False(t, p.Toggles.ShowErrorBars)
	assert.Equal(t, pipeline.FitNone, p.Fit)
}

func TestDecodeParamsOverrides(t *testing.T) {
	q, err := url.ParseQuery("compound=A,B&compound=C&study=&ids=A,B&maxtime=0&log=false&errorbars=1&logfloor=0.01&fit=biexp")
	require.NoError(t, err)

	p, err := DecodeParams(q, defaultsConfig(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, p.Criteria.Selection(model.DimCompound))
	assert.Nil(t, p.Criteria.Selection(model.DimStudy))
	assert.Equal(t, []string{"A", "B"}, p.IDs)
	_, ok := p.Criteria.MaxTime()
	assert.False(t, ok)
	assert.False(t, p.Toggles.UseLogScale)
	assert.True(t, p.Toggles.ShowErrorBars)
	assert.Equal(t, 0.01, p.Toggles.LogFloor)
	assert.Equal(t, pipeline.FitBiExponential, p.Fit)
}

func TestDecodeParamsErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad bool", "log=maybe"},
		{"bad maxtime", "maxtime=soon"},
		{"bad logfloor", "logfloor=x"},
		{"negative logfloor", "logfloor=-2"},
		{"unknown fit", "fit=cubic"},
		{"unknown measure", "measure=NOPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			_, err = DecodeParams(q, defaultsConfig(t))
			assert.Error(t, err)
		})
	}
}
