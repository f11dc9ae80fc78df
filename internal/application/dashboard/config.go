package dashboard

import (
	"fmt"
	"os"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/pipeline"
)

// Config contains configuration shared by the render, watch and serve commands
type Config struct {
	// Data source
	DSN   string
	Table string
	IDs   []string

	// Pipeline settings
	Measure    string
	Policy     string
	FitModel   string
	Selections map[model.Dimension][]string
	MaxTime    float64 // <= 0 means unbounded

	// Chart toggles
	ShowErrorBars bool
	UseLogScale   bool
	LogFloor      float64

	// Cache settings
	CacheEntries int
	CacheTTL     time.Duration

	// Timing
	QueryTimeout        time.Duration
	DataRefreshInterval time.Duration
	UIRefreshRate       float64

	schema  model.Schema
	measure model.Measure
	policy  pipeline.Policy
	fit     pipeline.FitModel
}

// Validate fills defaults and resolves the named settings
func (c *Config) Validate() error {
	if c.DSN == "" {
		c.DSN = os.Getenv("PKVIZ_DSN")
	}
	if c.DSN == "" {
		return fmt.Errorf("data source DSN required (--dsn or PKVIZ_DSN)")
	}
	if c.Table == "" {
		c.Table = "pk"
	}
	schema, ok := model.LookupSchema(c.Table)
	if !ok {
		return fmt.Errorf("unknown table %q", c.Table)
	}
	c.schema = schema

	if c.Measure == "" {
		c.measure = schema.DefaultMeasure()
	} else {
		m, err := model.ParseMeasure(c.Measure)
		if err != nil {
			return err
		}
		c.measure = m
	}

	policy, err := pipeline.ParsePolicy(c.Policy)
	if err != nil {
		return err
	}
	c.policy = policy

	fit, err := pipeline.ParseFitModel(c.FitModel)
	if err != nil {
		return err
	}
	c.fit = fit

	if c.LogFloor < 0 {
		return fmt.Errorf("log floor must not be negative: %g", c.LogFloor)
	}
	if c.CacheEntries == 0 {
		c.CacheEntries = 32
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = 30 * time.Second
	}
	if c.DataRefreshInterval == 0 {
		c.DataRefreshInterval = 30 * time.Second
	}
	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = 1
	}
	return nil
}

// Resolved settings, valid after Validate.
func (c *Config) Schema() model.Schema { return c.schema }
func (c *Config) ResolvedMeasure() model.Measure { return c.measure }
func (c *Config) CascadePolicy() pipeline.Policy { return c.policy }
func (c *Config) ResolvedFit() pipeline.FitModel { return c.fit }

// Criteria builds the initial filter criteria from the selections and
// time bound.
func (c *Config) Criteria() model.FilterCriteria {
	criteria := model.NewCriteria()
	for d, values := range c.Selections {
		criteria = criteria.WithSelection(d, values...)
	}
	if c.MaxTime > 0 {
		criteria = criteria.WithMaxTime(c.MaxTime)
	}
	return criteria
}

// Toggles returns the initial chart toggles.
func (c *Config) Toggles() Toggles {
	return Toggles{ShowErrorBars: c.ShowErrorBars, UseLogScale: c.UseLogScale, LogFloor: c.LogFloor}
}
