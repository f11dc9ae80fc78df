// Package pipeline holds the pure stages of the dashboard: filter,
// aggregate, annotate/fit, chart building, cascading options and the
// subject summary. Stages never mutate their inputs.
package pipeline

import (
	"github.com/penwyp/go-pkviz/internal/core/model"
)

// Filter keeps the records that match every non-empty selection of the
// criteria and whose time does not exceed the criteria bound. The returned
// table shares record values with the input.
func Filter(table *model.Table, criteria model.FilterCriteria) (*model.Table, error) {
	if table == nil {
		return model.NewTable(model.Schema{}, nil), nil
	}

	dims := criteria.Dimensions()
	if err := table.Schema.RequireDimensions(dims...); err != nil {
		return nil, err
	}
	maxTime, bounded := criteria.MaxTime()

	if len(dims) == 0 && !bounded {
		return model.NewTable(table.Schema, table.Records), nil
	}

	kept := make([]model.Record, 0, len(table.Records))
	for _, r := range table.Records {
		if bounded && r.Time > maxTime {
			continue
		}
		if matches(r, dims, criteria) {
			kept = append(kept, r)
		}
	}
	return model.NewTable(table.Schema, kept), nil
}

func matches(r model.Record, dims []model.Dimension, criteria model.FilterCriteria) bool {
	for _, d := range dims {
		if !criteria.Allows(d, r.Dims[d]) {
			return false
		}
	}
	return true
}
