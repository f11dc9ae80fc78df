package pipeline

import (
	"math"
	"sort"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"gonum.org/v1/gonum/stat"
)

type groupKey struct {
	identity string
	time     float64
}

type groupAcc struct {
	identity model.Identity
	time     float64
	values   []float64
}

// Aggregate collapses the records into one group per (identity, time).
// Mean ignores missing values, StdDev is the sample standard deviation
// (0 for a single contributing value) and Count tallies non-missing values.
// Groups whose values are all missing are kept with Count 0 and a NaN mean.
func Aggregate(table *model.Table, measure model.Measure, keys []model.Dimension) ([]model.AggregatedGroup, error) {
	if table == nil {
		return []model.AggregatedGroup{}, nil
	}
	if err := table.Schema.RequireMeasure(measure); err != nil {
		return nil, err
	}
	if err := table.Schema.RequireDimensions(keys...); err != nil {
		return nil, err
	}

	accs := make(map[groupKey]*groupAcc)
	order := make([]*groupAcc, 0)
	for _, r := range table.Records {
		id := model.IdentityOf(r, keys)
		k := groupKey{identity: id.Key(), time: r.Time}
		acc, ok := accs[k]
		if !ok {
			acc = &groupAcc{identity: id, time: r.Time}
			accs[k] = acc
			order = append(order, acc)
		}
		if v, ok := r.Value(measure); ok {
			acc.values = append(acc.values, v)
		}
	}

	groups := make([]model.AggregatedGroup, 0, len(order))
	for _, acc := range order {
		groups = append(groups, summarize(acc))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if c := model.CompareIdentity(groups[i].Identity, groups[j].Identity); c != 0 {
			return c < 0
		}
		return groups[i].Time < groups[j].Time
	})
	return groups, nil
}

func summarize(acc *groupAcc) model.AggregatedGroup {
	g := model.AggregatedGroup{
		Identity: acc.identity,
		Time:     acc.time,
		Count:    len(acc.values),
	}
	switch len(acc.values) {
	case 0:
		g.Mean = math.NaN()
	case 1:
		g.Mean = acc.values[0]
	default:
		g.Mean = stat.Mean(acc.values, nil)
		g.StdDev = stat.StdDev(acc.values, nil)
	}
	return g
}
