package pipeline

import "github.com/penwyp/go-pkviz/internal/core/model"

// Annotate relabels every aggregated group as an Actual series point.
func Annotate(groups []model.AggregatedGroup) []model.SeriesPoint {
	points := make([]model.SeriesPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, model.SeriesPoint{
			Provenance: model.ProvenanceActual,
			Identity:   g.Identity,
			Time:       g.Time,
			Value:      g.Mean,
			StdDev:     g.StdDev,
			Count:      g.Count,
		})
	}
	return points
}
