package model

// AggregatedGroup is one (identity, time) bucket after aggregation.
type AggregatedGroup struct {
	Identity Identity `json:"identity"`
	Time     float64  `json:"time"`
	Mean     float64  `json:"mean"`
	Count    int      `json:"count"`
	StdDev   float64  `json:"std_dev"`
}

// Provenance distinguishes observed points from model curves.
type Provenance string

const (
	ProvenanceActual Provenance = "Actual"
	ProvenanceFitted Provenance = "Fitted"
)

// SeriesPoint is the normalized, plot-ready form of an aggregated group.
type SeriesPoint struct {
	Provenance Provenance `json:"provenance"`
	Identity   Identity   `json:"identity"`
	Time       float64    `json:"time"`
	Value      float64    `json:"value"`
	StdDev     float64    `json:"std_dev"`
	Count      int        `json:"count"`
}
