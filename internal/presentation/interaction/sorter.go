package interaction

import (
	"math"
	"sort"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

// SortField represents the column the live table is sorted by
type SortField int

const (
	SortByIdentity SortField = iota
	SortByTime
	SortByMean
	SortByCount
	sortFieldCount
)

func (f SortField) String() string {
	switch f {
	case SortByTime:
		return "time"
	case SortByMean:
		return "mean"
	case SortByCount:
		return "count"
	}
	return "identity"
}

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// GroupSorter orders aggregated groups for display
type GroupSorter struct {
	field SortField
	order SortOrder
}

// NewGroupSorter sorts by identity then time, the pipeline's own order
func NewGroupSorter() *GroupSorter {
	return &GroupSorter{field: SortByIdentity, order: SortAscending}
}

func (s *GroupSorter) Field() SortField { return s.field }
func (s *GroupSorter) Order() SortOrder { return s.order }

// Next cycles to the following sort field
func (s *GroupSorter) Next() SortField {
	s.field = (s.field + 1) % sortFieldCount
	return s.field
}

// Reverse flips the sort order
func (s *GroupSorter) Reverse() {
	if s.order == SortAscending {
		s.order = SortDescending
	} else {
		s.order = SortAscending
	}
}

// Sort sorts a copy of groups; ties keep the identity/time order.
func (s *GroupSorter) Sort(groups []model.AggregatedGroup) []model.AggregatedGroup {
	out := make([]model.AggregatedGroup, len(groups))
	copy(out, groups)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if s.order == SortDescending {
			a, b = b, a
		}
		switch s.field {
		case SortByTime:
			return a.Time < b.Time
		case SortByMean:
			return lessNaNLast(a.Mean, b.Mean)
		case SortByCount:
			return a.Count < b.Count
		}
		if c := model.CompareIdentity(a.Identity, b.Identity); c != 0 {
			return c < 0
		}
		return a.Time < b.Time
	})
	return out
}

func lessNaNLast(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}
