package model

import (
	"sort"
)

// FilterCriteria holds the selected values per dimension plus an optional
// upper bound on time. An empty selection means "all". Values are
// immutable: every With... method returns a modified copy.
type FilterCriteria struct {
	selections map[Dimension][]string
	maxTime    float64
	hasMaxTime bool
}

func NewCriteria() FilterCriteria {
	return FilterCriteria{selections: map[Dimension][]string{}}
}

// WithSelection replaces the selection for d. No values clears it.
func (c FilterCriteria) WithSelection(d Dimension, values ...string) FilterCriteria {
	out := c.clone()
	cleaned := dedupe(values)
	if len(cleaned) == 0 {
		delete(out.selections, d)
	} else {
		out.selections[d] = cleaned
	}
	return out
}

func (c FilterCriteria) WithMaxTime(t float64) FilterCriteria {
	out := c.clone()
	out.maxTime = t
	out.hasMaxTime = true
	return out
}

func (c FilterCriteria) WithoutMaxTime() FilterCriteria {
	out := c.clone()
	out.maxTime = 0
	out.hasMaxTime = false
	return out
}

// Selection returns a copy of the selected values for d (nil = all).
func (c FilterCriteria) Selection(d Dimension) []string {
	sel := c.selections[d]
	if len(sel) == 0 {
		return nil
	}
	out := make([]string, len(sel))
	copy(out, sel)
	return out
}

// Dimensions lists the dimensions with a non-empty selection in canonical order.
func (c FilterCriteria) Dimensions() []Dimension {
	dims := make([]Dimension, 0, len(c.selections))
	for d := range c.selections {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool {
		ri, rj := dims[i].rank(), dims[j].rank()
		if ri != rj {
			return ri < rj
		}
		return dims[i] < dims[j]
	})
	return dims
}

func (c FilterCriteria) MaxTime() (float64, bool) {
	return c.maxTime, c.hasMaxTime
}

// Allows reports whether v passes the selection on d.
func (c FilterCriteria) Allows(d Dimension, v string) bool {
	sel := c.selections[d]
	if len(sel) == 0 {
		return true
	}
	i := sort.SearchStrings(sel, v)
	return i < len(sel) && sel[i] == v
}

// Equal compares selections and time bound.
func (c FilterCriteria) Equal(other FilterCriteria) bool {
	if c.hasMaxTime != other.hasMaxTime || (c.hasMaxTime && c.maxTime != other.maxTime) {
		return false
	}
	if len(c.selections) != len(other.selections) {
		return false
	}
	for d, sel := range c.selections {
		o, ok := other.selections[d]
		if !ok || len(o) != len(sel) {
			return false
		}
		for i := range sel {
			if sel[i] != o[i] {
				return false
			}
		}
	}
	return true
}

func (c FilterCriteria) clone() FilterCriteria {
	out := FilterCriteria{
		selections: make(map[Dimension][]string, len(c.selections)),
		maxTime:    c.maxTime,
		hasMaxTime: c.hasMaxTime,
	}
	for d, sel := range c.selections {
		out.selections[d] = sel
	}
	return out
}

// dedupe returns the sorted distinct non-empty values.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
