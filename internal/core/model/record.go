package model

import (
	"math"
	"sort"
)

// Record is one observation. Replicates may share identity keys and time.
type Record struct {
	Dims   map[Dimension]string
	Time   float64
	Values map[Measure]float64 // absent key means missing
}

// Dim returns the value of a dimension, "" when unset
func (r Record) Dim(d Dimension) string {
	return r.Dims[d]
}

// Value returns the measure value and whether it is present. NaN counts as missing.
func (r Record) Value(m Measure) (float64, bool) {
	v, ok := r.Values[m]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := Record{
		Dims:   make(map[Dimension]string, len(r.Dims)),
		Time:   r.Time,
		Values: make(map[Measure]float64, len(r.Values)),
	}
	for k, v := range r.Dims {
		out.Dims[k] = v
	}
	for k, v := range r.Values {
		out.Values[k] = v
	}
	return out
}

// Table is a rectangular record set with a known schema.
type Table struct {
	Schema  Schema
	Records []Record
}

func NewTable(schema Schema, records []Record) *Table {
	if records == nil {
		records = []Record{}
	}
	return &Table{Schema: schema, Records: records}
}

// Len is nil-safe.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Distinct returns the sorted distinct non-empty values of a dimension.
func (t *Table) Distinct(d Dimension) []string {
	if t == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, r := range t.Records {
		if v := r.Dims[d]; v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MaxTime returns the largest time offset in the table, 0 when empty.
func (t *Table) MaxTime() float64 {
	maxT := 0.0
	if t == nil {
		return maxT
	}
	for _, r := range t.Records {
		if r.Time > maxT {
			maxT = r.Time
		}
	}
	return maxT
}
