package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdCompoundID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SP-123-45", "SP-123"},
		{"SP-123-45-6", "SP-123"},
		{"SP-123", "SP-123"},
		{"SP", "SP"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StdCompoundID(tt.in))
		})
	}
}

func TestSchemaColumns(t *testing.T) {
	assert.Equal(t, []string{
		"COMPOUND_ID", "SRD_STUDY", "STRAIN", "ANIMAL_ID", "SPECIES", "DOSE", "TIMEPOINT", "CONC",
	}, PKSchema.Columns())

	cols := TrendSchema.Columns()
	assert.Equal(t, "RUN_NAME", cols[3])
	assert.Equal(t, "ELAPSED_TIME", cols[4])
	assert.Len(t, cols, 4+1+8)
}

func TestSchemaRequire(t *testing.T) {
	require.NoError(t, PKSchema.RequireDimensions(DimCompound, DimStrain))
	require.NoError(t, PKSchema.RequireMeasure(MeasureConc))

	err := PKSchema.RequireDimensions(DimRun)
	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "SB_CONC_DATA", mismatch.Table)
	assert.Equal(t, "RUN_NAME", mismatch.Column)

	err = TrendSchema.RequireMeasure(MeasureConc)
	require.True(t, errors.As(err, &mismatch))
	assert.Contains(t, err.Error(), "CONC")
}

func TestLookupSchema(t *testing.T) {
	s, ok := LookupSchema("pk")
	require.True(t, ok)
	assert.Equal(t, PKSchema.Table, s.Table)

	s, ok = LookupSchema("process_trend")
	require.True(t, ok)
	assert.Equal(t, TrendSchema.Table, s.Table)

	_, ok = LookupSchema("nope")
	assert.False(t, ok)
}

func TestParseDimensionAndMeasure(t *testing.T) {
	d, err := ParseDimension("compound")
	require.NoError(t, err)
	assert.Equal(t, DimCompound, d)

	d, err = ParseDimension("srd_study")
	require.NoError(t, err)
	assert.Equal(t, DimStudy, d)

	_, err = ParseDimension("colour")
	assert.Error(t, err)

	m, err := ParseMeasure("vcd")
	require.NoError(t, err)
	assert.Equal(t, MeasureVCD, m)
	assert.Equal(t, "Concentration (ng/mL)", MeasureConc.Label())

	_, err = ParseMeasure("weight")
	assert.Error(t, err)
}

func TestRecordValue(t *testing.T) {
	r := Record{Values: map[Measure]float64{MeasureConc: 1.5, MeasureVCD: math.NaN()}}

	v, ok := r.Value(MeasureConc)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = r.Value(MeasureVCD)
	assert.False(t, ok, "NaN is missing")

	_, ok = r.Value(MeasureTiter)
	assert.False(t, ok)

	clone := r.Clone()
	clone.Values[MeasureConc] = 9
	assert.Equal(t, 1.5, r.Values[MeasureConc])
}

func TestTableDistinctAndMaxTime(t *testing.T) {
	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
	assert.Empty(t, nilTable.Distinct(DimCompound))

	table := NewTable(PKSchema, []Record{
		{Dims: map[Dimension]string{DimCompound: "B"}, Time: 3},
		{Dims: map[Dimension]string{DimCompound: "A"}, Time: 14},
		{Dims: map[Dimension]string{DimCompound: "B"}, Time: 1},
		{Dims: map[Dimension]string{}, Time: 0},
	})
	assert.Equal(t, []string{"A", "B"}, table.Distinct(DimCompound))
	assert.Equal(t, 14.0, table.MaxTime())
	assert.Equal(t, 4, table.Len())
}

func TestIdentity(t *testing.T) {
	r := Record{Dims: map[Dimension]string{DimCompound: "A", DimStudy: "S1", DimStrain: "X"}}
	id := IdentityOf(r, PKSchema.Keys)

	assert.Equal(t, "A / S1 / X", id.Label())
	assert.Equal(t, "S1", id.Get(DimStudy))
	assert.Equal(t, "", id.Get(DimRun))
	assert.Equal(t, "COMPOUND_ID=A, SRD_STUDY=S1, STRAIN=X", id.String())
	assert.True(t, id.Equal(IdentityOf(r, PKSchema.Keys)))

	other := IdentityOf(Record{Dims: map[Dimension]string{DimCompound: "A", DimStudy: "S2"}}, PKSchema.Keys)
	assert.False(t, id.Equal(other))
	assert.Equal(t, -1, CompareIdentity(id, other))
	assert.Equal(t, 1, CompareIdentity(other, id))
	assert.Equal(t, 0, CompareIdentity(id, id))
	assert.NotEqual(t, id.Key(), other.Key())
}

func TestFilterCriteria(t *testing.T) {
	base := NewCriteria()
	c := base.WithSelection(DimStrain, "X", "A", "X", "").WithSelection(DimCompound, "C1")

	assert.Empty(t, base.Dimensions(), "original is not mutated")
	assert.Equal(t, []Dimension{DimCompound, DimStrain}, c.Dimensions())
	assert.Equal(t, []string{"A", "X"}, c.Selection(DimStrain))
	assert.Nil(t, c.Selection(DimStudy))

	assert.True(t, c.Allows(DimStrain, "X"))
	assert.False(t, c.Allows(DimStrain, "Y"))
	assert.True(t, c.Allows(DimStudy, "anything"))

	_, ok := c.MaxTime()
	assert.False(t, ok)
	bounded := c.WithMaxTime(28)
	maxT, ok := bounded.MaxTime()
	assert.True(t, ok)
	assert.Equal(t, 28.0, maxT)
	_, ok = bounded.WithoutMaxTime().MaxTime()
	assert.False(t, ok)

	cleared := c.WithSelection(DimStrain)
	assert.Equal(t, []Dimension{DimCompound}, cleared.Dimensions())
	assert.Equal(t, []string{"A", "X"}, c.Selection(DimStrain))
}

func TestFilterCriteriaEqual(t *testing.T) {
	a := NewCriteria().WithSelection(DimCompound, "B", "A").WithMaxTime(7)
	b := NewCriteria().WithMaxTime(7).WithSelection(DimCompound, "A", "B")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(b.WithMaxTime(8)))
	assert.False(t, a.Equal(b.WithSelection(DimStrain, "X")))
	assert.False(t, a.Equal(b.WithSelection(DimCompound, "A")))
	assert.True(t, NewCriteria().Equal(FilterCriteria{}))
}
