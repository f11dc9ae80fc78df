package pipeline

import (
	"errors"
	"testing"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trendTable() *model.Table {
	return model.NewTable(model.TrendSchema, []model.Record{
		trendRecord("P1", "50", "CHO-K1", "R1", 0),
		trendRecord("P1", "50", "CHO-K1", "R2", 0),
		trendRecord("P2", "50", "CHO-S", "R3", 0),
		trendRecord("P2", "2000", "CHO-S", "R4", 0),
		trendRecord("P3", "2000", "HEK", "R5", 0),
	})
}

func TestCascadeNarrowsScaleToProduct(t *testing.T) {
	criteria := model.NewCriteria().WithSelection(model.DimProduct, "P1")

	controls, updated, err := TrendCascade().Update(trendTable(), criteria, KeepCompatible)
	require.NoError(t, err)
	require.Len(t, controls, 4)

	assert.Equal(t, []string{"P1", "P2", "P3"}, controls[0].Choices)
	assert.Equal(t, []string{"P1"}, controls[0].Selected)
	assert.Equal(t, model.DimScale, controls[1].Dimension)
	assert.Equal(t, []string{"50"}, controls[1].Choices)
	assert.Equal(t, []string{"CHO-K1"}, controls[2].Choices)
	assert.Equal(t, []string{"R1", "R2"}, controls[3].Choices)
	assert.Equal(t, []string{"P1"}, updated.Selection(model.DimProduct))
}

func TestCascadePolicies(t *testing.T) {
	criteria := model.NewCriteria().
		WithSelection(model.DimProduct, "P2").
		WithSelection(model.DimScale, "50", "2000").
		WithSelection(model.DimRun, "R1").
		WithMaxTime(10)

	tests := []struct {
		name      string
		policy    Policy
		wantScale []string
		wantRun   []string
	}{
		{"keep compatible drops stale values", KeepCompatible, []string{"2000", "50"}, []string{}},
		{"reset clears dependents", ResetEmpty, []string{}, []string{}},
		{"select all selects dependent choices", SelectAll, []string{"2000", "50"}, []string{"R3", "R4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controls, updated, err := TrendCascade().Update(trendTable(), criteria, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScale, controls[1].Selected)
			assert.Equal(t, tt.wantRun, controls[3].Selected)
			assert.Equal(t, []string{"P2"}, controls[0].Selected)
			assert.Equal(t, []string{"P2"}, updated.Selection(model.DimProduct))

			maxT, ok := updated.MaxTime()
			assert.True(t, ok)
			assert.Equal(t, 10.0, maxT)
		})
	}
}

func TestCascadeKeepsFirstLevelUnderEveryPolicy(t *testing.T) {
	criteria := model.NewCriteria().WithSelection(model.DimProduct, "P1")

	for _, policy := range []Policy{KeepCompatible, ResetEmpty, SelectAll} {
		t.Run(policy.String(), func(t *testing.T) {
			controls, updated, err := TrendCascade().Update(trendTable(), criteria, policy)
			require.NoError(t, err)
			assert.Equal(t, []string{"P1"}, controls[0].Selected)
			assert.Equal(t, []string{"50"}, controls[1].Choices)

			filtered, err := Filter(trendTable(), updated)
			require.NoError(t, err)
			assert.Equal(t, 2, filtered.Len())
		})
	}
}

func TestCascadeIncompatibleSelectionIsDropped(t *testing.T) {
	criteria := model.NewCriteria().
		WithSelection(model.DimCompound, "B").
		WithSelection(model.DimStudy, "S2")

	controls, updated, err := PKCascade().Update(samplePKTable(), criteria, KeepCompatible)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S3"}, controls[1].Choices)
	assert.Empty(t, controls[1].Selected)
	assert.Nil(t, updated.Selection(model.DimStudy))
	assert.Equal(t, []string{"X", "Z"}, controls[2].Choices)
}

func TestCascadeSchemaMismatch(t *testing.T) {
	_, _, err := TrendCascade().Update(samplePKTable(), model.NewCriteria(), KeepCompatible)
	var mismatch *model.SchemaMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestCascadeFor(t *testing.T) {
	assert.Equal(t, PKCascade(), CascadeFor(model.PKSchema))
	assert.Equal(t, TrendCascade(), CascadeFor(model.TrendSchema))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("select_all")
	require.NoError(t, err)
	assert.Equal(t, SelectAll, p)
	assert.Equal(t, "select_all", p.String())

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, KeepCompatible, p)

	_, err = ParsePolicy("random")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	table := model.NewTable(model.PKSchema, []model.Record{
		pkRecord("B", "S2", "X", 0, 1),
		pkRecord("A", "S1", "X", 0, 1),
		pkRecord("A", "S1", "Y", 1, 1),
	})
	table.Records[2].Dims[model.DimAnimal] = "A2"

	rows, err := Summarize(table)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, SubjectSummary{Study: "S1", Compound: "A", Animal: "A1", Species: "Mouse", Strain: "X", Dose: "10", Observations: 1}, rows[0])
	assert.Equal(t, "A2", rows[1].Animal)
	assert.Equal(t, "S2", rows[2].Study)

	_, err = Summarize(trendTable())
	var mismatch *model.SchemaMismatchError
	assert.True(t, errors.As(err, &mismatch))
}
