package pipeline

import (
	"errors"
	"testing"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	table := samplePKTable()

	tests := []struct {
		name     string
		criteria model.FilterCriteria
		want     int
	}{
		{"empty criteria passes all", model.NewCriteria(), 7},
		{"single compound", model.NewCriteria().WithSelection(model.DimCompound, "A"), 4},
		{"compound and strain", model.NewCriteria().WithSelection(model.DimCompound, "B").WithSelection(model.DimStrain, "Z"), 2},
		{"several values on one dimension", model.NewCriteria().WithSelection(model.DimStudy, "S2", "S3"), 3},
		{"time bound inclusive", model.NewCriteria().WithMaxTime(7), 4},
		{"selection and bound", model.NewCriteria().WithSelection(model.DimCompound, "A").WithMaxTime(0), 2},
		{"no match", model.NewCriteria().WithSelection(model.DimCompound, "C"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Filter(table, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Len())
			assert.Equal(t, model.PKSchema.Table, out.Schema.Table)
		})
	}
}

func TestFilterEmptySelectionsOnlyApplyTimeBound(t *testing.T) {
	table := samplePKTable()
	for _, bound := range []float64{0, 1, 7, 13.5, 28, 100} {
		out, err := Filter(table, model.NewCriteria().WithMaxTime(bound))
		require.NoError(t, err)

		want := 0
		for _, r := range table.Records {
			if r.Time <= bound {
				want++
			}
		}
		assert.Equal(t, want, out.Len(), "bound %v", bound)
		for _, r := range out.Records {
			assert.LessOrEqual(t, r.Time, bound)
		}
	}
}

func TestFilterSchemaMismatch(t *testing.T) {
	_, err := Filter(samplePKTable(), model.NewCriteria().WithSelection(model.DimRun, "R1"))
	var mismatch *model.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "RUN_NAME", mismatch.Column)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	table := samplePKTable()
	before := table.Len()
	_, err := Filter(table, model.NewCriteria().WithSelection(model.DimCompound, "A"))
	require.NoError(t, err)
	assert.Equal(t, before, table.Len())
}

func TestFilterNilTable(t *testing.T) {
	out, err := Filter(nil, model.NewCriteria())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}
