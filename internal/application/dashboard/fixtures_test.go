package dashboard

import (
	"testing"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/data/source"
	"github.com/stretchr/testify/require"
)

func pkRecord(compound, study, strain string, t, conc float64) model.Record {
	return model.Record{
		Dims: map[model.Dimension]string{
			model.DimCompound: compound,
			model.DimStudy:    study,
			model.DimStrain:   strain,
			model.DimAnimal:   "A1",
			model.DimSpecies:  "Mouse",
			model.DimDose:     "10",
		},
		Time:   t,
		Values: map[model.Measure]float64{model.MeasureConc: conc},
	}
}

func samplePKTable() *model.Table {
	missing := pkRecord("B", "S3", "Z", 28, 0)
	delete(missing.Values, model.MeasureConc)
	return model.NewTable(model.PKSchema, []model.Record{
		pkRecord("A", "S1", "X", 0, 100),
		pkRecord("A", "S1", "X", 0, 120),
		pkRecord("A", "S1", "X", 7, 50),
		pkRecord("A", "S2", "Y", 14, 10),
		pkRecord("B", "S1", "X", 1, 80),
		pkRecord("B", "S3", "Z", 28, 5),
		missing,
	})
}

func testConfig(t *testing.T, table string) *Config {
	t.Helper()
	cfg := &Config{DSN: "memory", Table: table}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestSession(t *testing.T, src *source.MemorySource) *Session {
	t.Helper()
	cfg := testConfig(t, "pk")
	return NewSession("test", cfg, NewDataLoaderWithSource(src, cfg, nil), nil)
}
