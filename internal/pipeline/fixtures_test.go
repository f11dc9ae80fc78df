package pipeline

import "github.com/penwyp/go-pkviz/internal/core/model"

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

func missingRecord(compound, study, strain string, t float64) model.Record {
	r := pkRecord(compound, study, strain, t, 0)
	delete(r.Values, model.MeasureConc)
	return r
}

func trendRecord(product, scale, strain, run string, t float64) model.Record {
	return model.Record{
		Dims: map[model.Dimension]string{
			model.DimProduct: product,
			model.DimScale:   scale,
			model.DimStrain:  strain,
			model.DimRun:     run,
		},
		Time:   t,
		Values: map[model.Measure]float64{model.MeasureVCD: t + 1},
	}
}

func samplePKTable() *model.Table {
	return model.NewTable(model.PKSchema, []model.Record{
		pkRecord("A", "S1", "X", 0, 100),
		pkRecord("A", "S1", "X", 0, 120),
		pkRecord("A", "S1", "X", 7, 50),
		pkRecord("A", "S2", "Y", 14, 10),
		pkRecord("B", "S1", "X", 1, 80),
		pkRecord("B", "S3", "Z", 28, 5),
		missingRecord("B", "S3", "Z", 28),
	})
}
