package pipeline

import (
	"sort"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

// SubjectSummary describes one dosed animal of a study.
type SubjectSummary struct {
	Study        string `json:"study"`
	Compound     string `json:"compound"`
	Animal       string `json:"animal"`
	Species      string `json:"species"`
	Strain       string `json:"strain"`
	Dose         string `json:"dose"`
	Observations int    `json:"observations"`
}

var summaryDimensions = []model.Dimension{
	model.DimStudy, model.DimCompound, model.DimAnimal,
	model.DimSpecies, model.DimStrain, model.DimDose,
}

// Summarize groups a PK table by (study, compound, animal) and keeps the
// first species, strain and dose seen for each subject.
func Summarize(table *model.Table) ([]SubjectSummary, error) {
	if table == nil {
		return []SubjectSummary{}, nil
	}
	if err := table.Schema.RequireDimensions(summaryDimensions...); err != nil {
		return nil, err
	}

	type subjectKey struct{ study, compound, animal string }
	index := make(map[subjectKey]int)
	rows := make([]SubjectSummary, 0)
	for _, r := range table.Records {
		k := subjectKey{r.Dim(model.DimStudy), r.Dim(model.DimCompound), r.Dim(model.DimAnimal)}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, SubjectSummary{
				Study:    k.study,
				Compound: k.compound,
				Animal:   k.animal,
				Species:  r.Dim(model.DimSpecies),
				Strain:   r.Dim(model.DimStrain),
				Dose:     r.Dim(model.DimDose),
			})
		}
		rows[i].Observations++
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Study != b.Study {
			return a.Study < b.Study
		}
		if a.Compound != b.Compound {
			return a.Compound < b.Compound
		}
		return a.Animal < b.Animal
	})
	return rows, nil
}
