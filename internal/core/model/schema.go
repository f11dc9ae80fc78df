package model

import "strings"

// Schema describes the fixed column layout of a source table.
type Schema struct {
	Table      string
	IDColumn   Dimension   // column used for bind-list queries
	Dimensions []Dimension // ordered discrete columns
	Keys       []Dimension // identity keys used for grouping
	TimeColumn string
	Measures   []Measure
}

var (
	// PKSchema is the long-format concentration table.
	PKSchema = Schema{
		Table:      "SB_CONC_DATA",
		IDColumn:   DimCompound,
		Dimensions: []Dimension{DimCompound, DimStudy, DimStrain, DimAnimal, DimSpecies, DimDose},
		Keys:       []Dimension{DimCompound, DimStudy, DimStrain},
		TimeColumn: "TIMEPOINT",
		Measures:   []Measure{MeasureConc},
	}

	// TrendSchema is the wide-format bioreactor process table.
	TrendSchema = Schema{
		Table:      "PROCESS_TREND",
		IDColumn:   DimRun,
		Dimensions: []Dimension{DimProduct, DimScale, DimStrain, DimRun},
		Keys:       []Dimension{DimProduct, DimScale, DimStrain, DimRun},
		TimeColumn: "ELAPSED_TIME",
		Measures: []Measure{
			MeasureVCD, MeasureViability, MeasureGlucose, MeasureLactate,
			MeasureTiter, MeasurePH, MeasureDO, MeasureTemperature,
		},
	}
)

// LookupSchema finds a known schema by table name or short alias ("pk", "trend").
func LookupSchema(name string) (Schema, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pk", strings.ToLower(PKSchema.Table):
		return PKSchema, true
	case "trend", "process", strings.ToLower(TrendSchema.Table):
		return TrendSchema, true
	}
	return Schema{}, false
}

// Columns returns the column names in table order: dimensions, time, measures.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.Dimensions)+1+len(s.Measures))
	for _, d := range s.Dimensions {
		cols = append(cols, string(d))
	}
	cols = append(cols, s.TimeColumn)
	for _, m := range s.Measures {
		cols = append(cols, string(m))
	}
	return cols
}

func (s Schema) HasDimension(d Dimension) bool {
	for _, known := range s.Dimensions {
		if known == d {
			return true
		}
	}
	return false
}

func (s Schema) HasMeasure(m Measure) bool {
	for _, known := range s.Measures {
		if known == m {
			return true
		}
	}
	return false
}

// DefaultMeasure is the first measure column, or "" for a schema without one.
func (s Schema) DefaultMeasure() Measure {
	if len(s.Measures) == 0 {
		return ""
	}
	return s.Measures[0]
}

// RequireDimensions returns a SchemaMismatchError for the first missing dimension.
func (s Schema) RequireDimensions(dims ...Dimension) error {
	for _, d := range dims {
		if !s.HasDimension(d) {
			return &SchemaMismatchError{Table: s.Table, Column: string(d)}
		}
	}
	return nil
}

// RequireMeasure returns a SchemaMismatchError when m is not a column of s.
func (s Schema) RequireMeasure(m Measure) error {
	if !s.HasMeasure(m) {
		return &SchemaMismatchError{Table: s.Table, Column: string(m)}
	}
	return nil
}
