package model

import (
	"fmt"
	"strings"
)

// Dimension is a discrete identity or attribute column of a record.
type Dimension string

const (
	DimCompound Dimension = "COMPOUND_ID"
	DimStudy    Dimension = "SRD_STUDY"
	DimStrain   Dimension = "STRAIN"
	DimAnimal   Dimension = "ANIMAL_ID"
	DimSpecies  Dimension = "SPECIES"
	DimDose     Dimension = "DOSE"
	DimRun      Dimension = "RUN_NAME"
	DimProduct  Dimension = "PRODUCT"
	DimScale    Dimension = "SCALE"
)

// dimensionOrder fixes the canonical ordering used when dimensions are listed.
var dimensionOrder = []Dimension{
	DimCompound,
	DimStudy,
	DimStrain,
	DimAnimal,
	DimSpecies,
	DimDose,
	DimProduct,
	DimScale,
	DimRun,
}

// AllDimensions returns every known dimension in canonical order
func AllDimensions() []Dimension {
	out := make([]Dimension, len(dimensionOrder))
	copy(out, dimensionOrder)
	return out
}

// ParseDimension resolves a column name (case-insensitive) to a Dimension.
// A few short aliases used on the command line are accepted as well.
func ParseDimension(name string) (Dimension, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	switch key {
	case "COMPOUND":
		return DimCompound, nil
	case "STUDY":
		return DimStudy, nil
	case "RUN":
		return DimRun, nil
	case "ANIMAL":
		return DimAnimal, nil
	}
	for _, d := range dimensionOrder {
		if string(d) == key {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", name)
}

func (d Dimension) rank() int {
	for i, known := range dimensionOrder {
		if known == d {
			return i
		}
	}
	return len(dimensionOrder)
}

// Measure is a numeric field that can be aggregated and plotted.
type Measure string

const (
	MeasureConc        Measure = "CONC"
	MeasureVCD         Measure = "VCD"
	MeasureViability   Measure = "VIABILITY"
	MeasureGlucose     Measure = "GLUCOSE"
	MeasureLactate     Measure = "LACTATE"
	MeasureTiter       Measure = "TITER"
	MeasurePH          Measure = "PH"
	MeasureDO          Measure = "DO"
	MeasureTemperature Measure = "TEMPERATURE"
)

var measureLabels = map[Measure]string{
	MeasureConc:        "Concentration (ng/mL)",
	MeasureVCD:         "Viable Cell Density (1e6 cells/mL)",
	MeasureViability:   "Viability (%)",
	MeasureGlucose:     "Glucose (g/L)",
	MeasureLactate:     "Lactate (g/L)",
	MeasureTiter:       "Titer (g/L)",
	MeasurePH:          "pH",
	MeasureDO:          "Dissolved Oxygen (%)",
	MeasureTemperature: "Temperature (C)",
}

// Label returns the axis label used for the measure
func (m Measure) Label() string {
	if label, ok := measureLabels[m]; ok {
		return label
	}
	return string(m)
}

// ParseMeasure resolves a measure name (case-insensitive).
func ParseMeasure(name string) (Measure, error) {
	m := Measure(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := measureLabels[m]; !ok {
		return "", fmt.Errorf("unknown measure %q", name)
	}
	return m, nil
}
