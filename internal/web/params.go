package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/pipeline"
)

// dimensionParams maps query parameter names onto dimensions.
var dimensionParams = map[string]model.Dimension{
	"compound": model.DimCompound,
	"study":    model.DimStudy,
	"strain":   model.DimStrain,
	"animal":   model.DimAnimal,
	"species":  model.DimSpecies,
	"dose":     model.DimDose,
	"run":      model.DimRun,
	"product":  model.DimProduct,
	"scale":    model.DimScale,
}

// ViewParams is a fully specified view decoded from a request. Parameters
// absent from the query take the server defaults.
type ViewParams struct {
	IDs      []string
	Criteria model.FilterCriteria
	Measure  model.Measure
	Toggles  dashboard.Toggles
	Fit      pipeline.FitModel
}

// DecodeParams reads the view parameters from q.
//
//	compound, study, strain, ... repeated or comma-separated selections
//	ids                          comma-separated id list for the query
//	measure                      measure column
//	log, errorbars               booleans
//	logfloor, maxtime            numbers; maxtime <= 0 means unbounded
//	fit                          none, exponential or bi_exponential
func DecodeParams(q url.Values, defaults *dashboard.Config) (ViewParams, error) {
	p := ViewParams{
		IDs:      defaults.IDs,
		Criteria: defaults.Criteria(),
		Measure:  defaults.ResolvedMeasure(),
		Toggles:  defaults.Toggles(),
		Fit:      defaults.ResolvedFit(),
	}

	for name, d := range dimensionParams {
		if _, ok := q[name]; ok {
			p.Criteria = p.Criteria.WithSelection(d, splitValues(q[name])...)
		}
	}
	if _, ok := q["ids"]; ok {
		p.IDs = splitValues(q["ids"])
	}

	if v := q.Get("maxtime"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("invalid maxtime %q", v)
		}
		if t > 0 {
			p.Criteria = p.Criteria.WithMaxTime(t)
		} else {
			p.Criteria = p.Criteria.WithoutMaxTime()
		}
	}
	if v := q.Get("measure"); v != "" {
		m, err := model.ParseMeasure(v)
		if err != nil {
			return p, err
		}
		p.Measure = m
	}
	if v := q.Get("fit"); v != "" {
		f, err := pipeline.ParseFitModel(v)
		if err != nil {
			return p, err
		}
		p.Fit = f
	}

	var err error
	if p.Toggles.UseLogScale, err = boolParam(q, "log", p.Toggles.UseLogScale); err != nil {
		return p, err
	}
	if p.Toggles.ShowErrorBars, err = boolParam(q, "errorbars", p.Toggles.ShowErrorBars); err != nil {
		return p, err
	}
	if v := q.Get("logfloor"); v != "" {
		floor, err := strconv.ParseFloat(v, 64)
		if err != nil || floor < 0 {
			return p, fmt.Errorf("invalid logfloor %q", v)
		}
		p.Toggles.LogFloor = floor
	}
	return p, nil
}

// Apply pushes the view into the session's inputs.
func (p ViewParams) Apply(s *dashboard.Session) {
	s.SetIDs(p.IDs)
	s.SetCriteria(p.Criteria)
	s.SetMeasure(p.Measure)
	s.SetToggles(p.Toggles)
	s.SetFitModel(p.Fit)
}

func boolParam(q url.Values, name string, fallback bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q", name, v)
	}
	return b, nil
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
