package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/util"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// FitModel selects the curve family overlaid on the observed means.
type FitModel string

const (
	FitNone          FitModel = "none"
	FitExponential   FitModel = "exponential"
	FitBiExponential FitModel = "bi_exponential"
)

// DefaultGridSize is the number of synthetic time points a fitted curve is
// evaluated on.
const DefaultGridSize = 100

func ParseFitModel(s string) (FitModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FitNone, nil
	case "exp", "exponential":
		return FitExponential, nil
	case "biexp", "bi-exponential", "bi_exponential", "biexponential":
		return FitBiExponential, nil
	}
	return "", fmt.Errorf("unknown fit model %q", s)
}

func (m FitModel) params() int {
	switch m {
	case FitExponential:
		return 2
	case FitBiExponential:
		return 4
	}
	return 0
}

// Exponential is A·exp(-αt).
func Exponential(t, a, alpha float64) float64 {
	return a * math.Exp(-alpha*t)
}

// BiExponential is A·exp(-αt) + B·exp(-βt).
func BiExponential(t, a, alpha, b, beta float64) float64 {
	return a*math.Exp(-alpha*t) + b*math.Exp(-beta*t)
}

// FitResult holds the parameters found for one identity group.
type FitResult struct {
	Identity model.Identity
	Model    FitModel
	Params   []float64 // A, α[, B, β]
	SSE      float64
}

// Eval evaluates the fitted curve at t.
func (r FitResult) Eval(t float64) float64 {
	switch r.Model {
	case FitExponential:
		return Exponential(t, r.Params[0], r.Params[1])
	case FitBiExponential:
		return BiExponential(t, r.Params[0], r.Params[1], r.Params[2], r.Params[3])
	}
	return math.NaN()
}

type observation struct {
	t, y float64
}

// Fit fits the model to the observed means of every identity group and
// returns the curves evaluated on a dense grid over [0, max observed time]
// as Fitted points. Groups with too few observations or a failed fit are
// skipped; fitting never fails the caller.
func Fit(groups []model.AggregatedGroup, m FitModel, gridSize int) ([]model.SeriesPoint, []FitResult) {
	if m.params() == 0 || len(groups) == 0 {
		return []model.SeriesPoint{}, []FitResult{}
	}
	if gridSize < 2 {
		gridSize = DefaultGridSize
	}

	byIdentity := make(map[string][]observation)
	identities := make(map[string]model.Identity)
	keys := make([]string, 0)
	for _, g := range groups {
		if g.Count == 0 || math.IsNaN(g.Mean) || math.IsInf(g.Mean, 0) {
			continue
		}
		k := g.Identity.Key()
		if _, ok := identities[k]; !ok {
			identities[k] = g.Identity
			keys = append(keys, k)
		}
		byIdentity[k] = append(byIdentity[k], observation{t: g.Time, y: g.Mean})
	}
	sort.Slice(keys, func(i, j int) bool {
		return model.CompareIdentity(identities[keys[i]], identities[keys[j]]) < 0
	})

	points := make([]model.SeriesPoint, 0)
	results := make([]FitResult, 0, len(keys))
	for _, k := range keys {
		obs := byIdentity[k]
		id := identities[k]
		if len(obs) < m.params() {
			util.LogDebugf("fit %s: skipping %s, %d points for %d parameters", m, id, len(obs), m.params())
			continue
		}
		res, err := fitGroup(obs, m)
		if err != nil {
			util.LogWarnf("fit %s: %s: %v", m, id, err)
			continue
		}
		res.Identity = id
		results = append(results, res)

		maxT := 0.0
		for _, o := range obs {
			maxT = math.Max(maxT, o.t)
		}
		step := maxT / float64(gridSize-1)
		for i := 0; i < gridSize; i++ {
			t := step * float64(i)
			points = append(points, model.SeriesPoint{
				Provenance: model.ProvenanceFitted,
				Identity:   id,
				Time:       t,
				Value:      res.Eval(t),
			})
		}
	}
	return points, results
}

// fitGroup minimizes the sum of squared residuals with Nelder-Mead over
// log-transformed parameters, which keeps amplitudes and rates positive.
func fitGroup(obs []observation, m FitModel) (FitResult, error) {
	a0, alpha0 := initialGuess(obs)

	var init []float64
	switch m {
	case FitExponential:
		init = []float64{math.Log(a0), math.Log(alpha0)}
	case FitBiExponential:
		init = []float64{
			math.Log(0.7 * a0), math.Log(3 * alpha0),
			math.Log(0.3 * a0), math.Log(alpha0 / 3),
		}
	}

	decode := func(x []float64) []float64 {
		p := make([]float64, len(x))
		for i, v := range x {
			p[i] = math.Exp(v)
		}
		return p
	}
	curve := FitResult{Model: m}
	sse := func(x []float64) float64 {
		curve.Params = decode(x)
		total := 0.0
		for _, o := range obs {
			r := o.y - curve.Eval(o.t)
			total += r * r
		}
		if math.IsNaN(total) || math.IsInf(total, 0) {
			return math.MaxFloat64
		}
		return total
	}

	problem := optimize.Problem{Func: sse}
	settings := &optimize.Settings{MajorIterations: 5000, FuncEvaluations: 20000}
	result, err := optimize.Minimize(problem, init, settings, &optimize.NelderMead{})
	if err != nil && result == nil {
		return FitResult{}, err
	}
	if result == nil || math.IsNaN(result.F) || result.F == math.MaxFloat64 {
		return FitResult{}, fmt.Errorf("no convergence")
	}

	params := decode(result.X)
	for _, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return FitResult{}, fmt.Errorf("non-finite parameters %v", params)
		}
	}
	return FitResult{Model: m, Params: params, SSE: result.F}, nil
}

// initialGuess derives A and α from a log-linear regression over the
// positive observations, falling back to the peak value and a unit rate.
func initialGuess(obs []observation) (float64, float64) {
	xs := make([]float64, 0, len(obs))
	ys := make([]float64, 0, len(obs))
	peak := 0.0
	for _, o := range obs {
		peak = math.Max(peak, o.y)
		if o.y > 0 {
			xs = append(xs, o.t)
			ys = append(ys, math.Log(o.y))
		}
	}
	if peak <= 0 {
		peak = 1
	}
	if len(xs) >= 2 {
		intercept, slope := stat.LinearRegression(xs, ys, nil, false)
		if slope < 0 && !math.IsNaN(intercept) {
			return math.Exp(intercept), -slope
		}
	}
	return peak, 1
}
