package pipeline

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

// Policy decides what happens to a level's selection when its choices are
// replaced.
type Policy int

const (
	// KeepCompatible retains the selected values that are still valid choices.
	KeepCompatible Policy = iota
	// ResetEmpty clears the selection, meaning "all".
	ResetEmpty
	// SelectAll selects every valid choice.
	SelectAll
)

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep", "keep_compatible":
		return KeepCompatible, nil
	case "reset", "reset_empty":
		return ResetEmpty, nil
	case "all", "select_all":
		return SelectAll, nil
	}
	return 0, fmt.Errorf("unknown cascade policy %q", s)
}

func (p Policy) String() string {
	switch p {
	case ResetEmpty:
		return "reset_empty"
	case SelectAll:
		return "select_all"
	}
	return "keep_compatible"
}

// Control is the state of one dependent selection control.
type Control struct {
	Dimension model.Dimension `json:"dimension"`
	Choices   []string        `json:"choices"`
	Selected  []string        `json:"selected"`
}

// Cascade is a left-to-right chain of dependent filter controls.
type Cascade struct {
	Levels []model.Dimension
}

// PKCascade narrows compound -> study -> strain.
func PKCascade() Cascade {
	return Cascade{Levels: []model.Dimension{model.DimCompound, model.DimStudy, model.DimStrain}}
}

// TrendCascade narrows product -> scale -> strain -> run.
func TrendCascade() Cascade {
	return Cascade{Levels: []model.Dimension{model.DimProduct, model.DimScale, model.DimStrain, model.DimRun}}
}

// CascadeFor returns the default chain for a schema.
func CascadeFor(schema model.Schema) Cascade {
	if schema.Table == model.TrendSchema.Table {
		return TrendCascade()
	}
	return PKCascade()
}

// Update recomputes every level's choices from the view narrowed by the
// levels before it and returns the controls together with the criteria
// rewritten to the new selections. The first level has no upstream, so its
// selection is only checked against its choices; the policy applies to the
// dependent levels. Criteria on dimensions outside the chain and the time
// bound are kept.
func (c Cascade) Update(table *model.Table, criteria model.FilterCriteria, policy Policy) ([]Control, model.FilterCriteria, error) {
	if table == nil {
		table = model.NewTable(model.Schema{Dimensions: c.Levels}, nil)
	}
	if err := table.Schema.RequireDimensions(c.Levels...); err != nil {
		return nil, criteria, err
	}

	view := table
	controls := make([]Control, 0, len(c.Levels))
	for i, level := range c.Levels {
		choices := view.Distinct(level)
		levelPolicy := policy
		if i == 0 {
			levelPolicy = KeepCompatible
		}
		selected := applyPolicy(levelPolicy, choices, criteria.Selection(level))

		controls = append(controls, Control{Dimension: level, Choices: choices, Selected: selected})
		criteria = criteria.WithSelection(level, selected...)

		narrowed, err := Filter(view, model.NewCriteria().WithSelection(level, selected...))
		if err != nil {
			return nil, criteria, err
		}
		view = narrowed
	}
	return controls, criteria, nil
}

func applyPolicy(policy Policy, choices, previous []string) []string {
	switch policy {
	case ResetEmpty:
		return []string{}
	case SelectAll:
		out := make([]string, len(choices))
		copy(out, choices)
		return out
	}
	valid := make(map[string]struct{}, len(choices))
	for _, v := range choices {
		valid[v] = struct{}{}
	}
	kept := make([]string, 0, len(previous))
	for _, v := range previous {
		if _, ok := valid[v]; ok {
			kept = append(kept, v)
		}
	}
	return kept
}
