package layout

import (
	"io"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
)

// LayoutParam carries the view settings that are not part of the report
type LayoutParam struct {
	Sizer      *Sizer
	State      model.InteractionState
	FitModel   string
	SortLabel  string
	LastUpdate time.Time
	Groups     []model.AggregatedGroup // display order of report groups
}

// LayoutStrategy defines the interface for different layout rendering strategies
type LayoutStrategy interface {
	Render(w io.Writer, report formatter.Report, param LayoutParam)
	GetName() string
}

// GetLayoutStrategy returns the strategy for a layout style; unknown styles
// use the full dashboard
func GetLayoutStrategy(layoutStyle int) LayoutStrategy {
	switch layoutStyle {
	case 1:
		return &MinimalLayoutStrategy{}
	}
	return &FullLayoutStrategy{}
}

// LayoutCount is the number of styles cycled by the layout key
const LayoutCount = 2
