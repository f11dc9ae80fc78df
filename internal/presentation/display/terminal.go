// Package display draws the live view in the terminal's alternate screen.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/penwyp/go-pkviz/internal/presentation/layout"
	"github.com/penwyp/go-pkviz/internal/util"
)

const (
	enterAltScreen = "\033[?1049h"
	exitAltScreen  = "\033[?1049l"
	clearToEnd     = "\033[J"
)

type TerminalDisplay struct {
	out               io.Writer
	sizer             func() *layout.Sizer
	inAlternateScreen bool
	lastLayoutStyle   int
	lastDraw          time.Time
}

// NewTerminalDisplay draws on stdout sized to the terminal
func NewTerminalDisplay() *TerminalDisplay {
	return NewTerminalDisplayTo(os.Stdout, layout.TerminalSizer)
}

// NewTerminalDisplayTo draws on out with a custom sizer
func NewTerminalDisplayTo(out io.Writer, sizer func() *layout.Sizer) *TerminalDisplay {
	return &TerminalDisplay{out: out, sizer: sizer}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, enterAltScreen, util.ClearScreen, util.MoveCursorHome, util.HideCursor)
	td.inAlternateScreen = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome, util.ShowCursor, exitAltScreen)
	td.inAlternateScreen = false
}

// ClearScreen clears the alternate screen buffer
func (td *TerminalDisplay) ClearScreen() {
	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome)
	}
}

// RenderWithState redraws the whole view
func (td *TerminalDisplay) RenderWithState(report formatter.Report, param layout.LayoutParam) {
	if param.Sizer == nil {
		param.Sizer = td.sizer()
	}
	state := param.State

	if td.lastLayoutStyle != state.LayoutStyle {
		td.ClearScreen()
		td.lastLayoutStyle = state.LayoutStyle
	}
	fmt.Fprint(td.out, util.MoveCursorHome)

	switch {
	case state.ShowHelp:
		td.renderHelp()
	default:
		layout.GetLayoutStrategy(state.LayoutStyle).Render(td.out, report, param)
		td.renderStatusLine(state.StatusMessage, state.IsPaused)
	}

	fmt.Fprint(td.out, clearToEnd)
	td.lastDraw = time.Now()
}

// RenderLoading shows a centered loading box
func (td *TerminalDisplay) RenderLoading(message string) {
	if message == "" {
		message = "Loading data..."
	}
	fmt.Fprint(td.out, util.MoveCursorHome)

	boxWidth := 50
	if w := util.GetDisplayWidth(message) + 6; w > boxWidth {
		boxWidth = w
	}
	fmt.Fprintf(td.out, "\n\n╔%s╗\n", strings.Repeat("═", boxWidth-2))
	fmt.Fprintf(td.out, "║%s║\n", util.CenterText("go-pkviz", boxWidth-2))
	fmt.Fprintf(td.out, "╠%s╣\n", strings.Repeat("═", boxWidth-2))
	fmt.Fprintf(td.out, "║%s║\n", util.CenterText(message, boxWidth-2))
	fmt.Fprintf(td.out, "║%s║\n", util.CenterText("Press 'q' to quit", boxWidth-2))
	fmt.Fprintf(td.out, "╚%s╝\n", strings.Repeat("═", boxWidth-2))
	fmt.Fprint(td.out, clearToEnd)
}

func (td *TerminalDisplay) renderHelp() {
	lines := []string{
		"go-pkviz - Help",
		strings.Repeat("═", 60),
		"",
		"Keyboard Shortcuts:",
		"",
		"  q/Ctrl+C  - Quit",
		"  r         - Reload data (drops cached tables)",
		"  l         - Toggle log scale",
		"  e         - Toggle error bars",
		"  f         - Cycle curve fit (none, exponential, bi-exponential)",
		"  m         - Cycle measure",
		"  s / S     - Cycle sort column / reverse order",
		"  t         - Change layout style (Full, Minimal)",
		"  p         - Pause/unpause file watching",
		"  h         - Show this help",
		"  ESC       - Close help (or quit if nothing is open)",
		"",
		strings.Repeat("═", 60),
		"Press 'h' to return...",
	}
	for _, l := range lines {
		fmt.Fprintln(td.out, l)
	}
}

func (td *TerminalDisplay) renderStatusLine(message string, paused bool) {
	status := message
	if paused {
		status = strings.TrimSpace("[paused] " + status)
	}
	if status == "" {
		return
	}
	fmt.Fprintln(td.out)
	fmt.Fprintf(td.out, "%s  Status: %s\n", util.ClearLine, status)
}
