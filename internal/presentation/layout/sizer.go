package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	minWidth      = 60
	maxWidth      = 160
)

// Sizer knows the drawable area of the terminal
type Sizer struct {
	Width  int
	Height int
}

// NewSizer returns a sizer for a fixed area
func NewSizer(width, height int) *Sizer {
	return &Sizer{Width: width, Height: height}
}

// TerminalSizer measures stdout, falling back to a default area when stdout
// is not a terminal
func TerminalSizer() *Sizer {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		width, height = defaultWidth, defaultHeight
	}
	if width > maxWidth {
		width = maxWidth
	}
	return NewSizer(width-2, height)
}

// BodyLines is the number of rows left for the table once header and footer
// are drawn
func (s *Sizer) BodyLines(header, footer int) int {
	n := s.Height - header - footer
	if n < 0 {
		return 0
	}
	return n
}

// PadString pads a string to a display width, handling wide runes
func (s *Sizer) PadString(text string, width int, leftAlign bool) string {
	actual := runewidth.StringWidth(text)
	if actual >= width {
		return text
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// Fit truncates text to the sizer width
func (s *Sizer) Fit(text string) string {
	if s.Width <= 0 || runewidth.StringWidth(text) <= s.Width {
		return text
	}
	return runewidth.Truncate(text, s.Width, "…")
}
