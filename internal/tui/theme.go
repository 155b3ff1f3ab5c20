package tui

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/keygrid/internal/config"
)

// Theme holds the screen styles derived from a config.Style.
type Theme struct {
	Normal    tcell.Style
	Header    tcell.Style
	Selected  tcell.Style
	Cursor    tcell.Style
	Drag      tcell.Style
	Editing   tcell.Style
	Status    tcell.Style
	ScrollBar tcell.Style
}

// NewTheme builds a theme. Colors that fail to parse fall back to the
// defaults.
func NewTheme(s config.Style) Theme {
	def := config.Default()

	selected := parseColor(s.BgSelectedCell, def.BgSelectedCell)
	cursor := parseColor(s.BgSelectedHighlightCell, def.BgSelectedHighlightCell)
	drag := parseColor(s.FgDragSelection, def.FgDragSelection)

	normal := tcell.StyleDefault
	return Theme{
		Normal:    normal,
		Header:    normal.Bold(true).Underline(true),
		Selected:  normal.Background(toTcell(selected)).Foreground(contrast(selected)),
		Cursor:    normal.Background(toTcell(cursor)).Foreground(contrast(cursor)).Bold(true),
		Drag:      normal.Background(toTcell(selected)).Foreground(toTcell(drag)),
		Editing:   normal.Reverse(true),
		Status:    normal.Reverse(true),
		ScrollBar: normal.Foreground(toTcell(cursor)),
	}
}

func parseColor(hex, fallback string) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// contrast picks black or white text for a background.
func contrast(bg colorful.Color) tcell.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}
