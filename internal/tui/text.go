package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// ellipsis marks truncated text.
const ellipsis = "…"

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return uniseg.StringWidth(sanitize(s))
}

// Fit truncates s so that it occupies at most width cells. Truncated text
// ends with an ellipsis.
func Fit(s string, width int) string {
	s = sanitize(s)
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// sanitize replaces control characters, which cell text may contain, with
// spaces.
func sanitize(s string) string {
	if !strings.ContainsAny(s, "\t\n\r") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, s)
}

// drawText writes s at (x, y) and pads with spaces up to width cells.
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	used := 0
	g := uniseg.NewGraphemes(Fit(text, width))
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		r := g.Runes()
		s.SetContent(x+used, y, r[0], r[1:], style)
		used += w
	}
	for ; used < width; used++ {
		s.SetContent(x+used, y, ' ', nil, style)
	}
}

// trimLast removes the last grapheme cluster of s.
func trimLast(s string) string {
	last := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		from, _ := g.Positions()
		last = from
	}
	return s[:last]
}
