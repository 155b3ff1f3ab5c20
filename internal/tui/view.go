package tui

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keygrid/internal/config"
	"github.com/dshills/keygrid/internal/grid"
)

// Column width limits in cells.
const (
	minColumnWidth = 3
	maxColumnWidth = 32
)

// span is one drawn column.
type span struct {
	x, width int
	vis      int
	data     int
}

// view records the geometry of the last draw for hit testing.
type view struct {
	rows      int
	top       int
	rowHeight int
	bodyY     int
	bottom    int
	right     int
	columns   []span

	cursor    grid.Cell
	hasCursor bool
}

func (v view) spanAt(x int) (span, bool) {
	for _, s := range v.columns {
		if x >= s.x && x < s.x+s.width {
			return s, true
		}
	}
	return span{}, false
}

func (v view) inTable(x, y int) bool {
	return y >= 0 && y < v.bottom && x >= 0 && x < v.right
}

// headerAt returns the data column whose header is at (x, y).
func (v view) headerAt(x, y int) (int, bool) {
	if y != v.bodyY-1 {
		return 0, false
	}
	s, ok := v.spanAt(x)
	return s.data, ok
}

// cellAt returns the cell drawn at (x, y).
func (v view) cellAt(x, y int) (grid.Cell, bool) {
	if y < v.bodyY || y >= v.bottom || v.rowHeight <= 0 {
		return grid.Cell{}, false
	}
	pos := v.top + (y-v.bodyY)/v.rowHeight
	if pos >= v.rows {
		return grid.Cell{}, false
	}
	s, ok := v.spanAt(x)
	if !ok {
		return grid.Cell{}, false
	}
	return grid.Cell{Row: pos, Column: s.vis}, true
}

// Draw renders the table and status line.
func (a *App[R]) Draw() {
	s := a.screen
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	n := a.table.Len()
	rowHeight := max(1, a.style.RowHeight)
	slots := max(0, h-2) / rowHeight
	cur, hasCursor := a.table.Selection().Cursor()
	if hasCursor && (cur != a.view.cursor || !a.view.hasCursor) {
		a.followRow(cur.Row, slots)
	}
	a.top = max(0, min(a.top, n-1))

	scrollBar := a.showScrollBar(n > slots)
	avail := w
	if scrollBar {
		avail--
	}
	gutter := len(strconv.Itoa(max(n, 1))) + 1

	visible := a.table.VisibleColumns()
	widths := a.columnWidths(visible, slots, avail-gutter)
	columns := a.layoutColumns(visible, widths, gutter, avail, cur, hasCursor)

	a.view = view{
		rows:      n,
		top:       a.top,
		rowHeight: rowHeight,
		bodyY:     1,
		right:     avail,
		columns:   columns,
		cursor:    cur,
		hasCursor: hasCursor,
	}

	a.drawHeader(gutter, columns)

	drawn := max(0, min(slots, n-a.top))
	editCell, editing := a.table.EditingCell()
	editing = editing && a.editing()
	for i := 0; i < drawn; i++ {
		pos := a.top + i
		y := 1 + i*rowHeight
		row, _ := a.table.Row(pos)

		drawText(s, 0, y, gutter-1, fmt.Sprintf("%*d", gutter-1, pos+1), a.theme.Header)
		for _, col := range columns {
			c := grid.Cell{Row: pos, Column: col.vis}
			text := a.table.Caps().EncodeCell(row, col.data)
			style := a.cellStyle(c)
			if editing && c == editCell {
				text, style = a.buffer, a.theme.Editing
			}
			for line := 0; line < rowHeight; line++ {
				if line > 0 {
					text = ""
				}
				drawText(s, col.x, y+line, col.width, text, style)
			}
		}
	}
	a.view.bottom = 1 + drawn*rowHeight

	if scrollBar {
		a.drawScrollBar(avail, 1, slots*rowHeight, n, slots)
	}

	statusY := h - 1
	if a.style.AutoShrinkY {
		statusY = min(a.view.bottom, h-1)
	}
	a.drawStatus(statusY, w)

	if editing {
		for _, col := range columns {
			if col.vis == editCell.Column {
				x := col.x + min(Width(a.buffer), col.width-1)
				s.ShowCursor(x, 1+(editCell.Row-a.top)*rowHeight)
			}
		}
	} else {
		s.HideCursor()
	}
	s.Show()
}

func (a *App[R]) followRow(row, slots int) {
	switch {
	case slots <= 0:
	case row < a.top:
		a.top = row
	case row >= a.top+slots:
		a.top = row - slots + 1
	}
}

func (a *App[R]) showScrollBar(overflow bool) bool {
	switch a.style.ScrollBars {
	case config.ScrollBarsAlways:
		return true
	case config.ScrollBarsHover:
		return overflow && a.hover
	default:
		return false
	}
}

// columnWidths sizes each visible column to its header and the text of the
// rows on screen. Without horizontal auto-shrink columns share the spare
// width.
func (a *App[R]) columnWidths(visible []int, slots, avail int) []int {
	widths := make([]int, len(visible))
	last := min(a.table.Len(), a.top+slots)
	for i, col := range visible {
		w := Width(a.table.ColumnName(col)) + 2
		for pos := a.top; pos < last; pos++ {
			row, _ := a.table.Row(pos)
			w = max(w, Width(a.table.Caps().EncodeCell(row, col)))
		}
		widths[i] = max(minColumnWidth, min(w, maxColumnWidth))
	}

	if !a.style.AutoShrinkX && len(visible) > 0 {
		share := (avail - len(visible)) / len(visible)
		for i := range widths {
			widths[i] = max(widths[i], share)
		}
	}
	return widths
}

// layoutColumns places columns from the horizontal scroll offset, scrolling
// so that the cursor column is on screen.
func (a *App[R]) layoutColumns(visible, widths []int, gutter, avail int, cur grid.Cell, hasCursor bool) []span {
	if hasCursor && cur.Column < a.left {
		a.left = cur.Column
	}
	a.left = max(0, min(a.left, len(visible)-1))

	for {
		var out []span
		x := gutter
		for vis := a.left; vis < len(visible) && x < avail; vis++ {
			width := min(widths[vis], avail-x)
			out = append(out, span{x: x, width: width, vis: vis, data: visible[vis]})
			x += width + 1
		}
		if !hasCursor || a.left >= cur.Column || len(out) == 0 {
			return out
		}
		lastSpan := out[len(out)-1]
		if cur.Column < lastSpan.vis || (cur.Column == lastSpan.vis && lastSpan.width == widths[lastSpan.vis]) {
			return out
		}
		a.left++
	}
}

func (a *App[R]) drawHeader(gutter int, columns []span) {
	drawText(a.screen, 0, 0, gutter-1, "", a.theme.Header)
	keys := a.table.SortKeys()
	for _, col := range columns {
		name := a.table.ColumnName(col.data)
		for i, k := range keys {
			if k.Column != col.data {
				continue
			}
			arrow := "▲"
			if k.Descending {
				arrow = "▼"
			}
			if len(keys) > 1 {
				arrow += strconv.Itoa(i + 1)
			}
			name += " " + arrow
		}
		drawText(a.screen, col.x, 0, col.width, name, a.theme.Header)
	}
}

func (a *App[R]) cellStyle(c grid.Cell) tcell.Style {
	sel := a.table.Selection()
	if cur, ok := sel.Cursor(); ok && cur == c {
		return a.theme.Cursor
	}
	if sel.Contains(c) {
		if a.dragging {
			return a.theme.Drag
		}
		return a.theme.Selected
	}
	return a.theme.Normal
}

func (a *App[R]) drawScrollBar(x, y, height, total, shown int) {
	if height <= 0 {
		return
	}
	thumb := height
	offset := 0
	if total > 0 && total > shown {
		thumb = max(1, height*shown/total)
		offset = min(height-thumb, height*a.top/total)
	}
	for i := 0; i < height; i++ {
		r := '│'
		if i >= offset && i < offset+thumb {
			r = '█'
		}
		a.screen.SetContent(x, y+i, r, nil, a.theme.ScrollBar)
	}
}

func (a *App[R]) drawStatus(y, width int) {
	right := fmt.Sprintf("%d rows", a.table.Len())
	if c, ok := a.table.Selection().Cursor(); ok {
		name := ""
		if col, ok := a.table.DataColumn(c.Column); ok {
			name = a.table.ColumnName(col)
		}
		right = fmt.Sprintf("%d/%d %s", c.Row+1, a.table.Len(), name)
	}
	if a.editing() {
		right += " [edit]"
	}
	if a.table.IsDirty() {
		right += " *"
	}

	rw := min(Width(right), width)
	drawText(a.screen, 0, y, width-rw, " "+a.status, a.theme.Status)
	drawText(a.screen, width-rw, y, rw, right, a.theme.Status)
}
