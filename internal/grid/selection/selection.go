// Package selection tracks the selected region of a grid table.
//
// Coordinates are view coordinates: Row is a row position in the Row Store
// and Column is a visible column position in the layout. The Model clamps
// every coordinate it is given to its current bounds, so an anchor or cursor
// always resolves to a valid cell, or the selection is empty.
package selection

import (
	"fmt"
	"slices"
)

// Cell is a view coordinate.
type Cell struct {
	Row    int
	Column int
}

// String returns "(row,column)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// Rect is a normalized, inclusive cell rectangle.
type Rect struct {
	Top, Left     int
	Bottom, Right int
}

// NewRect returns the normalized rectangle spanned by two corners.
func NewRect(a, b Cell) Rect {
	return Rect{
		Top:    min(a.Row, b.Row),
		Left:   min(a.Column, b.Column),
		Bottom: max(a.Row, b.Row),
		Right:  max(a.Column, b.Column),
	}
}

// Contains reports whether c lies inside r.
func (r Rect) Contains(c Cell) bool {
	return c.Row >= r.Top && c.Row <= r.Bottom && c.Column >= r.Left && c.Column <= r.Right
}

// Height returns the number of rows covered.
func (r Rect) Height() int {
	return r.Bottom - r.Top + 1
}

// Width returns the number of columns covered.
func (r Rect) Width() int {
	return r.Right - r.Left + 1
}

// Rows returns the covered row positions in ascending order.
func (r Rect) Rows() []int {
	return span(r.Top, r.Bottom)
}

// Columns returns the covered column positions in ascending order.
func (r Rect) Columns() []int {
	return span(r.Left, r.Right)
}

// Direction is a cursor movement.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Model is the selection state of one table.
type Model struct {
	rows, columns int

	active bool
	anchor Cell
	cursor Cell

	// picked holds a discrete row set; nil for a rectangular selection.
	picked map[int]struct{}
}

// NewModel returns an empty selection over rows × columns.
func NewModel(rows, columns int) *Model {
	m := &Model{}
	m.SetBounds(rows, columns)
	return m
}

// Bounds returns the row and column counts the model clamps to.
func (m *Model) Bounds() (rows, columns int) {
	return m.rows, m.columns
}

// SetBounds updates the table extent and clamps the selection into it. When
// the table is empty in either dimension the selection is cleared.
func (m *Model) SetBounds(rows, columns int) {
	m.rows, m.columns = max(rows, 0), max(columns, 0)
	if m.rows == 0 || m.columns == 0 {
		m.Clear()
		return
	}
	if !m.active {
		return
	}
	m.anchor = m.clamp(m.anchor)
	m.cursor = m.clamp(m.cursor)
	if m.picked != nil {
		for r := range m.picked {
			if r >= m.rows {
				delete(m.picked, r)
			}
		}
		if len(m.picked) == 0 {
			m.picked = nil
		}
	}
}

// IsEmpty reports whether nothing is selected.
func (m *Model) IsEmpty() bool {
	return !m.active
}

// Anchor returns the fixed corner of the selection.
func (m *Model) Anchor() (Cell, bool) {
	return m.anchor, m.active
}

// Cursor returns the moving corner of the selection.
func (m *Model) Cursor() (Cell, bool) {
	return m.cursor, m.active
}

// Clear empties the selection.
func (m *Model) Clear() {
	m.active = false
	m.anchor, m.cursor = Cell{}, Cell{}
	m.picked = nil
}

// SetAnchor collapses the selection to c.
func (m *Model) SetAnchor(c Cell) {
	if m.rows == 0 || m.columns == 0 {
		return
	}
	c = m.clamp(c)
	m.active = true
	m.anchor, m.cursor = c, c
	m.picked = nil
}

// ExtendTo moves the cursor to c, keeping the anchor. Without an anchor it
// behaves like SetAnchor.
func (m *Model) ExtendTo(c Cell) {
	if !m.active {
		m.SetAnchor(c)
		return
	}
	m.cursor = m.clamp(c)
	m.picked = nil
}

// SelectRow selects row i across all columns.
func (m *Model) SelectRow(i int) {
	if m.rows == 0 || m.columns == 0 {
		return
	}
	i = clampInt(i, 0, m.rows-1)
	m.active = true
	m.anchor = Cell{Row: i, Column: 0}
	m.cursor = Cell{Row: i, Column: m.columns - 1}
	m.picked = map[int]struct{}{i: {}}
}

// ToggleRow adds row i to, or removes it from, a discrete row selection.
// A rectangular selection is first converted to the rows it covers.
func (m *Model) ToggleRow(i int) {
	if m.rows == 0 || m.columns == 0 || i < 0 || i >= m.rows {
		return
	}
	if m.picked == nil {
		m.picked = make(map[int]struct{})
		if m.active {
			for _, r := range NewRect(m.anchor, m.cursor).Rows() {
				m.picked[r] = struct{}{}
			}
		}
	}
	if _, ok := m.picked[i]; ok {
		delete(m.picked, i)
	} else {
		m.picked[i] = struct{}{}
	}
	if len(m.picked) == 0 {
		m.Clear()
		return
	}
	m.active = true
	m.anchor = Cell{Row: i, Column: 0}
	m.cursor = Cell{Row: i, Column: m.columns - 1}
}

// SelectAll selects every cell.
func (m *Model) SelectAll() {
	if m.rows == 0 || m.columns == 0 {
		return
	}
	m.active = true
	m.anchor = Cell{}
	m.cursor = Cell{Row: m.rows - 1, Column: m.columns - 1}
	m.picked = nil
}

// Move moves the cursor one cell in d. Unless extend is set the selection
// collapses to the new cursor, and horizontal moves wrap to the previous or
// next row at the table edges.
func (m *Model) Move(d Direction, extend bool) {
	if !m.active {
		m.SetAnchor(Cell{})
		return
	}
	next := m.cursor
	last := m.columns - 1
	switch d {
	case Up:
		next.Row--
	case Down:
		next.Row++
	case Left:
		if !extend && next.Column == 0 && next.Row > 0 {
			next = Cell{Row: next.Row - 1, Column: last}
		} else {
			next.Column--
		}
	case Right:
		if !extend && next.Column == last && next.Row < m.rows-1 {
			next = Cell{Row: next.Row + 1, Column: 0}
		} else {
			next.Column++
		}
	}
	if extend {
		m.ExtendTo(next)
	} else {
		m.SetAnchor(next)
	}
}

// IsRowSelection reports whether the selection is a discrete row set.
func (m *Model) IsRowSelection() bool {
	return m.picked != nil
}

// Rect returns the normalized selected rectangle. For a discrete row set it
// is the bounding rectangle of the picked rows across all columns.
func (m *Model) Rect() (Rect, bool) {
	if !m.active {
		return Rect{}, false
	}
	if m.picked != nil {
		rows := m.Rows()
		return Rect{Top: rows[0], Left: 0, Bottom: rows[len(rows)-1], Right: m.columns - 1}, true
	}
	return NewRect(m.anchor, m.cursor), true
}

// Rows returns the selected row positions in ascending order.
func (m *Model) Rows() []int {
	if !m.active {
		return nil
	}
	if m.picked == nil {
		return NewRect(m.anchor, m.cursor).Rows()
	}
	out := make([]int, 0, len(m.picked))
	for r := range m.picked {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Columns returns the selected visible column positions in ascending order.
func (m *Model) Columns() []int {
	r, ok := m.Rect()
	if !ok {
		return nil
	}
	return r.Columns()
}

// Contains reports whether c is selected.
func (m *Model) Contains(c Cell) bool {
	if !m.active {
		return false
	}
	if m.picked != nil {
		_, ok := m.picked[c.Row]
		return ok && c.Column >= 0 && c.Column < m.columns
	}
	return NewRect(m.anchor, m.cursor).Contains(c)
}

func (m *Model) clamp(c Cell) Cell {
	return Cell{
		Row:    clampInt(c.Row, 0, m.rows-1),
		Column: clampInt(c.Column, 0, m.columns-1),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func span(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
