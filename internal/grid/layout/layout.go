// Package layout maintains the column descriptor list of a grid table.
//
// A Layout maps visible column positions to data columns. Hiding, showing and
// reordering columns only changes this mapping; row payloads are never
// touched. The Layout also carries the active sort keys, which are part of
// the persisted UI state.
package layout

import "slices"

// SortKey orders rows by one data column.
type SortKey struct {
	Column     int  `json:"column" yaml:"column"`
	Descending bool `json:"descending,omitempty" yaml:"descending,omitempty"`
}

// Layout is the visible column order and sort state of a table.
// The zero value has no columns; use New.
type Layout struct {
	numColumns int
	visible    []int
	sort       []SortKey
}

// New returns a layout showing all numColumns columns in data order.
func New(numColumns int) *Layout {
	if numColumns < 0 {
		numColumns = 0
	}
	l := &Layout{numColumns: numColumns, visible: make([]int, numColumns)}
	for i := range l.visible {
		l.visible[i] = i
	}
	return l
}

// Clone returns an independent copy of l.
func (l *Layout) Clone() *Layout {
	return &Layout{
		numColumns: l.numColumns,
		visible:    slices.Clone(l.visible),
		sort:       slices.Clone(l.sort),
	}
}

// Equal reports whether two layouts show the same columns with the same sort.
func (l *Layout) Equal(o *Layout) bool {
	return l.numColumns == o.numColumns &&
		slices.Equal(l.visible, o.visible) &&
		slices.Equal(l.sort, o.sort)
}

// NumColumns returns the number of data columns.
func (l *Layout) NumColumns() int {
	return l.numColumns
}

// Visible returns the data columns in display order.
func (l *Layout) Visible() []int {
	return slices.Clone(l.visible)
}

// VisibleCount returns the number of displayed columns.
func (l *Layout) VisibleCount() int {
	return len(l.visible)
}

// DataColumn maps a visible position to its data column.
func (l *Layout) DataColumn(pos int) (int, bool) {
	if pos < 0 || pos >= len(l.visible) {
		return 0, false
	}
	return l.visible[pos], true
}

// VisiblePosition maps a data column to its display position.
func (l *Layout) VisiblePosition(column int) (int, bool) {
	i := slices.Index(l.visible, column)
	return i, i >= 0
}

// IsVisible reports whether column is displayed.
func (l *Layout) IsVisible(column int) bool {
	return slices.Contains(l.visible, column)
}

// Hidden returns the data columns that are not displayed, ascending.
func (l *Layout) Hidden() []int {
	var out []int
	for c := 0; c < l.numColumns; c++ {
		if !l.IsVisible(c) {
			out = append(out, c)
		}
	}
	return out
}

// HideColumn hides a data column. The last visible column cannot be hidden.
func (l *Layout) HideColumn(column int) bool {
	i := slices.Index(l.visible, column)
	if i < 0 || len(l.visible) == 1 {
		return false
	}
	l.visible = slices.Delete(l.visible, i, i+1)
	return true
}

// ShowColumn displays a hidden data column at visible position at.
// at is clamped to the current visible range.
func (l *Layout) ShowColumn(column, at int) bool {
	if column < 0 || column >= l.numColumns || l.IsVisible(column) {
		return false
	}
	at = max(0, min(at, len(l.visible)))
	l.visible = slices.Insert(l.visible, at, column)
	return true
}

// MoveColumn moves the column at visible position from to position to.
// Positions outside the visible range are ignored.
func (l *Layout) MoveColumn(from, to int) bool {
	n := len(l.visible)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	c := l.visible[from]
	l.visible = slices.Delete(l.visible, from, from+1)
	l.visible = slices.Insert(l.visible, to, c)
	return true
}

// SetVisible replaces the display order. The list must be non-empty and name
// each data column at most once.
func (l *Layout) SetVisible(columns []int) bool {
	if !l.validColumns(columns) || slices.Equal(columns, l.visible) {
		return false
	}
	l.visible = slices.Clone(columns)
	return true
}

// Sort returns the active sort keys, primary first.
func (l *Layout) Sort() []SortKey {
	return slices.Clone(l.sort)
}

// SortKeyFor returns the key for column, if it is sorted.
func (l *Layout) SortKeyFor(column int) (SortKey, int, bool) {
	for i, k := range l.sort {
		if k.Column == column {
			return k, i, true
		}
	}
	return SortKey{}, -1, false
}

// SetSort replaces the sort keys. Keys naming invalid or repeated columns are
// dropped.
func (l *Layout) SetSort(keys []SortKey) bool {
	next := make([]SortKey, 0, len(keys))
	for _, k := range keys {
		if k.Column < 0 || k.Column >= l.numColumns {
			continue
		}
		if slices.ContainsFunc(next, func(o SortKey) bool { return o.Column == k.Column }) {
			continue
		}
		next = append(next, k)
	}
	if slices.Equal(next, l.sort) {
		return false
	}
	l.sort = next
	return true
}

// CycleSort returns the sort keys that result from activating the header of
// column: an unsorted column is appended ascending, an ascending one turns
// descending and a descending one is removed. l is not modified.
func (l *Layout) CycleSort(column int) []SortKey {
	keys := l.Sort()
	_, i, ok := l.SortKeyFor(column)
	switch {
	case !ok:
		keys = append(keys, SortKey{Column: column})
	case !keys[i].Descending:
		keys[i].Descending = true
	default:
		keys = slices.Delete(keys, i, i+1)
	}
	return keys
}

func (l *Layout) validColumns(columns []int) bool {
	if len(columns) == 0 {
		return false
	}
	seen := make(map[int]bool, len(columns))
	for _, c := range columns {
		if c < 0 || c >= l.numColumns || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
