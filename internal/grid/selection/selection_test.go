package selection

import (
	"slices"
	"testing"
)

func TestNewRectNormalizes(t *testing.T) {
	tests := []struct {
		name string
		a, b Cell
	}{
		{"forward", Cell{1, 1}, Cell{3, 4}},
		{"backward", Cell{3, 4}, Cell{1, 1}},
		{"mixed", Cell{1, 4}, Cell{3, 1}},
	}

	want := Rect{Top: 1, Left: 1, Bottom: 3, Right: 4}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRect(tt.a, tt.b); got != want {
				t.Errorf("NewRect = %+v, want %+v", got, want)
			}
		})
	}

	if want.Height() != 3 || want.Width() != 4 {
		t.Errorf("size = %dx%d, want 3x4", want.Height(), want.Width())
	}
}

func TestModelEmpty(t *testing.T) {
	m := NewModel(3, 2)
	if !m.IsEmpty() {
		t.Error("new model should be empty")
	}
	if _, ok := m.Rect(); ok {
		t.Error("empty model has no rect")
	}
	if m.Rows() != nil {
		t.Error("empty model has no rows")
	}

	z := NewModel(0, 2)
	z.SetAnchor(Cell{0, 0})
	if !z.IsEmpty() {
		t.Error("anchor in an empty table must not select")
	}
}

func TestExtendClamps(t *testing.T) {
	m := NewModel(3, 2)
	m.SetAnchor(Cell{1, 1})
	m.ExtendTo(Cell{10, -5})

	c, _ := m.Cursor()
	if c != (Cell{2, 0}) {
		t.Errorf("cursor = %v, want (2,0)", c)
	}
	r, _ := m.Rect()
	if r != (Rect{Top: 1, Left: 0, Bottom: 2, Right: 1}) {
		t.Errorf("rect = %+v", r)
	}
}

func TestExtendWithoutAnchor(t *testing.T) {
	m := NewModel(3, 2)
	m.ExtendTo(Cell{2, 1})
	a, ok := m.Anchor()
	if !ok || a != (Cell{2, 1}) {
		t.Errorf("anchor = %v,%v, want (2,1),true", a, ok)
	}
}

func TestSelectRowSpansColumns(t *testing.T) {
	m := NewModel(4, 3)
	m.SelectRow(2)

	r, ok := m.Rect()
	if !ok || r != (Rect{Top: 2, Left: 0, Bottom: 2, Right: 2}) {
		t.Errorf("rect = %+v,%v", r, ok)
	}
	if !m.IsRowSelection() {
		t.Error("SelectRow should produce a row selection")
	}
}

func TestToggleRow(t *testing.T) {
	m := NewModel(5, 2)
	m.SetAnchor(Cell{0, 0})
	m.ExtendTo(Cell{1, 1})

	m.ToggleRow(3)
	if got := m.Rows(); !slices.Equal(got, []int{0, 1, 3}) {
		t.Errorf("Rows() = %v, want [0 1 3]", got)
	}
	if m.Contains(Cell{2, 0}) {
		t.Error("row 2 should not be selected")
	}

	m.ToggleRow(0)
	m.ToggleRow(1)
	m.ToggleRow(3)
	if !m.IsEmpty() {
		t.Errorf("toggling every row off should clear, Rows() = %v", m.Rows())
	}

	m.ToggleRow(9)
	if !m.IsEmpty() {
		t.Error("toggling an out-of-range row should do nothing")
	}
}

func TestMove(t *testing.T) {
	m := NewModel(3, 3)
	m.Move(Down, false)
	if c, _ := m.Cursor(); c != (Cell{0, 0}) {
		t.Fatalf("first move should anchor at origin, got %v", c)
	}

	m.Move(Down, false)
	m.Move(Right, true)
	r, _ := m.Rect()
	if r != (Rect{Top: 1, Left: 0, Bottom: 1, Right: 1}) {
		t.Errorf("rect = %+v", r)
	}

	m.Move(Up, false)
	m.Move(Up, false)
	if c, _ := m.Cursor(); c != (Cell{0, 1}) {
		t.Errorf("cursor = %v, want (0,1)", c)
	}
}

func TestMoveWraps(t *testing.T) {
	tests := []struct {
		name   string
		start  Cell
		dir    Direction
		extend bool
		want   Cell
	}{
		{"right wraps", Cell{0, 2}, Right, false, Cell{1, 0}},
		{"left wraps", Cell{1, 0}, Left, false, Cell{0, 2}},
		{"right at end stays", Cell{1, 2}, Right, false, Cell{1, 2}},
		{"left at origin stays", Cell{0, 0}, Left, false, Cell{0, 0}},
		{"extend does not wrap", Cell{0, 2}, Right, true, Cell{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(2, 3)
			m.SetAnchor(tt.start)
			m.Move(tt.dir, tt.extend)
			if c, _ := m.Cursor(); c != tt.want {
				t.Errorf("cursor = %v, want %v", c, tt.want)
			}
		})
	}
}

func TestSetBoundsCollapses(t *testing.T) {
	m := NewModel(5, 2)
	m.SetAnchor(Cell{4, 1})
	m.SetBounds(3, 2)
	if c, _ := m.Cursor(); c != (Cell{2, 1}) {
		t.Errorf("cursor = %v, want (2,1)", c)
	}

	m.ToggleRow(0)
	m.SetBounds(1, 2)
	if got := m.Rows(); !slices.Equal(got, []int{0}) {
		t.Errorf("Rows() = %v, want [0]", got)
	}

	m.SetBounds(0, 2)
	if !m.IsEmpty() {
		t.Error("empty table must clear the selection")
	}
}

func TestSelectAll(t *testing.T) {
	m := NewModel(2, 3)
	m.SelectAll()
	if got := m.Columns(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("Columns() = %v", got)
	}
	if got := m.Rows(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Rows() = %v", got)
	}
}
