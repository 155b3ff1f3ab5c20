package clipboard

import (
	"slices"
	"testing"

	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/history"
	"github.com/dshills/keygrid/internal/grid/layout"
	"github.com/dshills/keygrid/internal/grid/rows"
	"github.com/dshills/keygrid/internal/sample"
)

type Row = sample.Record

var nameCols = []int{sample.ColumnNum, sample.ColumnName}

func newTestStore(pairs ...any) (*rows.Store[Row], *sample.Adapter) {
	a := sample.New()
	return rows.NewStore(adapter.Resolve[Row](a), sample.Rows(pairs...)...), a
}

func apply(t *testing.T, s *rows.Store[Row], p *Plan[Row]) {
	t.Helper()
	tg := history.Target[Row]{Rows: s, Layout: layout.New(sample.NumColumns)}
	for _, a := range p.Actions() {
		if err := a.Apply(tg); err != nil {
			t.Fatalf("apply %s: %v", a.Description(), err)
		}
	}
}

func TestEncode(t *testing.T) {
	s, _ := newTestStore(1, "a", 2, "b", 3, "c")

	if got := Encode(s, []int{0, 1}, nameCols); got != "1\ta\n2\tb\n" {
		t.Errorf("Encode = %q", got)
	}
	if got := Encode(s, []int{2, 9}, []int{sample.ColumnName}); got != "c\n" {
		t.Errorf("Encode with stale position = %q", got)
	}
	if got := Encode(s, nil, nameCols); got != "" {
		t.Errorf("Encode of nothing = %q", got)
	}
}

func TestDecodeOverwrite(t *testing.T) {
	s, _ := newTestStore(1, "a", 2, "b")
	ids := s.IDs()

	p := Decode(s, "7\tx\n8\ty\n", Target{Row: 0, Columns: nameCols}, InPlace)
	if p.Rows != nil {
		t.Error("no rows should be inserted")
	}
	if p.Applied != 4 {
		t.Errorf("Applied = %d, want 4", p.Applied)
	}
	apply(t, s, p)

	want := sample.Rows(7, "x", 8, "y")
	if got := s.Data(); !slices.Equal(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}
	if !slices.Equal(s.IDs(), ids) {
		t.Error("overwrite must keep row ids")
	}
}

func TestDecodeGrowth(t *testing.T) {
	tests := []struct {
		name      string
		deny      bool
		wantRows  []Row
		wantKinds []history.Kind
		refused   int
	}{
		{
			name:      "insertion allowed",
			wantRows:  sample.Rows(7, "x", 8, "y"),
			wantKinds: []history.Kind{history.KindSetCells, history.KindInsertRows},
		},
		{
			name:      "insertion disallowed",
			deny:      true,
			wantRows:  sample.Rows(7, "x"),
			wantKinds: []history.Kind{history.KindSetCells},
			refused:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, a := newTestStore(1, "a")
			a.DenyInsertions = tt.deny

			p := Decode(s, "7\tx\n8\ty\n", Target{Row: 0, Columns: nameCols}, InPlace)
			var kinds []history.Kind
			for _, act := range p.Actions() {
				kinds = append(kinds, act.Kind())
			}
			if !slices.Equal(kinds, tt.wantKinds) {
				t.Errorf("action kinds = %v, want %v", kinds, tt.wantKinds)
			}
			if p.Refused != tt.refused {
				t.Errorf("Refused = %d, want %d", p.Refused, tt.refused)
			}

			apply(t, s, p)
			if got := s.Data(); !slices.Equal(got, tt.wantRows) {
				t.Errorf("rows = %+v, want %+v", got, tt.wantRows)
			}
		})
	}
}

func TestDecodeSkipsPerCell(t *testing.T) {
	s, a := newTestStore(1, "a", 2, "b")
	locked := s.IDAt(0)
	s.SetCell(locked, sample.ColumnLocked, Row{Locked: true})
	a.RejectWrite = func(w adapter.CellWrite[Row]) bool {
		return w.Column == sample.ColumnName && w.Next.Name == "veto"
	}

	text := "7\tx\textra\nnan\tveto\n"
	p := Decode(s, text, Target{Row: 0, Columns: nameCols}, InPlace)

	if p.Applied != 1 {
		t.Errorf("Applied = %d, want 1", p.Applied)
	}
	if p.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2 (locked name, extra field)", p.Skipped)
	}
	if p.Invalid != 1 || p.Rejected != 1 {
		t.Errorf("Invalid = %d, Rejected = %d, want 1, 1", p.Invalid, p.Rejected)
	}

	apply(t, s, p)
	got := s.Data()
	if got[0].Num != 7 || got[0].Name != "a" {
		t.Errorf("row 0 = %+v, want Num=7 Name=a", got[0])
	}
	if got[1] != (Row{Num: 2, Name: "b"}) {
		t.Errorf("row 1 = %+v, want unchanged", got[1])
	}
}

func TestDecodeShortRecordLeavesRest(t *testing.T) {
	s, _ := newTestStore(1, "a")
	p := Decode(s, "9\n", Target{Row: 0, Columns: nameCols}, InPlace)
	apply(t, s, p)

	if got := s.Data()[0]; got != (Row{Num: 9, Name: "a"}) {
		t.Errorf("row = %+v, want Num=9 Name=a", got)
	}
}

func TestDecodeInsertMode(t *testing.T) {
	s, _ := newTestStore(1, "a", 2, "b")
	p := Decode(s, "7\tx\n", Target{Row: 1, Columns: nameCols}, Insert)
	if p.Cells != nil {
		t.Error("insert mode must not overwrite")
	}
	apply(t, s, p)

	want := sample.Rows(1, "a", 7, "x", 2, "b")
	if got := s.Data(); !slices.Equal(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src, _ := newTestStore(1, "tab\there", 2, "line\nbreak", 3, `back\slash`, 4, "")
	text := Encode(src, []int{0, 1, 2, 3}, nameCols)

	dst, _ := newTestStore()
	p := Decode(dst, text, Target{Row: 0, Columns: nameCols}, InPlace)
	apply(t, dst, p)

	if got, want := dst.Data(), src.Data(); !slices.Equal(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestDecodeWithoutCodec(t *testing.T) {
	s := rows.NewStore(adapter.Resolve[Row](bare{}), sample.Rows(1, "a")...)
	p := Decode(s, "7\tx\n", Target{Row: 0, Columns: nameCols}, InPlace)
	if !p.Empty() {
		t.Error("paste without a codec must do nothing")
	}
	if Encode(s, []int{0}, nameCols) != "\t\n" {
		t.Error("cells without a codec encode as empty fields")
	}
}

// bare implements only the mandatory adapter methods.
type bare struct{}

func (bare) NumColumns() int { return sample.NumColumns }

func (bare) NewEmptyRow(adapter.EmptyRowContext) Row { return Row{} }

func (bare) CloneRow(src Row) Row { return src }

func (bare) SetCellValue(src Row, dst *Row, column int) {}

func TestMemoryClipboard(t *testing.T) {
	var c Clipboard = &Memory{}
	if err := c.WriteText("hello"); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.ReadText(); got != "hello" {
		t.Errorf("ReadText() = %q", got)
	}
}
