package grid

import (
	"slices"
	"testing"

	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/edit"
	"github.com/dshills/keygrid/internal/grid/history"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/notify"
	"github.com/dshills/keygrid/internal/sample"
)

type Row = sample.Record

func newTable(pairs ...any) (*Table[Row], *sample.Adapter) {
	a := sample.New()
	return New[Row](a, sample.Rows(pairs...)), a
}

// recorder collects delivered events.
type recorder struct {
	events []notify.Event
}

func (r *recorder) observe(ev notify.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) rejected(reason notify.Reason) bool {
	return slices.ContainsFunc(r.events, func(ev notify.Event) bool {
		return ev.Type == notify.EventRejected && ev.Reason == reason
	})
}

func watch(tb *Table[Row]) *recorder {
	r := &recorder{}
	tb.Notifier().Subscribe(r.observe)
	return r
}

func kinds(tb *Table[Row]) []history.Kind {
	var out []history.Kind
	for _, info := range tb.History() {
		out = append(out, info.Kind)
	}
	return out
}

func TestCopyDeleteUndo(t *testing.T) {
	tb, _ := newTable(1, "a", 2, "b", 3, "c")
	if !tb.HideColumn(sample.ColumnLocked) {
		t.Fatal("HideColumn failed")
	}
	ids := tb.RowIDs()
	initial := tb.Rows()

	tb.Selection().SetAnchor(Cell{Row: 0, Column: 0})
	tb.Selection().ExtendTo(Cell{Row: 1, Column: 1})
	text, ok := tb.Copy()
	if !ok || text != "1\ta\n2\tb\n" {
		t.Fatalf("Copy() = %q, %v", text, ok)
	}

	if !tb.RemoveRows([]int{0}) {
		t.Fatal("RemoveRows failed")
	}
	if got, want := tb.Rows(), sample.Rows(2, "b", 3, "c"); !slices.Equal(got, want) {
		t.Errorf("after remove = %+v, want %+v", got, want)
	}

	if !tb.Undo() {
		t.Fatal("Undo failed")
	}
	if got := tb.Rows(); !slices.Equal(got, initial) {
		t.Errorf("after undo = %+v, want %+v", got, initial)
	}
	if got := tb.RowIDs(); !slices.Equal(got, ids) {
		t.Errorf("ids after undo = %v, want %v", got, ids)
	}
}

func TestPasteGrowth(t *testing.T) {
	tests := []struct {
		name      string
		deny      bool
		wantRows  []Row
		wantKinds []history.Kind
	}{
		{
			name:      "insertion allowed",
			wantRows:  sample.Rows(7, "x", 8, "y"),
			wantKinds: []history.Kind{history.KindGroup},
		},
		{
			name:      "insertion disallowed",
			deny:      true,
			wantRows:  sample.Rows(7, "x"),
			wantKinds: []history.Kind{history.KindSetCells},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, a := newTable(1, "a")
			a.DenyInsertions = tt.deny
			rec := watch(tb)

			tb.Selection().SetAnchor(Cell{})
			if !tb.Paste("7\tx\n8\ty\n", PasteInPlace) {
				t.Fatal("Paste reported no change")
			}
			if got := tb.Rows(); !slices.Equal(got, tt.wantRows) {
				t.Errorf("rows = %+v, want %+v", got, tt.wantRows)
			}
			if got := kinds(tb); !slices.Equal(got, tt.wantKinds) {
				t.Errorf("history = %v, want %v", got, tt.wantKinds)
			}
			if got := rec.rejected(notify.ReasonInsertionDisallowed); got != tt.deny {
				t.Errorf("insertion rejection reported = %v, want %v", got, tt.deny)
			}

			tb.Undo()
			if got := tb.Rows(); !slices.Equal(got, sample.Rows(1, "a")) {
				t.Errorf("after undo = %+v", got)
			}
		})
	}
}

func TestHistoryEventsNameTheAction(t *testing.T) {
	tb, _ := newTable(1, "a")
	rec := watch(tb)
	tb.Selection().SetAnchor(Cell{})

	tb.Paste("7\tx\n8\ty\n", PasteInPlace)
	tb.Undo()
	tb.Redo()

	var got []string
	for _, ev := range rec.events {
		if ev.Type == notify.EventHistoryChanged {
			got = append(got, ev.Source+": "+ev.Detail)
		}
	}
	want := []string{"paste: paste", "undo: paste", "redo: paste"}
	if !slices.Equal(got, want) {
		t.Errorf("history events = %q, want %q", got, want)
	}
}

func TestPasteInsertMode(t *testing.T) {
	tb, _ := newTable(1, "a", 2, "b")
	tb.Selection().SetAnchor(Cell{Row: 1, Column: 0})

	if !tb.Paste("9\tz\n", PasteInsert) {
		t.Fatal("Paste failed")
	}
	if got, want := tb.Rows(), sample.Rows(1, "a", 9, "z", 2, "b"); !slices.Equal(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}
	if c, _ := tb.Selection().Cursor(); c.Row != 1 {
		t.Errorf("selection should follow the inserted row, cursor = %v", c)
	}
}

func TestPasteRequiresSelection(t *testing.T) {
	tb, _ := newTable(1, "a")
	rec := watch(tb)
	if tb.Paste("2\tb\n", PasteInPlace) {
		t.Error("Paste without selection should do nothing")
	}
	if !rec.rejected(notify.ReasonNoSelection) {
		t.Error("expected a no-selection rejection")
	}

	empty, _ := newTable()
	if !empty.Paste("2\tb\n", PasteInPlace) || empty.Len() != 1 {
		t.Error("Paste into an empty table should append")
	}
}

func TestRemoveRowsOutOfBounds(t *testing.T) {
	tb, _ := newTable(1, "a", 2, "b")
	ids := tb.RowIDs()

	for _, positions := range [][]int{{5}, {-1}, {2, 9}} {
		if tb.RemoveRows(positions) {
			t.Errorf("RemoveRows(%v) reported a change", positions)
		}
	}
	if !slices.Equal(tb.RowIDs(), ids) {
		t.Error("rows changed")
	}
	if tb.CanUndo() {
		t.Error("no action should be recorded")
	}

	if !tb.RemoveRows([]int{1, 1, 7}) || tb.Len() != 1 {
		t.Error("valid positions should still be removed once")
	}
}

func TestRemoveRowsRejected(t *testing.T) {
	tb, a := newTable(1, "a", 2, "b", 3, "c")
	rec := watch(tb)
	a.RejectDeletion = func(r Row) bool { return r.Num == 2 }

	if tb.RemoveRows([]int{1}) {
		t.Error("rejected deletion reported a change")
	}
	if tb.Len() != 3 || tb.CanUndo() {
		t.Errorf("Len() = %d, CanUndo() = %v", tb.Len(), tb.CanUndo())
	}
	if !rec.rejected(notify.ReasonDeletionRejected) {
		t.Error("expected a deletion rejection")
	}

	if !tb.RemoveRows([]int{0, 1, 2}) {
		t.Fatal("partial removal failed")
	}
	if got := tb.Rows(); !slices.Equal(got, sample.Rows(2, "b")) {
		t.Errorf("rows = %+v, want only the protected row", got)
	}

	a.DenyDeletions = true
	if tb.RemoveRows([]int{0}) || !rec.rejected(notify.ReasonDeletionDisallowed) {
		t.Error("deletions should be disallowed")
	}
}

func TestSortIdempotentWithTies(t *testing.T) {
	tb, _ := newTable(2, "b", 1, "a", 2, "a", 1, "c")
	ids := tb.RowIDs()
	byNum := []SortKey{{Column: sample.ColumnNum}}

	if !tb.SortBy(byNum) {
		t.Fatal("SortBy reported no change")
	}
	want := []RowID{ids[1], ids[3], ids[0], ids[2]}
	if got := tb.RowIDs(); !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	if tb.SortBy(byNum) {
		t.Error("sorting again should change nothing")
	}
	if got := tb.RowIDs(); !slices.Equal(got, want) {
		t.Errorf("order after second sort = %v, want %v", got, want)
	}

	tb.SortBy([]SortKey{{Column: sample.ColumnNum, Descending: true}})
	if got, want := tb.RowIDs(), []RowID{ids[0], ids[2], ids[1], ids[3]}; !slices.Equal(got, want) {
		t.Errorf("descending order = %v, want %v", got, want)
	}

	tb.SortBy(nil)
	if !slices.Equal(tb.RowIDs(), ids) {
		t.Error("clearing the sort should restore the original order")
	}
}

func TestClearSortRestoresPriorOrder(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tb *Table[Row])
		want  []Row
	}{
		{
			name:  "inserted at top",
			setup: func(tb *Table[Row]) { tb.InsertRows(0, sample.Rows(0, "z")) },
			want:  sample.Rows(0, "z", 1, "a", 2, "b"),
		},
		{
			name:  "duplicated mid table",
			setup: func(tb *Table[Row]) { tb.DuplicateRows([]int{0}) },
			want:  sample.Rows(1, "a", 1, "a", 2, "b"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, _ := newTable(1, "a", 2, "b")
			tt.setup(tb)
			before := tb.RowIDs()

			for range 3 {
				if !tb.CycleSort(sample.ColumnNum) {
					t.Fatal("CycleSort reported no change")
				}
			}
			if len(tb.SortKeys()) != 0 {
				t.Fatalf("SortKeys() = %v, want none", tb.SortKeys())
			}
			if got := tb.Rows(); !slices.Equal(got, tt.want) {
				t.Errorf("rows = %+v, want %+v", got, tt.want)
			}
			if got := tb.RowIDs(); !slices.Equal(got, before) {
				t.Errorf("ids = %v, want %v", got, before)
			}
		})
	}
}

func TestClearSortKeepsRowsAddedWhileSorted(t *testing.T) {
	tb, _ := newTable(2, "b", 1, "a", 3, "c")
	tb.SortBy([]SortKey{{Column: sample.ColumnNum}})
	// sorted: 1 a, 2 b, 3 c
	tb.InsertRows(1, sample.Rows(9, "n"))
	tb.RemoveRows([]int{3})

	tb.SortBy(nil)
	if got, want := tb.Rows(), sample.Rows(2, "b", 1, "a", 9, "n"); !slices.Equal(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}

	tb.Undo()
	if got, want := tb.Rows(), sample.Rows(1, "a", 9, "n", 2, "b"); !slices.Equal(got, want) {
		t.Errorf("rows after undo = %+v, want %+v", got, want)
	}
	if len(tb.SortKeys()) != 1 {
		t.Errorf("undo should restore the sort keys, got %v", tb.SortKeys())
	}
}

func TestSortUndo(t *testing.T) {
	tb, _ := newTable(3, "c", 1, "a", 2, "b")
	ids := tb.RowIDs()

	tb.CycleSort(sample.ColumnName)
	if got := tb.SortKeys(); len(got) != 1 || got[0].Descending {
		t.Fatalf("SortKeys() = %v", got)
	}
	tb.CycleSort(sample.ColumnName)
	if got := tb.SortKeys(); len(got) != 1 || !got[0].Descending {
		t.Fatalf("SortKeys() = %v", got)
	}

	tb.Undo()
	tb.Undo()
	if !slices.Equal(tb.RowIDs(), ids) || len(tb.SortKeys()) != 0 {
		t.Error("undo should restore the original order and keys")
	}

	rec := watch(tb)
	if tb.CycleSort(sample.ColumnLocked) || !rec.rejected(notify.ReasonNotSortable) {
		t.Error("locked column is not sortable")
	}
}

func TestSetCell(t *testing.T) {
	tb, a := newTable(1, "a")
	id := tb.RowID(0)

	if !tb.SetCell(id, sample.ColumnName, Row{Name: "z"}) {
		t.Fatal("SetCell failed")
	}
	if got, _ := tb.Row(0); got != (Row{Num: 1, Name: "z"}) {
		t.Errorf("row = %+v", got)
	}
	if len(a.Updates) != 1 {
		t.Errorf("row updates = %d, want 1", len(a.Updates))
	}

	a.RejectWrite = func(adapter.CellWrite[Row]) bool { return true }
	if tb.SetCell(id, sample.ColumnName, Row{Name: "q"}) {
		t.Error("rejected write reported a change")
	}
	if len(tb.History()) != 1 {
		t.Error("rejected write must not be logged")
	}
	if tb.SetCell(99, sample.ColumnName, Row{}) {
		t.Error("unknown row reported a change")
	}
}

func TestDropOnLockedCell(t *testing.T) {
	tb, a := newTable(1, "a")
	tb.SetCell(tb.RowID(0), sample.ColumnLocked, Row{Locked: true})
	rec := watch(tb)

	confirms := 0
	a.RejectWrite = func(adapter.CellWrite[Row]) bool {
		confirms++
		return false
	}

	if tb.DropValue(Cell{Row: 0, Column: sample.ColumnName}, Row{Name: "dropped"}) {
		t.Error("drop onto a locked cell reported a change")
	}
	if confirms != 0 {
		t.Errorf("write confirmation consulted %d times, want 0", confirms)
	}
	if !rec.rejected(notify.ReasonNotEditable) {
		t.Error("expected a not-editable rejection")
	}

	if !tb.DropValue(Cell{Row: 0, Column: sample.ColumnNum}, Row{Num: 5}) || confirms != 1 {
		t.Error("drop onto an editable cell should be confirmed and applied")
	}
}

func TestEditCoalescesKeystrokes(t *testing.T) {
	tb, _ := newTable(1, "a")
	cell := Cell{Row: 0, Column: sample.ColumnName}

	if !tb.StartEdit(cell, edit.DoubleClick) {
		t.Fatal("StartEdit failed")
	}
	for _, text := range []string{"x", "xy", "xyz"} {
		if !tb.SetEditText(text) {
			t.Fatalf("SetEditText(%q) failed", text)
		}
	}
	if got, _ := tb.Row(0); got.Name != "a" {
		t.Error("pending edits must not reach the row before commit")
	}
	if !tb.CommitEdit() {
		t.Fatal("CommitEdit failed")
	}
	if got, _ := tb.Row(0); got.Name != "xyz" {
		t.Errorf("Name = %q, want xyz", got.Name)
	}
	if got := kinds(tb); !slices.Equal(got, []history.Kind{history.KindSetCells}) {
		t.Errorf("history = %v, want one cell change", got)
	}
}

func TestEditBackToOriginalRecordsNothing(t *testing.T) {
	tb, a := newTable(1, "a")
	tb.MarkSaved()
	rec := watch(tb)

	tb.StartEdit(Cell{Row: 0, Column: sample.ColumnName}, edit.DoubleClick)
	tb.SetEditText("ax")
	tb.SetEditText("a")
	if tb.CommitEdit() {
		t.Error("CommitEdit reported a change")
	}
	if tb.EditState() != edit.Idle {
		t.Errorf("EditState() = %v, want idle", tb.EditState())
	}
	if tb.IsDirty() || tb.CanUndo() {
		t.Errorf("IsDirty() = %v, CanUndo() = %v, want both false", tb.IsDirty(), tb.CanUndo())
	}
	if len(a.Updates) != 0 || len(rec.events) != 0 {
		t.Errorf("updates = %v, events = %v, want none", a.Updates, rec.events)
	}
}

func TestCommitBeforeCommand(t *testing.T) {
	tb, _ := newTable(1, "a", 2, "b")

	tb.StartEdit(Cell{Row: 0, Column: sample.ColumnName}, edit.DoubleClick)
	tb.SetEditText("z")
	tb.InsertEmptyRows(0, 1)

	if tb.EditState() != edit.Idle {
		t.Errorf("EditState() = %v, want idle", tb.EditState())
	}
	want := []history.Kind{history.KindSetCells, history.KindInsertEmptyRows}
	if got := kinds(tb); !slices.Equal(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}
	if got, _ := tb.Row(1); got.Name != "z" {
		t.Errorf("edited row = %+v", got)
	}

	// Moving to another cell commits the previous edit first.
	tb.StartEdit(Cell{Row: 1, Column: sample.ColumnName}, edit.DoubleClick)
	tb.SetEditText("q")
	tb.StartEdit(Cell{Row: 2, Column: sample.ColumnName}, edit.DoubleClick)
	if got, _ := tb.Row(1); got.Name != "q" {
		t.Errorf("previous edit lost: %+v", got)
	}
	if c, ok := tb.EditingCell(); !ok || c != (Cell{Row: 2, Column: sample.ColumnName}) {
		t.Errorf("EditingCell() = %v, %v", c, ok)
	}
}

func TestEditActivation(t *testing.T) {
	tests := []struct {
		name        string
		opts        []Option
		gesture     edit.Gesture
		interactive bool
		want        bool
	}{
		{name: "double click", gesture: edit.DoubleClick, want: true},
		{name: "keyboard", gesture: edit.Keyboard, want: true},
		{name: "single click", gesture: edit.SingleClick, want: false},
		{name: "single click on cursor", gesture: edit.SingleClick, interactive: true, want: true},
		{name: "single click policy", opts: []Option{WithSingleClickEdit(true)}, gesture: edit.SingleClick, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := New[Row](sample.New(), sample.Rows(1, "a", 2, "b"), tt.opts...)
			cell := Cell{Row: 1, Column: sample.ColumnName}
			if tt.interactive {
				tb.Selection().SetAnchor(cell)
			}
			if got := tb.StartEdit(cell, tt.gesture); got != tt.want {
				t.Errorf("StartEdit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEditRefusals(t *testing.T) {
	tb, a := newTable(1, "a")
	rec := watch(tb)
	tb.SetCell(tb.RowID(0), sample.ColumnLocked, Row{Locked: true})

	if tb.StartEdit(Cell{Row: 0, Column: sample.ColumnName}, edit.DoubleClick) {
		t.Error("locked cell must not enter editing")
	}
	if !rec.rejected(notify.ReasonNotEditable) {
		t.Error("expected a not-editable rejection")
	}

	a.NoEditor = map[int]bool{sample.ColumnNum: true}
	if tb.StartEdit(Cell{Row: 0, Column: sample.ColumnNum}, edit.DoubleClick) {
		t.Error("cell without an editor must not stay in editing")
	}
	if tb.EditState() != edit.Idle {
		t.Errorf("EditState() = %v", tb.EditState())
	}

	a.RejectWrite = func(w adapter.CellWrite[Row]) bool { return w.Next.Num == 13 }
	tb.StartEdit(Cell{Row: 0, Column: sample.ColumnLocked}, edit.DoubleClick)
	tb.CancelEdit()
	if tb.EditState() != edit.Idle {
		t.Error("cancel should return to idle")
	}

	a.NoEditor = nil
	before := len(tb.History())
	tb.StartEdit(Cell{Row: 0, Column: sample.ColumnNum}, edit.DoubleClick)
	tb.SetEditText("13")
	if tb.CommitEdit() {
		t.Error("rejected edit reported a change")
	}
	if len(tb.History()) != before || !rec.rejected(notify.ReasonWriteRejected) {
		t.Error("rejected edit must not be logged")
	}
	if tb.SetEditText("x") {
		t.Error("SetEditText without an edit should fail")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	tb, _ := newTable(1, "a", 2, "b", 3, "c")
	initialRows, initialIDs := tb.Rows(), tb.RowIDs()

	tb.SetCell(tb.RowID(0), sample.ColumnName, Row{Name: "z"})
	tb.InsertEmptyRows(1, 2)
	tb.DuplicateRows([]int{0, 4})
	tb.RemoveRows([]int{2})
	tb.MoveColumn(0, 2)
	tb.SortBy([]SortKey{{Column: sample.ColumnNum, Descending: true}})
	finalRows, finalIDs, finalCols := tb.Rows(), tb.RowIDs(), tb.VisibleColumns()

	for tb.Undo() {
	}
	if !slices.Equal(tb.Rows(), initialRows) || !slices.Equal(tb.RowIDs(), initialIDs) {
		t.Errorf("after undo: %+v %v", tb.Rows(), tb.RowIDs())
	}
	if !slices.Equal(tb.VisibleColumns(), []int{0, 1, 2}) {
		t.Errorf("columns after undo = %v", tb.VisibleColumns())
	}

	for tb.Redo() {
	}
	if !slices.Equal(tb.Rows(), finalRows) || !slices.Equal(tb.RowIDs(), finalIDs) {
		t.Errorf("after redo: %+v %v", tb.Rows(), tb.RowIDs())
	}
	if !slices.Equal(tb.VisibleColumns(), finalCols) {
		t.Errorf("columns after redo = %v, want %v", tb.VisibleColumns(), finalCols)
	}
}

func TestDirtyTracking(t *testing.T) {
	tb, _ := newTable(1, "a")
	if tb.IsDirty() {
		t.Error("new table should be clean")
	}

	tb.SetCell(tb.RowID(0), sample.ColumnNum, Row{Num: 2})
	if !tb.IsDirty() {
		t.Error("edit should make the table dirty")
	}
	tb.MarkSaved()
	if tb.IsDirty() {
		t.Error("MarkSaved should clean the table")
	}

	tb.Undo()
	if !tb.IsDirty() {
		t.Error("undo past the saved point should be dirty")
	}
	tb.Redo()
	if tb.IsDirty() {
		t.Error("redo back to the saved point should be clean")
	}

	tb.Extend(sample.Rows(5, "e"))
	if !tb.IsDirty() || tb.CanUndo() {
		t.Error("programmatic changes reset history and dirty the table")
	}
}

func TestDuplicateUsesCopiedBase(t *testing.T) {
	tb, _ := newTable(1, "a")
	tb.SetCell(tb.RowID(0), sample.ColumnLocked, Row{Locked: true})

	if !tb.DuplicateRows([]int{0}) {
		t.Fatal("DuplicateRows failed")
	}
	dup, _ := tb.Row(1)
	if dup.Locked || dup.Name != "a" {
		t.Errorf("duplicate = %+v, want an unlocked copy", dup)
	}
	if tb.RowID(1) == tb.RowID(0) {
		t.Error("duplicate must get a fresh id")
	}
}

func TestCutAndClear(t *testing.T) {
	tb, _ := newTable(1, "a", 2, "b")
	tb.SetCell(tb.RowID(1), sample.ColumnLocked, Row{Locked: true})
	tb.Selection().SetAnchor(Cell{Row: 0, Column: sample.ColumnNum})
	tb.Selection().ExtendTo(Cell{Row: 1, Column: sample.ColumnName})

	text, ok := tb.Cut()
	if !ok || text != "1\ta\n2\tb\n" {
		t.Fatalf("Cut() = %q, %v", text, ok)
	}
	want := []Row{{}, {Num: 0, Name: "b", Locked: true}}
	if got := tb.Rows(); !slices.Equal(got, want) {
		t.Errorf("rows after cut = %+v, want %+v", got, want)
	}

	tb.Undo()
	if got, _ := tb.Row(0); got != (Row{Num: 1, Name: "a"}) {
		t.Errorf("undo cut = %+v", got)
	}
}

func TestFillSelection(t *testing.T) {
	tb, _ := newTable(1, "a", 2, "b", 3, "c")
	tb.Selection().SetAnchor(Cell{Row: 0, Column: sample.ColumnName})
	tb.Selection().ExtendTo(Cell{Row: 2, Column: sample.ColumnName})

	if !tb.FillSelection() {
		t.Fatal("FillSelection failed")
	}
	if got, want := tb.Rows(), sample.Rows(1, "a", 2, "a", 3, "a"); !slices.Equal(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}
}

func TestColumnLayout(t *testing.T) {
	tb, _ := newTable(1, "a")
	rec := watch(tb)

	tb.HideColumn(sample.ColumnNum)
	tb.HideColumn(sample.ColumnLocked)
	if tb.HideColumn(sample.ColumnName) || !rec.rejected(notify.ReasonLastColumn) {
		t.Error("the last visible column must stay visible")
	}
	if !tb.ShowColumn(sample.ColumnNum, 5) {
		t.Fatal("ShowColumn failed")
	}
	if got := tb.VisibleColumns(); !slices.Equal(got, []int{sample.ColumnName, sample.ColumnNum}) {
		t.Errorf("VisibleColumns() = %v", got)
	}
	if tb.MoveColumn(0, 7) {
		t.Error("move beyond bounds should be ignored")
	}
	if got, _ := tb.Row(0); got != (Row{Num: 1, Name: "a"}) {
		t.Error("layout changes must not touch row data")
	}
}

func TestReadOnly(t *testing.T) {
	tb := New[Row](sample.New(), sample.Rows(1, "a"), WithReadOnly())
	tb.Selection().SetAnchor(Cell{})

	if tb.SetCell(tb.RowID(0), sample.ColumnName, Row{Name: "x"}) {
		t.Error("SetCell on read-only table")
	}
	if tb.InsertEmptyRows(0, 1) || tb.RemoveRows([]int{0}) || tb.Paste("2\n", PasteInPlace) {
		t.Error("structural change on read-only table")
	}
	if tb.IsEditable(Cell{}) {
		t.Error("cells of a read-only table are not editable")
	}
	if _, ok := tb.Copy(); !ok {
		t.Error("copy should work on a read-only table")
	}
}

func TestTick(t *testing.T) {
	tb, _ := newTable(1, "a", 2, "b")
	rec := watch(tb)

	res := tb.Tick(
		Intent{Action: UISelect, Cell: Cell{Row: 0, Column: 0}},
		Intent{Action: UIExtendSelection, Cell: Cell{Row: 1, Column: 1}},
		Intent{Action: UICopy},
		Intent{Action: UIAction(999)},
	)
	if !res.HasClipboard || res.Clipboard != "1\ta\n2\tb\n" {
		t.Errorf("Clipboard = %q, %v", res.Clipboard, res.HasClipboard)
	}
	if !slices.ContainsFunc(res.Events, func(ev notify.Event) bool {
		return ev.Reason == notify.ReasonUnknownIntent
	}) {
		t.Error("unknown intent should be reported")
	}
	if !rec.rejected(notify.ReasonUnknownIntent) {
		t.Error("events should be delivered when the tick ends")
	}

	res = tb.Tick(Intent{Action: UIStartEdit, Cell: Cell{Row: 0, Column: 1}, Gesture: edit.Keyboard})
	if !res.Focus {
		t.Error("an open editor should take focus")
	}
	res = tb.Tick(
		Intent{Action: UIEditText, Text: "q"},
		Intent{Action: UICommitAndMove, Direction: selection.Down},
	)
	if !res.Changed {
		t.Error("tick should report a change")
	}
	if got, _ := tb.Row(0); got.Name != "q" {
		t.Errorf("row 0 = %+v", got)
	}
	if c, _ := tb.Selection().Cursor(); c != (Cell{Row: 1, Column: 1}) {
		t.Errorf("cursor = %v", c)
	}

	tb.Tick(Intent{Action: UIInsertEmptyRows, Count: 2, Below: true})
	if tb.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tb.Len())
	}
	tb.Tick(Intent{Action: UIUndo})
	if tb.Len() != 2 {
		t.Errorf("Len() after undo = %d", tb.Len())
	}
}

func TestUIActionString(t *testing.T) {
	if UIUndo.String() != "undo" || UIAction(-1).String() != "unknown" {
		t.Error("unexpected action names")
	}
}
