package grid

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/clipboard"
	"github.com/dshills/keygrid/internal/grid/history"
	"github.com/dshills/keygrid/internal/grid/rows"
	"github.com/dshills/keygrid/internal/notify"
)

// PasteMode selects how pasted rows are placed.
type PasteMode = clipboard.Mode

// Paste modes.
const (
	PasteInPlace = clipboard.InPlace
	PasteInsert  = clipboard.Insert
)

// writable reports whether user mutations are allowed, rejecting otherwise.
func (t *Table[R]) writable(source string) bool {
	if t.readOnly {
		t.reject(notify.ReasonNotEditable, source, "table is read-only")
		return false
	}
	return true
}

// SetCell writes the given column of value into the row id. The write goes
// through the editability check and the write-confirmation hook.
func (t *Table[R]) SetCell(id RowID, column int, value R) bool {
	t.commitEdit()
	if !t.writable("set") {
		return false
	}
	current, ok := t.rows.Get(id)
	if !ok || !t.caps.ValidColumn(column) {
		return false
	}
	if !t.caps.IsEditable(current, column) {
		t.rejectCell(notify.ReasonNotEditable, "set", id, column)
		return false
	}
	next := t.caps.CloneRow(current)
	t.caps.SetCellValue(value, &next, column)
	w := adapter.CellWrite[R]{Current: current, Next: next, Column: column, Context: adapter.WriteEdit}
	if !t.caps.ConfirmWrite(w) {
		t.rejectCell(notify.ReasonWriteRejected, "set", id, column)
		return false
	}
	change := history.CellChange[R]{Row: id, Column: column, Old: current, New: next}
	return t.record(history.NewSetCells(adapter.WriteEdit, change), "set")
}

// DropValue writes a dragged value into the cell at c. Non-editable cells
// refuse the drop before the write-confirmation hook is consulted.
func (t *Table[R]) DropValue(c Cell, value R) bool {
	t.commitEdit()
	if !t.writable("drop") {
		return false
	}
	e, column, ok := t.resolve(c)
	if !ok {
		return false
	}
	if !t.caps.IsEditable(e.Data, column) {
		t.rejectCell(notify.ReasonNotEditable, "drop", e.ID, column)
		return false
	}
	next := t.caps.CloneRow(e.Data)
	t.caps.SetCellValue(value, &next, column)
	w := adapter.CellWrite[R]{Current: e.Data, Next: next, Column: column, Context: adapter.WriteDrop}
	if !t.caps.ConfirmWrite(w) {
		t.rejectCell(notify.ReasonWriteRejected, "drop", e.ID, column)
		return false
	}
	change := history.CellChange[R]{Row: e.ID, Column: column, Old: e.Data, New: next}
	return t.record(history.NewSetCells(adapter.WriteDrop, change), "drop")
}

// InsertRows inserts data at view position at. Positions past the end append.
func (t *Table[R]) InsertRows(at int, data []R) bool {
	t.commitEdit()
	if len(data) == 0 || !t.insertable("insert") {
		return false
	}
	a := history.NewInsertRows(clampPos(at, t.rows.Len()), data)
	if !t.record(a, "insert") {
		return false
	}
	t.follow(a.IDs())
	return true
}

// InsertEmptyRows inserts n rows built by the adapter's empty-row constructor.
func (t *Table[R]) InsertEmptyRows(at, n int) bool {
	t.commitEdit()
	if n <= 0 || !t.insertable("insert-empty") {
		return false
	}
	data := make([]R, n)
	for i := range data {
		data[i] = t.caps.NewEmptyRow(adapter.EmptyRowInsertNewLine)
	}
	a := history.NewInsertEmptyRows(clampPos(at, t.rows.Len()), data)
	if !t.record(a, "insert-empty") {
		return false
	}
	t.follow(a.IDs())
	return true
}

// DuplicateRows inserts a copy of each row directly below it. Copies are made
// with the adapter's copied-base clone.
func (t *Table[R]) DuplicateRows(positions []int) bool {
	t.commitEdit()
	if !t.insertable("duplicate") {
		return false
	}
	sources := t.validPositions(positions)
	if len(sources) == 0 {
		return false
	}
	clones := make([]R, len(sources))
	for i, pos := range sources {
		e, _ := t.rows.At(pos)
		clones[i] = t.caps.CloneForCopy(e.Data)
	}
	a := history.NewDuplicateRows(sources, clones)
	if !t.record(a, "duplicate") {
		return false
	}
	t.follow(a.IDs())
	return true
}

// RemoveRows removes the rows at the given positions. Positions out of range
// are ignored. Each row is offered to the deletion-confirmation hook; rows it
// rejects are kept.
func (t *Table[R]) RemoveRows(positions []int) bool {
	t.commitEdit()
	if !t.writable("remove") {
		return false
	}
	if !t.caps.AllowDeletions() {
		t.reject(notify.ReasonDeletionDisallowed, "remove", "")
		return false
	}
	var ids []RowID
	for _, pos := range t.validPositions(positions) {
		e, _ := t.rows.At(pos)
		if !t.caps.ConfirmDeletion(e.Data) {
			t.emit(notify.Event{Type: notify.EventRejected, Reason: notify.ReasonDeletionRejected, Row: uint64(e.ID), Column: -1, Source: "remove"})
			continue
		}
		ids = append(ids, e.ID)
	}
	if len(ids) == 0 {
		return false
	}
	return t.record(history.NewRemoveRows[R](ids), "remove")
}

// Copy encodes the selected visible region as escaped TSV.
func (t *Table[R]) Copy() (string, bool) {
	t.commitEdit()
	if t.sel.IsEmpty() {
		t.reject(notify.ReasonNoSelection, "copy", "")
		return "", false
	}
	if !t.caps.HasCodec() {
		t.reject(notify.ReasonNoCodec, "copy", "")
		return "", false
	}
	text := clipboard.Encode(t.rows, t.sel.Rows(), t.selectedDataColumns())
	t.logger.Debug("copy: %d bytes", len(text))
	return text, text != ""
}

// Cut copies the selection and then clears it as one undo unit.
func (t *Table[R]) Cut() (string, bool) {
	text, ok := t.Copy()
	if !ok {
		return "", false
	}
	if !t.writable("cut") {
		return text, true
	}
	if changes := t.clearChanges("cut"); len(changes) > 0 {
		a := history.NewSetCells(adapter.WriteClear, changes...)
		t.record(a, "cut")
	}
	return text, true
}

// ClearCells writes the adapter's cleared values into every editable
// selected cell.
func (t *Table[R]) ClearCells() bool {
	t.commitEdit()
	if !t.writable("clear") {
		return false
	}
	changes := t.clearChanges("clear")
	if len(changes) == 0 {
		return false
	}
	return t.record(history.NewSetCells(adapter.WriteClear, changes...), "clear")
}

func (t *Table[R]) clearChanges(source string) []history.CellChange[R] {
	empty := t.caps.NewEmptyRow(adapter.EmptyRowClear)
	columns := t.selectedDataColumns()

	var changes []history.CellChange[R]
	for _, pos := range t.sel.Rows() {
		e, ok := t.rows.At(pos)
		if !ok {
			continue
		}
		for _, c := range columns {
			if change, ok := t.planWrite(e, c, empty, adapter.WriteClear, source); ok {
				changes = append(changes, change)
			}
		}
	}
	return changes
}

// FillSelection copies the selected cells of the first selected row into the
// same columns of every other selected row.
func (t *Table[R]) FillSelection() bool {
	t.commitEdit()
	if !t.writable("fill") {
		return false
	}
	positions := t.sel.Rows()
	if len(positions) < 2 {
		return false
	}
	src, ok := t.rows.At(positions[0])
	if !ok {
		return false
	}
	columns := t.selectedDataColumns()

	var changes []history.CellChange[R]
	for _, pos := range positions[1:] {
		e, ok := t.rows.At(pos)
		if !ok {
			continue
		}
		for _, c := range columns {
			if change, ok := t.planWrite(e, c, src.Data, adapter.WriteFill, "fill"); ok {
				changes = append(changes, change)
			}
		}
	}
	if len(changes) == 0 {
		return false
	}
	return t.record(history.NewSetCells(adapter.WriteFill, changes...), "fill")
}

// planWrite prepares a write of column from src into e, checking
// editability and confirmation. Refusals are reported.
func (t *Table[R]) planWrite(e rows.Entry[R], column int, src R, ctx adapter.WriteContext, source string) (history.CellChange[R], bool) {
	if !t.caps.IsEditable(e.Data, column) {
		return history.CellChange[R]{}, false
	}
	next := t.caps.CloneRow(e.Data)
	t.caps.SetCellValue(src, &next, column)
	w := adapter.CellWrite[R]{Current: e.Data, Next: next, Column: column, Context: ctx}
	if !t.caps.ConfirmWrite(w) {
		t.rejectCell(notify.ReasonWriteRejected, source, e.ID, column)
		return history.CellChange[R]{}, false
	}
	return history.CellChange[R]{Row: e.ID, Column: column, Old: e.Data, New: next}, true
}

// Paste writes escaped TSV text at the top-left of the selection. Fields map
// to visible columns from the selection's left edge. In place, rows past the
// end of the table are appended when the adapter allows insertions; in
// insert mode every pasted row is inserted at the selection.
func (t *Table[R]) Paste(text string, mode PasteMode) bool {
	t.commitEdit()
	if !t.writable("paste") {
		return false
	}
	if !t.caps.HasCodec() {
		t.reject(notify.ReasonNoCodec, "paste", "")
		return false
	}

	target := clipboard.Target{Row: 0, Columns: t.layout.Visible()}
	if r, ok := t.sel.Rect(); ok {
		target.Row = r.Top
		target.Columns = target.Columns[r.Left:]
	} else if t.rows.Len() > 0 {
		t.reject(notify.ReasonNoSelection, "paste", "")
		return false
	}

	plan := clipboard.Decode(t.rows, text, target, mode)
	t.logger.Debug("paste: applied=%d skipped=%d invalid=%d rejected=%d refused=%d",
		plan.Applied, plan.Skipped, plan.Invalid, plan.Rejected, plan.Refused)
	if plan.Refused > 0 {
		t.reject(notify.ReasonInsertionDisallowed, "paste", fmt.Sprintf("%d rows", plan.Refused))
	}
	if plan.Invalid > 0 {
		t.reject(notify.ReasonInvalidValue, "paste", fmt.Sprintf("%d fields", plan.Invalid))
	}
	if plan.Rejected > 0 {
		t.reject(notify.ReasonWriteRejected, "paste", fmt.Sprintf("%d fields", plan.Rejected))
	}
	if plan.Empty() {
		return false
	}
	if !t.recordAll("paste", "paste", plan.Actions()) {
		return false
	}
	if plan.Rows != nil {
		t.follow(plan.Rows.IDs())
	}
	return true
}

// SortBy orders rows by keys, primary first. Ties keep ascending row id
// order. Empty keys put rows back in the order they had before the sort
// began. The reordering is undoable.
func (t *Table[R]) SortBy(keys []SortKey) bool {
	t.commitEdit()
	for _, k := range keys {
		if !t.caps.IsSortable(k.Column) {
			t.emit(notify.Event{Type: notify.EventRejected, Reason: notify.ReasonNotSortable, Column: k.Column, Source: "sort"})
			return false
		}
	}

	before := t.rows.IDs()
	var after []RowID
	if len(keys) == 0 {
		after = t.unsortedOrder(before)
	} else {
		entries := t.rows.Entries()
		slices.SortStableFunc(entries, t.compareBy(keys))
		after = make([]RowID, len(entries))
		for i, e := range entries {
			after[i] = e.ID
		}
	}

	a := &history.ReorderRows[R]{
		Before:     before,
		After:      after,
		SortBefore: t.layout.Sort(),
		SortAfter:  slices.Clone(keys),
	}
	if slices.Equal(a.Before, a.After) && slices.Equal(a.SortBefore, a.SortAfter) {
		return false
	}
	if len(a.SortBefore) == 0 {
		t.unsorted = before
	}
	return t.record(a, "sort")
}

// unsortedOrder returns current rearranged into the order saved when the
// sort began. Rows added since then follow the row they follow in current.
func (t *Table[R]) unsortedOrder(current []RowID) []RowID {
	if len(t.layout.Sort()) == 0 || len(t.unsorted) == 0 {
		return current
	}
	live := make(map[RowID]bool, len(current))
	for _, id := range current {
		live[id] = true
	}
	out := make([]RowID, 0, len(current))
	saved := make(map[RowID]bool, len(t.unsorted))
	for _, id := range t.unsorted {
		if live[id] {
			out = append(out, id)
			saved[id] = true
		}
	}
	for i, id := range current {
		if saved[id] {
			continue
		}
		at := 0
		if i > 0 {
			at = slices.Index(out, current[i-1]) + 1
		}
		out = slices.Insert(out, at, id)
	}
	return out
}

// CycleSort advances the sort state of a data column: ascending, then
// descending, then removed.
func (t *Table[R]) CycleSort(column int) bool {
	if !t.caps.IsSortable(column) {
		t.emit(notify.Event{Type: notify.EventRejected, Reason: notify.ReasonNotSortable, Column: column, Source: "sort"})
		return false
	}
	return t.SortBy(t.layout.CycleSort(column))
}

func (t *Table[R]) compareBy(keys []SortKey) func(a, b rows.Entry[R]) int {
	return func(a, b rows.Entry[R]) int {
		for _, k := range keys {
			c := t.caps.Compare(a.Data, b.Data, k.Column)
			if k.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

// HideColumn hides a data column. The last visible column cannot be hidden.
func (t *Table[R]) HideColumn(column int) bool {
	next := t.layout.Clone()
	if !next.IsVisible(column) {
		return false
	}
	if !next.HideColumn(column) {
		t.emit(notify.Event{Type: notify.EventRejected, Reason: notify.ReasonLastColumn, Column: column, Source: "hide-column"})
		return false
	}
	return t.setColumns(next.Visible(), "hide "+t.caps.ColumnName(column))
}

// ShowColumn shows a hidden data column at visible position at.
func (t *Table[R]) ShowColumn(column, at int) bool {
	next := t.layout.Clone()
	if !next.ShowColumn(column, at) {
		return false
	}
	return t.setColumns(next.Visible(), "show "+t.caps.ColumnName(column))
}

// MoveColumn moves the visible column at position from to position to.
func (t *Table[R]) MoveColumn(from, to int) bool {
	next := t.layout.Clone()
	if !next.MoveColumn(from, to) {
		return false
	}
	return t.setColumns(next.Visible(), "move column")
}

// SetVisibleColumns replaces the visible column order.
func (t *Table[R]) SetVisibleColumns(columns []int) bool {
	next := t.layout.Clone()
	if !next.SetVisible(columns) {
		return false
	}
	return t.setColumns(next.Visible(), "")
}

func (t *Table[R]) setColumns(after []int, name string) bool {
	t.commitEdit()
	a := &history.SetColumns[R]{Before: t.layout.Visible(), After: after, Name: name}
	if slices.Equal(a.Before, a.After) {
		return false
	}
	return t.record(a, "columns")
}

func (t *Table[R]) insertable(source string) bool {
	if !t.writable(source) {
		return false
	}
	if !t.caps.AllowInsertions() {
		t.reject(notify.ReasonInsertionDisallowed, source, "")
		return false
	}
	return true
}

func (t *Table[R]) rejectCell(reason notify.Reason, source string, id RowID, column int) {
	t.logger.Debug("%s rejected: %s row=%d column=%d", source, reason, id, column)
	t.emit(notify.Event{Type: notify.EventRejected, Reason: reason, Row: uint64(id), Column: column, Source: source})
}

// validPositions returns the in-range positions, ascending and deduplicated.
func (t *Table[R]) validPositions(positions []int) []int {
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if p >= 0 && p < t.rows.Len() {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// follow selects the rows identified by ids when selection following is on.
func (t *Table[R]) follow(ids []RowID) {
	if !t.autoFollow || len(ids) == 0 {
		return
	}
	first, ok1 := t.rows.Position(ids[0])
	last, ok2 := t.rows.Position(ids[len(ids)-1])
	if !ok1 || !ok2 {
		return
	}
	column := 0
	if c, ok := t.sel.Cursor(); ok {
		column = c.Column
	}
	t.sel.SetAnchor(Cell{Row: first, Column: column})
	t.sel.ExtendTo(Cell{Row: last, Column: column})
}

func clampPos(pos, n int) int {
	return max(0, min(pos, n))
}
