package grid

import (
	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/edit"
	"github.com/dshills/keygrid/internal/grid/history"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/notify"
)

// StartEdit opens an editor on the cell at c. An edit active on another cell
// is committed first. It reports whether the cell is now being edited; when
// the adapter produces no editor for the cell the edit ends immediately and
// StartEdit returns false.
func (t *Table[R]) StartEdit(c Cell, g edit.Gesture) bool {
	e, column, ok := t.resolve(c)
	if !ok {
		return false
	}
	if id, col, active := t.edit.Target(); active && id == e.ID && col == column {
		return true
	}
	t.commitEdit()

	cursor, hasCursor := t.sel.Cursor()
	interactive := hasCursor && cursor == c
	if !t.edit.CanActivate(g, interactive) {
		return false
	}
	if t.readOnly || !t.caps.IsEditable(e.Data, column) {
		t.rejectCell(notify.ReasonNotEditable, "edit", e.ID, column)
		return false
	}
	if !t.edit.Begin(e.ID, column, e.Data, g, interactive) {
		return false
	}
	t.sel.SetAnchor(c)

	if !t.edit.HasEditor() {
		t.commitEdit()
		return false
	}
	return true
}

// UpdateEdit applies a keystroke to the pending value. Keystrokes of one
// edit are recorded as a single change on commit.
func (t *Table[R]) UpdateEdit(fn func(pending *R)) bool {
	return t.edit.Update(fn)
}

// SetEditValue transfers the edited column of value into the pending value.
func (t *Table[R]) SetEditValue(value R) bool {
	return t.edit.SetValue(value)
}

// SetEditText decodes text into the pending value.
func (t *Table[R]) SetEditText(text string) bool {
	if !t.edit.Active() {
		return false
	}
	if !t.edit.SetText(text) {
		id, column, _ := t.edit.Target()
		t.rejectCell(notify.ReasonInvalidValue, "edit", id, column)
		return false
	}
	return true
}

// CommitEdit ends the active edit and records the pending value. It reports
// whether a change was recorded.
func (t *Table[R]) CommitEdit() bool {
	return t.commitEdit()
}

// CancelEdit discards the pending value.
func (t *Table[R]) CancelEdit() bool {
	return t.edit.Cancel()
}

// CommitAndMove commits the active edit and moves the cursor one cell in d.
func (t *Table[R]) CommitAndMove(d selection.Direction) bool {
	changed := t.commitEdit()
	t.sel.Move(d, false)
	return changed
}

func (t *Table[R]) commitEdit() bool {
	id, column, ok := t.edit.Target()
	if !ok {
		return false
	}
	current, ok := t.rows.Get(id)
	if !ok {
		t.edit.Cancel()
		return false
	}

	change, outcome := t.edit.Commit(current)
	switch outcome {
	case edit.Accepted:
		return t.record(history.NewSetCells(adapter.WriteEdit, change), "edit")
	case edit.Rejected:
		t.rejectCell(notify.ReasonWriteRejected, "edit", id, column)
	}
	return false
}
