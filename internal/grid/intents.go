package grid

import (
	"github.com/dshills/keygrid/internal/grid/edit"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/notify"
)

// UIAction identifies a host intent. New actions may be added; consumers
// switching on UIAction must keep a default arm.
type UIAction int

const (
	UIUnknown UIAction = iota
	UISelect
	UIExtendSelection
	UISelectAll
	UISelectRow
	UIToggleRow
	UIMoveSelection
	UIStartEdit
	UIEditText
	UICommitEdit
	UICancelEdit
	UICommitAndMove
	UICopy
	UICut
	UIPasteInPlace
	UIPasteInsert
	UIClearCells
	UIFillSelection
	UIDuplicateRows
	UIDeleteRows
	UIInsertEmptyRows
	UIUndo
	UIRedo
	UICycleSort
	UIHideColumn
	UIShowColumn
	UIMoveColumn
)

// String returns the action name.
func (a UIAction) String() string {
	switch a {
	case UISelect:
		return "select"
	case UIExtendSelection:
		return "extend-selection"
	case UISelectAll:
		return "select-all"
	case UISelectRow:
		return "select-row"
	case UIToggleRow:
		return "toggle-row"
	case UIMoveSelection:
		return "move-selection"
	case UIStartEdit:
		return "start-edit"
	case UIEditText:
		return "edit-text"
	case UICommitEdit:
		return "commit-edit"
	case UICancelEdit:
		return "cancel-edit"
	case UICommitAndMove:
		return "commit-and-move"
	case UICopy:
		return "copy"
	case UICut:
		return "cut"
	case UIPasteInPlace:
		return "paste"
	case UIPasteInsert:
		return "paste-insert"
	case UIClearCells:
		return "clear-cells"
	case UIFillSelection:
		return "fill-selection"
	case UIDuplicateRows:
		return "duplicate-rows"
	case UIDeleteRows:
		return "delete-rows"
	case UIInsertEmptyRows:
		return "insert-empty-rows"
	case UIUndo:
		return "undo"
	case UIRedo:
		return "redo"
	case UICycleSort:
		return "cycle-sort"
	case UIHideColumn:
		return "hide-column"
	case UIShowColumn:
		return "show-column"
	case UIMoveColumn:
		return "move-column"
	default:
		return "unknown"
	}
}

// Intent is one host request processed by Tick. Only the fields an action
// uses are read.
type Intent struct {
	Action UIAction

	// Cell is the target of select, edit and row actions.
	Cell Cell

	// Direction and Extend drive cursor movement.
	Direction selection.Direction
	Extend    bool

	// Gesture is the activation gesture of UIStartEdit.
	Gesture edit.Gesture

	// Count is the number of rows for UIInsertEmptyRows; Below places them
	// under the selection instead of above it.
	Count int
	Below bool

	// Text is pasted text or editor text.
	Text string

	// Column is a data column for sort and visibility actions, or the source
	// visible position for UIMoveColumn. To is the destination visible
	// position.
	Column int
	To     int
}

// TickResult reports the outcome of one tick.
type TickResult struct {
	// Clipboard is text the host should publish to its clipboard.
	Clipboard    string
	HasClipboard bool

	// Focus is set when an editor is open and should take input focus.
	Focus bool

	// Changed is set when any intent changed table state.
	Changed bool

	// Events are the notifications raised during the tick, in order.
	Events []notify.Event
}

// Tick processes one batch of host intents in order. Notifications raised
// during the tick are delivered to subscribers when it ends.
func (t *Table[R]) Tick(intents ...Intent) TickResult {
	var res TickResult

	batch := t.notifier.NewBatch()
	t.batch = batch
	defer func() {
		t.batch = nil
		batch.Commit()
	}()

	for _, in := range intents {
		if t.apply(in, &res) {
			res.Changed = true
		}
	}

	res.Focus = t.edit.Active() && t.edit.HasEditor()
	res.Events = batch.Events()
	return res
}

func (t *Table[R]) apply(in Intent, res *TickResult) bool {
	switch in.Action {
	case UISelect:
		if c, ok := t.EditingCell(); ok && c != in.Cell {
			t.commitEdit()
		}
		t.sel.SetAnchor(in.Cell)
		return true
	case UIExtendSelection:
		t.sel.ExtendTo(in.Cell)
		return true
	case UISelectAll:
		t.sel.SelectAll()
		return true
	case UISelectRow:
		t.sel.SelectRow(in.Cell.Row)
		return true
	case UIToggleRow:
		t.sel.ToggleRow(in.Cell.Row)
		return true
	case UIMoveSelection:
		t.commitEdit()
		t.sel.Move(in.Direction, in.Extend)
		return true
	case UIStartEdit:
		return t.StartEdit(in.Cell, in.Gesture)
	case UIEditText:
		return t.SetEditText(in.Text)
	case UICommitEdit:
		return t.CommitEdit()
	case UICancelEdit:
		return t.CancelEdit()
	case UICommitAndMove:
		t.CommitAndMove(in.Direction)
		return true
	case UICopy:
		text, ok := t.Copy()
		if ok {
			res.Clipboard, res.HasClipboard = text, true
		}
		return false
	case UICut:
		text, ok := t.Cut()
		if ok {
			res.Clipboard, res.HasClipboard = text, true
		}
		return ok
	case UIPasteInPlace:
		return t.Paste(in.Text, PasteInPlace)
	case UIPasteInsert:
		return t.Paste(in.Text, PasteInsert)
	case UIClearCells:
		return t.ClearCells()
	case UIFillSelection:
		return t.FillSelection()
	case UIDuplicateRows:
		return t.DuplicateRows(t.sel.Rows())
	case UIDeleteRows:
		return t.RemoveRows(t.sel.Rows())
	case UIInsertEmptyRows:
		return t.InsertEmptyRows(t.insertionPoint(in.Below), max(in.Count, 1))
	case UIUndo:
		return t.Undo()
	case UIRedo:
		return t.Redo()
	case UICycleSort:
		return t.CycleSort(in.Column)
	case UIHideColumn:
		return t.HideColumn(in.Column)
	case UIShowColumn:
		return t.ShowColumn(in.Column, in.To)
	case UIMoveColumn:
		return t.MoveColumn(in.Column, in.To)
	default:
		t.logger.Warn("ignoring unknown intent %d", int(in.Action))
		t.reject(notify.ReasonUnknownIntent, in.Action.String(), "")
		return false
	}
}

// insertionPoint returns where new rows go relative to the selection.
// Without a selection rows are appended.
func (t *Table[R]) insertionPoint(below bool) int {
	r, ok := t.sel.Rect()
	if !ok {
		return t.rows.Len()
	}
	if below {
		return r.Bottom + 1
	}
	return r.Top
}
