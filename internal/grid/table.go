package grid

import (
	"slices"

	"github.com/google/uuid"

	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/edit"
	"github.com/dshills/keygrid/internal/grid/history"
	"github.com/dshills/keygrid/internal/grid/layout"
	"github.com/dshills/keygrid/internal/grid/rows"
	"github.com/dshills/keygrid/internal/grid/selection"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/notify"
)

// Re-export commonly used types for convenience.
type (
	// RowID durably identifies a row.
	RowID = rows.RowID

	// Cell is a view coordinate (row position, visible column position).
	Cell = selection.Cell

	// SortKey orders rows by one data column.
	SortKey = layout.SortKey
)

// Table is the state aggregate of one editable grid.
type Table[R any] struct {
	id uuid.UUID

	// Core components
	caps   *adapter.Caps[R]
	rows   *rows.Store[R]
	layout *layout.Layout
	sel    *selection.Model
	edit   *edit.Session[R]
	log    *history.Log[R]

	// unsorted is the row order saved when the layout last became sorted.
	unsorted []RowID

	// Configuration
	readOnly   bool
	autoFollow bool

	logger   *logging.Logger
	notifier *notify.Notifier

	// batch collects events while a tick is running.
	batch *notify.Batch
}

// New creates a table over initial rows.
func New[R any](a adapter.Adapter[R], initial []R, opts ...Option) *Table[R] {
	o := &options{autoFollow: true}
	for _, opt := range opts {
		opt(o)
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}
	if o.logger == nil {
		o.logger = logging.Null()
	}
	if o.notifier == nil {
		o.notifier = notify.New()
	}

	caps := adapter.Resolve(a)
	t := &Table[R]{
		id:         o.id,
		caps:       caps,
		rows:       rows.NewStore(caps, initial...),
		layout:     layout.New(caps.NumColumns()),
		log:        history.NewLog[R](o.maxUndo),
		readOnly:   o.readOnly,
		autoFollow: o.autoFollow,
		logger:     o.logger.WithComponent("grid").WithField("table", o.id.String()[:8]),
		notifier:   o.notifier,
	}
	if len(o.visible) > 0 && !t.layout.SetVisible(o.visible) {
		t.logger.Warn("ignoring invalid visible columns %v", o.visible)
	}
	t.sel = selection.NewModel(t.rows.Len(), t.layout.VisibleCount())
	t.edit = edit.NewSession(caps, o.policy)
	t.edit.OnTransition = func(from, to edit.State) {
		t.logger.Debug("edit %s -> %s", from, to)
		t.emit(notify.Event{Type: notify.EventEditState, Column: -1, Detail: to.String()})
	}
	return t
}

// ID returns the table identifier.
func (t *Table[R]) ID() uuid.UUID {
	return t.id
}

// Caps returns the resolved adapter.
func (t *Table[R]) Caps() *adapter.Caps[R] {
	return t.caps
}

// Notifier returns the notifier events are delivered to.
func (t *Table[R]) Notifier() *notify.Notifier {
	return t.notifier
}

// Selection returns the selection model. Hosts may drive it directly; the
// table keeps its bounds in sync after every structural change.
func (t *Table[R]) Selection() *selection.Model {
	return t.sel
}

// Len returns the number of rows.
func (t *Table[R]) Len() int {
	return t.rows.Len()
}

// Row returns the row at view position pos.
func (t *Table[R]) Row(pos int) (R, bool) {
	e, ok := t.rows.At(pos)
	return e.Data, ok
}

// RowID returns the identifier of the row at pos, or zero.
func (t *Table[R]) RowID(pos int) RowID {
	return t.rows.IDAt(pos)
}

// RowByID returns the row identified by id.
func (t *Table[R]) RowByID(id RowID) (R, bool) {
	return t.rows.Get(id)
}

// Position returns the view position of id.
func (t *Table[R]) Position(id RowID) (int, bool) {
	return t.rows.Position(id)
}

// Rows returns the rows in view order.
func (t *Table[R]) Rows() []R {
	return t.rows.Data()
}

// RowIDs returns the row identifiers in view order.
func (t *Table[R]) RowIDs() []RowID {
	return t.rows.IDs()
}

// VisibleColumns returns the data columns in display order.
func (t *Table[R]) VisibleColumns() []int {
	return t.layout.Visible()
}

// HiddenColumns returns the data columns that are not displayed.
func (t *Table[R]) HiddenColumns() []int {
	return t.layout.Hidden()
}

// SortKeys returns the active sort keys, primary first.
func (t *Table[R]) SortKeys() []SortKey {
	return t.layout.Sort()
}

// DataColumn maps a visible column position to its data column.
func (t *Table[R]) DataColumn(vis int) (int, bool) {
	return t.layout.DataColumn(vis)
}

// ColumnName returns the header caption of a data column.
func (t *Table[R]) ColumnName(column int) string {
	return t.caps.ColumnName(column)
}

// IsEditable reports whether the cell at a view coordinate accepts writes.
func (t *Table[R]) IsEditable(c Cell) bool {
	e, col, ok := t.resolve(c)
	return ok && !t.readOnly && t.caps.IsEditable(e.Data, col)
}

// EditState returns the edit session state.
func (t *Table[R]) EditState() edit.State {
	return t.edit.State()
}

// EditingCell returns the view coordinate of the edited cell.
func (t *Table[R]) EditingCell() (Cell, bool) {
	id, col, ok := t.edit.Target()
	if !ok {
		return Cell{}, false
	}
	pos, ok := t.rows.Position(id)
	if !ok {
		return Cell{}, false
	}
	vis, ok := t.layout.VisiblePosition(col)
	return Cell{Row: pos, Column: vis}, ok
}

// EditingRow returns the working copy of the edited row.
func (t *Table[R]) EditingRow() (R, bool) {
	return t.edit.Pending()
}

// SetEditPolicy changes the edit activation policy.
func (t *Table[R]) SetEditPolicy(p edit.Policy) {
	t.edit.SetPolicy(p)
}

// SetMaxUndoEntries changes the undo capacity.
func (t *Table[R]) SetMaxUndoEntries(n int) {
	t.log.SetMaxEntries(n)
}

// CanUndo reports whether undo is available.
func (t *Table[R]) CanUndo() bool {
	return t.log.CanUndo()
}

// CanRedo reports whether redo is available.
func (t *Table[R]) CanRedo() bool {
	return t.log.CanRedo()
}

// History returns info about the undo stack, oldest first.
func (t *Table[R]) History() []history.Info {
	return t.log.UndoInfo()
}

// IsDirty reports whether the table differs from its last saved state.
func (t *Table[R]) IsDirty() bool {
	return t.log.IsDirty()
}

// MarkSaved records the current state as saved.
func (t *Table[R]) MarkSaved() {
	t.log.MarkSaved()
}

// Undo reverts the last action. It reports whether one was available.
func (t *Table[R]) Undo() bool {
	t.commitEdit()
	if err := t.log.Undo(t.target()); err != nil {
		t.logger.Debug("undo: %v", err)
		return false
	}
	info, _ := t.log.PeekRedo()
	t.afterHistoryMove("undo", info)
	return true
}

// Redo re-applies the last undone action. It reports whether one was
// available.
func (t *Table[R]) Redo() bool {
	t.commitEdit()
	if err := t.log.Redo(t.target()); err != nil {
		t.logger.Debug("redo: %v", err)
		return false
	}
	info, _ := t.log.PeekUndo()
	t.afterHistoryMove("redo", info)
	return true
}

// afterHistoryMove reports the action that undo or redo just moved.
func (t *Table[R]) afterHistoryMove(source string, moved history.Info) {
	t.syncBounds()
	t.emit(notify.Event{Type: notify.EventHistoryChanged, Column: -1, Source: source, Detail: moved.Description})
}

// Replace replaces every row. History is reset.
func (t *Table[R]) Replace(data []R) {
	t.edit.Cancel()
	t.rows.Reset(data)
	t.unsorted = nil
	t.programmatic("replace")
}

// Retain keeps the rows for which keep returns true. History is reset if any
// row was dropped.
func (t *Table[R]) Retain(keep func(R) bool) {
	t.edit.Cancel()
	if t.rows.Retain(keep) {
		t.programmatic("retain")
	}
}

// Extend appends rows. History is reset.
func (t *Table[R]) Extend(data []R) {
	if len(data) == 0 {
		return
	}
	t.edit.Cancel()
	t.rows.Insert(t.rows.Len(), data)
	t.programmatic("extend")
}

// RestoreView applies a saved column order and sort keys without recording
// history. Rows are not reordered; they are expected to be stored in the
// saved order already. Invalid columns leave the layout unchanged.
func (t *Table[R]) RestoreView(visible []int, sort []SortKey) bool {
	t.edit.Cancel()
	ok := len(visible) == 0 || slices.Equal(t.layout.Visible(), visible) || t.layout.SetVisible(visible)
	t.layout.SetSort(sort)
	t.unsorted = nil
	t.syncBounds()
	return ok
}

func (t *Table[R]) programmatic(source string) {
	t.log.Clear()
	t.sel.Clear()
	t.syncBounds()
	t.logger.Debug("%s: %d rows, history cleared", source, t.rows.Len())
	t.emit(notify.Event{Type: notify.EventHistoryChanged, Column: -1, Source: source})
}

// target returns the state actions operate on.
func (t *Table[R]) target() history.Target[R] {
	return history.Target[R]{Rows: t.rows, Layout: t.layout}
}

// record applies a and pushes it onto the log.
func (t *Table[R]) record(a history.Action[R], source string) bool {
	if err := t.log.Record(t.target(), a); err != nil {
		t.logger.Warn("%s: %s: %v", source, a.Description(), err)
		return false
	}
	t.logger.Debug("%s: recorded %s (%s)", source, a.Description(), a.Kind())
	t.emitRowUpdates(a, source)
	t.emit(notify.Event{Type: notify.EventHistoryChanged, Column: -1, Source: source, Detail: a.Description()})
	t.syncBounds()
	return true
}

// recordAll records actions in one log group so they undo together. If one
// fails, those already applied are reverted.
func (t *Table[R]) recordAll(name, source string, actions []history.Action[R]) bool {
	if len(actions) == 0 {
		return false
	}
	tg := t.target()
	err := t.log.Transaction(tg, name, func() error {
		for _, a := range actions {
			if err := t.log.Record(tg, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.logger.Warn("%s: %s: %v", source, name, err)
		t.syncBounds()
		return false
	}

	info, _ := t.log.PeekUndo()
	t.logger.Debug("%s: recorded %s (%s)", source, info.Description, info.Kind)
	for _, a := range actions {
		t.emitRowUpdates(a, source)
	}
	t.emit(notify.Event{Type: notify.EventHistoryChanged, Column: -1, Source: source, Detail: info.Description})
	t.syncBounds()
	return true
}

func (t *Table[R]) emitRowUpdates(a history.Action[R], source string) {
	switch a := a.(type) {
	case *history.SetCells[R]:
		for _, c := range a.Changes {
			t.emit(notify.Event{Type: notify.EventRowUpdated, Row: uint64(c.Row), Column: c.Column, Source: source})
		}
	case *history.Group[R]:
		for _, inner := range a.Actions {
			t.emitRowUpdates(inner, source)
		}
	}
}

// reject reports a refused mutation.
func (t *Table[R]) reject(reason notify.Reason, source, detail string) {
	t.logger.Debug("%s rejected: %s %s", source, reason, detail)
	t.emit(notify.Event{Type: notify.EventRejected, Reason: reason, Column: -1, Source: source, Detail: detail})
}

func (t *Table[R]) emit(ev notify.Event) {
	if t.batch != nil {
		t.batch.Add(ev)
		return
	}
	t.notifier.Notify(ev)
}

// syncBounds clamps the selection into the current table extent.
func (t *Table[R]) syncBounds() {
	t.sel.SetBounds(t.rows.Len(), t.layout.VisibleCount())
}

// resolve maps a view coordinate to its row entry and data column.
func (t *Table[R]) resolve(c Cell) (rows.Entry[R], int, bool) {
	e, ok := t.rows.At(c.Row)
	if !ok {
		return rows.Entry[R]{}, 0, false
	}
	col, ok := t.layout.DataColumn(c.Column)
	if !ok {
		return rows.Entry[R]{}, 0, false
	}
	return e, col, true
}

// selectedDataColumns returns the data columns under the selection.
func (t *Table[R]) selectedDataColumns() []int {
	vis := t.sel.Columns()
	out := make([]int, 0, len(vis))
	for _, v := range vis {
		if c, ok := t.layout.DataColumn(v); ok {
			out = append(out, c)
		}
	}
	return out
}
