package adapter

import "strconv"

// Caps is a resolved view of an Adapter and its optional capabilities.
// Every method is safe to call: missing capabilities fall back to their
// documented defaults, out-of-range columns are rejected before reaching the
// host, and a panicking validation hook counts as a rejection.
type Caps[R any] struct {
	base Adapter[R]

	copier    CopyCloner[R]
	codec     CellCodec[R]
	writes    WriteConfirmer[R]
	deletions DeletionConfirmer[R]
	editable  EditabilityChecker[R]
	policy    RowPolicy
	observer  RowObserver[R]
	sorter    Sorter[R]
	editors   EditorProvider[R]
	namer     ColumnNamer
	persister UIStatePersister

	numColumns int
}

// Resolve inspects a for optional capabilities.
func Resolve[R any](a Adapter[R]) *Caps[R] {
	c := &Caps[R]{base: a, numColumns: a.NumColumns()}
	if c.numColumns < 0 {
		c.numColumns = 0
	}

	c.copier, _ = a.(CopyCloner[R])
	c.codec, _ = a.(CellCodec[R])
	c.writes, _ = a.(WriteConfirmer[R])
	c.deletions, _ = a.(DeletionConfirmer[R])
	c.editable, _ = a.(EditabilityChecker[R])
	c.policy, _ = a.(RowPolicy)
	c.observer, _ = a.(RowObserver[R])
	c.sorter, _ = a.(Sorter[R])
	c.editors, _ = a.(EditorProvider[R])
	c.namer, _ = a.(ColumnNamer)
	c.persister, _ = a.(UIStatePersister)
	return c
}

// Adapter returns the underlying adapter.
func (c *Caps[R]) Adapter() Adapter[R] {
	return c.base
}

// NumColumns returns the column count captured at resolve time.
func (c *Caps[R]) NumColumns() int {
	return c.numColumns
}

// ValidColumn reports whether column is addressable.
func (c *Caps[R]) ValidColumn(column int) bool {
	return column >= 0 && column < c.numColumns
}

// NewEmptyRow constructs an empty row.
func (c *Caps[R]) NewEmptyRow(ctx EmptyRowContext) R {
	return c.base.NewEmptyRow(ctx)
}

// CloneRow clones a row for insertion.
func (c *Caps[R]) CloneRow(src R) R {
	return c.base.CloneRow(src)
}

// CloneForCopy clones a row for a user-triggered duplicate.
func (c *Caps[R]) CloneForCopy(src R) R {
	if c.copier != nil {
		return c.copier.CloneRowAsCopiedBase(src)
	}
	return c.base.CloneRow(src)
}

// SetCellValue copies column from src into dst. Invalid columns are ignored.
func (c *Caps[R]) SetCellValue(src R, dst *R, column int) {
	if !c.ValidColumn(column) {
		return
	}
	c.base.SetCellValue(src, dst, column)
}

// HasCodec reports whether rows can be converted to clipboard text.
func (c *Caps[R]) HasCodec() bool {
	return c.codec != nil
}

// EncodeCell returns the text of a cell, or "" without a codec.
func (c *Caps[R]) EncodeCell(row R, column int) string {
	if c.codec == nil || !c.ValidColumn(column) {
		return ""
	}
	return c.codec.EncodeCell(row, column)
}

// DecodeCell parses text into a cell.
func (c *Caps[R]) DecodeCell(dst *R, column int, text string) bool {
	if c.codec == nil || !c.ValidColumn(column) {
		return false
	}
	return guard(func() bool { return c.codec.DecodeCell(dst, column, text) })
}

// ConfirmWrite asks the host whether a write may proceed.
func (c *Caps[R]) ConfirmWrite(w CellWrite[R]) bool {
	if !c.ValidColumn(w.Column) {
		return false
	}
	if c.writes == nil {
		return true
	}
	return guard(func() bool { return c.writes.ConfirmCellWrite(w) })
}

// ConfirmDeletion asks the host whether a row may be removed.
func (c *Caps[R]) ConfirmDeletion(row R) bool {
	if c.deletions == nil {
		return true
	}
	return guard(func() bool { return c.deletions.ConfirmRowDeletion(row) })
}

// IsEditable reports whether a cell accepts user writes.
func (c *Caps[R]) IsEditable(row R, column int) bool {
	if !c.ValidColumn(column) {
		return false
	}
	if c.editable == nil {
		return true
	}
	return guard(func() bool { return c.editable.IsEditableCell(row, column) })
}

// AllowInsertions reports whether the table may grow.
func (c *Caps[R]) AllowInsertions() bool {
	if c.policy == nil {
		return true
	}
	return c.policy.AllowRowInsertions()
}

// AllowDeletions reports whether the table may shrink.
func (c *Caps[R]) AllowDeletions() bool {
	if c.policy == nil {
		return true
	}
	return c.policy.AllowRowDeletions()
}

// RowUpdated forwards a committed value change to the host.
func (c *Caps[R]) RowUpdated(old, new R) {
	if c.observer != nil {
		c.observer.OnRowUpdated(old, new)
	}
}

// IsSortable reports whether a column can be sorted.
func (c *Caps[R]) IsSortable(column int) bool {
	if c.sorter == nil || !c.ValidColumn(column) {
		return false
	}
	return c.sorter.IsSortableColumn(column)
}

// Compare orders two rows by column. Unsortable columns compare equal.
func (c *Caps[R]) Compare(a, b R, column int) int {
	if !c.IsSortable(column) {
		return 0
	}
	return c.sorter.CompareCell(a, b, column)
}

// HasEditor reports whether an in-place editor exists for a cell.
func (c *Caps[R]) HasEditor(row R, column int) bool {
	if c.editors == nil {
		return true
	}
	return c.editors.HasEditor(row, column)
}

// ColumnName returns the header caption of a column.
func (c *Caps[R]) ColumnName(column int) string {
	if c.namer != nil && c.ValidColumn(column) {
		return c.namer.ColumnName(column)
	}
	return strconv.Itoa(column + 1)
}

// PersistUIState reports whether the host opted into UI state persistence.
func (c *Caps[R]) PersistUIState() bool {
	return c.persister != nil && c.persister.PersistUIState()
}

// guard runs a host hook, treating a panic as a rejection.
func guard(fn func() bool) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return fn()
}
