package script

import (
	"github.com/dshills/keygrid/internal/grid/adapter"
)

// Adapter layers Rules over another adapter. Every capability is forwarded
// to the wrapped adapter with its defaults intact; editability, write and
// deletion checks additionally consult the script, and both must allow.
type Adapter[R any] struct {
	caps  *adapter.Caps[R]
	rules *Rules
	names []string
}

// Wrap returns an adapter enforcing rules on top of a. a must implement
// adapter.CellCodec.
func Wrap[R any](a adapter.Adapter[R], rules *Rules) (*Adapter[R], error) {
	caps := adapter.Resolve(a)
	if !caps.HasCodec() {
		return nil, ErrNoCodec
	}
	names := make([]string, caps.NumColumns())
	for i := range names {
		names[i] = caps.ColumnName(i)
	}
	return &Adapter[R]{caps: caps, rules: rules, names: names}, nil
}

// Unwrap returns the wrapped adapter.
func (a *Adapter[R]) Unwrap() adapter.Adapter[R] {
	return a.caps.Adapter()
}

// Rules returns the script in effect.
func (a *Adapter[R]) Rules() *Rules {
	return a.rules
}

func (a *Adapter[R]) text(row R) Row {
	cells := make([]string, len(a.names))
	for i := range cells {
		cells[i] = a.caps.EncodeCell(row, i)
	}
	return Row{Names: a.names, Cells: cells}
}

func (a *Adapter[R]) NumColumns() int { return a.caps.NumColumns() }

func (a *Adapter[R]) NewEmptyRow(ctx adapter.EmptyRowContext) R { return a.caps.NewEmptyRow(ctx) }

func (a *Adapter[R]) CloneRow(src R) R { return a.caps.CloneRow(src) }

func (a *Adapter[R]) CloneRowAsCopiedBase(src R) R { return a.caps.CloneForCopy(src) }

func (a *Adapter[R]) SetCellValue(src R, dst *R, column int) { a.caps.SetCellValue(src, dst, column) }

func (a *Adapter[R]) EncodeCell(row R, column int) string { return a.caps.EncodeCell(row, column) }

func (a *Adapter[R]) DecodeCell(dst *R, column int, text string) bool {
	return a.caps.DecodeCell(dst, column, text)
}

// IsEditableCell asks the wrapped adapter, then the script.
func (a *Adapter[R]) IsEditableCell(row R, column int) bool {
	if !a.caps.IsEditable(row, column) {
		return false
	}
	return a.rules.Editable(a.text(row), column)
}

// ConfirmCellWrite asks the wrapped adapter, then the script.
func (a *Adapter[R]) ConfirmCellWrite(w adapter.CellWrite[R]) bool {
	if !a.caps.ConfirmWrite(w) {
		return false
	}
	return a.rules.ConfirmWrite(Write{
		Column:  w.Column,
		Context: w.Context.String(),
		Current: a.text(w.Current),
		Next:    a.text(w.Next),
	})
}

// ConfirmRowDeletion asks the wrapped adapter, then the script.
func (a *Adapter[R]) ConfirmRowDeletion(row R) bool {
	if !a.caps.ConfirmDeletion(row) {
		return false
	}
	return a.rules.ConfirmDelete(a.text(row))
}

func (a *Adapter[R]) AllowRowInsertions() bool { return a.caps.AllowInsertions() }

func (a *Adapter[R]) AllowRowDeletions() bool { return a.caps.AllowDeletions() }

func (a *Adapter[R]) OnRowUpdated(old, new R) { a.caps.RowUpdated(old, new) }

func (a *Adapter[R]) IsSortableColumn(column int) bool { return a.caps.IsSortable(column) }

func (a *Adapter[R]) CompareCell(x, y R, column int) int { return a.caps.Compare(x, y, column) }

func (a *Adapter[R]) HasEditor(row R, column int) bool { return a.caps.HasEditor(row, column) }

func (a *Adapter[R]) ColumnName(column int) string { return a.caps.ColumnName(column) }

func (a *Adapter[R]) PersistUIState() bool { return a.caps.PersistUIState() }
