// Package adapter defines the capability set a host supplies to give rows of
// an arbitrary type R their domain semantics.
//
// The core never inspects a row payload. Everything it needs from a row goes
// through the interfaces in this package:
//
//   - Adapter is mandatory: column count, empty-row construction, cloning,
//     and per-column value transfer between two rows.
//   - The remaining interfaces are optional capabilities. A host implements
//     only the ones it needs; Resolve detects them once and supplies the
//     documented default for the rest.
//
// A "cell value" in the core is always expressed as a row snapshot from which
// one column is transferred with SetCellValue. This keeps the core agnostic
// to the shape of a column's value.
package adapter

// EmptyRowContext tells NewEmptyRow why a fresh row is being constructed.
type EmptyRowContext int

const (
	// EmptyRowDefault is used for programmatic construction.
	EmptyRowDefault EmptyRowContext = iota

	// EmptyRowInsertNewLine is used when the user inserts blank rows.
	EmptyRowInsertNewLine

	// EmptyRowPaste is used when a paste grows the table.
	EmptyRowPaste

	// EmptyRowClear is used as the value source when cells are cleared.
	EmptyRowClear
)

// String returns the context name.
func (c EmptyRowContext) String() string {
	switch c {
	case EmptyRowDefault:
		return "default"
	case EmptyRowInsertNewLine:
		return "insert"
	case EmptyRowPaste:
		return "paste"
	case EmptyRowClear:
		return "clear"
	default:
		return "unknown"
	}
}

// WriteContext identifies the user gesture that produced a cell write.
type WriteContext int

const (
	// WriteEdit is a commit from the in-place editor.
	WriteEdit WriteContext = iota

	// WritePaste is a value decoded from clipboard text.
	WritePaste

	// WriteClear is a cell being reset to its empty value.
	WriteClear

	// WriteDrop is a value dropped onto a cell.
	WriteDrop

	// WriteFill is a value duplicated down a selection.
	WriteFill
)

// String returns the context name.
func (c WriteContext) String() string {
	switch c {
	case WriteEdit:
		return "edit"
	case WritePaste:
		return "paste"
	case WriteClear:
		return "clear"
	case WriteDrop:
		return "drop"
	case WriteFill:
		return "fill"
	default:
		return "unknown"
	}
}

// Adapter is the mandatory part of the row capability set.
type Adapter[R any] interface {
	// NumColumns returns the number of columns every row exposes.
	// It must be constant for the lifetime of a table.
	NumColumns() int

	// NewEmptyRow constructs a row with every column at its empty value.
	NewEmptyRow(ctx EmptyRowContext) R

	// CloneRow returns an independent copy of src suitable for insertion.
	// Mutating the copy must never affect src.
	CloneRow(src R) R

	// SetCellValue copies the value of column from src into dst.
	// column is always in [0, NumColumns()).
	SetCellValue(src R, dst *R, column int)
}

// CopyCloner overrides how a row is cloned when the user duplicates it.
// Without it, CloneRow is used.
type CopyCloner[R any] interface {
	CloneRowAsCopiedBase(src R) R
}

// CellCodec converts a single cell to and from clipboard text.
// Without it, copy and paste are disabled.
type CellCodec[R any] interface {
	// EncodeCell returns the text form of a cell.
	EncodeCell(row R, column int) string

	// DecodeCell parses text into column of dst.
	// It reports false if the text is not a valid value for the column, in
	// which case dst must be left unchanged.
	DecodeCell(dst *R, column int, text string) bool
}

// CellWrite describes a pending cell write presented for confirmation.
type CellWrite[R any] struct {
	// Current is the row as it is stored now.
	Current R

	// Next is a row whose Column carries the value about to be written.
	Next R

	// Column is the data column being written.
	Column int

	// Context is the gesture that produced the write.
	Context WriteContext
}

// WriteConfirmer vets every cell write. Without it, all writes are accepted.
type WriteConfirmer[R any] interface {
	ConfirmCellWrite(w CellWrite[R]) bool
}

// DeletionConfirmer vets every user-triggered row removal.
// Without it, all removals are accepted.
type DeletionConfirmer[R any] interface {
	ConfirmRowDeletion(row R) bool
}

// EditabilityChecker reports whether a particular cell may be written by the
// user. It may depend on the row, which allows row-conditional locking.
// Without it, every cell is editable.
type EditabilityChecker[R any] interface {
	IsEditableCell(row R, column int) bool
}

// RowPolicy gates structural growth and shrinkage.
// Without it, both insertions and deletions are allowed.
type RowPolicy interface {
	AllowRowInsertions() bool
	AllowRowDeletions() bool
}

// RowObserver is notified after a committed change replaced a row's value.
type RowObserver[R any] interface {
	OnRowUpdated(old, new R)
}

// Sorter orders rows by a column. Without it, no column is sortable.
type Sorter[R any] interface {
	IsSortableColumn(column int) bool

	// CompareCell returns a negative number, zero, or a positive number when
	// column of a sorts before, equal to, or after column of b.
	CompareCell(a, b R, column int) int
}

// EditorProvider reports whether the host produces an in-place editor for a
// cell. When it does not, an edit session commits immediately instead of
// waiting for focus. Without it, every editable cell has an editor.
type EditorProvider[R any] interface {
	HasEditor(row R, column int) bool
}

// ColumnNamer supplies header captions. Without it, columns are named by
// their one-based index.
type ColumnNamer interface {
	ColumnName(column int) string
}

// UIStatePersister opts a table into persisting UI state (column layout,
// sort keys) across sessions.
type UIStatePersister interface {
	PersistUIState() bool
}
