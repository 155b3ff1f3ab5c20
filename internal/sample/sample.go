// Package sample provides a reference row type and adapter.
//
// It backs the demo host and is used throughout the tests as a realistic
// adapter: an integer column, a text column compared with locale-aware
// collation, and a lock flag that makes the text column read-only for the
// rows that carry it.
package sample

import (
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dshills/keygrid/internal/grid/adapter"
)

// Column indexes of Record.
const (
	ColumnNum = iota
	ColumnName
	ColumnLocked

	NumColumns
)

// Record is one row of the sample table.
type Record struct {
	Num    int
	Name   string
	Locked bool
}

// Adapter implements every capability in the adapter package for Record.
// Its policy fields may be changed between ticks.
type Adapter struct {
	// DenyInsertions makes the table refuse to grow.
	DenyInsertions bool

	// DenyDeletions makes the table refuse to shrink.
	DenyDeletions bool

	// ReadOnly lists columns that are never editable.
	ReadOnly map[int]bool

	// RejectWrite vetoes a write when it returns true.
	RejectWrite func(w adapter.CellWrite[Record]) bool

	// RejectDeletion vetoes a removal when it returns true.
	RejectDeletion func(r Record) bool

	// NoEditor lists columns for which no in-place editor is produced.
	NoEditor map[int]bool

	// Persist opts into UI state persistence.
	Persist bool

	// Updates records every OnRowUpdated call as (old, new).
	Updates [][2]Record

	collator *collate.Collator
}

// New returns an adapter with English case-insensitive collation.
func New() *Adapter {
	return &Adapter{
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// Rows builds records from (num, name) pairs.
func Rows(pairs ...any) []Record {
	out := make([]Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		n, _ := pairs[i].(int)
		s, _ := pairs[i+1].(string)
		out = append(out, Record{Num: n, Name: s})
	}
	return out
}

// NumColumns returns the three Record columns.
func (a *Adapter) NumColumns() int { return NumColumns }

// ColumnName returns the header of column, or "" if it is out of range.
func (a *Adapter) ColumnName(column int) string {
	switch column {
	case ColumnNum:
		return "Num"
	case ColumnName:
		return "Name"
	case ColumnLocked:
		return "Locked"
	default:
		return ""
	}
}

// NewEmptyRow returns the zero Record.
func (a *Adapter) NewEmptyRow(adapter.EmptyRowContext) Record {
	return Record{}
}

// CloneRow returns a copy of src; Record holds no references.
func (a *Adapter) CloneRow(src Record) Record {
	return src
}

// CloneRowAsCopiedBase drops the lock so a duplicated row starts editable.
func (a *Adapter) CloneRowAsCopiedBase(src Record) Record {
	src.Locked = false
	return src
}

// SetCellValue copies column from src into dst.
func (a *Adapter) SetCellValue(src Record, dst *Record, column int) {
	switch column {
	case ColumnNum:
		dst.Num = src.Num
	case ColumnName:
		dst.Name = src.Name
	case ColumnLocked:
		dst.Locked = src.Locked
	}
}

// EncodeCell formats column of row as clipboard text.
func (a *Adapter) EncodeCell(row Record, column int) string {
	switch column {
	case ColumnNum:
		return strconv.Itoa(row.Num)
	case ColumnName:
		return row.Name
	case ColumnLocked:
		return strconv.FormatBool(row.Locked)
	default:
		return ""
	}
}

// DecodeCell parses text into column of dst. Numbers and booleans may be
// padded with spaces.
func (a *Adapter) DecodeCell(dst *Record, column int, text string) bool {
	switch column {
	case ColumnNum:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return false
		}
		dst.Num = n
	case ColumnName:
		dst.Name = text
	case ColumnLocked:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return false
		}
		dst.Locked = b
	default:
		return false
	}
	return true
}

// ConfirmCellWrite accepts w unless RejectWrite vetoes it.
func (a *Adapter) ConfirmCellWrite(w adapter.CellWrite[Record]) bool {
	if a.RejectWrite != nil && a.RejectWrite(w) {
		return false
	}
	return true
}

// ConfirmRowDeletion accepts r unless RejectDeletion vetoes it.
func (a *Adapter) ConfirmRowDeletion(r Record) bool {
	if a.RejectDeletion != nil && a.RejectDeletion(r) {
		return false
	}
	return true
}

// IsEditableCell locks the name of locked rows.
func (a *Adapter) IsEditableCell(row Record, column int) bool {
	if a.ReadOnly[column] {
		return false
	}
	if column == ColumnName && row.Locked {
		return false
	}
	return true
}

// AllowRowInsertions reports whether the table may grow.
func (a *Adapter) AllowRowInsertions() bool { return !a.DenyInsertions }

// AllowRowDeletions reports whether the table may shrink.
func (a *Adapter) AllowRowDeletions() bool { return !a.DenyDeletions }

// OnRowUpdated appends the change to Updates.
func (a *Adapter) OnRowUpdated(old, new Record) {
	a.Updates = append(a.Updates, [2]Record{old, new})
}

// IsSortableColumn allows sorting by Num and Name.
func (a *Adapter) IsSortableColumn(column int) bool {
	return column == ColumnNum || column == ColumnName
}

// CompareCell orders Num numerically and Name with the English collator,
// ignoring case.
func (a *Adapter) CompareCell(x, y Record, column int) int {
	switch column {
	case ColumnNum:
		switch {
		case x.Num < y.Num:
			return -1
		case x.Num > y.Num:
			return 1
		}
		return 0
	case ColumnName:
		if a.collator == nil {
			return strings.Compare(x.Name, y.Name)
		}
		return a.collator.CompareString(x.Name, y.Name)
	default:
		return 0
	}
}

// HasEditor reports whether column can open an in-place editor.
func (a *Adapter) HasEditor(_ Record, column int) bool {
	return !a.NoEditor[column]
}

// PersistUIState reports whether the table keeps its UI state.
func (a *Adapter) PersistUIState() bool { return a.Persist }
