// Package clipboard bridges a table selection and portable clipboard text.
//
// Copy encodes the selected cells as escaped TSV through the adapter's cell
// codec. Paste parses such text and plans the actions that write it: cell
// changes for rows that exist, and one row insertion for rows past the end of
// the table. The package holds no state of its own; the plan is recorded by
// the caller.
package clipboard

import (
	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/history"
	"github.com/dshills/keygrid/internal/grid/rows"
)

// Encode serializes the cells at the given row positions and data columns.
// Positions outside the store are skipped.
func Encode[R any](store *rows.Store[R], positions []int, columns []int) string {
	caps := store.Caps()
	records := make([][]string, 0, len(positions))
	for _, pos := range positions {
		e, ok := store.At(pos)
		if !ok {
			continue
		}
		rec := make([]string, len(columns))
		for i, c := range columns {
			rec[i] = caps.EncodeCell(e.Data, c)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return ""
	}
	return FormatTSV(records)
}

// Mode selects how pasted rows are placed.
type Mode int

const (
	// InPlace overwrites rows from the target down, growing the table for
	// rows past its end.
	InPlace Mode = iota

	// Insert inserts every pasted row at the target position.
	Insert
)

// Target is where a paste lands: a row position and the data columns that
// successive fields map to, in order.
type Target struct {
	Row     int
	Columns []int
}

// Plan is the outcome of decoding a paste.
type Plan[R any] struct {
	// Cells writes pasted fields into existing rows; nil if none.
	Cells *history.SetCells[R]

	// Rows inserts new rows; nil if none.
	Rows *history.InsertRows[R]

	// Applied counts the fields that will be written.
	Applied int

	// Skipped counts fields that landed on non-editable cells or outside
	// the target columns.
	Skipped int

	// Invalid counts fields the cell codec could not decode.
	Invalid int

	// Rejected counts fields refused by the write-confirmation hook.
	Rejected int

	// Refused counts pasted rows dropped because insertion is not allowed.
	Refused int
}

// Actions returns the planned actions in the order they must be applied.
func (p *Plan[R]) Actions() []history.Action[R] {
	var out []history.Action[R]
	if p.Cells != nil {
		out = append(out, p.Cells)
	}
	if p.Rows != nil {
		out = append(out, p.Rows)
	}
	return out
}

// Empty reports whether the plan changes nothing.
func (p *Plan[R]) Empty() bool {
	return p.Cells == nil && p.Rows == nil
}

// Decode parses text and plans the paste into store at target. It never
// fails as a whole: each field is applied or counted as skipped on its own.
func Decode[R any](store *rows.Store[R], text string, target Target, mode Mode) *Plan[R] {
	p := &Plan[R]{}
	caps := store.Caps()
	records := ParseTSV(text)
	if len(records) == 0 || !caps.HasCodec() {
		return p
	}

	at := max(0, min(target.Row, store.Len()))

	var (
		changes  []history.CellChange[R]
		inserted []R
	)
	for i, rec := range records {
		pos := at + i
		if mode == InPlace && pos < store.Len() {
			e, _ := store.At(pos)
			changes = append(changes, p.overwrite(caps, e, rec, target.Columns)...)
			continue
		}
		if !caps.AllowInsertions() {
			p.Refused++
			continue
		}
		inserted = append(inserted, p.construct(caps, rec, target.Columns))
	}

	if len(changes) > 0 {
		p.Cells = history.NewSetCells(adapter.WritePaste, changes...)
	}
	if len(inserted) > 0 {
		insertAt := at
		if mode == InPlace {
			insertAt = store.Len()
		}
		p.Rows = history.NewInsertRows(insertAt, inserted)
	}
	return p
}

func (p *Plan[R]) overwrite(caps *adapter.Caps[R], e rows.Entry[R], rec []string, columns []int) []history.CellChange[R] {
	var out []history.CellChange[R]
	for j, text := range rec {
		if j >= len(columns) {
			p.Skipped += len(rec) - j
			break
		}
		c := columns[j]
		if !caps.IsEditable(e.Data, c) {
			p.Skipped++
			continue
		}
		next := caps.CloneRow(e.Data)
		if !caps.DecodeCell(&next, c, text) {
			p.Invalid++
			continue
		}
		w := adapter.CellWrite[R]{Current: e.Data, Next: next, Column: c, Context: adapter.WritePaste}
		if !caps.ConfirmWrite(w) {
			p.Rejected++
			continue
		}
		out = append(out, history.CellChange[R]{Row: e.ID, Column: c, Old: e.Data, New: next})
		p.Applied++
	}
	return out
}

func (p *Plan[R]) construct(caps *adapter.Caps[R], rec []string, columns []int) R {
	row := caps.NewEmptyRow(adapter.EmptyRowPaste)
	for j, text := range rec {
		if j >= len(columns) {
			p.Skipped += len(rec) - j
			break
		}
		c := columns[j]
		if !caps.IsEditable(row, c) {
			p.Skipped++
			continue
		}
		next := caps.CloneRow(row)
		if !caps.DecodeCell(&next, c, text) {
			p.Invalid++
			continue
		}
		w := adapter.CellWrite[R]{Current: row, Next: next, Column: c, Context: adapter.WritePaste}
		if !caps.ConfirmWrite(w) {
			p.Rejected++
			continue
		}
		caps.SetCellValue(next, &row, c)
		p.Applied++
	}
	return row
}
