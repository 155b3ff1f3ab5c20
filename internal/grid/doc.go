// Package grid provides the state engine behind an editable grid widget.
//
// A Table owns one exclusively-owned aggregate of table state:
//
//   - the row store (rows with stable identifiers),
//   - the column layout (visible order and sort keys),
//   - the selection model,
//   - the edit session, and
//   - the action log (undo/redo and derived dirty state).
//
// The host supplies a row adapter describing its row type R and drives the
// table synchronously, typically once per UI tick:
//
//	t := grid.New[Record](adapter, grid.WithMaxUndoEntries(500))
//	res := t.Tick(
//	    grid.Intent{Action: grid.UISelect, Cell: selection.Cell{Row: 0}},
//	    grid.Intent{Action: grid.UICopy},
//	)
//	if res.HasClipboard {
//	    clipboard.WriteText(res.Clipboard)
//	}
//
// # Mutations
//
// Every user-triggered mutation is expressed as a history action and
// recorded in the log, which applies it immediately. Mutations that the
// adapter refuses (non-editable cells, rejected writes or deletions,
// disallowed growth) change nothing, record nothing and emit a notify
// rejection event. Stale or out-of-range coordinates are clamped or
// ignored; no operation faults on them.
//
// Any command issued while a cell is being edited commits that edit first,
// so in-progress edits are never silently lost.
//
// # Programmatic access
//
// Replace, Retain and Extend change rows without going through the log.
// They reset history, selection and the edit session, and leave the table
// dirty until MarkSaved is called.
//
// # Concurrency
//
// A Table is not safe for concurrent use. All calls, including adapter
// callbacks, happen on the goroutine that drives the table.
package grid
