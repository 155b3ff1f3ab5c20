// Package history provides undo/redo for grid tables.
//
// The history system uses the Command pattern to encapsulate table
// mutations. Key concepts:
//
// # Actions
//
// An Action is a self-contained, invertible description of one mutation.
// It carries its own prior-state snapshot, so reverting never consults
// state that existed only before it was applied. Built-in actions:
//   - SetCells: one or more cell writes, each with old and new row values
//   - InsertRows: rows inserted at a position (also used for duplication
//     and blank-row insertion, see Kind)
//   - RemoveRows: rows removed together with their content and positions
//   - ReorderRows: a row permutation plus the sort keys that produced it
//   - SetColumns: a change of the visible column order
//   - Group: several actions undone as one unit
//
// Actions refer to rows by rows.RowID, never by position, so an action stays
// valid across unrelated insertions and removals.
//
// # Log
//
// The Log records actions on a "done" stack. Record applies an action and
// pushes it, clearing the "undone" stack:
//
//	log := NewLog[Row](1000) // Max 1000 undo entries
//
//	log.Record(target, action)
//	log.Undo(target)
//	log.Redo(target)
//
// # Dirty state
//
// Every pushed entry gets a unique sequence number. The table is dirty
// whenever the sequence number at the top of the done stack differs from the
// one captured by MarkSaved; dirty state is never toggled directly.
//
// # Grouping
//
// Actions recorded between BeginGroup and EndGroup undo together:
//
//	log.BeginGroup("Paste")
//	// ... several Record calls ...
//	log.EndGroup()
package history
