package history

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/layout"
	"github.com/dshills/keygrid/internal/grid/rows"
)

// CellChange is one cell write. Old and New are whole-row snapshots; only
// Column is transferred from them.
type CellChange[R any] struct {
	Row    rows.RowID
	Column int
	Old    R
	New    R
}

// SetCells writes one or more cells.
type SetCells[R any] struct {
	Changes []CellChange[R]
	Context adapter.WriteContext
}

// NewSetCells creates a cell write action.
func NewSetCells[R any](ctx adapter.WriteContext, changes ...CellChange[R]) *SetCells[R] {
	return &SetCells[R]{Changes: changes, Context: ctx}
}

// Kind returns KindSetCells.
func (a *SetCells[R]) Kind() Kind { return KindSetCells }

// Apply writes every new value.
func (a *SetCells[R]) Apply(t Target[R]) error {
	if err := a.check(t); err != nil {
		return err
	}
	for _, c := range a.Changes {
		t.Rows.SetCell(c.Row, c.Column, c.New)
	}
	return nil
}

// Revert writes every old value, last change first.
func (a *SetCells[R]) Revert(t Target[R]) error {
	if err := a.check(t); err != nil {
		return err
	}
	for i := len(a.Changes) - 1; i >= 0; i-- {
		c := a.Changes[i]
		t.Rows.SetCell(c.Row, c.Column, c.Old)
	}
	return nil
}

// Description returns a human-readable description.
func (a *SetCells[R]) Description() string {
	if len(a.Changes) == 1 {
		return fmt.Sprintf("%s cell", a.Context)
	}
	return fmt.Sprintf("%s %d cells", a.Context, len(a.Changes))
}

func (a *SetCells[R]) check(t Target[R]) error {
	for _, c := range a.Changes {
		if _, ok := t.Rows.Position(c.Row); !ok {
			return fmt.Errorf("%w: row %d", ErrStaleRow, c.Row)
		}
	}
	return nil
}

// InsertRows inserts rows at given positions. Positions are final positions
// in ascending order: row i ends up at Positions[i] once all rows before it
// have been inserted. Identifiers are assigned on the first Apply and reused
// on redo.
type InsertRows[R any] struct {
	Positions []int
	Rows      []R

	kind Kind
	ids  []rows.RowID
}

// NewInsertRows inserts a contiguous block of rows at at.
func NewInsertRows[R any](at int, data []R) *InsertRows[R] {
	return newBlock(KindInsertRows, at, data)
}

// NewInsertEmptyRows inserts a contiguous block of freshly constructed empty
// rows at at.
func NewInsertEmptyRows[R any](at int, data []R) *InsertRows[R] {
	return newBlock(KindInsertEmptyRows, at, data)
}

// NewDuplicateRows inserts clones[i] directly below the row at sources[i].
// sources must be ascending.
func NewDuplicateRows[R any](sources []int, clones []R) *InsertRows[R] {
	n := min(len(sources), len(clones))
	positions := make([]int, n)
	for i := 0; i < n; i++ {
		positions[i] = sources[i] + i + 1
	}
	return &InsertRows[R]{
		Positions: positions,
		Rows:      slices.Clone(clones[:n]),
		kind:      KindDuplicateRows,
	}
}

func newBlock[R any](kind Kind, at int, data []R) *InsertRows[R] {
	positions := make([]int, len(data))
	for i := range positions {
		positions[i] = at + i
	}
	return &InsertRows[R]{Positions: positions, Rows: slices.Clone(data), kind: kind}
}

// Kind returns the insertion variant.
func (a *InsertRows[R]) Kind() Kind {
	if a.kind == KindUnknown {
		return KindInsertRows
	}
	return a.kind
}

// IDs returns the identifiers assigned to the inserted rows.
func (a *InsertRows[R]) IDs() []rows.RowID {
	return slices.Clone(a.ids)
}

// Apply inserts the rows.
func (a *InsertRows[R]) Apply(t Target[R]) error {
	if a.ids == nil {
		a.ids = make([]rows.RowID, 0, len(a.Rows))
		for i, r := range a.Rows {
			a.ids = append(a.ids, t.Rows.Insert(a.Positions[i], []R{r})...)
		}
		return nil
	}

	records := make([]rows.Removed[R], len(a.ids))
	for i, id := range a.ids {
		records[i] = rows.Removed[R]{
			Position: a.Positions[i],
			Entry:    rows.Entry[R]{ID: id, Data: a.Rows[i]},
		}
	}
	t.Rows.Restore(records)
	return nil
}

// Revert removes the inserted rows.
func (a *InsertRows[R]) Revert(t Target[R]) error {
	for _, id := range a.ids {
		if _, ok := t.Rows.Position(id); !ok {
			return fmt.Errorf("%w: row %d", ErrStaleRow, id)
		}
	}
	removed := t.Rows.RemoveIDs(a.ids)
	if len(removed) == len(a.Rows) {
		// Keep redo in sync with any value the rows held when removed.
		for i, rec := range removed {
			a.Rows[i] = rec.Entry.Data
		}
	}
	return nil
}

// Description returns a human-readable description.
func (a *InsertRows[R]) Description() string {
	switch a.Kind() {
	case KindDuplicateRows:
		return fmt.Sprintf("duplicate %d rows", len(a.Rows))
	case KindInsertEmptyRows:
		return fmt.Sprintf("insert %d empty rows", len(a.Rows))
	default:
		return fmt.Sprintf("insert %d rows", len(a.Rows))
	}
}

// RemoveRows removes rows by identifier and keeps their full content so the
// removal can be reverted.
type RemoveRows[R any] struct {
	IDs []rows.RowID

	removed []rows.Removed[R]
}

// NewRemoveRows creates a removal action.
func NewRemoveRows[R any](ids []rows.RowID) *RemoveRows[R] {
	return &RemoveRows[R]{IDs: slices.Clone(ids)}
}

// Kind returns KindRemoveRows.
func (a *RemoveRows[R]) Kind() Kind { return KindRemoveRows }

// Removed returns the removed entries with their former positions.
func (a *RemoveRows[R]) Removed() []rows.Removed[R] {
	return slices.Clone(a.removed)
}

// Apply removes the rows.
func (a *RemoveRows[R]) Apply(t Target[R]) error {
	for _, id := range a.IDs {
		if _, ok := t.Rows.Position(id); !ok {
			return fmt.Errorf("%w: row %d", ErrStaleRow, id)
		}
	}
	a.removed = t.Rows.RemoveIDs(a.IDs)
	return nil
}

// Revert reinserts the rows under their original identifiers.
func (a *RemoveRows[R]) Revert(t Target[R]) error {
	t.Rows.Restore(a.removed)
	return nil
}

// Description returns a human-readable description.
func (a *RemoveRows[R]) Description() string {
	return fmt.Sprintf("remove %d rows", len(a.IDs))
}

// ReorderRows applies a row permutation, typically produced by sorting.
type ReorderRows[R any] struct {
	Before, After         []rows.RowID
	SortBefore, SortAfter []layout.SortKey
}

// Kind returns KindReorderRows.
func (a *ReorderRows[R]) Kind() Kind { return KindReorderRows }

// Apply moves rows into the After order.
func (a *ReorderRows[R]) Apply(t Target[R]) error {
	return a.reorder(t, a.After, a.SortAfter)
}

// Revert restores the Before order.
func (a *ReorderRows[R]) Revert(t Target[R]) error {
	return a.reorder(t, a.Before, a.SortBefore)
}

func (a *ReorderRows[R]) reorder(t Target[R], order []rows.RowID, keys []layout.SortKey) error {
	if !slices.Equal(t.Rows.IDs(), order) && !t.Rows.Reorder(order) {
		return fmt.Errorf("%w: permutation does not match rows", ErrStaleRow)
	}
	if t.Layout != nil {
		t.Layout.SetSort(keys)
	}
	return nil
}

// Description returns a human-readable description.
func (a *ReorderRows[R]) Description() string {
	if len(a.SortAfter) == 0 {
		return "clear sort"
	}
	return "sort rows"
}

// SetColumns changes the visible column order.
type SetColumns[R any] struct {
	Before, After []int
	Name          string
}

// Kind returns KindSetColumns.
func (a *SetColumns[R]) Kind() Kind { return KindSetColumns }

// Apply shows the After columns.
func (a *SetColumns[R]) Apply(t Target[R]) error {
	return setVisible(t, a.After)
}

// Revert shows the Before columns.
func (a *SetColumns[R]) Revert(t Target[R]) error {
	return setVisible(t, a.Before)
}

// Description returns a human-readable description.
func (a *SetColumns[R]) Description() string {
	if a.Name != "" {
		return a.Name
	}
	return "set visible columns"
}

func setVisible[R any](t Target[R], columns []int) error {
	if t.Layout == nil {
		return ErrInvalidLayout
	}
	if slices.Equal(t.Layout.Visible(), columns) || t.Layout.SetVisible(columns) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidLayout, columns)
}

// Group applies several actions as one undo unit.
type Group[R any] struct {
	Name    string
	Actions []Action[R]
}

// Kind returns KindGroup.
func (g *Group[R]) Kind() Kind { return KindGroup }

// Apply applies the actions in order. If one fails, those already applied
// are reverted and any revert failure is joined to the returned error.
func (g *Group[R]) Apply(t Target[R]) error {
	for i, a := range g.Actions {
		if err := a.Apply(t); err != nil {
			errs := []error{err}
			for j := i - 1; j >= 0; j-- {
				if rerr := g.Actions[j].Revert(t); rerr != nil {
					errs = append(errs, rerr)
				}
			}
			return fmt.Errorf("%s: %w", g.Name, errors.Join(errs...))
		}
	}
	return nil
}

// Revert reverts the actions in reverse order.
func (g *Group[R]) Revert(t Target[R]) error {
	for i := len(g.Actions) - 1; i >= 0; i-- {
		if err := g.Actions[i].Revert(t); err != nil {
			return fmt.Errorf("%s: %w", g.Name, err)
		}
	}
	return nil
}

// Description returns the group name.
func (g *Group[R]) Description() string {
	return g.Name
}
