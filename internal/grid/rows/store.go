// Package rows provides the ordered row storage of a grid table.
//
// A Store keeps rows in view order and gives each one a RowID that is unique
// for the lifetime of the store and never reused, even after the row is
// removed. Positions are transient coordinates that are only valid at the
// instant they are read; RowIDs are the durable keys that actions use to
// refer to rows across unrelated insertions and removals.
//
// The Store applies mutations unconditionally. Policy (insertion and deletion
// permissions, write confirmation) is enforced by the callers that build
// actions; the Store only clamps or ignores coordinates that are out of
// bounds, it never panics on them.
package rows

import (
	"slices"
	"sort"

	"github.com/dshills/keygrid/internal/grid/adapter"
)

// RowID durably identifies a row. The zero value never identifies a row.
type RowID uint64

// Entry is a stored row together with its identifier.
type Entry[R any] struct {
	ID   RowID
	Data R
}

// Removed records an entry together with the position it was removed from.
type Removed[R any] struct {
	Position int
	Entry    Entry[R]
}

// Store is an ordered sequence of rows with stable identifiers.
type Store[R any] struct {
	caps    *adapter.Caps[R]
	entries []Entry[R]
	lastID  RowID

	// index maps ids to positions; rebuilt lazily after structural changes.
	index      map[RowID]int
	indexValid bool
}

// NewStore creates a store holding rows in the given order.
func NewStore[R any](caps *adapter.Caps[R], rows ...R) *Store[R] {
	s := &Store[R]{caps: caps}
	s.entries = make([]Entry[R], 0, len(rows))
	for _, r := range rows {
		s.entries = append(s.entries, Entry[R]{ID: s.allocID(), Data: r})
	}
	return s
}

// Caps returns the resolved adapter the store clones rows with.
func (s *Store[R]) Caps() *adapter.Caps[R] {
	return s.caps
}

// Len returns the number of rows.
func (s *Store[R]) Len() int {
	return len(s.entries)
}

// At returns the entry at pos.
func (s *Store[R]) At(pos int) (Entry[R], bool) {
	if pos < 0 || pos >= len(s.entries) {
		return Entry[R]{}, false
	}
	return s.entries[pos], true
}

// IDAt returns the identifier of the row at pos, or zero.
func (s *Store[R]) IDAt(pos int) RowID {
	if pos < 0 || pos >= len(s.entries) {
		return 0
	}
	return s.entries[pos].ID
}

// Get returns the row identified by id.
func (s *Store[R]) Get(id RowID) (R, bool) {
	pos, ok := s.Position(id)
	if !ok {
		var zero R
		return zero, false
	}
	return s.entries[pos].Data, true
}

// Position returns the current position of id.
func (s *Store[R]) Position(id RowID) (int, bool) {
	s.buildIndex()
	pos, ok := s.index[id]
	return pos, ok
}

// IDs returns the identifiers in view order.
func (s *Store[R]) IDs() []RowID {
	ids := make([]RowID, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	return ids
}

// Entries returns a copy of the entries in view order.
func (s *Store[R]) Entries() []Entry[R] {
	return slices.Clone(s.entries)
}

// Data returns the row payloads in view order.
func (s *Store[R]) Data() []R {
	out := make([]R, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Data
	}
	return out
}

// Insert inserts rows starting at pos and returns their fresh identifiers.
// pos is clamped to [0, Len()].
func (s *Store[R]) Insert(pos int, rows []R) []RowID {
	if len(rows) == 0 {
		return nil
	}
	pos = clamp(pos, 0, len(s.entries))

	ids := make([]RowID, len(rows))
	block := make([]Entry[R], len(rows))
	for i, r := range rows {
		ids[i] = s.allocID()
		block[i] = Entry[R]{ID: ids[i], Data: r}
	}

	s.entries = slices.Insert(s.entries, pos, block...)
	s.indexValid = false
	return ids
}

// Restore reinserts previously removed entries under their original
// identifiers. Records must be in ascending position order, as returned by
// Remove; each position is clamped to the bounds at the time it is applied.
func (s *Store[R]) Restore(records []Removed[R]) {
	for _, rec := range records {
		pos := clamp(rec.Position, 0, len(s.entries))
		s.entries = slices.Insert(s.entries, pos, rec.Entry)
		if rec.Entry.ID > s.lastID {
			s.lastID = rec.Entry.ID
		}
	}
	if len(records) > 0 {
		s.indexValid = false
	}
}

// Remove removes the rows at the given positions. Positions that are out of
// bounds or repeated are ignored. The removed entries are returned in
// ascending position order.
func (s *Store[R]) Remove(positions []int) []Removed[R] {
	valid := make([]int, 0, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(s.entries) {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Ints(valid)
	valid = slices.Compact(valid)

	removed := make([]Removed[R], len(valid))
	for i, p := range valid {
		removed[i] = Removed[R]{Position: p, Entry: s.entries[p]}
	}

	// Delete from the back so earlier positions stay valid.
	for i := len(valid) - 1; i >= 0; i-- {
		s.entries = slices.Delete(s.entries, valid[i], valid[i]+1)
	}
	s.indexValid = false
	return removed
}

// RemoveIDs removes the rows identified by ids. Unknown ids are ignored.
func (s *Store[R]) RemoveIDs(ids []RowID) []Removed[R] {
	positions := make([]int, 0, len(ids))
	for _, id := range ids {
		if pos, ok := s.Position(id); ok {
			positions = append(positions, pos)
		}
	}
	return s.Remove(positions)
}

// SetCell copies column from src into row id and returns the previous row
// value. The stored row is cloned before the write so the returned value is
// an intact snapshot.
func (s *Store[R]) SetCell(id RowID, column int, src R) (R, bool) {
	pos, ok := s.Position(id)
	if !ok || s.caps == nil || !s.caps.ValidColumn(column) {
		var zero R
		return zero, false
	}
	old := s.entries[pos].Data
	next := s.caps.CloneRow(old)
	s.caps.SetCellValue(src, &next, column)
	s.entries[pos].Data = next
	s.caps.RowUpdated(old, next)
	return old, true
}

// Reorder rearranges rows to follow ids. It reports false and leaves the
// store untouched unless ids is a permutation of the current identifiers.
func (s *Store[R]) Reorder(ids []RowID) bool {
	if len(ids) != len(s.entries) {
		return false
	}
	s.buildIndex()

	next := make([]Entry[R], 0, len(ids))
	seen := make(map[RowID]struct{}, len(ids))
	for _, id := range ids {
		pos, ok := s.index[id]
		if !ok {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		next = append(next, s.entries[pos])
	}

	s.entries = next
	s.indexValid = false
	return true
}

// Reset replaces every row. New identifiers are assigned; identifiers of the
// previous rows are never handed out again.
func (s *Store[R]) Reset(rows []R) {
	s.entries = s.entries[:0]
	for _, r := range rows {
		s.entries = append(s.entries, Entry[R]{ID: s.allocID(), Data: r})
	}
	s.indexValid = false
}

// Retain keeps the rows for which keep returns true and reports whether any
// row was dropped.
func (s *Store[R]) Retain(keep func(R) bool) bool {
	n := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e Entry[R]) bool {
		return !keep(e.Data)
	})
	if len(s.entries) != n {
		s.indexValid = false
		return true
	}
	return false
}

func (s *Store[R]) allocID() RowID {
	s.lastID++
	return s.lastID
}

func (s *Store[R]) buildIndex() {
	if s.indexValid {
		return
	}
	if s.index == nil {
		s.index = make(map[RowID]int, len(s.entries))
	} else {
		clear(s.index)
	}
	for i, e := range s.entries {
		s.index[e.ID] = i
	}
	s.indexValid = true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
