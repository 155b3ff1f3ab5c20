// Package edit implements the in-place cell editor state machine.
//
// A Session moves through Idle → Editing → Committing → Idle, or
// Editing → Cancelled → Idle. At most one cell is edited at a time. The
// session owns a working copy of the edited row; keystrokes update that copy
// and are coalesced into a single cell change when the edit is committed.
package edit

import (
	"github.com/dshills/keygrid/internal/grid/adapter"
	"github.com/dshills/keygrid/internal/grid/history"
	"github.com/dshills/keygrid/internal/grid/rows"
)

// State is an edit session state.
type State int

const (
	Idle State = iota
	Editing
	Committing
	Cancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Committing:
		return "committing"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Gesture is the user action that asks for an editor.
type Gesture int

const (
	// SingleClick activates only under the single-click policy, or when the
	// cell is already the interactive cell.
	SingleClick Gesture = iota

	// DoubleClick always activates.
	DoubleClick

	// Keyboard always activates (edit key or typing on the cursor cell).
	Keyboard
)

// Policy configures edit activation.
type Policy struct {
	// SingleClick lets a single click start editing.
	SingleClick bool
}

// Outcome is the result of a commit.
type Outcome int

const (
	// NotEditing means there was no active edit.
	NotEditing Outcome = iota

	// Unchanged means the edit ended without modifying the value.
	Unchanged

	// Rejected means the write-confirmation hook refused the value.
	Rejected

	// Accepted means the value should be written.
	Accepted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case NotEditing:
		return "not-editing"
	case Unchanged:
		return "unchanged"
	case Rejected:
		return "rejected"
	case Accepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// Session is the edit state of one table.
type Session[R any] struct {
	caps   *adapter.Caps[R]
	policy Policy

	state   State
	row     rows.RowID
	column  int
	pending R
	dirty   bool
	updates int

	// OnTransition is called on every state change.
	OnTransition func(from, to State)
}

// NewSession creates an idle session.
func NewSession[R any](caps *adapter.Caps[R], policy Policy) *Session[R] {
	return &Session[R]{caps: caps, policy: policy}
}

// Policy returns the activation policy.
func (s *Session[R]) Policy() Policy {
	return s.policy
}

// SetPolicy changes the activation policy. It applies to the next Begin.
func (s *Session[R]) SetPolicy(p Policy) {
	s.policy = p
}

// State returns the current state.
func (s *Session[R]) State() State {
	return s.state
}

// Active reports whether a cell is being edited.
func (s *Session[R]) Active() bool {
	return s.state == Editing
}

// Target returns the edited row and data column.
func (s *Session[R]) Target() (rows.RowID, int, bool) {
	if !s.Active() {
		return 0, 0, false
	}
	return s.row, s.column, true
}

// Pending returns the working copy of the edited row.
func (s *Session[R]) Pending() (R, bool) {
	if !s.Active() {
		var zero R
		return zero, false
	}
	return s.pending, true
}

// Updates returns the number of keystrokes coalesced into the pending value.
func (s *Session[R]) Updates() int {
	return s.updates
}

// CanActivate reports whether g starts an edit under the current policy.
// interactive is true when the target is already the focused cursor cell.
func (s *Session[R]) CanActivate(g Gesture, interactive bool) bool {
	switch g {
	case DoubleClick, Keyboard:
		return true
	case SingleClick:
		return s.policy.SingleClick || interactive
	default:
		return false
	}
}

// Begin starts editing column of row id, whose current value is current.
// It refuses when another edit is active, when the gesture does not activate
// under the policy, or when the cell is not editable.
func (s *Session[R]) Begin(id rows.RowID, column int, current R, g Gesture, interactive bool) bool {
	if s.state != Idle {
		return false
	}
	if !s.CanActivate(g, interactive) || !s.caps.IsEditable(current, column) {
		return false
	}

	s.row, s.column = id, column
	s.pending = s.caps.CloneRow(current)
	s.dirty = false
	s.updates = 0
	s.transition(Editing)
	return true
}

// HasEditor reports whether the host produces an editor for the edited cell.
// Without one the edit should be committed right away.
func (s *Session[R]) HasEditor() bool {
	if !s.Active() {
		return false
	}
	return s.caps.HasEditor(s.pending, s.column)
}

// Update applies a keystroke to the working copy.
func (s *Session[R]) Update(fn func(pending *R)) bool {
	if !s.Active() {
		return false
	}
	fn(&s.pending)
	s.dirty = true
	s.updates++
	return true
}

// SetValue transfers the edited column from src into the working copy.
func (s *Session[R]) SetValue(src R) bool {
	return s.Update(func(p *R) {
		s.caps.SetCellValue(src, p, s.column)
	})
}

// SetText decodes text into the edited column of the working copy.
func (s *Session[R]) SetText(text string) bool {
	if !s.Active() {
		return false
	}
	next := s.caps.CloneRow(s.pending)
	if !s.caps.DecodeCell(&next, s.column, text) {
		return false
	}
	return s.SetValue(next)
}

// Commit ends the edit. current is the edited row as stored now. An edit
// that leaves the cell text as it was is Unchanged. When the outcome is
// Accepted the returned change carries the write to record.
func (s *Session[R]) Commit(current R) (history.CellChange[R], Outcome) {
	if !s.Active() {
		return history.CellChange[R]{}, NotEditing
	}
	s.transition(Committing)
	defer s.reset(Idle)

	if !s.dirty {
		return history.CellChange[R]{}, Unchanged
	}

	next := s.caps.CloneRow(current)
	s.caps.SetCellValue(s.pending, &next, s.column)
	if s.caps.HasCodec() && s.caps.EncodeCell(current, s.column) == s.caps.EncodeCell(next, s.column) {
		return history.CellChange[R]{}, Unchanged
	}

	w := adapter.CellWrite[R]{
		Current: current,
		Next:    next,
		Column:  s.column,
		Context: adapter.WriteEdit,
	}
	if !s.caps.ConfirmWrite(w) {
		return history.CellChange[R]{}, Rejected
	}

	return history.CellChange[R]{Row: s.row, Column: s.column, Old: current, New: next}, Accepted
}

// Cancel discards the pending value. It reports whether an edit was active.
func (s *Session[R]) Cancel() bool {
	if !s.Active() {
		return false
	}
	s.transition(Cancelled)
	s.reset(Idle)
	return true
}

func (s *Session[R]) reset(to State) {
	var zero R
	s.pending = zero
	s.row, s.column = 0, 0
	s.dirty = false
	s.transition(to)
}

func (s *Session[R]) transition(to State) {
	from := s.state
	s.state = to
	if s.OnTransition != nil && from != to {
		s.OnTransition(from, to)
	}
}
