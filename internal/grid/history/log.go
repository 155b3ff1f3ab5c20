package history

import (
	"errors"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrStaleRow      = errors.New("action refers to a missing row")
	ErrInvalidLayout = errors.New("invalid column layout")
)

// DefaultMaxEntries is the undo capacity used when none is configured.
const DefaultMaxEntries = 1000

// entry wraps an action with metadata.
type entry[R any] struct {
	action    Action[R]
	seq       uint64
	timestamp time.Time
}

// Info describes a logged action.
type Info struct {
	Kind        Kind
	Description string
	Timestamp   time.Time
}

// Log manages the done and undone stacks of one table.
// It is not safe for concurrent use; a table is driven from a single tick.
type Log[R any] struct {
	undoStack []*entry[R]
	redoStack []*entry[R]

	// Grouping state
	grouping     bool
	groupName    string
	groupActions []Action[R]

	// base is the sequence number of the state below the bottom of the
	// undo stack. It moves when entries are evicted or history is cleared.
	base    uint64
	lastSeq uint64
	saved   uint64

	// Configuration; negative means unbounded.
	maxEntries int
}

// NewLog creates a log holding at most maxEntries undo entries.
// Zero selects DefaultMaxEntries and a negative value means unbounded.
func NewLog[R any](maxEntries int) *Log[R] {
	return &Log[R]{maxEntries: normalizeMax(maxEntries)}
}

func normalizeMax(n int) int {
	if n == 0 {
		return DefaultMaxEntries
	}
	if n < 0 {
		return -1
	}
	return n
}

// Record applies a and pushes it onto the undo stack, clearing the redo
// stack. If Apply fails nothing is pushed.
func (l *Log[R]) Record(t Target[R], a Action[R]) error {
	if err := a.Apply(t); err != nil {
		return err
	}
	l.Push(a)
	return nil
}

// Push adds an already applied action to the undo stack.
// Clears the redo stack.
func (l *Log[R]) Push(a Action[R]) {
	if l.grouping {
		l.groupActions = append(l.groupActions, a)
		return
	}
	l.push(a)
}

func (l *Log[R]) push(a Action[R]) {
	l.lastSeq++
	l.undoStack = append(l.undoStack, &entry[R]{
		action:    a,
		seq:       l.lastSeq,
		timestamp: time.Now(),
	})

	// Clear redo stack
	l.redoStack = nil

	l.evict()
}

func (l *Log[R]) evict() {
	if l.maxEntries < 0 || len(l.undoStack) <= l.maxEntries {
		return
	}
	excess := len(l.undoStack) - l.maxEntries
	l.base = l.undoStack[excess-1].seq
	clear(l.undoStack[:excess])
	l.undoStack = l.undoStack[excess:]
}

// Undo reverts the last action.
func (l *Log[R]) Undo(t Target[R]) error {
	if len(l.undoStack) == 0 {
		return ErrNothingToUndo
	}

	e := l.undoStack[len(l.undoStack)-1]
	if err := e.action.Revert(t); err != nil {
		return err
	}

	l.undoStack = l.undoStack[:len(l.undoStack)-1]
	l.redoStack = append(l.redoStack, e)
	return nil
}

// Redo re-applies the last undone action.
func (l *Log[R]) Redo(t Target[R]) error {
	if len(l.redoStack) == 0 {
		return ErrNothingToRedo
	}

	e := l.redoStack[len(l.redoStack)-1]
	if err := e.action.Apply(t); err != nil {
		return err
	}

	l.redoStack = l.redoStack[:len(l.redoStack)-1]
	l.undoStack = append(l.undoStack, e)
	return nil
}

// CanUndo returns true if undo is available.
func (l *Log[R]) CanUndo() bool {
	return len(l.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (l *Log[R]) CanRedo() bool {
	return len(l.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (l *Log[R]) UndoCount() int {
	return len(l.undoStack)
}

// PeekUndo returns info about the next undo operation without removing it.
func (l *Log[R]) PeekUndo() (Info, bool) {
	if len(l.undoStack) == 0 {
		return Info{}, false
	}
	return l.undoStack[len(l.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo operation without removing it.
func (l *Log[R]) PeekRedo() (Info, bool) {
	if len(l.redoStack) == 0 {
		return Info{}, false
	}
	return l.redoStack[len(l.redoStack)-1].info(), true
}

// UndoInfo returns info about the undo stack, oldest first.
func (l *Log[R]) UndoInfo() []Info {
	out := make([]Info, len(l.undoStack))
	for i, e := range l.undoStack {
		out[i] = e.info()
	}
	return out
}

func (e *entry[R]) info() Info {
	return Info{
		Kind:        e.action.Kind(),
		Description: e.action.Description(),
		Timestamp:   e.timestamp,
	}
}

// Position identifies the current point in history. Two equal positions
// denote the same table state.
func (l *Log[R]) Position() uint64 {
	if len(l.undoStack) == 0 {
		return l.base
	}
	return l.undoStack[len(l.undoStack)-1].seq
}

// MarkSaved records the current position as the saved state.
func (l *Log[R]) MarkSaved() {
	l.saved = l.Position()
}

// IsDirty reports whether the table differs from its last saved state.
func (l *Log[R]) IsDirty() bool {
	return l.Position() != l.saved
}

// BeginGroup starts an action group.
// Actions pushed while grouping are combined into a single undo unit.
func (l *Log[R]) BeginGroup(name string) {
	if l.grouping {
		// Already grouping, ignore nested calls
		return
	}
	l.grouping = true
	l.groupName = name
	l.groupActions = nil
}

// EndGroup finishes an action group. A group holding a single action is
// pushed as that action.
func (l *Log[R]) EndGroup() {
	if !l.grouping {
		return
	}
	l.grouping = false

	actions := l.groupActions
	l.groupActions = nil
	switch len(actions) {
	case 0:
	case 1:
		l.push(actions[0])
	default:
		l.push(&Group[R]{Name: l.groupName, Actions: actions})
	}
}

// CancelGroup reverts the actions recorded since BeginGroup and discards
// them. Every action is reverted even if an earlier one fails; the failures
// are returned joined.
func (l *Log[R]) CancelGroup(t Target[R]) error {
	var errs []error
	for i := len(l.groupActions) - 1; i >= 0; i-- {
		if err := l.groupActions[i].Revert(t); err != nil {
			errs = append(errs, err)
		}
	}
	l.grouping = false
	l.groupActions = nil
	return errors.Join(errs...)
}

// IsGrouping returns true if currently in an action group.
func (l *Log[R]) IsGrouping() bool {
	return l.grouping
}

// Transaction runs fn within a group. If fn returns an error the group is
// cancelled and its actions reverted; revert failures are joined to the
// returned error.
func (l *Log[R]) Transaction(t Target[R], name string, fn func() error) error {
	l.BeginGroup(name)
	if err := fn(); err != nil {
		return errors.Join(err, l.CancelGroup(t))
	}
	l.EndGroup()
	return nil
}

// Clear drops all history. The current state becomes a new position that
// differs from any saved one.
func (l *Log[R]) Clear() {
	clear(l.undoStack)
	l.undoStack = nil
	l.redoStack = nil
	l.grouping = false
	l.groupActions = nil
	l.lastSeq++
	l.base = l.lastSeq
}

// SetMaxEntries changes the undo capacity.
// If the current stack is larger, oldest entries are removed.
func (l *Log[R]) SetMaxEntries(n int) {
	l.maxEntries = normalizeMax(n)
	l.evict()
}

// MaxEntries returns the undo capacity, or -1 when unbounded.
func (l *Log[R]) MaxEntries() int {
	return l.maxEntries
}
