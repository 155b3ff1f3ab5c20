package history

import (
	"github.com/dshills/keygrid/internal/grid/layout"
	"github.com/dshills/keygrid/internal/grid/rows"
)

// Target is the state an action mutates.
type Target[R any] struct {
	Rows   *rows.Store[R]
	Layout *layout.Layout
}

// Action is a reversible table mutation.
type Action[R any] interface {
	// Kind identifies the action variant.
	Kind() Kind

	// Apply performs the mutation. It is also used to redo.
	Apply(t Target[R]) error

	// Revert restores the state from before Apply.
	Revert(t Target[R]) error

	// Description returns a human-readable description of the action.
	Description() string
}

// Kind tags an action variant. The set grows over time; consumers must
// handle kinds they do not recognize.
type Kind int

const (
	KindUnknown Kind = iota
	KindSetCells
	KindInsertRows
	KindDuplicateRows
	KindInsertEmptyRows
	KindRemoveRows
	KindReorderRows
	KindSetColumns
	KindGroup
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSetCells:
		return "set-cells"
	case KindInsertRows:
		return "insert-rows"
	case KindDuplicateRows:
		return "duplicate-rows"
	case KindInsertEmptyRows:
		return "insert-empty-rows"
	case KindRemoveRows:
		return "remove-rows"
	case KindReorderRows:
		return "reorder-rows"
	case KindSetColumns:
		return "set-columns"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// IsStructural reports whether actions of this kind add, remove or reorder
// rows or columns.
func (k Kind) IsStructural() bool {
	switch k {
	case KindInsertRows, KindDuplicateRows, KindInsertEmptyRows,
		KindRemoveRows, KindReorderRows, KindSetColumns, KindGroup:
		return true
	default:
		return false
	}
}
