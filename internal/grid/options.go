package grid

import (
	"github.com/google/uuid"

	"github.com/dshills/keygrid/internal/grid/edit"
	"github.com/dshills/keygrid/internal/logging"
	"github.com/dshills/keygrid/internal/notify"
)

// Option configures a Table during creation.
type Option func(*options)

type options struct {
	id         uuid.UUID
	maxUndo    int
	policy     edit.Policy
	readOnly   bool
	logger     *logging.Logger
	notifier   *notify.Notifier
	visible    []int
	autoFollow bool
}

// WithID sets the table identifier used to key persisted UI state.
// A random identifier is generated otherwise.
func WithID(id uuid.UUID) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithMaxUndoEntries sets the undo capacity. Zero keeps the default and a
// negative value makes history unbounded.
func WithMaxUndoEntries(n int) Option {
	return func(o *options) {
		o.maxUndo = n
	}
}

// WithSingleClickEdit lets a single click start editing.
func WithSingleClickEdit(enabled bool) Option {
	return func(o *options) {
		o.policy.SingleClick = enabled
	}
}

// WithEditPolicy sets the edit activation policy.
func WithEditPolicy(p edit.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithReadOnly creates a table that refuses every user mutation.
func WithReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

// WithLogger sets the logger. Defaults to a null logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNotifier sets the notifier events are delivered to.
func WithNotifier(n *notify.Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithVisibleColumns sets the initial visible column order.
func WithVisibleColumns(columns ...int) Option {
	return func(o *options) {
		o.visible = columns
	}
}

// WithSelectionFollow moves the selection onto rows created by insert,
// duplicate and paste operations.
func WithSelectionFollow(enabled bool) Option {
	return func(o *options) {
		o.autoFollow = enabled
	}
}
