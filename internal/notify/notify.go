// Package notify delivers table events to host observers.
//
// A table reports what happened during a tick (rejected mutations, committed
// row updates, history changes) through a Notifier. Delivery is synchronous
// and happens on the caller's goroutine, after the mutation that produced
// the event is complete.
package notify

import (
	"slices"
	"sync"
)

// EventType is the kind of event.
type EventType int

const (
	// EventRejected means a requested mutation did not happen.
	EventRejected EventType = iota

	// EventRowUpdated means a committed change replaced a row value.
	EventRowUpdated

	// EventHistoryChanged means the undo or redo stack changed.
	EventHistoryChanged

	// EventEditState means the edit session changed state.
	EventEditState

	// EventStyleReloaded means a new style was applied.
	EventStyleReloaded
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventRejected:
		return "rejected"
	case EventRowUpdated:
		return "row-updated"
	case EventHistoryChanged:
		return "history-changed"
	case EventEditState:
		return "edit-state"
	case EventStyleReloaded:
		return "style-reloaded"
	default:
		return "unknown"
	}
}

// Reason explains a rejection.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotEditable
	ReasonWriteRejected
	ReasonInvalidValue
	ReasonDeletionRejected
	ReasonDeletionDisallowed
	ReasonInsertionDisallowed
	ReasonNoCodec
	ReasonNoSelection
	ReasonNotSortable
	ReasonLastColumn
	ReasonUnknownIntent
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotEditable:
		return "not-editable"
	case ReasonWriteRejected:
		return "write-rejected"
	case ReasonInvalidValue:
		return "invalid-value"
	case ReasonDeletionRejected:
		return "deletion-rejected"
	case ReasonDeletionDisallowed:
		return "deletion-disallowed"
	case ReasonInsertionDisallowed:
		return "insertion-disallowed"
	case ReasonNoCodec:
		return "no-codec"
	case ReasonNoSelection:
		return "no-selection"
	case ReasonNotSortable:
		return "not-sortable"
	case ReasonLastColumn:
		return "last-column"
	case ReasonUnknownIntent:
		return "unknown-intent"
	default:
		return "unknown"
	}
}

// Event is a table event.
type Event struct {
	// Type is the kind of event.
	Type EventType

	// Reason explains an EventRejected.
	Reason Reason

	// Row is the identifier of the affected row, or zero.
	Row uint64

	// Column is the affected data column, or -1.
	Column int

	// Detail is a short human-readable description.
	Detail string

	// Source identifies the operation that produced the event.
	Source string
}

// Observer is called for each delivered event.
type Observer func(ev Event)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type subscriber struct {
	id       uint64
	types    []EventType
	observer Observer
}

// Notifier manages event subscriptions.
type Notifier struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID uint64
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for events of the given types, or for all
// events when no type is given.
func (n *Notifier) Subscribe(observer Observer, types ...EventType) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.subs = append(n.subs, subscriber{id: n.nextID, types: types, observer: observer})
	return &Subscription{id: n.nextID, notifier: n}
}

// Notify delivers ev to every matching observer, in subscription order.
func (n *Notifier) Notify(ev Event) {
	if n == nil {
		return
	}

	n.mu.RLock()
	var observers []Observer
	for _, s := range n.subs {
		if len(s.types) == 0 || slices.Contains(s.types, ev.Type) {
			observers = append(observers, s.observer)
		}
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(ev)
	}
}

// Reject is a convenience method for rejection events.
func (n *Notifier) Reject(reason Reason, source, detail string) {
	n.Notify(Event{Type: EventRejected, Reason: reason, Column: -1, Source: source, Detail: detail})
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = slices.DeleteFunc(n.subs, func(s subscriber) bool { return s.id == id })
}

// Batch collects events and delivers them together.
type Batch struct {
	notifier *Notifier
	events   []Event
}

// NewBatch creates a batch delivering to n.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add queues an event.
func (b *Batch) Add(ev Event) {
	b.events = append(b.events, ev)
}

// Len returns the number of queued events.
func (b *Batch) Len() int {
	return len(b.events)
}

// Events returns the queued events.
func (b *Batch) Events() []Event {
	return slices.Clone(b.events)
}

// Commit delivers the queued events and empties the batch.
func (b *Batch) Commit() {
	events := b.events
	b.events = nil
	for _, ev := range events {
		b.notifier.Notify(ev)
	}
}

// Discard drops the queued events.
func (b *Batch) Discard() {
	b.events = nil
}
