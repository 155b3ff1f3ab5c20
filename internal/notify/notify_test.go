package notify

import (
	"slices"
	"testing"
)

func TestSubscribeAll(t *testing.T) {
	n := New()
	var got []EventType
	n.Subscribe(func(ev Event) { got = append(got, ev.Type) })

	n.Notify(Event{Type: EventRowUpdated})
	n.Reject(ReasonNotEditable, "edit", "")

	if want := []EventType{EventRowUpdated, EventRejected}; !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestSubscribeFiltered(t *testing.T) {
	n := New()
	var reasons []Reason
	n.Subscribe(func(ev Event) { reasons = append(reasons, ev.Reason) }, EventRejected)

	n.Notify(Event{Type: EventHistoryChanged})
	n.Reject(ReasonWriteRejected, "paste", "")

	if !slices.Equal(reasons, []Reason{ReasonWriteRejected}) {
		t.Errorf("reasons = %v", reasons)
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()
	calls := 0
	sub := n.Subscribe(func(Event) { calls++ })

	n.Notify(Event{})
	sub.Unsubscribe()
	n.Notify(Event{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	n.Notify(Event{})
	n.Reject(ReasonNone, "", "")
}

func TestBatch(t *testing.T) {
	n := New()
	var got []string
	n.Subscribe(func(ev Event) { got = append(got, ev.Source) })

	b := n.NewBatch()
	b.Add(Event{Source: "a"})
	b.Add(Event{Source: "b"})
	if len(got) != 0 {
		t.Fatal("batch delivered before Commit")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
	b.Commit()
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("delivered = %v", got)
	}

	b.Add(Event{Source: "c"})
	b.Discard()
	b.Commit()
	if len(got) != 2 {
		t.Error("discarded events were delivered")
	}
}

func TestStrings(t *testing.T) {
	if EventType(99).String() != "unknown" || Reason(99).String() != "unknown" {
		t.Error("unrecognized values must map to unknown")
	}
}
