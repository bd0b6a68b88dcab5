// Package testutil records handler invocations so tests can assert on the
// exact order in which an engine dispatched them.
package testutil

import (
	"fmt"

	"github.com/comalice/tinyfsm"
)

// Occurrence is one recorded handler invocation.
type Occurrence struct {
	Kind    tinyfsm.Kind
	State   tinyfsm.StateID
	Payload any
}

func (o Occurrence) String() string {
	switch o.Kind {
	case tinyfsm.OnEntry:
		return fmt.Sprintf("Entry(%s)", o.State)
	case tinyfsm.OnExit:
		return fmt.Sprintf("Exit(%s)", o.State)
	default:
		return fmt.Sprintf("Event(%s, %v)", o.State, o.Payload)
	}
}

// Entry is the occurrence recorded by an entry handler labelled state.
func Entry(state tinyfsm.StateID) Occurrence {
	return Occurrence{Kind: tinyfsm.OnEntry, State: state}
}

// Exit is the occurrence recorded by an exit handler labelled state.
func Exit(state tinyfsm.StateID) Occurrence {
	return Occurrence{Kind: tinyfsm.OnExit, State: state}
}

// Event is the occurrence recorded by an event handler labelled state.
func Event(state tinyfsm.StateID, payload any) Occurrence {
	return Occurrence{Kind: tinyfsm.OnEvent, State: state, Payload: payload}
}

// Recorder collects occurrences in invocation order.
type Recorder struct {
	occurrences []Occurrence
}

// Add records o.
func (r *Recorder) Add(o Occurrence) {
	r.occurrences = append(r.occurrences, o)
}

// Occurrences returns everything recorded so far.
func (r *Recorder) Occurrences() []Occurrence {
	return append([]Occurrence(nil), r.occurrences...)
}

// Len returns the number of recorded occurrences.
func (r *Recorder) Len() int {
	return len(r.occurrences)
}

// Reset forgets all occurrences.
func (r *Recorder) Reset() {
	r.occurrences = nil
}

// Entry returns an entry handler that records Entry(label).
func (r *Recorder) Entry(label tinyfsm.StateID) func(tinyfsm.Machine) {
	return func(tinyfsm.Machine) { r.Add(Entry(label)) }
}

// Exit returns an exit handler that records Exit(label).
func (r *Recorder) Exit(label tinyfsm.StateID) func(tinyfsm.Machine) {
	return func(tinyfsm.Machine) { r.Add(Exit(label)) }
}

// Event returns an event handler that records Event(label, payload).
func (r *Recorder) Event(label tinyfsm.StateID) func(any) {
	return func(p any) { r.Add(Event(label, p)) }
}
