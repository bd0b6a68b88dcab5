package tinyfsm

import (
	"cmp"
	"slices"
)

// Entry is a registered handler together with its calling shape.
type Entry struct {
	Key   HandlerKey
	Name  string
	Shape Shape
	fn    any // one of the four normalised function types, see normalize
}

type stateHandlers struct {
	entry  *Entry
	exit   *Entry
	events map[TypeTag]*Entry
}

// Table maps states to their handlers. It is built once by Build and never
// modified afterwards, so one Table may back any number of engines.
type Table struct {
	states map[StateID]*stateHandlers
	size   int
}

func newTable() *Table {
	return &Table{states: make(map[StateID]*stateHandlers)}
}

// insert adds e, returning the entry already stored under its key if any.
func (t *Table) insert(e *Entry) *Entry {
	sh, ok := t.states[e.Key.State]
	if !ok {
		sh = &stateHandlers{}
		t.states[e.Key.State] = sh
	}
	switch e.Key.Kind {
	case OnEntry:
		if sh.entry != nil {
			return sh.entry
		}
		sh.entry = e
	case OnExit:
		if sh.exit != nil {
			return sh.exit
		}
		sh.exit = e
	case OnEvent:
		if sh.events == nil {
			sh.events = make(map[TypeTag]*Entry)
		}
		if prev, ok := sh.events[e.Key.Tag]; ok {
			return prev
		}
		sh.events[e.Key.Tag] = e
	}
	t.size++
	return nil
}

func (t *Table) lookup(state StateID, kind Kind, tag TypeTag) *Entry {
	sh, ok := t.states[state]
	if !ok {
		return nil
	}
	switch kind {
	case OnEntry:
		return sh.entry
	case OnExit:
		return sh.exit
	case OnEvent:
		return sh.events[tag]
	}
	return nil
}

// Lookup returns the handler registered under key.
func (t *Table) Lookup(key HandlerKey) (Entry, bool) {
	if e := t.lookup(key.State, key.Kind, key.Tag); e != nil {
		return *e, true
	}
	return Entry{}, false
}

// Len returns the number of registered handlers.
func (t *Table) Len() int {
	return t.size
}

// States returns every state with at least one handler, in ascending order.
// AnyState sorts first.
func (t *Table) States() []StateID {
	states := make([]StateID, 0, len(t.states))
	for id := range t.states {
		states = append(states, id)
	}
	slices.Sort(states)
	return states
}

// Entries returns all handlers ordered by state, kind and tag.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, t.size)
	for _, sh := range t.states {
		if sh.entry != nil {
			entries = append(entries, *sh.entry)
		}
		if sh.exit != nil {
			entries = append(entries, *sh.exit)
		}
		for _, e := range sh.events {
			entries = append(entries, *e)
		}
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Key.State, b.Key.State),
			cmp.Compare(a.Key.Kind, b.Key.Kind),
			cmp.Compare(a.Key.Tag.String(), b.Key.Tag.String()),
		)
	})
	return entries
}

// Keys returns the keys of all handlers in the order of Entries.
func (t *Table) Keys() []HandlerKey {
	entries := t.Entries()
	keys := make([]HandlerKey, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}
