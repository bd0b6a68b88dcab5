// Package tinyfsm is a small, embeddable finite-state-machine dispatcher.
//
// Handlers are registered per state for three kinds of occurrences: entry,
// exit and events. Events are routed by the type of their payload. Handlers
// registered for AnyState run for every state, before the state's own
// handler. There are no declared transitions; handlers move the machine by
// calling TransitionTo on the handle they receive.
//
//	const (
//		Idle tinyfsm.StateID = iota
//		Busy
//	)
//
//	b := tinyfsm.NewBuilder()
//	b.Any().OnEntry(func(m tinyfsm.Machine) { log.Println("entered", m.CurrentState()) })
//	tinyfsm.OnWith(b.State(Idle), func(job Job, m tinyfsm.Machine) error {
//		return m.TransitionTo(Busy)
//	})
//	engine := tinyfsm.MustNew(b.MustBuild(), Idle)
//	_ = engine.Fire(Job{ID: 1})
//
// # Ordering
//
// A transition runs the wildcard exit handler, the current state's exit
// handler, changes the state, then runs the wildcard entry handler and the
// new state's entry handler. Transitions and events requested from inside a
// handler are queued and processed, in order, before the outermost call
// returns.
//
// # Tracing
//
// An optional TraceSink receives a TraceEvent for every lookup, handler
// completion and state change. Package trace provides slog, channel and
// in-memory sinks.
package tinyfsm
