package tinyfsm

import (
	"fmt"
	"reflect"
)

// Option configures an Engine.
type Option func(*Engine)

// WithTrace attaches a trace sink at construction time.
func WithTrace(sink TraceSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// Engine routes entry, exit and event occurrences to the handlers of a
// Table and owns the current state.
//
// Engine is not safe for concurrent use; callers serialise access.
//
// Calls to Fire or TransitionTo made while a handler is running are queued
// and return nil immediately. The outermost call processes the queue in
// order before it returns, so each transition runs its full
// exit/change/entry sequence before the next one starts.
type Engine struct {
	table       *Table
	current     StateID
	sink        TraceSink
	handle      Machine
	dispatching bool
	pending     []call
}

type call struct {
	transition bool
	target     StateID
	payload    any
}

// handle is what handlers receive; it hides the table.
type handle struct {
	e *Engine
}

func (h handle) CurrentState() StateID            { return h.e.CurrentState() }
func (h handle) TransitionTo(state StateID) error { return h.e.TransitionTo(state) }

// New creates an engine in state initial. No entry handler runs for the
// initial state.
func New(table *Table, initial StateID, opts ...Option) (*Engine, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	if initial == AnyState {
		return nil, fmt.Errorf("initial state: %w", ErrAnyState)
	}
	e := &Engine{
		table:   table,
		current: initial,
	}
	e.handle = handle{e: e}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MustNew is New that panics on error.
func MustNew(table *Table, initial StateID, opts ...Option) *Engine {
	e, err := New(table, initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create engine: %v", err))
	}
	return e
}

// CurrentState returns the state the engine is in.
func (e *Engine) CurrentState() StateID {
	return e.current
}

// Table returns the handler table backing the engine.
func (e *Engine) Table() *Table {
	return e.table
}

// SetTrace replaces the trace sink. A nil sink disables tracing. Attaching a
// sink records the current state.
func (e *Engine) SetTrace(sink TraceSink) {
	e.sink = sink
	if sink != nil {
		sink.Record(TraceEvent{Phase: PhaseAttached, Current: e.current, State: e.current})
	}
}

// Fire delivers payload to the wildcard handler and then to the handler of
// the current state registered for the payload's tag. Payloads nobody
// handles are dropped silently.
func (e *Engine) Fire(payload any) error {
	if isNil(payload) {
		return ErrNullPayload
	}
	c := call{payload: payload}
	if e.dispatching {
		e.enqueue(c)
		return nil
	}
	return e.run(c)
}

// TransitionTo moves the engine to state. Exit handlers (wildcard, then
// current) run before the state changes, entry handlers (wildcard, then
// new) after. Transitioning to the current state does nothing.
//
// A handler error aborts the whole dispatch chain. State changes that
// already happened are kept.
func (e *Engine) TransitionTo(state StateID) error {
	if state == AnyState {
		return ErrAnyState
	}
	c := call{transition: true, target: state}
	if e.dispatching {
		e.enqueue(c)
		return nil
	}
	if state == e.current {
		return nil
	}
	return e.run(c)
}

func (e *Engine) enqueue(c call) {
	if e.sink != nil {
		ev := TraceEvent{Phase: PhaseDeferred, Current: e.current, State: e.current}
		if c.transition {
			ev.Kind = OnExit
			ev.Target = c.target
		} else {
			ev.Kind = OnEvent
			ev.Tag = TagFor(c.payload)
			ev.Payload = fmt.Sprint(c.payload)
		}
		e.sink.Record(ev)
	}
	e.pending = append(e.pending, c)
}

func (e *Engine) run(c call) error {
	e.dispatching = true
	defer func() {
		e.dispatching = false
		e.pending = nil
	}()
	for {
		var err error
		if c.transition {
			err = e.transition(c.target)
		} else {
			err = e.fire(c.payload)
		}
		if err != nil {
			return err
		}
		if len(e.pending) == 0 {
			return nil
		}
		c = e.pending[0]
		e.pending[0] = call{}
		e.pending = e.pending[1:]
	}
}

func (e *Engine) transition(target StateID) error {
	if target == e.current {
		return nil
	}
	if err := e.dispatch(AnyState, OnExit, TypeTag{}, nil, ""); err != nil {
		return err
	}
	if err := e.dispatch(e.current, OnExit, TypeTag{}, nil, ""); err != nil {
		return err
	}
	from := e.current
	e.current = target
	if e.sink != nil {
		e.sink.Record(TraceEvent{Phase: PhaseStateChanged, Current: target, State: from, Target: target})
	}
	if err := e.dispatch(AnyState, OnEntry, TypeTag{}, nil, ""); err != nil {
		return err
	}
	return e.dispatch(target, OnEntry, TypeTag{}, nil, "")
}

func (e *Engine) fire(payload any) error {
	tag := TagFor(payload)
	var desc string
	if e.sink != nil {
		desc = fmt.Sprint(payload)
	}
	if err := e.dispatch(AnyState, OnEvent, tag, payload, desc); err != nil {
		return err
	}
	return e.dispatch(e.current, OnEvent, tag, payload, desc)
}

func (e *Engine) dispatch(state StateID, kind Kind, tag TypeTag, payload any, desc string) error {
	h := e.table.lookup(state, kind, tag)
	if e.sink != nil {
		ev := TraceEvent{
			Phase:   PhaseDispatch,
			Current: e.current,
			State:   state,
			Kind:    kind,
			Matched: h != nil,
			Tag:     tag,
			Payload: desc,
		}
		if h != nil {
			ev.Handler = h.Name
		}
		e.sink.Record(ev)
	}
	if h == nil {
		return nil
	}
	err := e.invoke(h, payload)
	if e.sink != nil {
		e.sink.Record(TraceEvent{
			Phase:   PhaseHandled,
			Current: e.current,
			State:   state,
			Kind:    kind,
			Matched: true,
			Handler: h.Name,
			Tag:     tag,
			Payload: desc,
			Err:     err,
		})
	}
	return err
}

func (e *Engine) invoke(h *Entry, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerPanicError{Handler: h.Name, Key: h.Key, Value: r}
		}
	}()
	switch h.Shape {
	case ShapeNone:
		return h.fn.(func() error)()
	case ShapeMachine:
		return h.fn.(func(Machine) error)(e.handle)
	case ShapePayload:
		return h.fn.(func(any) error)(payload)
	case ShapePayloadMachine:
		return h.fn.(func(any, Machine) error)(payload, e.handle)
	}
	return nil
}

// isNil reports whether v is nil or a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
