package tinyfsm

import (
	"fmt"
	"reflect"
)

// Descriptor describes one handler to register. Fn must be one of:
//
//	entry/exit: func(), func() error, func(Machine), func(Machine) error
//	event:      func(any), func(any) error, func(any, Machine), func(any, Machine) error
//
// Tag is required for OnEvent and ignored otherwise.
type Descriptor struct {
	Name  string
	State StateID
	Kind  Kind
	Tag   TypeTag
	Fn    any
}

// Key returns the handler key the descriptor registers under.
func (d Descriptor) Key() HandlerKey {
	k := HandlerKey{State: d.State, Kind: d.Kind}
	if d.Kind == OnEvent {
		k.Tag = d.Tag
	}
	return k
}

func (d Descriptor) name() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Key().String()
}

// NewEntry describes an entry handler for state.
func NewEntry(state StateID, fn any) Descriptor {
	return Descriptor{State: state, Kind: OnEntry, Fn: fn}
}

// NewExit describes an exit handler for state.
func NewExit(state StateID, fn any) Descriptor {
	return Descriptor{State: state, Kind: OnExit, Fn: fn}
}

// NewEvent describes a handler for payloads of type T delivered in state.
func NewEvent[T any](state StateID, fn func(T) error) Descriptor {
	d := Descriptor{State: state, Kind: OnEvent, Tag: TagOf[T]()}
	if fn != nil {
		d.Fn = func(p any) error {
			v, err := payloadAs[T](p)
			if err != nil {
				return err
			}
			return fn(v)
		}
	}
	return d
}

// NewEventWith is NewEvent for handlers that also need the engine handle.
func NewEventWith[T any](state StateID, fn func(T, Machine) error) Descriptor {
	d := Descriptor{State: state, Kind: OnEvent, Tag: TagOf[T]()}
	if fn != nil {
		d.Fn = func(p any, m Machine) error {
			v, err := payloadAs[T](p)
			if err != nil {
				return err
			}
			return fn(v, m)
		}
	}
	return d
}

func payloadAs[T any](p any) (T, error) {
	v, ok := p.(T)
	if !ok {
		return v, fmt.Errorf("payload of type %T is not %s", p, reflect.TypeFor[T]())
	}
	return v, nil
}

// Build validates descs and returns the handler table. It stops at the first
// invalid descriptor; no table is returned together with an error.
func Build(descs []Descriptor) (*Table, error) {
	t := newTable()
	for _, d := range descs {
		name := d.name()
		if !d.Kind.valid() {
			return nil, fmt.Errorf("handler %q: %w: %d", name, ErrUnknownKind, int(d.Kind))
		}
		if d.Fn == nil {
			return nil, fmt.Errorf("handler %q: %w", name, ErrNilHandler)
		}
		if d.Kind == OnEvent && d.Tag.IsZero() {
			return nil, fmt.Errorf("handler %q: %w", name, ErrMissingTag)
		}
		shape, fn, ok := normalize(d.Kind, d.Fn)
		if !ok {
			return nil, &InvalidArityError{Handler: name, Kind: d.Kind, Arity: arityOf(d.Fn)}
		}
		e := &Entry{Key: d.Key(), Name: name, Shape: shape, fn: fn}
		if prev := t.insert(e); prev != nil {
			return nil, &DuplicateHandlerError{Key: e.Key, Handler: name, Previous: prev.Name}
		}
	}
	return t, nil
}

// normalize maps an accepted handler signature to its shape and to one of
// func() error, func(Machine) error, func(any) error, func(any, Machine) error.
func normalize(kind Kind, fn any) (Shape, any, bool) {
	if kind == OnEvent {
		switch f := fn.(type) {
		case func(any) error:
			return ShapePayload, f, true
		case func(any):
			return ShapePayload, func(p any) error { f(p); return nil }, true
		case func(any, Machine) error:
			return ShapePayloadMachine, f, true
		case func(any, Machine):
			return ShapePayloadMachine, func(p any, m Machine) error { f(p, m); return nil }, true
		}
		return 0, nil, false
	}
	switch f := fn.(type) {
	case func() error:
		return ShapeNone, f, true
	case func():
		return ShapeNone, func() error { f(); return nil }, true
	case func(Machine) error:
		return ShapeMachine, f, true
	case func(Machine):
		return ShapeMachine, func(m Machine) error { f(m); return nil }, true
	}
	return 0, nil, false
}

func arityOf(fn any) int {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return -1
	}
	return t.NumIn()
}
