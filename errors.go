package tinyfsm

import (
	"errors"
	"fmt"
)

var (
	ErrNullPayload = errors.New("event payload must not be nil")
	ErrNilTable    = errors.New("handler table is nil")
	ErrAnyState    = errors.New("AnyState is not a concrete state")
	ErrNilHandler  = errors.New("handler function is nil")
	ErrMissingTag  = errors.New("event handler requires a payload type tag")
	ErrUnknownKind = errors.New("unknown occurrence kind")
)

// DuplicateHandlerError is returned by Build when two descriptors share a key.
type DuplicateHandlerError struct {
	Key      HandlerKey
	Handler  string
	Previous string
}

func (e *DuplicateHandlerError) Error() string {
	return fmt.Sprintf("duplicate handler %q for %s (already registered by %q)", e.Handler, e.Key, e.Previous)
}

// InvalidArityError is returned by Build when a handler function does not
// have a signature accepted for its kind. Arity is the observed parameter
// count, or -1 when the value is not a function.
type InvalidArityError struct {
	Handler string
	Kind    Kind
	Arity   int
}

func (e *InvalidArityError) Error() string {
	if e.Arity < 0 {
		return fmt.Sprintf("%s handler %q is not a function", e.Kind, e.Handler)
	}
	return fmt.Sprintf("%s handler %q has unsupported signature with %d parameter(s)", e.Kind, e.Handler, e.Arity)
}

// HandlerPanicError carries a panic raised inside a handler back to the
// caller of Fire or TransitionTo.
type HandlerPanicError struct {
	Handler string
	Key     HandlerKey
	Value   any
}

func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("handler %q (%s) panicked: %v", e.Handler, e.Key, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *HandlerPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func IsDuplicateHandler(err error) bool {
	var e *DuplicateHandlerError
	return errors.As(err, &e)
}

func IsInvalidArity(err error) bool {
	var e *InvalidArityError
	return errors.As(err, &e)
}

func IsHandlerPanic(err error) bool {
	var e *HandlerPanicError
	return errors.As(err, &e)
}
