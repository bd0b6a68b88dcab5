package tinyfsm

import (
	"fmt"
	"math"
)

// StateID identifies an application state. Only equality matters.
type StateID int

// AnyState is the wildcard state. Handlers registered against it run for
// every concrete state, before the concrete handler. It is never a valid
// current state.
const AnyState StateID = math.MinInt

func (s StateID) String() string {
	if s == AnyState {
		return "ANY"
	}
	return fmt.Sprintf("%d", int(s))
}

// Kind is the type of occurrence a handler reacts to.
type Kind int

// Values match the order used by handler annotations: entry, event, exit.
const (
	OnEntry Kind = 0
	OnEvent Kind = 1
	OnExit  Kind = 2
)

func (k Kind) String() string {
	switch k {
	case OnEntry:
		return "OnEntry"
	case OnEvent:
		return "OnEvent"
	case OnExit:
		return "OnExit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) valid() bool {
	return k == OnEntry || k == OnEvent || k == OnExit
}

// HandlerKey is the unique identity of a registered handler.
// Tag is the zero TypeTag for entry and exit handlers.
type HandlerKey struct {
	State StateID
	Kind  Kind
	Tag   TypeTag
}

func (k HandlerKey) String() string {
	if k.Kind == OnEvent {
		return fmt.Sprintf("%s/%s(%s)", k.State, k.Kind, k.Tag)
	}
	return fmt.Sprintf("%s/%s", k.State, k.Kind)
}

// Shape is the calling convention of a handler.
type Shape int

const (
	// ShapeNone takes no arguments (entry/exit).
	ShapeNone Shape = iota
	// ShapeMachine takes the engine handle (entry/exit).
	ShapeMachine
	// ShapePayload takes the event payload.
	ShapePayload
	// ShapePayloadMachine takes the payload, then the engine handle.
	ShapePayloadMachine
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeMachine:
		return "machine"
	case ShapePayload:
		return "payload"
	case ShapePayloadMachine:
		return "payload+machine"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Arity returns the number of arguments a handler of this shape receives.
func (s Shape) Arity() int {
	switch s {
	case ShapeMachine, ShapePayload:
		return 1
	case ShapePayloadMachine:
		return 2
	default:
		return 0
	}
}

// Machine is the handle passed to handlers. It only exposes the current
// state and transitions; handlers never see the handler table.
type Machine interface {
	CurrentState() StateID
	TransitionTo(state StateID) error
}
