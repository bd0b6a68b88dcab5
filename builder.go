package tinyfsm

import (
	"fmt"
	"strings"
)

// Builder provides a fluent API for assembling handler descriptors close to
// the code that handles them. Build validates everything at once.
type Builder struct {
	descs []Descriptor
	names map[StateID]string // optional, used to label handlers
}

// StateBuilder adds handlers for a single state.
type StateBuilder struct {
	b     *Builder
	state StateID
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{names: make(map[StateID]string)}
}

// State returns a StateBuilder for id.
func (b *Builder) State(id StateID) *StateBuilder {
	return &StateBuilder{b: b, state: id}
}

// Named is State that also records a display name for id. Handler names
// default to "<name>.<kind>".
func (b *Builder) Named(id StateID, name string) *StateBuilder {
	b.names[id] = name
	return b.State(id)
}

// Any returns a StateBuilder for the wildcard state.
func (b *Builder) Any() *StateBuilder {
	return b.State(AnyState)
}

// Add appends raw descriptors.
func (b *Builder) Add(descs ...Descriptor) *Builder {
	for _, d := range descs {
		b.add(d)
	}
	return b
}

// Descriptors returns a copy of the collected descriptors.
func (b *Builder) Descriptors() []Descriptor {
	return append([]Descriptor(nil), b.descs...)
}

// Build validates the collected descriptors and returns the table.
func (b *Builder) Build() (*Table, error) {
	return Build(b.descs)
}

// MustBuild is Build that panics on error.
func (b *Builder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build handler table: %v", err))
	}
	return t
}

// StateName returns the name recorded with Named, or the numeric form.
func (b *Builder) StateName(id StateID) string {
	if n, ok := b.names[id]; ok {
		return n
	}
	return id.String()
}

func (b *Builder) add(d Descriptor) {
	if d.Name == "" {
		if n, ok := b.names[d.State]; ok {
			d.Name = n + "." + strings.TrimPrefix(d.Key().String(), d.State.String()+"/")
		}
	}
	b.descs = append(b.descs, d)
}

// OnEntry registers fn as the entry handler. fn is func(), func() error,
// func(Machine) or func(Machine) error.
func (sb *StateBuilder) OnEntry(fn any) *StateBuilder {
	sb.b.add(NewEntry(sb.state, fn))
	return sb
}

// OnExit registers fn as the exit handler; see OnEntry for accepted types.
func (sb *StateBuilder) OnExit(fn any) *StateBuilder {
	sb.b.add(NewExit(sb.state, fn))
	return sb
}

// Handle registers an untyped event handler for tag. fn is func(any),
// func(any) error, func(any, Machine) or func(any, Machine) error.
func (sb *StateBuilder) Handle(tag TypeTag, fn any) *StateBuilder {
	sb.b.add(Descriptor{State: sb.state, Kind: OnEvent, Tag: tag, Fn: fn})
	return sb
}

// On registers a handler for payloads of type T.
func On[T any](sb *StateBuilder, fn func(T) error) *StateBuilder {
	sb.b.add(NewEvent(sb.state, fn))
	return sb
}

// OnWith registers a handler for payloads of type T that also receives the
// engine handle.
func OnWith[T any](sb *StateBuilder, fn func(T, Machine) error) *StateBuilder {
	sb.b.add(NewEventWith(sb.state, fn))
	return sb
}
