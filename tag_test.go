package tinyfsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/comalice/tinyfsm"
)

type point struct{ X, Y int }

func TestTypeTags(t *testing.T) {
	assert.Equal(t, TagOf[string](), TagFor("x"))
	assert.Equal(t, TagOf[point](), TagFor(point{1, 2}))
	assert.Equal(t, TagOf[*point](), TagFor(&point{}))
	assert.NotEqual(t, TagOf[point](), TagOf[*point]())
	assert.NotEqual(t, TagOf[int](), TagOf[int64]())

	assert.Equal(t, NamedTag("a"), NamedTag("a"))
	assert.NotEqual(t, NamedTag("string"), TagOf[string]())

	assert.True(t, TypeTag{}.IsZero())
	assert.True(t, TagFor(nil).IsZero())
	assert.False(t, NamedTag("a").IsZero())

	assert.Equal(t, "string", TagOf[string]().String())
	assert.Equal(t, "#a", NamedTag("a").String())
	assert.Equal(t, "-", TypeTag{}.String())
}

func TestTagForTagged(t *testing.T) {
	assert.Equal(t, NamedTag("go"), TagFor(command{name: "go"}))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "ANY", AnyState.String())
	assert.Equal(t, "-1", StateID(-1).String())
	assert.Equal(t, "OnEntry", OnEntry.String())
	assert.Equal(t, "OnExit", OnExit.String())
	assert.Equal(t, "OnEvent", OnEvent.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.Equal(t, "0/OnEvent(int)", HandlerKey{State: 0, Kind: OnEvent, Tag: TagOf[int]()}.String())
	assert.Equal(t, "ANY/OnExit", HandlerKey{State: AnyState, Kind: OnExit}.String())
	assert.Equal(t, "payload+machine", ShapePayloadMachine.String())
	assert.Equal(t, "state_changed", PhaseStateChanged.String())
}
