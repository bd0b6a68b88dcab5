package tinyfsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/tinyfsm"
)

func TestBuilderTrafficLight(t *testing.T) {
	const (
		green StateID = iota
		yellow
		red
	)
	type tick struct{}

	next := map[StateID]StateID{green: yellow, yellow: red, red: green}
	var entered []StateID

	b := NewBuilder()
	for _, s := range []StateID{green, yellow, red} {
		b.State(s).OnEntry(func(m Machine) { entered = append(entered, m.CurrentState()) })
	}
	OnWith(b.Any(), func(_ tick, m Machine) error {
		return m.TransitionTo(next[m.CurrentState()])
	})

	e := MustNew(b.MustBuild(), green)
	for i := 0; i < 4; i++ {
		require.NoError(t, e.Fire(tick{}))
	}
	assert.Equal(t, []StateID{yellow, red, green, yellow}, entered)
	assert.Equal(t, yellow, e.CurrentState())
}

func TestBuilderNamedStates(t *testing.T) {
	b := NewBuilder()
	b.Named(1, "idle").OnEntry(func() {})
	On(b.Named(2, "busy"), func(string) error { return nil })
	b.State(3).OnExit(func() {})

	descs := b.Descriptors()
	require.Len(t, descs, 3)
	assert.Equal(t, "idle.OnEntry", descs[0].Name)
	assert.Equal(t, "busy.OnEvent(string)", descs[1].Name)
	assert.Empty(t, descs[2].Name)

	assert.Equal(t, "idle", b.StateName(1))
	assert.Equal(t, "3", b.StateName(3))
	assert.Equal(t, "ANY", b.StateName(AnyState))

	table, err := b.Build()
	require.NoError(t, err)
	e, ok := table.Lookup(HandlerKey{State: 3, Kind: OnExit})
	require.True(t, ok)
	assert.Equal(t, "3/OnExit", e.Name)
}

func TestBuilderDescriptorsIsCopy(t *testing.T) {
	b := NewBuilder()
	b.State(1).OnEntry(func() {})
	descs := b.Descriptors()
	descs[0].State = 9

	table := b.MustBuild()
	_, ok := table.Lookup(HandlerKey{State: 1, Kind: OnEntry})
	assert.True(t, ok)
}

func TestBuilderAdd(t *testing.T) {
	b := NewBuilder().Add(
		NewEntry(1, func() {}),
		NewEvent(1, func(int) error { return nil }),
	)
	table, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestBuilderMustBuildPanicsOnDuplicate(t *testing.T) {
	b := NewBuilder()
	b.State(1).OnEntry(func() {}).OnEntry(func() {})
	assert.Panics(t, func() { b.MustBuild() })

	_, err := b.Build()
	assert.True(t, IsDuplicateHandler(err))
}
