// Package benchmarks provides performance benchmarks for table building and
// event dispatch.
package benchmarks

import (
	"github.com/comalice/tinyfsm"
)

type tick struct{}

// pingPong returns a table where tick moves between states 0 and 1, with
// wildcard and per-state entry and exit handlers so that every transition
// runs four handlers.
func pingPong() *tinyfsm.Table {
	b := tinyfsm.NewBuilder()
	noop := func() {}
	b.Any().OnEntry(noop).OnExit(noop)
	for _, s := range []tinyfsm.StateID{0, 1} {
		target := 1 - s
		b.State(s).OnEntry(noop).OnExit(noop)
		tinyfsm.OnWith(b.State(s), func(_ tick, m tinyfsm.Machine) error {
			return m.TransitionTo(target)
		})
	}
	return b.MustBuild()
}

// chain returns a table where entering state i transitions to i+1 until n.
func chain(n int) *tinyfsm.Table {
	b := tinyfsm.NewBuilder()
	for i := 0; i < n; i++ {
		next := tinyfsm.StateID(i + 1)
		b.State(tinyfsm.StateID(i)).OnEntry(func(m tinyfsm.Machine) error {
			return m.TransitionTo(next)
		})
	}
	return b.MustBuild()
}

// wide returns descriptors for n states with an entry, an exit and one
// event handler each.
func wide(n int) []tinyfsm.Descriptor {
	descs := make([]tinyfsm.Descriptor, 0, 3*n)
	for i := 0; i < n; i++ {
		s := tinyfsm.StateID(i)
		descs = append(descs,
			tinyfsm.NewEntry(s, func() {}),
			tinyfsm.NewExit(s, func() {}),
			tinyfsm.NewEvent(s, func(int) error { return nil }),
		)
	}
	return descs
}
