package main

import (
	"log/slog"

	"github.com/comalice/tinyfsm"
	"github.com/comalice/tinyfsm/internal/logger"
	"github.com/comalice/tinyfsm/internal/script"
)

const (
	Red tinyfsm.StateID = iota
	Green
	Yellow
	Flashing
)

var states = script.States{
	"red":      Red,
	"green":    Green,
	"yellow":   Yellow,
	"flashing": Flashing,
}

var cycle = map[tinyfsm.StateID]tinyfsm.StateID{
	Red:    Green,
	Green:  Yellow,
	Yellow: Red,
}

type trafficLight struct {
	*tinyfsm.Builder
	table *tinyfsm.Table
}

// newTrafficLight builds a light that cycles on "timer" commands. Any int
// payload is a pedestrian request, which cuts a green phase short. A string
// payload reports a fault; the light flashes until a "reset" command.
func newTrafficLight(log *slog.Logger) (*trafficLight, error) {
	b := tinyfsm.NewBuilder()
	timer := tinyfsm.NamedTag("timer")
	advance := func(_ any, m tinyfsm.Machine) error {
		return m.TransitionTo(cycle[m.CurrentState()])
	}

	b.Named(Red, "red").Handle(timer, advance)
	b.Named(Yellow, "yellow").Handle(timer, advance)
	green := b.Named(Green, "green").Handle(timer, advance)
	tinyfsm.OnWith(green, func(_ int, m tinyfsm.Machine) error {
		return m.TransitionTo(Yellow)
	})

	flashing := b.Named(Flashing, "flashing")
	flashing.OnEntry(func() { log.Warn("light flashing") })
	flashing.Handle(tinyfsm.NamedTag("reset"), func(_ any, m tinyfsm.Machine) error {
		return m.TransitionTo(Red)
	})

	tinyfsm.OnWith(b.Any(), func(fault string, m tinyfsm.Machine) error {
		log.Error("fault reported", slog.String("fault", fault), logger.State("state", b.StateName(m.CurrentState())))
		return m.TransitionTo(Flashing)
	})

	table, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &trafficLight{Builder: b, table: table}, nil
}
