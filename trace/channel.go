package trace

import (
	"sync/atomic"

	"github.com/comalice/tinyfsm"
)

// Channel forwards records to a Go channel without blocking the engine.
// Records that do not fit are dropped and counted.
type Channel struct {
	ch      chan<- tinyfsm.TraceEvent
	dropped atomic.Uint64
}

// NewChannel creates a Channel sending to ch.
func NewChannel(ch chan<- tinyfsm.TraceEvent) *Channel {
	return &Channel{ch: ch}
}

func (c *Channel) Record(ev tinyfsm.TraceEvent) {
	select {
	case c.ch <- ev:
	default:
		c.dropped.Add(1)
	}
}

// Dropped returns how many records did not fit into the channel.
func (c *Channel) Dropped() uint64 {
	return c.dropped.Load()
}

// Close closes the underlying channel. The sink must not be used afterwards.
func (c *Channel) Close() error {
	close(c.ch)
	return nil
}
