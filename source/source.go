// Package source feeds payloads from channels into an engine. An Engine is
// not safe for concurrent use, so Pump delivers everything from the calling
// goroutine.
package source

import (
	"context"
	"time"
)

// Firer is the part of an engine Pump needs.
type Firer interface {
	Fire(payload any) error
}

// Pump fires every payload received on events until the channel is closed,
// ctx is done, or Fire fails. It returns nil when the channel closes.
func Pump(ctx context.Context, f Firer, events <-chan any) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-events:
			if !ok {
				return nil
			}
			if err := f.Fire(p); err != nil {
				return err
			}
		}
	}
}

// Timer emits the same payload periodically.
type Timer struct {
	ch     chan any
	ticker *time.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// NewTimer starts a Timer that emits payload every d. At most limit payloads
// are emitted when limit > 0; the channel is closed afterwards.
func NewTimer(payload any, d time.Duration, limit int) *Timer {
	t := &Timer{
		ch:     make(chan any, 10),
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.run(payload, limit)
	return t
}

func (t *Timer) run(payload any, limit int) {
	defer close(t.done)
	defer close(t.ch)
	defer t.ticker.Stop()
	sent := 0
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- payload:
				sent++
			case <-t.stop:
				return
			}
			if limit > 0 && sent >= limit {
				return
			}
		case <-t.stop:
			return
		}
	}
}

// Events returns the payload channel.
func (t *Timer) Events() <-chan any {
	return t.ch
}

// Stop stops the ticker and closes the channel. It is safe to call after the
// limit was reached.
func (t *Timer) Stop() {
	select {
	case <-t.done:
	default:
		close(t.stop)
		<-t.done
	}
}
