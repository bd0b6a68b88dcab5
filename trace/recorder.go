package trace

import (
	"slices"
	"sync"

	"github.com/comalice/tinyfsm"
)

// Recorder keeps trace records in memory. With phases given, only those
// phases are kept.
type Recorder struct {
	mu     sync.Mutex
	phases []tinyfsm.Phase
	events []tinyfsm.TraceEvent
}

// NewRecorder creates a Recorder keeping the given phases, or all of them.
func NewRecorder(phases ...tinyfsm.Phase) *Recorder {
	return &Recorder{phases: phases}
}

func (r *Recorder) Record(ev tinyfsm.TraceEvent) {
	if len(r.phases) > 0 && !slices.Contains(r.phases, ev.Phase) {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the kept records.
func (r *Recorder) Events() []tinyfsm.TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Unmatched returns the dispatch records for which no handler existed.
func (r *Recorder) Unmatched() []tinyfsm.TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tinyfsm.TraceEvent
	for _, ev := range r.events {
		if ev.Phase == tinyfsm.PhaseDispatch && !ev.Matched {
			out = append(out, ev)
		}
	}
	return out
}

// Reset drops all kept records.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
