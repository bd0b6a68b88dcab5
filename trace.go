package tinyfsm

// Phase says which step of a dispatch a TraceEvent describes.
type Phase int

const (
	// PhaseDispatch is recorded for every handler lookup, matched or not.
	PhaseDispatch Phase = iota
	// PhaseHandled is recorded after a matched handler returned.
	PhaseHandled
	// PhaseStateChanged is recorded after the current state was replaced.
	PhaseStateChanged
	// PhaseDeferred is recorded when a call made from inside a handler is
	// queued until the running dispatch completes.
	PhaseDeferred
	// PhaseAttached is recorded when a sink is attached with SetTrace.
	PhaseAttached
)

func (p Phase) String() string {
	switch p {
	case PhaseDispatch:
		return "dispatch"
	case PhaseHandled:
		return "handled"
	case PhaseStateChanged:
		return "state_changed"
	case PhaseDeferred:
		return "deferred"
	case PhaseAttached:
		return "attached"
	default:
		return "unknown"
	}
}

// TraceEvent is a structured record of one dispatch decision.
type TraceEvent struct {
	Phase   Phase
	Current StateID // current state when the record was made
	State   StateID // handler bucket consulted: AnyState or a concrete state
	Kind    Kind
	Matched bool
	Handler string
	Tag     TypeTag
	Payload string // fmt.Sprint of the event payload, OnEvent only
	Target  StateID
	Err     error
}

// TraceSink receives trace records synchronously, in dispatch order.
type TraceSink interface {
	Record(ev TraceEvent)
}

// TraceFunc adapts a function to TraceSink.
type TraceFunc func(ev TraceEvent)

func (f TraceFunc) Record(ev TraceEvent) { f(ev) }
