package trace

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/tinyfsm"
)

// Metrics counts trace records as Prometheus metrics:
//
//	tinyfsm_dispatch_total{kind,matched}
//	tinyfsm_handler_total{kind,status}
//	tinyfsm_transitions_total{from,to}
//	tinyfsm_deferred_total{kind}
//
// State labels use the state name function, so keep the set of states
// small.
type Metrics struct {
	dispatch    *prometheus.CounterVec
	handled     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	deferred    *prometheus.CounterVec
	stateName   func(tinyfsm.StateID) string
}

// NewMetrics creates the counters and registers them with reg.
// constLabels are attached to every series, for example a machine name.
func NewMetrics(reg prometheus.Registerer, stateName func(tinyfsm.StateID) string, constLabels prometheus.Labels) (*Metrics, error) {
	if stateName == nil {
		stateName = tinyfsm.StateID.String
	}
	m := &Metrics{
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tinyfsm_dispatch_total",
			Help:        "Handler lookups by occurrence kind and whether a handler matched.",
			ConstLabels: constLabels,
		}, []string{"kind", "matched"}),
		handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tinyfsm_handler_total",
			Help:        "Handler completions by occurrence kind and status.",
			ConstLabels: constLabels,
		}, []string{"kind", "status"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tinyfsm_transitions_total",
			Help:        "State changes by source and target state.",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),
		deferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tinyfsm_deferred_total",
			Help:        "Calls queued while a dispatch was running.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		stateName: stateName,
	}
	for _, c := range []prometheus.Collector{m.dispatch, m.handled, m.transitions, m.deferred} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Record implements tinyfsm.TraceSink.
func (m *Metrics) Record(ev tinyfsm.TraceEvent) {
	switch ev.Phase {
	case tinyfsm.PhaseDispatch:
		matched := "false"
		if ev.Matched {
			matched = "true"
		}
		m.dispatch.WithLabelValues(ev.Kind.String(), matched).Inc()
	case tinyfsm.PhaseHandled:
		status := "ok"
		if ev.Err != nil {
			status = "error"
		}
		m.handled.WithLabelValues(ev.Kind.String(), status).Inc()
	case tinyfsm.PhaseStateChanged:
		m.transitions.WithLabelValues(m.stateName(ev.State), m.stateName(ev.Target)).Inc()
	case tinyfsm.PhaseDeferred:
		kind := "event"
		if ev.Kind == tinyfsm.OnExit {
			kind = "transition"
		}
		m.deferred.WithLabelValues(kind).Inc()
	}
}
