package trace

import "github.com/comalice/tinyfsm"

type multi []tinyfsm.TraceSink

// Multi returns a sink that forwards every record to each non-nil sink in
// order.
func Multi(sinks ...tinyfsm.TraceSink) tinyfsm.TraceSink {
	m := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multi) Record(ev tinyfsm.TraceEvent) {
	for _, s := range m {
		s.Record(ev)
	}
}
