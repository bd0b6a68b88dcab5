// Package trace provides TraceSink implementations for tinyfsm engines.
//
//	Logger    slog records, state changes at info level
//	Metrics   Prometheus counters
//	Channel   non-blocking publisher
//	Recorder  in-memory, for tests and tooling
//	Multi     fan-out to several sinks
package trace
