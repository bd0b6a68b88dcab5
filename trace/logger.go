package trace

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/comalice/tinyfsm"
	"github.com/comalice/tinyfsm/internal/logger"
)

// Logger writes trace records to a slog.Logger. Lookups and deferred calls
// are logged at debug level, state changes at info level, handler failures
// at error level.
type Logger struct {
	log       *slog.Logger
	stateName func(tinyfsm.StateID) string
}

// LoggerOption configures a Logger.
type LoggerOption func(*loggerConfig)

type loggerConfig struct {
	machineID string
	stateName func(tinyfsm.StateID) string
}

// WithMachineID sets the machine_id attribute. A random UUID is used when
// none is given.
func WithMachineID(id string) LoggerOption {
	return func(c *loggerConfig) { c.machineID = id }
}

// WithStateNames renders state identifiers with fn, for example
// Builder.StateName.
func WithStateNames(fn func(tinyfsm.StateID) string) LoggerOption {
	return func(c *loggerConfig) {
		if fn != nil {
			c.stateName = fn
		}
	}
}

// NewLogger creates a Logger writing to l, or slog.Default when l is nil.
func NewLogger(l *slog.Logger, opts ...LoggerOption) *Logger {
	if l == nil {
		l = slog.Default()
	}
	cfg := &loggerConfig{stateName: tinyfsm.StateID.String}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.machineID == "" {
		cfg.machineID = uuid.NewString()
	}
	return &Logger{
		log:       l.With(logger.Component("tinyfsm"), logger.MachineID(cfg.machineID)),
		stateName: cfg.stateName,
	}
}

// Record implements tinyfsm.TraceSink.
func (l *Logger) Record(ev tinyfsm.TraceEvent) {
	ctx := context.Background()
	cur := logger.State("state", l.stateName(ev.Current))

	switch ev.Phase {
	case tinyfsm.PhaseAttached:
		l.log.LogAttrs(ctx, slog.LevelInfo, "current state", cur)
	case tinyfsm.PhaseStateChanged:
		l.log.LogAttrs(ctx, slog.LevelInfo, "new state", cur,
			logger.State("from", l.stateName(ev.State)))
	case tinyfsm.PhaseDeferred:
		attrs := []slog.Attr{cur}
		if ev.Kind == tinyfsm.OnEvent {
			attrs = append(attrs, logger.Payload(ev.Payload))
			l.log.LogAttrs(ctx, slog.LevelDebug, "event deferred", attrs...)
			return
		}
		attrs = append(attrs, logger.State("target", l.stateName(ev.Target)))
		l.log.LogAttrs(ctx, slog.LevelDebug, "transition deferred", attrs...)
	case tinyfsm.PhaseDispatch:
		attrs := l.occurrenceAttrs(ev)
		if !ev.Matched {
			l.log.LogAttrs(ctx, slog.LevelDebug, "no handler", attrs...)
			return
		}
		l.log.LogAttrs(ctx, slog.LevelDebug, "dispatch", attrs...)
	case tinyfsm.PhaseHandled:
		attrs := l.occurrenceAttrs(ev)
		if ev.Err != nil {
			l.log.LogAttrs(ctx, slog.LevelError, "handler failed", append(attrs, logger.Error(ev.Err))...)
			return
		}
		l.log.LogAttrs(ctx, slog.LevelDebug, "handled", attrs...)
	}
}

func (l *Logger) occurrenceAttrs(ev tinyfsm.TraceEvent) []slog.Attr {
	attrs := []slog.Attr{
		logger.State("state", l.stateName(ev.Current)),
		logger.State("bucket", l.stateName(ev.State)),
		logger.Occurrence(ev.Kind.String()),
	}
	if ev.Handler != "" {
		attrs = append(attrs, logger.Handler(ev.Handler))
	}
	if ev.Kind == tinyfsm.OnEvent {
		attrs = append(attrs, slog.String("tag", ev.Tag.String()), logger.Payload(ev.Payload))
	}
	return attrs
}
