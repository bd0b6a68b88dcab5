package logger

import "log/slog"

// Error records err under "error". Nil errors give an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// MachineID records the machine identifier under "machine_id".
func MachineID(id string) slog.Attr {
	return slog.String("machine_id", id)
}

// State records a state name under key.
func State(key, name string) slog.Attr {
	return slog.String(key, name)
}

// Handler records the handler name under "handler".
func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}

// Occurrence records the occurrence kind under "occurrence".
func Occurrence(kind string) slog.Attr {
	return slog.String("occurrence", kind)
}

// Payload records a payload description under "payload".
func Payload(desc string) slog.Attr {
	return slog.String("payload", desc)
}
