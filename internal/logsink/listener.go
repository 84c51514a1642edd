package logsink

import "go.uber.org/zap/zapcore"

// Listener receives every entry written through a hub-wrapped core.
// Implementations are called synchronously on the logging goroutine.
type Listener interface {
	Log(entry zapcore.Entry, fields []zapcore.Field)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(entry zapcore.Entry, fields []zapcore.Field)

// Log calls f(entry, fields).
func (f ListenerFunc) Log(entry zapcore.Entry, fields []zapcore.Field) {
	f(entry, fields)
}
