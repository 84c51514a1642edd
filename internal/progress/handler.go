package progress

import (
	"go.uber.org/zap/zapcore"
)

// Stepper is anything that can be advanced by one step with a message.
type Stepper interface {
	Step(message string)
}

// Target is a Stepper with a lifetime, such as ui.ProgressWindow or console.Bar.
type Target interface {
	Stepper
	Close()
}

// Handler forwards log entries to a Stepper instead of writing them.
type Handler struct {
	target   Stepper
	dispatch func(func())
}

// NewHandler creates a handler stepping target. dispatch runs each step on the
// target's owning thread (fyne.Do for windows); nil calls the target directly.
func NewHandler(target Stepper, dispatch func(func())) *Handler {
	if dispatch == nil {
		dispatch = direct
	}
	return &Handler{target: target, dispatch: dispatch}
}

// Log implements logsink.Listener. The rendered message is passed verbatim.
func (h *Handler) Log(entry zapcore.Entry, _ []zapcore.Field) {
	message := entry.Message
	h.dispatch(func() {
		h.target.Step(message)
	})
}

func direct(fn func()) {
	fn()
}
