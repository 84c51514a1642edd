package progress

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/ytget/logprogress/internal/console"
	"github.com/ytget/logprogress/internal/logsink"
	"github.com/ytget/logprogress/internal/ui"
)

var (
	// ErrNilHub is returned when a scope is opened without a log hub.
	ErrNilHub = errors.New("progress: nil log hub")
	// ErrNilTarget is returned when a scope is attached to a nil target.
	ErrNilTarget = errors.New("progress: nil target")
)

// Options configures a progress scope.
type Options struct {
	// Title of the window or console bar; empty uses the target's default.
	Title string
	// Maximum step count; non-positive means 100.
	Maximum int
	// Dispatch runs steps and the final close on the target's owning thread.
	// Use fyne.Do when logging from goroutines other than the main one.
	Dispatch func(func())
}

// Scope owns a target and its log registration.
type Scope struct {
	target       Target
	registration *logsink.Registration
	dispatch     func(func())

	closeOnce sync.Once
	closeErr  error
}

// Attach registers a handler for target on hub and returns the scope guarding both.
func Attach(hub *logsink.Hub, target Target, dispatch func(func())) (*Scope, error) {
	if hub == nil {
		return nil, ErrNilHub
	}
	if target == nil {
		return nil, ErrNilTarget
	}
	if dispatch == nil {
		dispatch = direct
	}

	reg, err := hub.Register(NewHandler(target, dispatch))
	if err != nil {
		return nil, fmt.Errorf("register progress handler: %w", err)
	}
	return &Scope{
		target:       target,
		registration: reg,
		dispatch:     dispatch,
	}, nil
}

// Open creates and shows a progress window, then attaches it to hub.
// Must be called on the Fyne main thread.
func Open(app fyne.App, hub *logsink.Hub, opts Options) (*Scope, error) {
	if hub == nil {
		return nil, ErrNilHub
	}
	window := ui.NewProgressWindow(app, opts.Title, opts.Maximum)
	scope, err := Attach(hub, window, opts.Dispatch)
	if err != nil {
		window.Close()
		return nil, err
	}
	return scope, nil
}

// OpenConsole attaches a terminal progress bar writing to w.
func OpenConsole(w io.Writer, hub *logsink.Hub, opts Options) (*Scope, error) {
	if hub == nil {
		return nil, ErrNilHub
	}
	bar := console.New(w, opts.Title, opts.Maximum)
	scope, err := Attach(hub, bar, opts.Dispatch)
	if err != nil {
		bar.Close()
		return nil, err
	}
	return scope, nil
}

// Target returns the guarded target
func (s *Scope) Target() Target {
	return s.target
}

// Close unregisters the handler and then closes the target. Only the first
// call does any work; later calls return the same result.
func (s *Scope) Close() error {
	s.closeOnce.Do(func() {
		if err := s.registration.Unregister(); err != nil {
			s.closeErr = fmt.Errorf("unregister progress handler: %w", err)
		}
		// queued behind any steps already dispatched
		s.dispatch(s.target.Close)
	})
	return s.closeErr
}

// Run opens a window scope, runs fn, and closes the scope whatever fn does,
// including panicking. A close error is returned only when fn succeeded.
func Run(app fyne.App, hub *logsink.Hub, opts Options, fn func() error) (err error) {
	scope, err := Open(app, hub, opts)
	if err != nil {
		return err
	}
	return scope.Run(fn)
}

// RunTarget is Run for an existing target.
func RunTarget(hub *logsink.Hub, target Target, dispatch func(func()), fn func() error) error {
	scope, err := Attach(hub, target, dispatch)
	if err != nil {
		return err
	}
	return scope.Run(fn)
}

// Run runs fn and closes the scope afterwards, also when fn panics. A close
// error is returned only when fn succeeded.
func (s *Scope) Run(fn func() error) (err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn()
}
