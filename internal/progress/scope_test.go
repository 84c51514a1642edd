package progress

import (
	"bytes"
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ytget/logprogress/internal/console"
	"github.com/ytget/logprogress/internal/logsink"
	"github.com/ytget/logprogress/internal/ui"
)

type fakeTarget struct {
	messages []string
	closes   int
}

func (f *fakeTarget) Step(message string) {
	f.messages = append(f.messages, message)
}

func (f *fakeTarget) Close() {
	f.closes++
}

func newLogger(hub *logsink.Hub) *zap.Logger {
	return zap.New(hub.Wrap(nil))
}

// TestHandlerForwardsRenderedMessage checks each entry becomes exactly one step.
func TestHandlerForwardsRenderedMessage(t *testing.T) {
	target := &fakeTarget{}
	var dispatched int
	h := NewHandler(target, func(fn func()) {
		dispatched++
		fn()
	})

	h.Log(zapcore.Entry{Level: zapcore.DebugLevel, Message: "first"}, nil)
	h.Log(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "second"}, []zapcore.Field{zap.Int("n", 2)})

	assert.Equal(t, []string{"first", "second"}, target.messages)
	assert.Equal(t, 2, dispatched)
}

// TestAttachValidatesArguments covers the constructor errors.
func TestAttachValidatesArguments(t *testing.T) {
	_, err := Attach(nil, &fakeTarget{}, nil)
	assert.ErrorIs(t, err, ErrNilHub)

	_, err = Attach(logsink.NewHub(), nil, nil)
	assert.ErrorIs(t, err, ErrNilTarget)

	_, err = Open(test.NewApp(), nil, Options{})
	assert.ErrorIs(t, err, ErrNilHub)

	_, err = OpenConsole(&bytes.Buffer{}, nil, Options{})
	assert.ErrorIs(t, err, ErrNilHub)
}

// TestScopeRoutesEveryLevel verifies records of any level step the target.
func TestScopeRoutesEveryLevel(t *testing.T) {
	base, observed := observer.New(zapcore.ErrorLevel)
	hub := logsink.NewHub()
	logger := zap.New(hub.Wrap(base)).Sugar()
	target := &fakeTarget{}

	scope, err := Attach(hub, target, nil)
	require.NoError(t, err)
	assert.Same(t, target, scope.Target())

	logger.Debugf("scan %s", "a")
	logger.Infof("scan %s", "b")
	logger.Warnf("scan %s", "c")

	require.NoError(t, scope.Close())
	assert.Equal(t, []string{"scan a", "scan b", "scan c"}, target.messages)
	assert.Equal(t, 0, observed.Len(), "normal output stays governed by the base core")
}

// TestScopeCloseOnce verifies release happens exactly once.
func TestScopeCloseOnce(t *testing.T) {
	hub := logsink.NewHub()
	target := &fakeTarget{}

	scope, err := Attach(hub, target, nil)
	require.NoError(t, err)
	require.Equal(t, 1, hub.Len())

	require.NoError(t, scope.Close())
	require.NoError(t, scope.Close())

	assert.Equal(t, 0, hub.Len())
	assert.Equal(t, 1, target.closes)
}

// TestScopeCloseReportsUnregisterError covers a registration removed behind the scope's back.
func TestScopeCloseReportsUnregisterError(t *testing.T) {
	hub := logsink.NewHub()
	target := &fakeTarget{}

	scope, err := Attach(hub, target, nil)
	require.NoError(t, err)
	require.NoError(t, scope.registration.Unregister())

	err = scope.Close()
	assert.ErrorIs(t, err, logsink.ErrNotRegistered)
	assert.Equal(t, 1, target.closes, "target is closed even when unregistering fails")
	assert.Equal(t, err, scope.Close())
}

// TestRunTargetReleasesOnError verifies fn's error is returned and resources released.
func TestRunTargetReleasesOnError(t *testing.T) {
	hub := logsink.NewHub()
	logger := newLogger(hub)
	target := &fakeTarget{}
	boom := errors.New("boom")

	err := RunTarget(hub, target, nil, func() error {
		logger.Info("working")
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, hub.Len())
	assert.Equal(t, 1, target.closes)
	assert.Equal(t, []string{"working"}, target.messages)
}

// TestRunTargetReleasesOnPanic verifies the scope is released while a panic unwinds.
func TestRunTargetReleasesOnPanic(t *testing.T) {
	hub := logsink.NewHub()
	target := &fakeTarget{}

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = RunTarget(hub, target, nil, func() error {
			panic("kaboom")
		})
	})

	assert.Equal(t, 0, hub.Len())
	assert.Equal(t, 1, target.closes)
}

// TestScopeIgnoresRecordsAfterClose checks a closed scope no longer sees the log.
func TestScopeIgnoresRecordsAfterClose(t *testing.T) {
	hub := logsink.NewHub()
	logger := newLogger(hub)
	target := &fakeTarget{}

	err := RunTarget(hub, target, nil, func() error {
		logger.Info("inside")
		return nil
	})
	require.NoError(t, err)

	logger.Info("outside")
	assert.Equal(t, []string{"inside"}, target.messages)
}

// TestRunWindowScope drives a real Fyne window scope through Run.
func TestRunWindowScope(t *testing.T) {
	app := test.NewApp()
	hub := logsink.NewHub()
	logger := newLogger(hub).Sugar()
	boom := errors.New("boom")

	err := Run(app, hub, Options{Title: "Import", Maximum: 3}, func() error {
		assert.Equal(t, 1, hub.Len())
		logger.Infof("importing %d", 1)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, hub.Len())
}

// TestOpenWindowScope checks the window contract end to end.
func TestOpenWindowScope(t *testing.T) {
	app := test.NewApp()
	hub := logsink.NewHub()
	logger := newLogger(hub).Sugar()

	scope, err := Open(app, hub, Options{Title: "Import", Maximum: 3})
	require.NoError(t, err)
	window, ok := scope.Target().(*ui.ProgressWindow)
	require.True(t, ok)
	assert.Equal(t, "Import", window.Title())

	var values []int
	for _, msg := range []string{"a", "b", "c", "d"} {
		logger.Info(msg)
		values = append(values, window.Value())
	}
	assert.Equal(t, []int{1, 2, 3, 1}, values)
	assert.Equal(t, "d", window.Text())

	require.NoError(t, scope.Close())
	assert.True(t, window.Closed())
	assert.Equal(t, 0, hub.Len())

	logger.Info("late")
	assert.Equal(t, 1, window.Value())
	assert.Equal(t, "d", window.Text())
}

// TestOpenConsoleScope runs the console target through the same scope.
func TestOpenConsoleScope(t *testing.T) {
	var buf bytes.Buffer
	hub := logsink.NewHub()
	logger := newLogger(hub)

	scope, err := OpenConsole(&buf, hub, Options{Title: "sync", Maximum: 2})
	require.NoError(t, err)
	bar, ok := scope.Target().(*console.Bar)
	require.True(t, ok)

	logger.Info("x")
	logger.Info("y")
	logger.Info("z")
	require.NoError(t, scope.Close())

	assert.Equal(t, 1, bar.Value())
	assert.Equal(t, "z", bar.Text())
}
