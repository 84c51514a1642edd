// Package console renders step progress on a terminal for runs without a
// display. It follows the same counter rule as the Fyne window.
package console

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/ytget/logprogress/internal/model"
)

// Bar is a terminal progress bar advanced one step per message
type Bar struct {
	bar      *progressbar.ProgressBar
	progress *model.Progress

	mu      sync.Mutex
	message string
	closed  bool
}

// New creates a bar writing to w. A non-positive maximum falls back to
// model.DefaultMaximum.
func New(w io.Writer, title string, maximum int) *Bar {
	progress := model.NewProgress(maximum)
	bar := progressbar.NewOptions(progress.Maximum(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(title),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetWidth(40),
	)
	return &Bar{bar: bar, progress: progress}
}

// Step advances the bar and shows message as its description
func (b *Bar) Step(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// dropped without logging: a log line would loop back through the hub
	if b.closed {
		return
	}

	value := b.progress.Step()
	if b.progress.Wrapped() {
		b.bar.Reset()
	}
	b.message = message
	b.bar.Describe(message)
	_ = b.bar.Set(value)
}

// Value returns the current step count
func (b *Bar) Value() int {
	return b.progress.Value()
}

// Maximum returns the configured maximum
func (b *Bar) Maximum() int {
	return b.progress.Maximum()
}

// Text returns the last message shown
func (b *Bar) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

// Close leaves the bar in its current state and stops rendering
func (b *Bar) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	_ = b.bar.Exit()
}
