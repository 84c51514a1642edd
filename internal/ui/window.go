package ui

import (
	"fmt"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/logprogress/internal/model"
)

// ProgressWindow is a small window made of a message label and a progress bar.
// It holds the toolkit widgets rather than extending them; Step is the only
// mutating operation besides Close.
type ProgressWindow struct {
	window   fyne.Window
	label    *widget.Label
	bar      *widget.ProgressBar
	progress *model.Progress
	title    string

	mu     sync.Mutex
	closed bool
}

// NewProgressWindow creates the window and shows it immediately.
// An empty title falls back to DefaultTitle, a non-positive maximum to
// model.DefaultMaximum.
func NewProgressWindow(app fyne.App, title string, maximum int) *ProgressWindow {
	if title == "" {
		title = DefaultTitle
	}

	pw := &ProgressWindow{
		window:   app.NewWindow(title),
		label:    widget.NewLabel(""),
		bar:      widget.NewProgressBar(),
		progress: model.NewProgress(maximum),
		title:    title,
	}

	pw.label.Truncation = fyne.TextTruncateEllipsis
	pw.bar.Min = 0
	pw.bar.Max = float64(pw.progress.Maximum())
	pw.bar.TextFormatter = func() string {
		return fmt.Sprintf(ProgressTextFormat, int(pw.bar.Value), int(pw.bar.Max))
	}

	content := container.NewVBox(
		withMinSize(pw.label, 0, LabelMinHeight),
		widget.NewSeparator(),
		withMinSize(pw.bar, BarMinWidth, BarMinHeight),
	)
	pw.window.SetContent(container.NewPadded(content))
	pw.window.SetOnClosed(pw.markClosed)
	pw.window.Show()

	return pw
}

// withMinSize stacks obj on a transparent spacer so it never shrinks below w x h
func withMinSize(obj fyne.CanvasObject, w, h float32) fyne.CanvasObject {
	spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
	spacer.SetMinSize(fyne.NewSize(w, h))
	return container.NewStack(spacer, obj)
}

// Step advances the bar by one, wrapping to 1 past the maximum, and replaces
// the label text with message. Steps on a closed window are dropped.
func (pw *ProgressWindow) Step(message string) {
	// closed by the user while the log is still attached; no log line here,
	// it would loop back through the hub into Step
	if pw.Closed() {
		return
	}

	value := pw.progress.Step()
	pw.bar.SetValue(float64(value))
	pw.label.SetText(message)
}

// Value returns the value currently shown by the bar
func (pw *ProgressWindow) Value() int {
	return int(pw.bar.Value)
}

// Maximum returns the bar maximum
func (pw *ProgressWindow) Maximum() int {
	return pw.progress.Maximum()
}

// Text returns the label text
func (pw *ProgressWindow) Text() string {
	return pw.label.Text
}

// Title returns the window title
func (pw *ProgressWindow) Title() string {
	return pw.title
}

// Window exposes the underlying Fyne window
func (pw *ProgressWindow) Window() fyne.Window {
	return pw.window
}

// Close closes the window. Further calls are no-ops.
func (pw *ProgressWindow) Close() {
	pw.mu.Lock()
	if pw.closed {
		pw.mu.Unlock()
		return
	}
	pw.closed = true
	pw.mu.Unlock()

	pw.window.Close()
}

// Closed reports whether the window was closed, by Close or by the user
func (pw *ProgressWindow) Closed() bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.closed
}

func (pw *ProgressWindow) markClosed() {
	pw.mu.Lock()
	pw.closed = true
	pw.mu.Unlock()
}
