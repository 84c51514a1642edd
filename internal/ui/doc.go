// Package ui contains the Fyne-based progress window: a label showing the
// latest message, a separator, and a bounded progress bar advanced one step
// at a time. All methods must run on the Fyne main thread; callers on other
// goroutines go through fyne.Do.
package ui
