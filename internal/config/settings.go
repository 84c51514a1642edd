package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/logprogress/internal/model"
)

// Settings keys for Fyne preferences
const (
	KeyDefaultMaximum = "default_maximum"
	KeyWindowTitle    = "window_title"
	KeyWindowWidth    = "window_width"
)

// Default values and bounds
const (
	DefaultMaximum     = model.DefaultMaximum
	DefaultWindowTitle = "Progress"
	DefaultWindowWidth = 500

	MaxMaximum     = 10000
	MinWindowWidth = 500
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDefaultMaximum returns the step count used when none is given
func (s *Settings) GetDefaultMaximum() int {
	value := s.app.Preferences().Int(KeyDefaultMaximum)
	if value <= 0 {
		s.SetDefaultMaximum(DefaultMaximum)
		return DefaultMaximum
	}
	return value
}

// SetDefaultMaximum stores the default step count, clamped to [1, MaxMaximum]
func (s *Settings) SetDefaultMaximum(maximum int) {
	if maximum < 1 {
		maximum = 1
	}
	if maximum > MaxMaximum {
		maximum = MaxMaximum
	}
	s.app.Preferences().SetInt(KeyDefaultMaximum, maximum)
}

// GetWindowTitle returns the title used when none is given
func (s *Settings) GetWindowTitle() string {
	return s.app.Preferences().StringWithFallback(KeyWindowTitle, DefaultWindowTitle)
}

// SetWindowTitle stores the default title; empty restores DefaultWindowTitle
func (s *Settings) SetWindowTitle(title string) {
	if title == "" {
		title = DefaultWindowTitle
	}
	s.app.Preferences().SetString(KeyWindowTitle, title)
}

// GetWindowWidth returns the initial window width
func (s *Settings) GetWindowWidth() int {
	width := s.app.Preferences().Int(KeyWindowWidth)
	if width <= 0 {
		s.SetWindowWidth(DefaultWindowWidth)
		return DefaultWindowWidth
	}
	return width
}

// SetWindowWidth stores the initial window width, never below MinWindowWidth
func (s *Settings) SetWindowWidth(width int) {
	if width < MinWindowWidth {
		width = MinWindowWidth
	}
	s.app.Preferences().SetInt(KeyWindowWidth, width)
}
