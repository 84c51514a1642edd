package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Window defaults
const (
	DefaultTitle = "Progress"
)

// Text fragments
const (
	ProgressTextFormat = "%d / %d"
)

// Layout sizing
const (
	LabelMinHeight float32 = 30
	BarMinHeight   float32 = 50
	BarMinWidth    float32 = 500
)
