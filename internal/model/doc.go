// Package model defines the progress state shared by the window and console
// targets: a bounded step counter that wraps back to 1 once it passes its
// maximum instead of saturating.
package model
