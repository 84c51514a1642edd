package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme trims padding and text sizes so the progress window stays small
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255} // bar fill
	case theme.ColorNameSeparator:
		if variant == theme.VariantDark {
			return color.RGBA{R: 66, G: 66, B: 66, A: 255}
		}
		return color.RGBA{R: 189, G: 189, B: 189, A: 255}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return color.RGBA{R: 18, G: 18, B: 18, A: 255}
		}
		return color.RGBA{R: 250, G: 250, B: 250, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameSeparatorThickness:
		return 1
	}

	return theme.DefaultTheme().Size(name)
}
