package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LuxTheme provides a custom theme for the application.
type LuxTheme struct{}

var _ fyne.Theme = (*LuxTheme)(nil)

func (t *LuxTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x00, G: 0x7B, B: 0xFF, A: 0xFF} // Same blue as the default chart stroke
	case theme.ColorNameError:
		return color.NRGBA{R: 0xD3, G: 0x2F, B: 0x2F, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x00, G: 0x7B, B: 0xFF, A: 0x40}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *LuxTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *LuxTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *LuxTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameSeparatorThickness:
		return 2
	default:
		return theme.DefaultTheme().Size(name)
	}
}
