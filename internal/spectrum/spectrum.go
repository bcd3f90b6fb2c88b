// Package spectrum approximates the perceived color of visible light.
package spectrum

import (
	"image/color"

	"lux-resonans/pkg/colorutil"
)

// Band edges in nanometres. Every band is half-open [lo, hi).
const (
	VioletStart = 380.0
	BlueStart   = 440.0
	CyanStart   = 490.0
	GreenStart  = 510.0
	YellowStart = 580.0
	RedStart    = 645.0
	VisibleEnd  = 750.0
)

// MapToColor returns the color of light with wavelength nm. Outside
// [VioletStart, VisibleEnd), and for NaN, it returns colorutil.Neutral.
func MapToColor(nm float64) color.NRGBA {
	switch {
	case nm >= VioletStart && nm < BlueStart:
		return rgb((BlueStart-nm)*255/(BlueStart-VioletStart), 0, 255)
	case nm >= BlueStart && nm < CyanStart:
		return rgb(0, (nm-BlueStart)*255/(CyanStart-BlueStart), 255)
	case nm >= CyanStart && nm < GreenStart:
		return rgb(0, 255, (GreenStart-nm)*255/(GreenStart-CyanStart))
	case nm >= GreenStart && nm < YellowStart:
		return rgb((nm-GreenStart)*255/(YellowStart-GreenStart), 255, 0)
	case nm >= YellowStart && nm < RedStart:
		return rgb(255, (RedStart-nm)*255/(RedStart-YellowStart), 0)
	case nm >= RedStart && nm < VisibleEnd:
		return rgb(255, 0, 0)
	}
	return colorutil.Neutral
}

// CSS is MapToColor formatted as an "rgb(r, g, b)" string.
func CSS(nm float64) string {
	return colorutil.CSS(MapToColor(nm))
}

func rgb(r, g, b float64) color.NRGBA {
	return color.NRGBA{R: colorutil.Channel(r), G: colorutil.Channel(g), B: colorutil.Channel(b), A: 255}
}
