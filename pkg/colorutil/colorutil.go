// Package colorutil provides shared color utilities for the lux-resonans application.
package colorutil

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Colors used by the chart when the calculation service sends none.
var (
	DefaultStroke = color.NRGBA{R: 0, G: 123, B: 255, A: 255}
	DefaultFill   = color.NRGBA{R: 0, G: 123, B: 255, A: 26} // rgba(0, 123, 255, 0.1)
	Neutral       = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

// ErrInvalidColor is returned when a CSS color string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Channel rounds a 0-255 channel value and clamps it into a byte.
func Channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// CSS formats c as "rgb(r, g, b)", or "rgba(r, g, b, a)" when it is not opaque.
func CSS(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 255 {
		return fmt.Sprintf("rgb(%d, %d, %d)", n.R, n.G, n.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", n.R, n.G, n.B,
		strconv.FormatFloat(float64(n.A)/255, 'f', -1, 64))
}

// ParseCSS parses a CSS color: "rgb(...)", "rgba(...)", hex or a named
// color. Channels are rounded to bytes.
func ParseCSS(s string) (color.NRGBA, error) {
	c, err := csscolorparser.Parse(strings.TrimSpace(s))
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	return color.NRGBA{
		R: Channel(c.R * 255),
		G: Channel(c.G * 255),
		B: Channel(c.B * 255),
		A: Channel(c.A * 255),
	}, nil
}
