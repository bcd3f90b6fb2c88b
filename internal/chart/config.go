// Package chart owns the single intensity chart shown to the user. The
// drawing itself is delegated to a Library; this package decides what is
// drawn and makes sure at most one chart is bound to the surface.
package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"

	"lux-resonans/pkg/colorutil"
)

// Axis and dataset captions.
const (
	XTitle       = "Position on Screen (mm from center)"
	YTitle       = "Relative Intensity (Arbitrary Units)"
	DatasetLabel = "Relative Light Intensity"
)

// Fixed intensity scale so runs stay visually comparable.
const (
	YMin = 0.0
	YMax = 1.05
)

// Tick thinning kicks in above ThinAbove points and aims for about
// TargetTicks labels.
const (
	ThinAbove   = 50
	TargetTicks = 20
)

// DefaultStrokeCSS is used when the service sends no plot colour.
const DefaultStrokeCSS = "rgba(0, 123, 255, 1)"

var (
	ErrSeriesLength  = errors.New("positions and intensity differ in length")
	ErrInvalidSeries = errors.New("screen positions contain NaN")
)

// Surface is where a chart is drawn.
type Surface interface {
	Dimensions() (w, h int)
}

// Handle is the opaque value a Library returns for a live chart.
type Handle any

// Library draws charts. Construct binds a new chart to the surface; Destroy
// releases it. Destroy must tolerate handles it no longer knows.
type Library interface {
	Construct(s Surface, cfg Config) (Handle, error)
	Destroy(h Handle)
}

// Series is one plotted line.
type Series struct {
	Label string
	X, Y  []float64
	// CSS is the stroke colour as it was requested.
	CSS    string
	Stroke color.NRGBA
	// Fill tints the legend box. The area under the line is never shaded.
	Fill color.NRGBA
}

// Axis describes one chart axis. Fixed axes use Min and Max verbatim.
type Axis struct {
	Title    string
	Min, Max float64
	Fixed    bool
}

// Config is everything a Library needs to draw the pattern. The callbacks
// are called synchronously by the library while it renders.
type Config struct {
	Series Series
	X, Y   Axis

	TickLabel    func(index int) (string, bool)
	TooltipTitle func(index int) string
	TooltipLabel func(index int) string
}

// TickLabel returns the x-axis label for point i of positions, and false
// when the label is thinned out.
func TickLabel(positions []float64, i int) (string, bool) {
	n := len(positions)
	if i < 0 || i >= n {
		return "", false
	}
	if n > ThinAbove {
		step := n / TargetTicks
		if i != 0 && i != n-1 && i%step != 0 {
			return "", false
		}
	}
	return fmt.Sprintf("%.1f", positions[i]), true
}

// TooltipTitle formats a screen position for the hover box.
func TooltipTitle(position float64) string {
	return fmt.Sprintf("Position: %.2f mm", position)
}

// TooltipLabel formats an intensity for the hover box.
func TooltipLabel(intensity float64) string {
	return fmt.Sprintf("%s: %.4f", DatasetLabel, intensity)
}

// BuildConfig turns a calculation result into a chart configuration. An
// empty or unparseable plotColor selects the default stroke.
func BuildConfig(positions, intensity []float64, plotColor string) (Config, error) {
	if len(positions) != len(intensity) {
		return Config{}, fmt.Errorf("%w: %d positions, %d intensities",
			ErrSeriesLength, len(positions), len(intensity))
	}
	if floats.HasNaN(positions) {
		return Config{}, ErrInvalidSeries
	}

	xs := append([]float64(nil), positions...)
	ys := append([]float64(nil), intensity...)

	css, stroke := DefaultStrokeCSS, colorutil.DefaultStroke
	if plotColor != "" {
		if c, err := colorutil.ParseCSS(plotColor); err == nil {
			css, stroke = plotColor, c
		}
	}

	x := Axis{Title: XTitle}
	if len(xs) > 0 {
		x.Min, x.Max = floats.Min(xs), floats.Max(xs)
	}

	return Config{
		Series: Series{
			Label:  DatasetLabel,
			X:      xs,
			Y:      ys,
			CSS:    css,
			Stroke: stroke,
			Fill:   colorutil.DefaultFill,
		},
		X: x,
		Y: Axis{Title: YTitle, Min: YMin, Max: YMax, Fixed: true},
		TickLabel: func(i int) (string, bool) {
			return TickLabel(xs, i)
		},
		TooltipTitle: func(i int) string {
			if i < 0 || i >= len(xs) {
				return ""
			}
			return TooltipTitle(xs[i])
		},
		TooltipLabel: func(i int) string {
			if i < 0 || i >= len(ys) {
				return ""
			}
			return TooltipLabel(ys[i])
		},
	}, nil
}
