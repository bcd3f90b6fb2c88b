package control

import (
	"fmt"
	"image/color"
	"math"

	"lux-resonans/internal/units"
)

// View receives the projections of a LinkedRange onto its widgets.
type View interface {
	SetField(text string)
	SetSlider(canonical float64)
	SetDisplay(text string)
	SetPreview(c color.Color)
}

// RangeConfig describes one bounded quantity.
type RangeConfig struct {
	Converter units.Converter
	// Min and Max bound the slider, in the canonical unit.
	Min, Max float64
	// Step quantizes the slider position the way the slider widget does.
	// Zero leaves it continuous.
	Step float64
	// Initial seeds the entry and the unit selector.
	Initial units.Quantity
	// Preview maps a canonical value to a swatch color. Optional.
	Preview func(canonical float64) color.Color
}

// LinkedRange synchronizes a numeric entry, a unit selector and a slider
// that all represent one canonical quantity, plus a read-only display and
// an optional color swatch.
//
// Edits from the entry or the unit selector move the slider but never
// rewrite the entry, so live typing is not fought. Edits from the slider
// rewrite the entry in the selected unit.
type LinkedRange struct {
	Field

	cfg      RangeConfig
	view     View
	fallback float64
	slider   float64
}

// NewLinkedRange builds the control and pushes the initial state to view.
// A nil view is allowed.
func NewLinkedRange(cfg RangeConfig, view View) *LinkedRange {
	if view == nil {
		view = nopView{}
	}
	lr := &LinkedRange{
		Field:    *NewField(cfg.Initial),
		cfg:      cfg,
		view:     view,
		fallback: cfg.Converter.ToCanonical(cfg.Initial.Value, cfg.Initial.Unit),
	}
	lr.view.SetField(lr.text)
	lr.sync()
	return lr
}

// SetFromField handles a keystroke in the entry.
func (lr *LinkedRange) SetFromField(text string) {
	lr.text = text
	lr.sync()
}

// SetText is an alias of SetFromField.
func (lr *LinkedRange) SetText(text string) { lr.SetFromField(text) }

// SetUnit handles a unit selector change. The entry text is kept and
// re-read in the new unit.
func (lr *LinkedRange) SetUnit(u units.Unit) {
	lr.unit = u
	lr.sync()
}

// SetFromSlider handles a slider move.
func (lr *LinkedRange) SetFromSlider(canonical float64) {
	lr.slider = lr.snap(lr.clamp(canonical))
	lr.project(lr.slider)
	lr.text = Format(lr.cfg.Converter.FromCanonical(lr.slider, lr.unit), lr.unit)
	lr.view.SetField(lr.text)
}

// Canonical returns the slider position in the canonical unit.
func (lr *LinkedRange) Canonical() float64 { return lr.slider }

// sync recomputes the slider from the entry and unit. Text that does not
// parse falls back to the initial value. The preview follows the typed
// value, not the quantized slider position.
func (lr *LinkedRange) sync() {
	v := units.Parse(lr.text)
	canonical := lr.fallback
	if !math.IsNaN(v) && v != 0 {
		canonical = lr.cfg.Converter.ToCanonical(v, lr.unit)
	}
	typed := lr.clamp(canonical)
	lr.slider = lr.snap(typed)
	lr.view.SetSlider(lr.slider)
	lr.project(typed)
}

func (lr *LinkedRange) project(preview float64) {
	lr.view.SetDisplay(fmt.Sprintf("%.0f %s", lr.slider, lr.cfg.Converter.Canonical))
	if lr.cfg.Preview != nil {
		lr.view.SetPreview(lr.cfg.Preview(preview))
	}
}

// snap rounds v to a multiple of Step, halves rounding down.
func (lr *LinkedRange) snap(v float64) float64 {
	if lr.cfg.Step <= 0 {
		return v
	}
	rem := math.Mod(v, lr.cfg.Step)
	if rem == 0 {
		return v
	}
	v -= rem
	if rem > lr.cfg.Step/2 {
		v += lr.cfg.Step
	}
	return lr.clamp(v)
}

func (lr *LinkedRange) clamp(v float64) float64 {
	if lr.cfg.Max <= lr.cfg.Min {
		return v
	}
	return math.Max(lr.cfg.Min, math.Min(lr.cfg.Max, v))
}

type nopView struct{}

func (nopView) SetField(string)        {}
func (nopView) SetSlider(float64)      {}
func (nopView) SetDisplay(string)      {}
func (nopView) SetPreview(color.Color) {}
