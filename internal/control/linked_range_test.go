package control

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"lux-resonans/internal/spectrum"
	"lux-resonans/internal/units"
)

// recordingView keeps the last projection of every widget.
type recordingView struct {
	field      string
	slider     float64
	display    string
	preview    color.Color
	fieldSets  int
	sliderSets int
}

func (v *recordingView) SetField(text string)     { v.field = text; v.fieldSets++ }
func (v *recordingView) SetSlider(c float64)      { v.slider = c; v.sliderSets++ }
func (v *recordingView) SetDisplay(text string)   { v.display = text }
func (v *recordingView) SetPreview(c color.Color) { v.preview = c }

func newWavelength(view View) *LinkedRange {
	return NewLinkedRange(RangeConfig{
		Converter: units.Wavelength,
		Min:       380,
		Max:       750,
		Initial:   units.Quantity{Value: 550, Unit: units.Nanometer},
		Preview: func(nm float64) color.Color {
			return spectrum.MapToColor(nm)
		},
	}, view)
}

func TestLinkedRangeInitialProjection(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)

	assert.Equal(t, "550", v.field)
	assert.Equal(t, 550.0, v.slider)
	assert.Equal(t, "550 nm", v.display)
	assert.Equal(t, spectrum.MapToColor(550), v.preview)
	assert.Equal(t, 550.0, lr.Canonical())
	assert.Equal(t, units.Nanometer, lr.Unit())
}

func TestFieldEditMovesSliderWithoutRewritingField(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)
	fieldSets := v.fieldSets

	lr.SetFromField("61")
	assert.Equal(t, 380.0, v.slider, "partial input clamps to min")
	assert.Equal(t, "380 nm", v.display)

	lr.SetFromField("610")
	assert.Equal(t, 610.0, v.slider)
	assert.Equal(t, "610 nm", v.display)
	assert.Equal(t, spectrum.MapToColor(610), v.preview)

	assert.Equal(t, fieldSets, v.fieldSets, "entry must never be rewritten while typing")
	assert.Equal(t, "610", lr.Text())
}

func TestFieldAboveMaxSaturates(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)

	lr.SetFromField("900")

	assert.Equal(t, 750.0, v.slider)
	assert.Equal(t, 750.0, lr.Canonical())
	assert.Equal(t, "750 nm", v.display)
	assert.Equal(t, spectrum.MapToColor(750), v.preview, "preview follows the clamped value")
	assert.Equal(t, "900", lr.Text(), "raw input stays in the entry")
	assert.Equal(t, 900.0, lr.Quantity().Value)
}

func TestFieldBelowMinSaturates(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)

	lr.SetFromField("-20")
	assert.Equal(t, 380.0, v.slider)
}

func TestUnparseableFieldFallsBackToInitial(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)
	lr.SetFromField("600")

	for _, text := range []string{"", "abc", "0"} {
		lr.SetFromField(text)
		assert.Equal(t, 550.0, v.slider, "text %q", text)
	}
	assert.Equal(t, "0", lr.Text())
}

func TestUnitSwitchReinterpretsField(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)

	lr.SetFromField("0.6")
	assert.Equal(t, 380.0, v.slider, "0.6 nm clamps to min")

	lr.SetUnit(units.Micrometer)
	assert.InDelta(t, 600.0, v.slider, 1e-9)
	assert.Equal(t, "600 nm", v.display)
	assert.Equal(t, "0.6", lr.Text())
	assert.Equal(t, units.Micrometer, lr.Unit())
}

func TestSliderRewritesFieldInSelectedUnit(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)

	lr.SetFromSlider(632.8)
	assert.Equal(t, "633", v.field)
	assert.Equal(t, "633 nm", v.display)
	assert.Equal(t, spectrum.MapToColor(632.8), v.preview)

	lr.SetUnit(units.Micrometer)
	lr.SetFromSlider(480)
	assert.Equal(t, "0.480", v.field)
	assert.Equal(t, "0.480", lr.Text())
	assert.Equal(t, "480 nm", v.display)
	assert.Equal(t, 480.0, lr.Canonical())
}

func TestSteppedSliderMatchesWidget(t *testing.T) {
	v := &recordingView{}
	lr := NewLinkedRange(RangeConfig{
		Converter: units.Wavelength,
		Min:       380,
		Max:       750,
		Step:      1,
		Initial:   units.Quantity{Value: 550, Unit: units.Nanometer},
		Preview: func(nm float64) color.Color {
			return spectrum.MapToColor(nm)
		},
	}, v)

	lr.SetFromField("632.8")
	assert.Equal(t, 633.0, v.slider)
	assert.Equal(t, 633.0, lr.Canonical())
	assert.Equal(t, "633 nm", v.display)
	assert.Equal(t, spectrum.MapToColor(632.8), v.preview)
	assert.Equal(t, "632.8", lr.Text())

	lr.SetFromField("612.5")
	assert.Equal(t, 612.0, lr.Canonical(), "halves round down")

	lr.SetFromSlider(749.9)
	assert.Equal(t, 750.0, lr.Canonical())
	assert.Equal(t, "750", v.field)
}

func TestSliderOutsideBoundsIsClamped(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)

	lr.SetFromSlider(1200)
	assert.Equal(t, 750.0, lr.Canonical())
	assert.Equal(t, "750", v.field)
}

func TestSliderThenFieldRoundTrip(t *testing.T) {
	v := &recordingView{}
	lr := newWavelength(v)
	lr.SetUnit(units.Micrometer)

	lr.SetFromSlider(512)
	lr.SetFromField(v.field)

	assert.InDelta(t, 512.0, v.slider, 1e-9)
}

func TestNilViewIsAllowed(t *testing.T) {
	lr := NewLinkedRange(RangeConfig{
		Converter: units.Wavelength,
		Min:       380,
		Max:       750,
		Initial:   units.Quantity{Value: 500, Unit: units.Nanometer},
	}, nil)

	lr.SetFromField("700")
	lr.SetFromSlider(400)
	assert.Equal(t, 400.0, lr.Canonical())
	assert.Equal(t, "400", lr.Text())
}

func TestUnboundedRangeDoesNotClamp(t *testing.T) {
	lr := NewLinkedRange(RangeConfig{
		Converter: units.Length,
		Initial:   units.Quantity{Value: 1, Unit: units.Meter},
	}, nil)

	lr.SetFromField("2500")
	lr.SetUnit(units.Millimeter)
	assert.InDelta(t, 2.5, lr.Canonical(), 1e-12)
}

func TestField(t *testing.T) {
	f := NewField(units.Quantity{Value: 10, Unit: units.Micrometer})
	assert.Equal(t, "10", f.Text())

	f.SetText("abc")
	assert.True(t, math.IsNaN(f.Quantity().Value))

	f.SetText("0.1")
	f.SetUnit(units.Millimeter)
	assert.Equal(t, units.Quantity{Value: 0.1, Unit: units.Millimeter}, f.Quantity())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "550", Format(549.6, units.Nanometer))
	assert.Equal(t, "0.550", Format(0.55, units.Micrometer))
	assert.Equal(t, "0.1", Format(0.1, units.Millimeter))
}
