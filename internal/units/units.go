// Package units converts length quantities between the units shown in the
// parameter panel and the canonical units the controls store.
package units

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unit is a length unit as it appears on the wire and in unit selectors.
type Unit string

const (
	Nanometer  Unit = "nm"
	Micrometer Unit = "µm" // U+00B5, the spelling the calculation service expects
	Millimeter Unit = "mm"
	Meter      Unit = "m"
)

// Selector contents per quantity.
var (
	WavelengthUnits = []Unit{Nanometer, Micrometer}
	SlitUnits       = []Unit{Nanometer, Micrometer, Millimeter}
	DistanceUnits   = []Unit{Millimeter, Meter}
)

// ErrUnknownUnit is returned by ParseUnit for unsupported spellings.
var ErrUnknownUnit = errors.New("unknown unit")

// exponent is the power of ten of each unit relative to the metre.
var exponent = map[Unit]int{
	Nanometer:  -9,
	Micrometer: -6,
	Millimeter: -3,
	Meter:      0,
}

// Quantity is a value paired with the unit it was entered in.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Converter maps values between a display unit and one canonical unit.
type Converter struct {
	Canonical Unit
}

var (
	// Wavelength stores nanometres.
	Wavelength = Converter{Canonical: Nanometer}
	// Length stores metres; used for slit width, slit separation and screen distance.
	Length = Converter{Canonical: Meter}
)

// ToCanonical converts value expressed in unit to the canonical unit.
// Unknown units pass through unchanged. NaN stays NaN.
func (c Converter) ToCanonical(value float64, unit Unit) float64 {
	return scale(value, shift(unit, c.Canonical))
}

// FromCanonical converts a canonical value into unit.
func (c Converter) FromCanonical(value float64, unit Unit) float64 {
	return scale(value, shift(c.Canonical, unit))
}

// shift is the decimal exponent taking a value in from to a value in to.
func shift(from, to Unit) int {
	ef, okf := exponent[from]
	et, okt := exponent[to]
	if !okf || !okt {
		return 0
	}
	return ef - et
}

// scale multiplies or divides by an exact power of ten so that a
// round trip through the same pair of units is lossless for typical inputs.
func scale(value float64, exp int) float64 {
	switch {
	case exp > 0:
		return value * math.Pow10(exp)
	case exp < 0:
		return value / math.Pow10(-exp)
	default:
		return value
	}
}

// ParseUnit accepts the selector spellings plus the ASCII and Greek-mu
// variants of micrometre.
func ParseUnit(s string) (Unit, error) {
	switch strings.TrimSpace(s) {
	case "nm":
		return Nanometer, nil
	case "µm", "μm", "um":
		return Micrometer, nil
	case "mm":
		return Millimeter, nil
	case "m":
		return Meter, nil
	}
	return "", ErrUnknownUnit
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Parse reads the longest leading decimal number of text, ignoring
// surrounding whitespace. Text with no numeric prefix yields NaN.
func Parse(text string) float64 {
	m := numericPrefix.FindString(strings.TrimSpace(text))
	if m == "" {
		return math.NaN()
	}
	// the prefix is always well formed; on overflow ParseFloat returns ±Inf
	v, _ := strconv.ParseFloat(m, 64)
	return v
}
