// Package control keeps the redundant widgets that edit one physical
// quantity consistent with each other.
//
// The types here hold no widgets. Widgets push edits in through the Set*
// methods and receive projections back through a View.
package control

import (
	"strconv"

	"lux-resonans/internal/units"
)

// Field is a numeric text entry paired with a unit selector.
type Field struct {
	text string
	unit units.Unit
}

// NewField returns a field showing initial in its own unit.
func NewField(initial units.Quantity) *Field {
	return &Field{text: strconv.FormatFloat(initial.Value, 'g', -1, 64), unit: initial.Unit}
}

// SetText records the entry contents exactly as typed.
func (f *Field) SetText(text string) { f.text = text }

// SetUnit records the selected unit.
func (f *Field) SetUnit(u units.Unit) { f.unit = u }

// Text returns the entry contents.
func (f *Field) Text() string { return f.text }

// Unit returns the selected unit.
func (f *Field) Unit() units.Unit { return f.unit }

// Quantity parses the entry. Value is NaN when the text is not numeric.
func (f *Field) Quantity() units.Quantity {
	return units.Quantity{Value: units.Parse(f.text), Unit: f.unit}
}

// Format renders v for an entry showing unit u: whole nanometres,
// micrometres to three decimals, anything else in shortest form.
func Format(v float64, u units.Unit) string {
	switch u {
	case units.Nanometer:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case units.Micrometer:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}
