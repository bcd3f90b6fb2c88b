// Package simulation runs diffraction simulations: it validates the
// current parameters, asks the calculation service for a pattern and hands
// the outcome to the chart and the error surface.
package simulation

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"lux-resonans/internal/units"
	"lux-resonans/pkg/models"
)

var (
	// ErrIncomplete means a required field is not a finite number.
	ErrIncomplete = errors.New("numerical field not filled correctly")
	// ErrNonPositive means a required physical dimension is zero or negative.
	ErrNonPositive = errors.New("physical dimension not positive")
	// ErrUnknownType means the simulation type is not one we can request.
	ErrUnknownType = errors.New("unknown simulation type")
	// ErrSuperseded is returned by runs replaced by a newer run.
	ErrSuperseded = errors.New("superseded by a newer run")
)

// Messages shown for validation failures.
const (
	IncompleteMessage  = "Error: All numerical fields must be filled correctly."
	NonPositiveMessage = "Error: Physical dimensions (wavelength, widths, distances) must be positive."
)

// Parameters is what the operator has entered. Values are NaN where the
// text was not numeric.
type Parameters struct {
	Type           models.SimulationType
	Wavelength     units.Quantity
	SlitWidth      units.Quantity
	SlitSeparation units.Quantity
	ScreenDistance units.Quantity
}

type namedQuantity struct {
	name string
	q    units.Quantity
}

func (p Parameters) required() []namedQuantity {
	fields := []namedQuantity{
		{"wavelength", p.Wavelength},
		{"slit width", p.SlitWidth},
	}
	if p.Type.NeedsSeparation() {
		fields = append(fields, namedQuantity{"slit separation", p.SlitSeparation})
	}
	return append(fields, namedQuantity{"screen distance", p.ScreenDistance})
}

// Validate checks p and builds the request for it. Every required field
// is checked for a number before any is checked for sign, so a text
// error always wins over a sign error.
func Validate(p Parameters) (models.SimulationRequest, error) {
	if !slices.Contains(models.SimulationTypes, p.Type) {
		return models.SimulationRequest{}, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}

	fields := p.required()
	for _, f := range fields {
		if math.IsNaN(f.q.Value) || math.IsInf(f.q.Value, 0) {
			return models.SimulationRequest{}, fmt.Errorf("%w: %s", ErrIncomplete, f.name)
		}
	}
	for _, f := range fields {
		if f.q.Value <= 0 {
			return models.SimulationRequest{}, fmt.Errorf("%w: %s = %g", ErrNonPositive, f.name, f.q.Value)
		}
	}

	req := models.SimulationRequest{
		SimulationType:     p.Type,
		Wavelength:         p.Wavelength.Value,
		WavelengthUnit:     p.Wavelength.Unit,
		SlitWidth:          p.SlitWidth.Value,
		SlitWidthUnit:      p.SlitWidth.Unit,
		ScreenDistance:     p.ScreenDistance.Value,
		ScreenDistanceUnit: p.ScreenDistance.Unit,
	}
	if p.Type.NeedsSeparation() {
		req.SlitSeparation = models.Float(p.SlitSeparation.Value)
		req.SlitSeparationUnit = p.SlitSeparation.Unit
	}
	return req, nil
}

// Message is the text shown to the operator for a failed run.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrIncomplete):
		return IncompleteMessage
	case errors.Is(err, ErrNonPositive):
		return NonPositiveMessage
	default:
		return "Error: " + err.Error()
	}
}
