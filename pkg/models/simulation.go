package models

import (
	"errors"
	"fmt"

	"lux-resonans/internal/units"
)

// SimulationType selects the diffraction experiment.
type SimulationType string

const (
	SingleSlit SimulationType = "single_slit"
	DoubleSlit SimulationType = "double_slit"
)

// SimulationTypes lists the experiments in selector order.
var SimulationTypes = []SimulationType{SingleSlit, DoubleSlit}

// NeedsSeparation reports whether the slit separation is part of the request.
func (t SimulationType) NeedsSeparation() bool {
	return t == DoubleSlit
}

// ErrLengthMismatch is returned when positions and intensities differ in length.
var ErrLengthMismatch = errors.New("screen positions and intensity differ in length")

// SimulationRequest is the body of POST /calculate_pattern.
// The separation fields are only sent for double-slit experiments.
type SimulationRequest struct {
	SimulationType     SimulationType `json:"simulationType"`
	Wavelength         float64        `json:"wavelength"`
	WavelengthUnit     units.Unit     `json:"wavelengthUnit"`
	SlitWidth          float64        `json:"slitWidth"`
	SlitWidthUnit      units.Unit     `json:"slitWidthUnit"`
	SlitSeparation     *float64       `json:"slitSeparation,omitempty"`
	SlitSeparationUnit units.Unit     `json:"slitSeparationUnit,omitempty"`
	ScreenDistance     float64        `json:"screenDistance"`
	ScreenDistanceUnit units.Unit     `json:"screenDistanceUnit"`
}

// SimulationResult is the success body of POST /calculate_pattern.
type SimulationResult struct {
	ScreenPositionsMM []float64 `json:"screen_positions_mm"`
	Intensity         []float64 `json:"intensity"`
	PlotColor         string    `json:"plot_color"`
}

// Validate checks the 1:1 correspondence between positions and intensities.
func (r *SimulationResult) Validate() error {
	if len(r.ScreenPositionsMM) != len(r.Intensity) {
		return fmt.Errorf("%w: %d positions, %d intensities",
			ErrLengthMismatch, len(r.ScreenPositionsMM), len(r.Intensity))
	}
	return nil
}

// ErrorBody is the optional failure body of the calculation service.
type ErrorBody struct {
	Error string `json:"error,omitempty"`
}
