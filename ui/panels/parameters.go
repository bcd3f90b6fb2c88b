// Package panels provides UI panels for the application.
package panels

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"lux-resonans/internal/app"
	"lux-resonans/internal/control"
	"lux-resonans/internal/simulation"
	"lux-resonans/internal/spectrum"
	"lux-resonans/internal/units"
	"lux-resonans/pkg/models"
)

// Defaults match what the calculation service assumes.
var (
	DefaultType           = models.DoubleSlit
	DefaultWavelength     = units.Quantity{Value: 550, Unit: units.Nanometer}
	DefaultSlitWidth      = units.Quantity{Value: 10, Unit: units.Micrometer}
	DefaultSlitSeparation = units.Quantity{Value: 50, Unit: units.Micrometer}
	DefaultScreenDistance = units.Quantity{Value: 1, Unit: units.Meter}
)

// ParametersPanel holds the experiment inputs. It is the controller's
// parameter source and error surface.
type ParametersPanel struct {
	state     *app.State
	container fyne.CanvasObject
	onRun     func()

	// mu guards the controls below; Snapshot is called off the UI goroutine.
	mu             sync.Mutex
	simType        models.SimulationType
	wavelength     *control.LinkedRange
	slitWidth      *control.Field
	slitSeparation *control.Field
	screenDistance *control.Field

	// syncing is set while the panel itself writes to widgets, so the
	// resulting OnChanged callbacks are ignored.
	syncing bool

	typeSelect    *widget.Select
	wlEntry       *widget.Entry
	wlUnit        *widget.Select
	wlSlider      *widget.Slider
	wlDisplay     *widget.Label
	wlSwatch      *canvas.Rectangle
	separationRow *fyne.Container
	errorLabel    *widget.Label
	runButton     *widget.Button
}

var (
	_ simulation.ParameterSource = (*ParametersPanel)(nil)
	_ simulation.ErrorSurface    = (*ParametersPanel)(nil)
)

// NewParametersPanel creates the panel with the wavelength slider bounded
// to [minNM, maxNM].
func NewParametersPanel(state *app.State, minNM, maxNM float64) *ParametersPanel {
	p := &ParametersPanel{
		state:   state,
		simType: DefaultType,
	}

	// Widgets first; the wavelength control projects onto them as soon as
	// it is built.
	p.wlEntry = widget.NewEntry()
	p.wlUnit = widget.NewSelect(unitNames(units.WavelengthUnits), nil)
	p.wlUnit.Selected = string(DefaultWavelength.Unit)
	p.wlSlider = widget.NewSlider(minNM, maxNM)
	p.wlSlider.Step = 1
	p.wlDisplay = widget.NewLabel("")
	p.wlSwatch = canvas.NewRectangle(color.Transparent)
	p.wlSwatch.SetMinSize(fyne.NewSize(48, 24))
	p.wlSwatch.CornerRadius = 4

	p.syncing = true
	p.wavelength = control.NewLinkedRange(control.RangeConfig{
		Converter: units.Wavelength,
		Min:       minNM,
		Max:       maxNM,
		Step:      p.wlSlider.Step,
		Initial:   DefaultWavelength,
		Preview: func(nm float64) color.Color {
			return spectrum.MapToColor(nm)
		},
	}, wavelengthView{p})
	p.syncing = false

	p.wlEntry.OnChanged = func(text string) {
		p.edit(func() { p.wavelength.SetFromField(text) })
	}
	p.wlUnit.OnChanged = func(s string) {
		if u, ok := p.parseUnit(s); ok {
			p.edit(func() { p.wavelength.SetUnit(u) })
		}
	}
	p.wlSlider.OnChanged = p.onSlider

	p.slitWidth = control.NewField(DefaultSlitWidth)
	p.slitSeparation = control.NewField(DefaultSlitSeparation)
	p.screenDistance = control.NewField(DefaultScreenDistance)

	p.typeSelect = widget.NewSelect(typeNames(), nil)
	p.typeSelect.Selected = string(p.simType)
	p.typeSelect.OnChanged = func(s string) {
		p.edit(func() { p.simType = models.SimulationType(s) })
		p.updateSeparationRow()
	}

	p.errorLabel = widget.NewLabel("")
	p.errorLabel.Wrapping = fyne.TextWrapWord
	p.errorLabel.Importance = widget.DangerImportance
	p.errorLabel.Hide()

	p.runButton = widget.NewButton("Run Simulation", func() {
		if p.onRun != nil {
			p.onRun()
		}
	})
	p.runButton.Importance = widget.HighImportance

	p.separationRow = p.fieldRow("Slit Separation:", p.slitSeparation, units.SlitUnits)

	p.container = container.NewVBox(
		widget.NewCard("Experiment", "", container.NewVBox(
			widget.NewLabel("Simulation Type:"),
			p.typeSelect,
		)),
		widget.NewCard("Light Source", "", container.NewVBox(
			widget.NewLabel("Wavelength:"),
			container.NewBorder(nil, nil, nil, p.wlUnit, p.wlEntry),
			p.wlSlider,
			container.NewHBox(p.wlSwatch, p.wlDisplay),
		)),
		widget.NewCard("Geometry", "", container.NewVBox(
			p.fieldRow("Slit Width:", p.slitWidth, units.SlitUnits),
			p.separationRow,
			p.fieldRow("Screen Distance:", p.screenDistance, units.DistanceUnits),
		)),
		p.runButton,
		p.errorLabel,
	)

	p.updateSeparationRow()
	return p
}

// Container returns the panel container.
func (p *ParametersPanel) Container() fyne.CanvasObject {
	return p.container
}

// SetOnRun sets the action behind the run button.
func (p *ParametersPanel) SetOnRun(fn func()) {
	p.onRun = fn
}

// Snapshot implements simulation.ParameterSource.
func (p *ParametersPanel) Snapshot() simulation.Parameters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return simulation.Parameters{
		Type:           p.simType,
		Wavelength:     p.wavelength.Quantity(),
		SlitWidth:      p.slitWidth.Quantity(),
		SlitSeparation: p.slitSeparation.Quantity(),
		ScreenDistance: p.screenDistance.Quantity(),
	}
}

// SetError implements simulation.ErrorSurface.
func (p *ParametersPanel) SetError(text string) {
	p.errorLabel.SetText(text)
	if text == "" {
		p.errorLabel.Hide()
	} else {
		p.errorLabel.Show()
	}
}

// ErrorText returns the error line currently shown.
func (p *ParametersPanel) ErrorText() string {
	return p.errorLabel.Text
}

func (p *ParametersPanel) onSlider(v float64) {
	p.edit(func() { p.wavelength.SetFromSlider(v) })
}

// edit applies a user change and announces it. Changes the panel makes to
// its own widgets while syncing are dropped.
func (p *ParametersPanel) edit(fn func()) {
	if p.syncing {
		return
	}
	p.mu.Lock()
	p.syncing = true
	fn()
	p.syncing = false
	p.mu.Unlock()

	if p.state != nil {
		p.state.Emit(app.EventParametersChanged, nil)
	}
}

func (p *ParametersPanel) updateSeparationRow() {
	p.mu.Lock()
	show := p.simType.NeedsSeparation()
	p.mu.Unlock()

	if show {
		p.separationRow.Show()
	} else {
		p.separationRow.Hide()
	}
}

// fieldRow lays out an entry and unit selector bound to f.
func (p *ParametersPanel) fieldRow(label string, f *control.Field, choices []units.Unit) *fyne.Container {
	entry := widget.NewEntry()
	entry.SetText(f.Text())
	entry.OnChanged = func(text string) {
		p.edit(func() { f.SetText(text) })
	}

	unit := widget.NewSelect(unitNames(choices), nil)
	unit.Selected = string(f.Unit())
	unit.OnChanged = func(s string) {
		if u, ok := p.parseUnit(s); ok {
			p.edit(func() { f.SetUnit(u) })
		}
	}

	return container.NewVBox(
		widget.NewLabel(label),
		container.NewBorder(nil, nil, nil, unit, entry),
	)
}

func (p *ParametersPanel) parseUnit(s string) (units.Unit, bool) {
	u, err := units.ParseUnit(s)
	if err != nil {
		log.Warn().Err(err).Str("unit", s).Msg("ignoring unit selection")
		return "", false
	}
	return u, true
}

// wavelengthView projects the wavelength control onto the panel widgets.
type wavelengthView struct {
	p *ParametersPanel
}

func (v wavelengthView) SetField(text string) { v.p.wlEntry.SetText(text) }

func (v wavelengthView) SetSlider(nm float64) { v.p.wlSlider.SetValue(nm) }

func (v wavelengthView) SetDisplay(text string) { v.p.wlDisplay.SetText(text) }

func (v wavelengthView) SetPreview(c color.Color) {
	v.p.wlSwatch.FillColor = c
	v.p.wlSwatch.Refresh()
}

func unitNames(us []units.Unit) []string {
	names := make([]string, len(us))
	for i, u := range us {
		names[i] = string(u)
	}
	return names
}

func typeNames() []string {
	names := make([]string, len(models.SimulationTypes))
	for i, t := range models.SimulationTypes {
		names[i] = string(t)
	}
	return names
}
