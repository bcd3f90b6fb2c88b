// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"

	"lux-resonans/internal/app"
	"lux-resonans/internal/calc"
	"lux-resonans/internal/chart"
	"lux-resonans/internal/config"
	"lux-resonans/internal/simulation"
	"lux-resonans/internal/version"
	"lux-resonans/pkg/models"
	"lux-resonans/ui/chartview"
	"lux-resonans/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	cfg    *config.Config
	ctx    context.Context
	cancel context.CancelFunc

	params     *panels.ParametersPanel
	surface    *chartview.Surface
	chart      *chart.PatternChart
	controller *simulation.Controller
	statusBar  *widget.Label
}

// New creates a new main window. calculator is usually a *calc.Client.
func New(fyneApp fyne.App, state *app.State, cfg *config.Config, calculator simulation.Calculator) *MainWindow {
	win := fyneApp.NewWindow(fmt.Sprintf("Lux Resonans v%s", version.Version))

	ctx, cancel := context.WithCancel(context.Background())
	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	mw.controller = simulation.NewController(calculator, mw.params, mw.chart, mw.params,
		simulation.WithState(state),
		simulation.WithLogger(log.With().Str("component", "controller").Logger()),
	)

	win.SetOnClosed(cancel)
	win.Resize(fyne.NewSize(float32(cfg.Chart.Width)+360, float32(cfg.Chart.Height)+200))
	return mw
}

// NewWithClient creates the window wired to the calculation service named
// in cfg.
func NewWithClient(fyneApp fyne.App, state *app.State, cfg *config.Config) *MainWindow {
	client := calc.NewClient(cfg.Calc.URL,
		calc.WithTimeout(cfg.Calc.Timeout),
		calc.WithLogger(log.With().Str("component", "calc").Logger()),
	)
	return New(fyneApp, state, cfg, client)
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.params = panels.NewParametersPanel(mw.state, mw.cfg.Wavelength.MinNM, mw.cfg.Wavelength.MaxNM)
	mw.params.SetOnRun(mw.RunAsync)

	mw.surface = chartview.NewSurface(mw.cfg.Chart.Width, mw.cfg.Chart.Height)
	lib := chartview.NewLibrary(log.With().Str("component", "chartview").Logger())
	mw.chart = chart.New(lib, mw.surface,
		chart.WithLogger(log.With().Str("component", "chart").Logger()))

	mw.statusBar = widget.NewLabel("Ready")

	// Main layout: parameters | chart
	split := container.NewHSplit(
		container.NewVScroll(mw.params.Container()),
		mw.surface,
	)
	split.SetOffset(0.3)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	runItem := fyne.NewMenuItem("Run", mw.RunAsync)
	runItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}

	clearItem := fyne.NewMenuItem("Clear Chart", mw.ClearChart)

	simMenu := fyne.NewMenu("Simulation",
		runItem,
		clearItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(simMenu, helpMenu))
	mw.Canvas().AddShortcut(runItem.Shortcut, func(fyne.Shortcut) { mw.RunAsync() })
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventRunStarted, func(data interface{}) {
		if req, ok := data.(models.SimulationRequest); ok {
			mw.updateStatus(fmt.Sprintf("Running %s simulation...", req.SimulationType))
		}
	})

	mw.state.On(app.EventRunSucceeded, func(data interface{}) {
		runs, _, _, points := mw.state.Snapshot()
		mw.updateStatus(fmt.Sprintf("Pattern: %d points (run %d)", points, runs))
	})

	mw.state.On(app.EventRunFailed, func(data interface{}) {
		_, _, lastErr, _ := mw.state.Snapshot()
		mw.updateStatus("Failed: " + lastErr)
	})

	mw.state.On(app.EventParametersChanged, func(data interface{}) {
		_, inFlight, _, _ := mw.state.Snapshot()
		if inFlight == 0 {
			mw.updateStatus("Parameters changed; run to update the pattern")
		}
	})
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// Run runs one simulation and blocks until it settles.
func (mw *MainWindow) Run() error {
	return mw.controller.Run(mw.ctx)
}

// RunAsync starts a simulation without blocking the caller. A run that is
// still in flight is superseded.
func (mw *MainWindow) RunAsync() {
	go func() {
		err := mw.Run()
		if err != nil && !simulation.IsSuperseded(err) {
			log.Debug().Err(err).Msg("run finished with error")
		}
	}()
}

// ClearChart tears down the chart and hides the error line.
func (mw *MainWindow) ClearChart() {
	mw.chart.Clear()
	mw.params.SetError("")
	mw.updateStatus("Chart cleared")
}

// Chart exposes the chart owner, mainly for tests.
func (mw *MainWindow) Chart() *chart.PatternChart {
	return mw.chart
}

// Parameters exposes the parameter panel, mainly for tests.
func (mw *MainWindow) Parameters() *panels.ParametersPanel {
	return mw.params
}

// Status returns the status bar text.
func (mw *MainWindow) Status() string {
	return mw.statusBar.Text
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Lux Resonans",
		fmt.Sprintf("Lux Resonans v%s\n\n"+
			"Single- and double-slit diffraction explorer.\n\n"+
			"Calculation service: %s\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, mw.cfg.Calc.URL, version.BuildTime, version.GitCommit),
		mw.Window)
}
