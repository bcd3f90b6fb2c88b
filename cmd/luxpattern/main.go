// Command luxpattern requests one diffraction pattern from the calculation
// service and prints it, without starting the GUI.
//
// Usage: luxpattern [--type single_slit|double_slit] [--wavelength 550 --wavelength-unit nm] ...
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"lux-resonans/internal/calc"
	"lux-resonans/internal/config"
	"lux-resonans/internal/simulation"
	"lux-resonans/internal/units"
	"lux-resonans/pkg/models"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()

	fs := pflag.NewFlagSet("luxpattern", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	simType := fs.String("type", string(models.SingleSlit), "single_slit or double_slit")
	wavelength := fs.String("wavelength", "550", "wavelength")
	wavelengthUnit := fs.String("wavelength-unit", "nm", "nm or µm")
	slitWidth := fs.String("slit-width", "10", "slit width")
	slitWidthUnit := fs.String("slit-width-unit", "µm", "nm, µm or mm")
	separation := fs.String("slit-separation", "50", "slit separation (double_slit only)")
	separationUnit := fs.String("slit-separation-unit", "µm", "nm, µm or mm")
	distance := fs.String("screen-distance", "1", "screen distance")
	distanceUnit := fs.String("screen-distance-unit", "m", "mm or m")
	asJSON := fs.Bool("json", false, "print the raw result as JSON")
	plot := fs.Bool("plot", false, "draw the intensity curve in the terminal")
	fs.String("calc-url", "", "calculation service URL (overrides CALC_SERVICE_URL)")
	fs.Duration("timeout", 0, "request timeout (overrides CALC_TIMEOUT)")
	fs.String("log-level", "", "log level (overrides LOG_LEVEL)")
	fs.String("env", "", "environment name selecting .env.<env> (overrides ENVIRONMENT)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.LoadFlags(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitFailure
	}
	logger = logger.Level(cfg.Log.Level)

	params := simulation.Parameters{
		Type:           models.SimulationType(*simType),
		Wavelength:     quantity(*wavelength, *wavelengthUnit),
		SlitWidth:      quantity(*slitWidth, *slitWidthUnit),
		SlitSeparation: quantity(*separation, *separationUnit),
		ScreenDistance: quantity(*distance, *distanceUnit),
	}

	req, err := simulation.Validate(params)
	if err != nil {
		fmt.Fprintln(stderr, simulation.Message(err))
		return exitUsage
	}

	client := calc.NewClient(cfg.Calc.URL,
		calc.WithTimeout(cfg.Calc.Timeout),
		calc.WithLogger(logger),
	)
	res, err := client.Calculate(context.Background(), req)
	if err != nil {
		fmt.Fprintln(stderr, simulation.Message(err))
		return exitFailure
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "Failed to encode result: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	fmt.Fprintf(stdout, "=== %s, %d points, colour %s ===\n", req.SimulationType, len(res.ScreenPositionsMM), res.PlotColor)
	if *plot && len(res.Intensity) > 0 {
		fmt.Fprintln(stdout, asciigraph.Plot(res.Intensity,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("Relative Light Intensity")))
		return exitOK
	}

	table := tablewriter.NewWriter(stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Position (mm)", "Intensity"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, x := range res.ScreenPositionsMM {
		table.Append([]string{fmt.Sprintf("%.2f", x), fmt.Sprintf("%.4f", res.Intensity[i])})
	}
	table.Render()
	return exitOK
}

// quantity parses a flag pair the same way the parameter panel reads its
// entries. Unknown unit spellings are passed on for the service to reject.
func quantity(text, unit string) units.Quantity {
	u, err := units.ParseUnit(unit)
	if err != nil {
		u = units.Unit(unit)
	}
	return units.Quantity{Value: units.Parse(text), Unit: u}
}
