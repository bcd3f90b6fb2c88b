// Package main provides the entry point for the Lux Resonans application.
package main

import (
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lux-resonans/internal/app"
	"lux-resonans/internal/config"
	"lux-resonans/internal/version"
	"lux-resonans/ui/mainwindow"
)

const appID = "io.github.lux-resonans"

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.Log.Level)

	log.Info().
		Str("version", version.Version).
		Str("commit", version.GitCommit).
		Str("env", cfg.Env).
		Str("calc_url", cfg.Calc.URL).
		Msg("Starting Lux Resonans")

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.LuxTheme{})

	state := app.NewState()
	win := mainwindow.NewWithClient(fyneApp, state, cfg)

	if cfg.RunOnStart {
		win.RunAsync()
	}

	win.ShowAndRun()
	log.Info().Msg("Lux Resonans stopped")
}
