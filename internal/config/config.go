// Package config loads application settings from the environment, an
// optional .env.<env> file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env        string
	Calc       CalcConfig
	Wavelength WavelengthConfig
	Chart      ChartConfig
	Log        LogConfig
	RunOnStart bool
}

// CalcConfig describes the remote calculation service
type CalcConfig struct {
	URL     string
	Timeout time.Duration
}

// WavelengthConfig bounds the wavelength slider, in nanometres
type WavelengthConfig struct {
	MinNM float64
	MaxNM float64
}

// ChartConfig is the pixel size the chart is rendered at
type ChartConfig struct {
	Width  int
	Height int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level zerolog.Level
}

var (
	ErrWavelengthBounds = errors.New("wavelength min must be below max")
	ErrChartSize        = errors.New("chart size must be positive")
	ErrTimeout          = errors.New("calculation timeout must be positive")
)

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	return load(viper.New())
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"calc-url":  "CALC_SERVICE_URL",
	"timeout":   "CALC_TIMEOUT",
	"log-level": "LOG_LEVEL",
	"env":       "ENVIRONMENT",
}

// LoadFlags is Load with the flags of fs that appear in flagKeys taking
// precedence over the environment when they are set.
func LoadFlags(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("CALC_SERVICE_URL", "http://localhost:5000")
	v.SetDefault("CALC_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("WAVELENGTH_MIN_NM", 380)
	v.SetDefault("WAVELENGTH_MAX_NM", 750)
	v.SetDefault("RUN_ON_START", true)
	v.SetDefault("CHART_WIDTH", 900)
	v.SetDefault("CHART_HEIGHT", 420)

	v.AutomaticEnv()
	for _, key := range []string{
		"CALC_SERVICE_URL", "CALC_TIMEOUT", "LOG_LEVEL", "ENVIRONMENT",
		"WAVELENGTH_MIN_NM", "WAVELENGTH_MAX_NM", "RUN_ON_START",
		"CHART_WIDTH", "CHART_HEIGHT",
	} {
		_ = v.BindEnv(key)
	}

	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	// Read .env file for the environment (ignore error if file doesn't exist);
	// environment variables still win over its values
	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	level, err := zerolog.ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Env: env,
		Calc: CalcConfig{
			URL:     v.GetString("CALC_SERVICE_URL"),
			Timeout: v.GetDuration("CALC_TIMEOUT"),
		},
		Wavelength: WavelengthConfig{
			MinNM: v.GetFloat64("WAVELENGTH_MIN_NM"),
			MaxNM: v.GetFloat64("WAVELENGTH_MAX_NM"),
		},
		Chart: ChartConfig{
			Width:  v.GetInt("CHART_WIDTH"),
			Height: v.GetInt("CHART_HEIGHT"),
		},
		Log:        LogConfig{Level: level},
		RunOnStart: v.GetBool("RUN_ON_START"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("env", cfg.Env).
		Str("calc_url", cfg.Calc.URL).
		Dur("calc_timeout", cfg.Calc.Timeout).
		Float64("wavelength_min_nm", cfg.Wavelength.MinNM).
		Float64("wavelength_max_nm", cfg.Wavelength.MaxNM).
		Msg("configuration loaded")

	return cfg, nil
}

// Validate rejects settings the UI cannot work with
func (c *Config) Validate() error {
	if c.Wavelength.MinNM >= c.Wavelength.MaxNM {
		return fmt.Errorf("%w: %v >= %v", ErrWavelengthBounds, c.Wavelength.MinNM, c.Wavelength.MaxNM)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrChartSize, c.Chart.Width, c.Chart.Height)
	}
	if c.Calc.Timeout <= 0 {
		return fmt.Errorf("%w: %v", ErrTimeout, c.Calc.Timeout)
	}
	return nil
}
