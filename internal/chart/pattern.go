package chart

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PatternChart owns the one chart bound to a surface. Every path that
// builds a chart destroys the previous one first.
type PatternChart struct {
	mu      sync.Mutex
	lib     Library
	surface Surface
	live    Handle
	logger  zerolog.Logger
}

// Option configures a PatternChart.
type Option func(*PatternChart)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *PatternChart) { c.logger = l }
}

// New returns an empty PatternChart drawing on surface through lib.
func New(lib Library, surface Surface, opts ...Option) *PatternChart {
	c := &PatternChart{lib: lib, surface: surface, logger: log.Logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render replaces the current chart with one built from the series. When
// the series or the library fail, the surface is left empty.
func (c *PatternChart) Render(positions, intensity []float64, plotColor string) error {
	cfg, cfgErr := BuildConfig(positions, intensity, plotColor)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.destroyLocked()
	if cfgErr != nil {
		return cfgErr
	}

	h, err := c.lib.Construct(c.surface, cfg)
	if err != nil {
		return fmt.Errorf("construct chart: %w", err)
	}
	c.live = h

	c.logger.Debug().
		Int("points", len(cfg.Series.X)).
		Str("stroke", cfg.Series.CSS).
		Msg("chart rendered")
	return nil
}

// Clear destroys the current chart, if any.
func (c *PatternChart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyLocked()
}

// Live reports whether a chart is currently bound to the surface.
func (c *PatternChart) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live != nil
}

func (c *PatternChart) destroyLocked() {
	if c.live == nil {
		return
	}
	c.lib.Destroy(c.live)
	c.live = nil
}
