package simulation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lux-resonans/internal/app"
	"lux-resonans/pkg/models"
)

// Calculator computes an intensity pattern.
type Calculator interface {
	Calculate(ctx context.Context, req models.SimulationRequest) (*models.SimulationResult, error)
}

// ParameterSource reports the parameters currently entered.
type ParameterSource interface {
	Snapshot() Parameters
}

// Renderer shows or removes the pattern chart.
type Renderer interface {
	Render(positions, intensity []float64, plotColor string) error
	Clear()
}

// ErrorSurface shows one error line; "" hides it.
type ErrorSurface interface {
	SetError(text string)
}

// Controller runs simulations. Runs may overlap: starting a run cancels
// the one in flight, and only the most recent run may change what the
// operator sees.
type Controller struct {
	calc   Calculator
	params ParameterSource
	chart  Renderer
	errs   ErrorSurface
	state  *app.State
	logger zerolog.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithState reports run lifecycle events to s.
func WithState(s *app.State) Option {
	return func(c *Controller) { c.state = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController wires a controller to its collaborators.
func NewController(calc Calculator, params ParameterSource, chart Renderer, errs ErrorSurface, opts ...Option) *Controller {
	c := &Controller{
		calc:   calc,
		params: params,
		chart:  chart,
		errs:   errs,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run validates the current parameters, requests the pattern and shows
// the result or the error. It returns ErrSuperseded when a newer run
// started before this one finished; such a run changes nothing on screen.
func (c *Controller) Run(ctx context.Context) error {
	ctx, gen := c.begin(ctx)
	defer c.finish(gen)

	logger := c.logger.With().Uint64("run_id", gen).Logger()

	var req models.SimulationRequest
	var verr error
	if !c.settle(gen, func() {
		c.errs.SetError("")
		req, verr = Validate(c.params.Snapshot())
		if verr != nil {
			c.errs.SetError(Message(verr))
		}
	}) {
		return c.superseded(logger, false)
	}
	if verr != nil {
		logger.Debug().Err(verr).Msg("parameters rejected")
		if c.state != nil {
			c.state.RunFailed(Message(verr), false, verr)
		}
		return verr
	}

	logger = logger.With().Str("simulation_type", string(req.SimulationType)).Logger()
	if c.state != nil {
		c.state.RunStarted(req)
	}

	start := time.Now()
	res, err := c.calc.Calculate(ctx, req)

	var rerr error
	if !c.settle(gen, func() {
		if err != nil {
			c.errs.SetError(Message(err))
			c.chart.Clear()
			return
		}
		if rerr = c.chart.Render(res.ScreenPositionsMM, res.Intensity, res.PlotColor); rerr != nil {
			c.errs.SetError(Message(rerr))
			c.chart.Clear()
		}
	}) {
		return c.superseded(logger, true)
	}

	if err == nil {
		err = rerr
	}
	if err != nil {
		logger.Warn().Err(err).Dur("latency", time.Since(start)).Msg("simulation failed")
		if c.state != nil {
			c.state.RunFailed(Message(err), true, err)
		}
		return err
	}

	logger.Info().
		Int("points", len(res.ScreenPositionsMM)).
		Dur("latency", time.Since(start)).
		Msg("simulation rendered")
	if c.state != nil {
		c.state.RunSucceeded(len(res.ScreenPositionsMM), res)
	}
	return nil
}

// begin makes a new run current and cancels the previous one.
func (c *Controller) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	c.cancel = cancel
	return ctx, c.gen
}

func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// settle runs apply only while gen is still the current run. The lock is
// held throughout so a newer run cannot interleave with the update.
func (c *Controller) settle(gen uint64, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	apply()
	return true
}

func (c *Controller) superseded(logger zerolog.Logger, sent bool) error {
	logger.Debug().Msg("run superseded")
	if sent && c.state != nil {
		c.state.RunSuperseded()
	}
	return ErrSuperseded
}

// IsSuperseded reports whether err came from a run replaced by a newer one.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
