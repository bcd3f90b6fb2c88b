package chartview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/rs/zerolog"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"lux-resonans/internal/chart"
)

var (
	// ErrSurfaceBusy is returned when a surface already shows a chart.
	ErrSurfaceBusy = errors.New("surface already has a chart")
	// ErrForeignSurface is returned for surfaces not created by this package.
	ErrForeignSurface = errors.New("surface is not a chartview surface")
)

// yTicks label the fixed intensity scale.
var yTicks = []gochart.Tick{
	{Value: 0, Label: "0.0"},
	{Value: 0.2, Label: "0.2"},
	{Value: 0.4, Label: "0.4"},
	{Value: 0.6, Label: "0.6"},
	{Value: 0.8, Label: "0.8"},
	{Value: 1.0, Label: "1.0"},
}

// plot is one live chart.
type plot struct {
	surface *Surface
	cfg     chart.Config
	base    image.Image

	// plot area in image pixels and the x range it spans
	box        gochart.Box
	xs         []float64
	xMin, xMax float64
}

// Library renders chart configurations with go-chart.
type Library struct {
	logger zerolog.Logger
}

var _ chart.Library = (*Library)(nil)

// NewLibrary returns a go-chart backed Library.
func NewLibrary(logger zerolog.Logger) *Library {
	return &Library{logger: logger}
}

// Construct renders cfg and binds it to s.
func (l *Library) Construct(s chart.Surface, cfg chart.Config) (chart.Handle, error) {
	surf, ok := s.(*Surface)
	if !ok {
		return nil, ErrForeignSurface
	}

	p := &plot{surface: surf, cfg: cfg, xs: cfg.Series.X}
	w, h := surf.Dimensions()

	if len(cfg.Series.X) == 0 {
		p.base = blank(w, h)
	} else {
		img, err := p.render(w, h)
		if err != nil {
			return nil, err
		}
		p.base = img
	}

	if !surf.bind(p) {
		return nil, ErrSurfaceBusy
	}
	l.logger.Debug().Int("points", len(p.xs)).Int("width", w).Int("height", h).Msg("chart constructed")
	return p, nil
}

// Destroy unbinds the chart. Unknown and already destroyed handles are ignored.
func (l *Library) Destroy(h chart.Handle) {
	p, ok := h.(*plot)
	if !ok || p == nil {
		return
	}
	p.surface.unbind(p)
}

func (p *plot) render(w, h int) (image.Image, error) {
	cfg := p.cfg
	p.xMin, p.xMax = cfg.X.Min, cfg.X.Max
	if p.xMax <= p.xMin {
		p.xMin, p.xMax = p.xMin-0.5, p.xMax+0.5
	}

	var ticks []gochart.Tick
	for i, x := range cfg.Series.X {
		if label, ok := cfg.TickLabel(i); ok {
			ticks = append(ticks, gochart.Tick{Value: x, Label: label})
		}
	}

	series := gochart.ContinuousSeries{
		Name:    cfg.Series.Label,
		XValues: cfg.Series.X,
		YValues: cfg.Series.Y,
		Style: gochart.Style{
			StrokeColor: drawingColor(cfg.Series.Stroke),
			StrokeWidth: 2,
		},
	}

	ch := gochart.Chart{
		Width:      w,
		Height:     h,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 20, Right: 12, Bottom: 12}},
		XAxis: gochart.XAxis{
			Name:  cfg.X.Title,
			Range: &gochart.ContinuousRange{Min: p.xMin, Max: p.xMax},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  cfg.Y.Title,
			Range: &gochart.ContinuousRange{Min: cfg.Y.Min, Max: cfg.Y.Max},
			Ticks: yTicks,
		},
		Series: []gochart.Series{series},
	}
	ch.Elements = []gochart.Renderable{
		gochart.Legend(&ch, gochart.Style{FillColor: drawingColor(cfg.Series.Fill)}),
		func(_ gochart.Renderer, cb gochart.Box, _ gochart.Style) { p.box = cb },
	}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}

// withTooltip returns the base image with a guide line and a hover box
// for point i.
func (p *plot) withTooltip(i int) image.Image {
	b := p.base.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, p.base, b.Min, draw.Src)

	x := p.box.Left + int(math.Round((p.xs[i]-p.xMin)/(p.xMax-p.xMin)*float64(p.box.Width())))
	guide := image.NewUniform(color.NRGBA{R: 0, G: 0, B: 0, A: 90})
	draw.Draw(rgba, image.Rect(x, p.box.Top, x+1, p.box.Bottom), guide, image.Point{}, draw.Over)

	lines := []string{p.cfg.TooltipTitle(i), p.cfg.TooltipLabel(i)}

	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.White), Face: face}
	tw := 0
	for _, l := range lines {
		tw = max(tw, dr.MeasureString(l).Ceil())
	}

	pad := 6
	boxW := tw + 2*pad
	boxH := len(lines)*lineH + 2*pad
	left := x + 10
	if left+boxW > b.Max.X {
		left = x - 10 - boxW
	}
	left = max(left, b.Min.X)
	top := p.box.Top + 8

	bg := image.NewUniform(color.NRGBA{R: 0, G: 0, B: 0, A: 200})
	draw.Draw(rgba, image.Rect(left, top, left+boxW, top+boxH), bg, image.Point{}, draw.Over)

	for n, l := range lines {
		dr.Dot = fixed.Point26_6{X: fixed.I(left + pad), Y: fixed.I(top + pad + ascent + n*lineH)}
		dr.DrawString(l)
	}
	return rgba
}

func drawingColor(c color.NRGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}
