// Package chartview draws intensity patterns with go-chart and shows them
// in a fyne widget with a hover tooltip.
package chartview

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/floats"

	"lux-resonans/internal/chart"
)

// Surface is the widget a Library draws into. It holds at most one chart.
type Surface struct {
	widget.BaseWidget

	width, height int

	mu    sync.Mutex
	owner *plot
	hover int

	bg    *fynecanvas.Rectangle
	img   *fynecanvas.Image
	empty *fynecanvas.Text
}

var (
	_ chart.Surface     = (*Surface)(nil)
	_ desktop.Hoverable = (*Surface)(nil)
)

// NewSurface returns an empty surface that renders charts at width x height pixels.
func NewSurface(width, height int) *Surface {
	s := &Surface{
		width:  width,
		height: height,
		hover:  -1,
		bg:     fynecanvas.NewRectangle(color.White),
		img:    fynecanvas.NewImageFromImage(nil),
		empty:  fynecanvas.NewText("No pattern", color.Gray{Y: 0x99}),
	}
	s.img.FillMode = fynecanvas.ImageFillContain
	s.img.ScaleMode = fynecanvas.ImageScaleSmooth
	s.empty.Alignment = fyne.TextAlignCenter
	s.ExtendBaseWidget(s)
	return s
}

// Dimensions implements chart.Surface.
func (s *Surface) Dimensions() (w, h int) {
	return s.width, s.height
}

// Image returns what the surface currently shows, nil when empty.
func (s *Surface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img.Image
}

// hoverIndex returns the data index under the pointer, or -1.
func (s *Surface) hoverIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hover
}

// bind attaches p. It reports false when another chart is bound.
func (s *Surface) bind(p *plot) bool {
	s.mu.Lock()
	if s.owner != nil {
		s.mu.Unlock()
		return false
	}
	s.owner = p
	s.hover = -1
	s.img.Image = p.base
	s.mu.Unlock()

	s.Refresh()
	return true
}

// unbind detaches p if it is the bound chart.
func (s *Surface) unbind(p *plot) {
	s.mu.Lock()
	if s.owner != p {
		s.mu.Unlock()
		return
	}
	s.owner = nil
	s.hover = -1
	s.img.Image = nil
	s.mu.Unlock()

	s.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (s *Surface) MouseIn(ev *desktop.MouseEvent) {
	s.MouseMoved(ev)
}

// MouseMoved shows the tooltip for the point nearest the pointer.
func (s *Surface) MouseMoved(ev *desktop.MouseEvent) {
	s.mu.Lock()
	p := s.owner
	if p == nil {
		s.mu.Unlock()
		return
	}
	idx := -1
	if px, ok := s.toPixel(ev.Position); ok {
		idx = p.nearest(px)
	}
	if idx == s.hover {
		s.mu.Unlock()
		return
	}
	s.hover = idx
	if idx < 0 {
		s.img.Image = p.base
	} else {
		s.img.Image = p.withTooltip(idx)
	}
	s.mu.Unlock()

	s.img.Refresh()
}

// MouseOut hides the tooltip.
func (s *Surface) MouseOut() {
	s.mu.Lock()
	if s.owner == nil || s.hover < 0 {
		s.mu.Unlock()
		return
	}
	s.hover = -1
	s.img.Image = s.owner.base
	s.mu.Unlock()

	s.img.Refresh()
}

// toPixel maps a widget position to a chart pixel column, undoing the
// contain fill of the image.
func (s *Surface) toPixel(pos fyne.Position) (int, bool) {
	size := s.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return 0, false
	}
	scale := min(float64(size.Width)/float64(s.width), float64(size.Height)/float64(s.height))
	offX := (float64(size.Width) - float64(s.width)*scale) / 2
	offY := (float64(size.Height) - float64(s.height)*scale) / 2

	x := (float64(pos.X) - offX) / scale
	y := (float64(pos.Y) - offY) / scale
	if x < 0 || y < 0 || x >= float64(s.width) || y >= float64(s.height) {
		return 0, false
	}
	return int(x), true
}

// nearest returns the data index closest to pixel column px, or -1 when
// px is outside the plot area.
func (p *plot) nearest(px int) int {
	if len(p.xs) == 0 || px < p.box.Left || px > p.box.Right || p.box.Width() <= 0 {
		return -1
	}
	v := p.xMin + float64(px-p.box.Left)/float64(p.box.Width())*(p.xMax-p.xMin)
	return floats.NearestIdx(p.xs, v)
}

// CreateRenderer implements fyne.Widget.
func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	return &surfaceRenderer{surface: s}
}

// MinSize keeps the chart legible when the window shrinks.
func (s *Surface) MinSize() fyne.Size {
	return fyne.NewSize(float32(s.width)/2, float32(s.height)/2)
}

type surfaceRenderer struct {
	surface *Surface
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.surface.bg.Resize(size)
	r.surface.img.Resize(size)

	h := r.surface.empty.MinSize().Height
	r.surface.empty.Resize(fyne.NewSize(size.Width, h))
	r.surface.empty.Move(fyne.NewPos(0, (size.Height-h)/2))
}

func (r *surfaceRenderer) MinSize() fyne.Size {
	return r.surface.MinSize()
}

func (r *surfaceRenderer) Refresh() {
	r.surface.mu.Lock()
	bound := r.surface.owner != nil
	r.surface.mu.Unlock()

	if bound {
		r.surface.empty.Hide()
	} else {
		r.surface.empty.Show()
	}
	r.surface.bg.Refresh()
	r.surface.img.Refresh()
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.surface.bg, r.surface.img, r.surface.empty}
}

func (r *surfaceRenderer) Destroy() {}
