package chartview

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lux-resonans/internal/chart"
)

func pattern(t *testing.T, n int) chart.Config {
	t.Helper()
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) - float64(n-1)/2
		ys[i] = 0.5
	}
	cfg, err := chart.BuildConfig(xs, ys, "rgb(0,255,0)")
	require.NoError(t, err)
	return cfg
}

func hoverAt(s *Surface, x, y float32) {
	s.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func TestConstructDestroyLifecycle(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := NewSurface(400, 200)
	lib := NewLibrary(zerolog.Nop())

	h, err := lib.Construct(s, pattern(t, 120))
	require.NoError(t, err)
	img := s.Image()
	require.NotNil(t, img)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	_, err = lib.Construct(s, pattern(t, 3))
	assert.ErrorIs(t, err, ErrSurfaceBusy)
	assert.Equal(t, img, s.Image(), "a refused chart must not replace the bound one")

	lib.Destroy(h)
	assert.Nil(t, s.Image())
	lib.Destroy(h)
	lib.Destroy(nil)

	h2, err := lib.Construct(s, pattern(t, 3))
	require.NoError(t, err)
	assert.NotNil(t, s.Image())

	lib.Destroy(h)
	assert.NotNil(t, s.Image(), "a stale handle must not remove the current chart")
	lib.Destroy(h2)
	assert.Nil(t, s.Image())
}

func TestConstructEmptySeries(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := NewSurface(300, 150)
	lib := NewLibrary(zerolog.Nop())

	h, err := lib.Construct(s, pattern(t, 0))
	require.NoError(t, err)
	assert.NotNil(t, s.Image())
	lib.Destroy(h)
}

type otherSurface struct{}

func (otherSurface) Dimensions() (int, int) { return 10, 10 }

func TestConstructForeignSurface(t *testing.T) {
	_, err := NewLibrary(zerolog.Nop()).Construct(otherSurface{}, pattern(t, 3))
	assert.ErrorIs(t, err, ErrForeignSurface)
}

func TestHoverShowsNearestPoint(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := NewSurface(400, 200)
	s.Resize(fyne.NewSize(400, 200))
	lib := NewLibrary(zerolog.Nop())

	h, err := lib.Construct(s, pattern(t, 11))
	require.NoError(t, err)
	base := s.Image()

	p := h.(*plot)
	require.Greater(t, p.box.Width(), 0)

	mid := float32(p.box.Left+p.box.Right) / 2
	hoverAt(s, mid, 100)
	assert.Equal(t, 5, s.hoverIndex())
	assert.NotEqual(t, base, s.Image())

	hoverAt(s, float32(p.box.Left), 100)
	assert.Equal(t, 0, s.hoverIndex())

	hoverAt(s, float32(p.box.Right), 100)
	assert.Equal(t, 10, s.hoverIndex())

	s.MouseOut()
	assert.Equal(t, -1, s.hoverIndex())
	assert.Equal(t, base, s.Image())

	lib.Destroy(h)
	hoverAt(s, mid, 100)
	assert.Equal(t, -1, s.hoverIndex())
}

func TestHoverOutsidePlotArea(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := NewSurface(400, 200)
	s.Resize(fyne.NewSize(400, 200))
	lib := NewLibrary(zerolog.Nop())

	h, err := lib.Construct(s, pattern(t, 11))
	require.NoError(t, err)
	defer lib.Destroy(h)

	hoverAt(s, 1, 100)
	assert.Equal(t, -1, s.hoverIndex())
}

func TestAreaUnderLineIsNotShaded(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := NewSurface(400, 200)
	lib := NewLibrary(zerolog.Nop())

	h, err := lib.Construct(s, pattern(t, 11))
	require.NoError(t, err)
	defer lib.Destroy(h)

	p := h.(*plot)
	x := p.box.Left + p.box.Width()*3/8
	y := p.box.Bottom - p.box.Height()/5
	r, g, b, _ := s.Image().At(x, y).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}
