package mainwindow

import (
	"net/http"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lux-resonans/internal/app"
	"lux-resonans/internal/calc/calctest"
	"lux-resonans/internal/config"
	"lux-resonans/pkg/models"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		Env:        "test",
		Calc:       config.CalcConfig{URL: url, Timeout: 5 * time.Second},
		Wavelength: config.WavelengthConfig{MinNM: 380, MaxNM: 750},
		Chart:      config.ChartConfig{Width: 400, Height: 200},
	}
}

func TestRunRendersPattern(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	srv := calctest.NewServer(calctest.Pattern(calctest.ThreePoints))
	defer srv.Close()

	mw := NewWithClient(a, app.NewState(), testConfig(srv.URL))
	defer mw.Close()

	require.NoError(t, mw.Run())
	assert.True(t, mw.Chart().Live())
	assert.Equal(t, "Pattern: 3 points (run 1)", mw.Status())
	assert.Empty(t, mw.Parameters().ErrorText())

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.DoubleSlit, calls[0].Request.SimulationType)
	require.NotNil(t, calls[0].Request.SlitSeparation)
}

func TestRunFailureShowsError(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	srv := calctest.NewServer(calctest.Pattern(calctest.ThreePoints))
	defer srv.Close()

	mw := NewWithClient(a, app.NewState(), testConfig(srv.URL))
	defer mw.Close()
	require.NoError(t, mw.Run())

	srv.SetResponder(calctest.Fail(http.StatusInternalServerError, "overflow"))
	require.Error(t, mw.Run())

	assert.False(t, mw.Chart().Live())
	assert.Equal(t, "Error: overflow", mw.Parameters().ErrorText())
	assert.Equal(t, "Failed: Error: overflow", mw.Status())
}

func menuItem(t *testing.T, mw *MainWindow, menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, m := range mw.MainMenu().Items {
		if m.Label != menu {
			continue
		}
		for _, it := range m.Items {
			if it.Label == label {
				return it
			}
		}
	}
	t.Fatalf("no menu item %s > %s", menu, label)
	return nil
}

func TestClearChartMenu(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	srv := calctest.NewServer(calctest.Pattern(calctest.ThreePoints))
	defer srv.Close()

	mw := NewWithClient(a, app.NewState(), testConfig(srv.URL))
	defer mw.Close()
	clearItem := menuItem(t, mw, "Simulation", "Clear Chart")

	require.NoError(t, mw.Run())
	require.True(t, mw.Chart().Live())
	clearItem.Action()
	assert.False(t, mw.Chart().Live())
	assert.Equal(t, "Chart cleared", mw.Status())

	mw.Parameters().SetError("Error: overflow")
	clearItem.Action()
	assert.Empty(t, mw.Parameters().ErrorText())
	assert.False(t, mw.Chart().Live())

	require.NoError(t, mw.Run(), "a cleared chart can be drawn again")
	assert.True(t, mw.Chart().Live())
}
