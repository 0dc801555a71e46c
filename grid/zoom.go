package grid

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var zoomLevels = []float32{
	0.5,
	0.75,
	1.0,
	1.25,
	1.5,
	2.0,
}

const (
	defaultZoomLevelIndex = 2 // 1.0
	zoomLevelKey          = "xicongrid:zoomLevel"
)

func clampZoomLevelIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(zoomLevels) {
		return len(zoomLevels) - 1
	}
	return i
}

// AdjustZoom steps the item size through the zoom levels.
func (g *Grid) AdjustZoom(steps int) {
	if steps == 0 {
		return
	}
	g.SetZoomLevel(g.zoomLevel + steps)
}

// SetZoomLevel applies a zoom level index, scaling the configured base item
// size and persisting the choice.
func (g *Grid) SetZoomLevel(level int) {
	level = clampZoomLevelIndex(level)
	if g.zoomLevel == level {
		return
	}
	g.zoomLevel = level
	fyne.CurrentApp().Preferences().SetInt(zoomLevelKey, level)
	g.SetItemSize(g.baseItemSize * zoomLevels[level])
}

// ZoomLevel returns the current zoom level index.
func (g *Grid) ZoomLevel() int {
	return g.zoomLevel
}

func (g *Grid) loadZoomPref() {
	if fyne.CurrentApp() == nil {
		return
	}
	level := clampZoomLevelIndex(fyne.CurrentApp().Preferences().IntWithFallback(zoomLevelKey, defaultZoomLevelIndex))
	g.zoomLevel = level
	g.cfg.ItemSize = g.baseItemSize * zoomLevels[level]
	g.cfg = g.cfg.normalized()
}

func isZoomModifierActive() bool {
	d, ok := fyne.CurrentApp().Driver().(desktop.Driver)
	if !ok {
		return false
	}

	mods := d.CurrentKeyModifiers()
	if mods&fyne.KeyModifierControl != 0 {
		return true
	}
	// Honor Command+scroll on macOS through the platform shortcut modifier.
	return mods&fyne.KeyModifierShortcutDefault != 0
}

// zoomScrollOverlay sits above the scroll viewport and turns Ctrl/Cmd +
// wheel into zoom steps. Without the modifier it reports itself invisible so
// scroll events fall through to the viewport.
type zoomScrollOverlay struct {
	widget.BaseWidget
	onStep func(steps int)
	accDY  float32
}

func newZoomScrollOverlay(onStep func(steps int)) *zoomScrollOverlay {
	z := &zoomScrollOverlay{onStep: onStep}
	z.ExtendBaseWidget(z)
	return z
}

func (z *zoomScrollOverlay) Visible() bool {
	if !z.BaseWidget.Visible() {
		return false
	}
	return isZoomModifierActive()
}

var _ fyne.Scrollable = (*zoomScrollOverlay)(nil)

func (z *zoomScrollOverlay) Scrolled(e *fyne.ScrollEvent) {
	if z.onStep == nil {
		return
	}

	// Wheel deltas are ~40 per notch; accumulate so touchpads don't zoom
	// too quickly.
	const notch = float32(40)

	if math.IsNaN(float64(e.Scrolled.DY)) || math.IsInf(float64(e.Scrolled.DY), 0) {
		return
	}

	z.accDY += e.Scrolled.DY

	var steps int
	for z.accDY >= notch {
		steps++
		z.accDY -= notch
	}
	for z.accDY <= -notch {
		steps--
		z.accDY += notch
	}

	if steps != 0 {
		z.onStep(steps)
	}
}

func (z *zoomScrollOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &zoomScrollOverlayRenderer{}
}

type zoomScrollOverlayRenderer struct{}

func (r *zoomScrollOverlayRenderer) Layout(fyne.Size) {}
func (r *zoomScrollOverlayRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}
func (r *zoomScrollOverlayRenderer) Refresh()                     {}
func (r *zoomScrollOverlayRenderer) Objects() []fyne.CanvasObject { return nil }
func (r *zoomScrollOverlayRenderer) Destroy()                     {}
