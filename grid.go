package sumi

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Reference grid tuning. Spacing adapts to zoom so on-screen cell size
// stays within [gridMinScreenPx, gridMaxScreenPx]; every fifth line is
// drawn heavier.
const (
	gridBaseSpacing = 50.0 // world units at 1:1 zoom
	gridMinScreenPx = 25.0
	gridMaxScreenPx = 125.0
	gridMajorEvery  = 5
)

var (
	gridMinorColor = Color{0, 0, 0, 0.08}
	gridMajorColor = Color{0, 0, 0, 0.18}
)

// gridSpacing returns the world-space cell size for a zoom factor, doubling
// or halving the base spacing until the on-screen size is in range.
func gridSpacing(zoom float64) float64 {
	if zoom <= 0 {
		return gridBaseSpacing
	}
	spacing := gridBaseSpacing
	for spacing*zoom < gridMinScreenPx {
		spacing *= 2
	}
	for spacing*zoom > gridMaxScreenPx {
		spacing /= 2
	}
	return spacing
}

// DrawGrid renders the pan/zoom-aware reference grid onto dst, covering the
// whole image.
func DrawGrid(dst *ebiten.Image, vp PanZoom) {
	b := dst.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w <= 0 || h <= 0 {
		return
	}

	zoom := vp.zoom()
	spacing := gridSpacing(zoom)

	// Visible world range.
	wx0, wy0 := vp.ScreenToWorld(0, 0)
	wx1, wy1 := vp.ScreenToWorld(w, h)

	minor := gridMinorColor.toRGBA()
	major := gridMajorColor.toRGBA()

	startX := math.Floor(wx0/spacing) * spacing
	for x := startX; x <= wx1; x += spacing {
		sx, _ := vp.WorldToScreen(x, 0)
		clr := minor
		if isMajorGridLine(x, spacing) {
			clr = major
		}
		vector.StrokeLine(dst, float32(sx), 0, float32(sx), float32(h), 1, clr, false)
	}

	startY := math.Floor(wy0/spacing) * spacing
	for y := startY; y <= wy1; y += spacing {
		_, sy := vp.WorldToScreen(0, y)
		clr := minor
		if isMajorGridLine(y, spacing) {
			clr = major
		}
		vector.StrokeLine(dst, 0, float32(sy), float32(w), float32(sy), 1, clr, false)
	}
}

// isMajorGridLine reports whether the grid line at world coordinate v falls
// on a major-line multiple.
func isMajorGridLine(v, spacing float64) bool {
	idx := math.Round(v / spacing)
	return math.Mod(math.Abs(idx), gridMajorEvery) == 0
}
