package sumi

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Overlay styling for the selection chrome and cursor indicator.
var (
	handleFillColor   = Color{1, 1, 1, 1}
	handleAccentColor = Color{0.15, 0.45, 0.95, 1}
	cursorRingColor   = Color{0.25, 0.25, 0.25, 0.9}
)

const (
	selectionDashLen = 6.0
	selectionGapLen  = 4.0
)

// DrawHandles renders the selection chrome for an image placement onto the
// overlay surface: a dashed outline through the rotated corners, the four
// corner squares, and the rotation knob with its stem.
func DrawHandles(dst *ebiten.Image, p ImagePlacement, vp PanZoom) {
	hps := HandlePositions(p, vp)
	accent := handleAccentColor.toRGBA()
	fill := handleFillColor.toRGBA()

	// Dashed outline between consecutive rotated corners.
	for i := 0; i < 4; i++ {
		a := hps[i]
		b := hps[(i+1)%4]
		drawDashedLine(dst, a.X, a.Y, b.X, b.Y, selectionDashLen, selectionGapLen, 1, accent)
	}

	// Stem from the top-edge midpoint to the rotation knob.
	topMidX := (hps[0].X + hps[1].X) / 2
	topMidY := (hps[0].Y + hps[1].Y) / 2
	knob := hps[4]
	vector.StrokeLine(dst, float32(topMidX), float32(topMidY), float32(knob.X), float32(knob.Y), 1, accent, true)

	// Corner squares.
	for _, hp := range hps[:4] {
		x := float32(hp.X - handleSize/2)
		y := float32(hp.Y - handleSize/2)
		vector.DrawFilledRect(dst, x, y, handleSize, handleSize, fill, true)
		vector.StrokeRect(dst, x, y, handleSize, handleSize, 1, accent, true)
	}

	// Rotation knob.
	vector.DrawFilledCircle(dst, float32(knob.X), float32(knob.Y), handleSize/2+1, fill, true)
	vector.StrokeCircle(dst, float32(knob.X), float32(knob.Y), handleSize/2+1, 1, accent, true)
}

// drawDashedLine strokes the segment (x0,y0)-(x1,y1) as dash/gap runs.
func drawDashedLine(dst *ebiten.Image, x0, y0, x1, y1, dash, gap float64, width float32, clr colorRGBA) {
	dx := x1 - x0
	dy := y1 - y0
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return
	}
	ux, uy := dx/length, dy/length
	for pos := 0.0; pos < length; pos += dash + gap {
		end := pos + dash
		if end > length {
			end = length
		}
		vector.StrokeLine(dst,
			float32(x0+ux*pos), float32(y0+uy*pos),
			float32(x0+ux*end), float32(y0+uy*end),
			width, clr, true)
	}
}

// drawCursorRing draws the dashed circular cursor indicator centered at
// (cx, cy) with the given radius, all in surface pixels.
func drawCursorRing(dst *ebiten.Image, cx, cy, radius float64) {
	if radius <= 0 {
		return
	}
	clr := cursorRingColor.toRGBA()
	// Dash the circle as short chord segments; segment count scales with
	// circumference so dash length stays roughly constant.
	segments := int(math.Max(12, radius))
	if segments%2 != 0 {
		segments++
	}
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i += 2 {
		a0 := float64(i) * step
		a1 := a0 + step
		vector.StrokeLine(dst,
			float32(cx+math.Cos(a0)*radius), float32(cy+math.Sin(a0)*radius),
			float32(cx+math.Cos(a1)*radius), float32(cy+math.Sin(a1)*radius),
			1, clr, true)
	}
}
