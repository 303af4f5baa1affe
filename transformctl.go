package sumi

import "math"

// Handle identifies an interactive control point on a selected image layer,
// or the implicit move/none results of a hit test.
type Handle uint8

const (
	HandleNone   Handle = iota // nothing hit
	HandleNW                   // north-west corner
	HandleNE                   // north-east corner
	HandleSE                   // south-east corner
	HandleSW                   // south-west corner
	HandleRotate               // rotation knob above the top edge
	HandleMove                 // inside the rotated bounding rectangle
)

// Screen-space handle metrics and the world-space resize floor.
const (
	handleSize           = 8.0  // half-extent of a corner square, px
	handleHitPadding     = 4.0  // extra hit slop around every handle, px
	rotationHandleOffset = 20.0 // knob distance above the top edge, px
	minLayerDimension    = 20.0 // resize floor, world units
)

// HandlePoint is a handle's screen-space position.
type HandlePoint struct {
	Handle Handle
	X, Y   float64
}

// HandlePositions returns the five control points for an image placement:
// the four corners plus the rotation knob offset above the top edge by a
// fixed screen-space distance. Each point is computed in unrotated world
// space, converted to screen space, then rotated about the placement's
// screen-space center by its rotation angle.
func HandlePositions(p ImagePlacement, vp PanZoom) [5]HandlePoint {
	// The knob offset is fixed in screen space, so it scales by inverse
	// zoom in world space.
	knobWorldY := p.Y - rotationHandleOffset/vp.zoom()
	worldPoints := [5]struct {
		h    Handle
		x, y float64
	}{
		{HandleNW, p.X, p.Y},
		{HandleNE, p.X + p.Width, p.Y},
		{HandleSE, p.X + p.Width, p.Y + p.Height},
		{HandleSW, p.X, p.Y + p.Height},
		{HandleRotate, p.X + p.Width/2, knobWorldY},
	}

	ccx, ccy := p.Center()
	scx, scy := vp.WorldToScreen(ccx, ccy)

	var out [5]HandlePoint
	for i, wp := range worldPoints {
		sx, sy := vp.WorldToScreen(wp.x, wp.y)
		rx, ry := rotateAbout(sx, sy, scx, scy, p.Rotation)
		out[i] = HandlePoint{Handle: wp.h, X: rx, Y: ry}
	}
	return out
}

// HitTestHandles resolves a screen point against an image placement's
// handles. Priority is fixed: rotate, then corners, then move (inside the
// rotated bounding rectangle), then none.
func HitTestHandles(sx, sy float64, p ImagePlacement, vp PanZoom) Handle {
	hps := HandlePositions(p, vp)
	reach := handleSize + handleHitPadding

	// Rotation knob: circular hit region.
	knob := hps[4]
	if math.Hypot(sx-knob.X, sy-knob.Y) <= reach {
		return HandleRotate
	}

	// Corners: square hit regions of the same size.
	for _, hp := range hps[:4] {
		if math.Abs(sx-hp.X) <= reach && math.Abs(sy-hp.Y) <= reach {
			return hp.Handle
		}
	}

	// Inside the rotated rectangle: un-rotate the point about the
	// screen-space center and test the axis-aligned screen rect.
	ccx, ccy := p.Center()
	scx, scy := vp.WorldToScreen(ccx, ccy)
	ux, uy := rotateAbout(sx, sy, scx, scy, -p.Rotation)
	x0, y0 := vp.WorldToScreen(p.X, p.Y)
	x1, y1 := vp.WorldToScreen(p.X+p.Width, p.Y+p.Height)
	if (Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}).Contains(ux, uy) {
		return HandleMove
	}

	return HandleNone
}

// rotateAbout rotates (x, y) about (cx, cy) by deg degrees.
func rotateAbout(x, y, cx, cy, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := x-cx, y-cy
	return cx + dx*cos - dy*sin, cy + dx*sin + dy*cos
}

// normalizeDegrees wraps an angle into [0, 360).
func normalizeDegrees(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// DragState is the snapshot captured when a manipulation drag starts: the
// mouse position in both coordinate spaces plus the placement geometry at
// that instant. Apply functions are pure over (DragState, current mouse).
type DragState struct {
	Handle                     Handle
	StartScreenX, StartScreenY float64
	StartWorldX, StartWorldY   float64
	Placement                  ImagePlacement
}

// NewDragState captures a drag-start snapshot for the given handle and
// screen-space mouse position.
func NewDragState(h Handle, sx, sy float64, p ImagePlacement, vp PanZoom) DragState {
	wx, wy := vp.ScreenToWorld(sx, sy)
	return DragState{
		Handle:       h,
		StartScreenX: sx,
		StartScreenY: sy,
		StartWorldX:  wx,
		StartWorldY:  wy,
		Placement:    p,
	}
}

// ApplyMove translates the placement by the world-space delta between the
// current mouse position and the drag start.
func ApplyMove(d DragState, sx, sy float64, vp PanZoom) ImagePlacement {
	wx, wy := vp.ScreenToWorld(sx, sy)
	p := d.Placement
	p.X += wx - d.StartWorldX
	p.Y += wy - d.StartWorldY
	return p
}

// ApplyRotation rotates the placement by the angle swept between the drag
// start and the current mouse position about the placement's screen-space
// center. The result is normalized into [0, 360) regardless of how many
// full turns the drag implies.
func ApplyRotation(d DragState, sx, sy float64, vp PanZoom) ImagePlacement {
	ccx, ccy := d.Placement.Center()
	scx, scy := vp.WorldToScreen(ccx, ccy)
	a0 := math.Atan2(d.StartScreenY-scy, d.StartScreenX-scx)
	a1 := math.Atan2(sy-scy, sx-scx)
	p := d.Placement
	p.Rotation = normalizeDegrees(d.Placement.Rotation + (a1-a0)*180/math.Pi)
	return p
}

// ApplyResize resizes the placement by dragging one corner. The world-space
// mouse delta is first un-rotated by the placement's rotation so resizing a
// rotated layer behaves correctly; each corner anchors the opposite corner.
// Dimensions never drop below the 20-unit floor. When the placement is
// aspect-locked (or maintainAspect is forced), the resulting rectangle is
// corrected post-hoc to the original aspect ratio, expanding the long axis
// and re-anchoring so the fixed corner stays put.
func ApplyResize(d DragState, sx, sy float64, vp PanZoom, maintainAspect bool) ImagePlacement {
	wx, wy := vp.ScreenToWorld(sx, sy)
	dx := wx - d.StartWorldX
	dy := wy - d.StartWorldY

	// Un-rotate the delta into the layer's local frame.
	rad := -d.Placement.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	ldx := dx*cos - dy*sin
	ldy := dx*sin + dy*cos

	start := d.Placement
	p := start
	switch d.Handle {
	case HandleSE:
		p.Width += ldx
		p.Height += ldy
	case HandleSW:
		p.X += ldx
		p.Width -= ldx
		p.Height += ldy
	case HandleNE:
		p.Y += ldy
		p.Width += ldx
		p.Height -= ldy
	case HandleNW:
		p.X += ldx
		p.Y += ldy
		p.Width -= ldx
		p.Height -= ldy
	default:
		return p
	}

	if maintainAspect || start.AspectLocked {
		applyAspectCorrection(&p, start, d.Handle)
	} else {
		clampResize(&p, start, d.Handle)
	}
	return p
}

// clampResize enforces the minimum dimension, keeping the corner opposite
// the dragged handle anchored.
func clampResize(p *ImagePlacement, start ImagePlacement, h Handle) {
	if p.Width < minLayerDimension {
		if h == HandleNW || h == HandleSW {
			p.X = start.X + start.Width - minLayerDimension
		}
		p.Width = minLayerDimension
	}
	if p.Height < minLayerDimension {
		if h == HandleNW || h == HandleNE {
			p.Y = start.Y + start.Height - minLayerDimension
		}
		p.Height = minLayerDimension
	}
}

// applyAspectCorrection restores the starting aspect ratio after a free
// resize by expanding the short axis, then re-anchors x/y so the corner
// opposite the dragged handle stays fixed. The minimum-dimension floor is
// enforced by uniform scaling so the corrected ratio survives clamping.
func applyAspectCorrection(p *ImagePlacement, start ImagePlacement, h Handle) {
	aspect := start.AspectRatio()
	if p.Width/aspect >= p.Height {
		p.Height = p.Width / aspect
	} else {
		p.Width = p.Height * aspect
	}
	if p.Width < minLayerDimension {
		p.Height *= minLayerDimension / p.Width
		p.Width = minLayerDimension
	}
	if p.Height < minLayerDimension {
		p.Width *= minLayerDimension / p.Height
		p.Height = minLayerDimension
	}
	switch h {
	case HandleNW:
		p.X = start.X + start.Width - p.Width
		p.Y = start.Y + start.Height - p.Height
	case HandleNE:
		p.X = start.X
		p.Y = start.Y + start.Height - p.Height
	case HandleSW:
		p.X = start.X + start.Width - p.Width
		p.Y = start.Y
	case HandleSE:
		p.X = start.X
		p.Y = start.Y
	}
}

// CursorFor returns the cursor hint for a handle.
func CursorFor(h Handle) string {
	switch h {
	case HandleMove:
		return "move"
	case HandleRotate:
		return "grab"
	case HandleNW, HandleSE:
		return "nwse-resize"
	case HandleNE, HandleSW:
		return "nesw-resize"
	default:
		return "default"
	}
}
