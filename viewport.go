package sumi

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PanZoom is the affine mapping between world (drawing) coordinates and
// screen coordinates: screen = world*Zoom + Pan. The host owns the value
// and hands it to the engine via SetViewport; the engine only reads it.
type PanZoom struct {
	PanX, PanY float64
	Zoom       float64
}

// DefaultViewport is the identity viewport (no pan, 1:1 zoom).
var DefaultViewport = PanZoom{Zoom: 1}

// zoom returns the zoom factor, treating the zero value as 1:1 so an
// uninitialized viewport is usable.
func (v PanZoom) zoom() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v PanZoom) WorldToScreen(wx, wy float64) (sx, sy float64) {
	z := v.zoom()
	return wx*z + v.PanX, wy*z + v.PanY
}

// ScreenToWorld converts screen coordinates to world coordinates.
// Exact inverse of WorldToScreen for all finite inputs.
func (v PanZoom) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	z := v.zoom()
	return (sx - v.PanX) / z, (sy - v.PanY) / z
}

// Matrix returns the world-to-screen affine matrix.
func (v PanZoom) Matrix() [6]float64 {
	z := v.zoom()
	translate := [6]float64{1, 0, 0, 1, v.PanX, v.PanY}
	scale := [6]float64{z, 0, 0, z, 0, 0}
	return multiplyAffine(translate, scale)
}

// InverseMatrix returns the screen-to-world affine matrix.
func (v PanZoom) InverseMatrix() [6]float64 {
	return invertAffine(v.Matrix())
}

// --- Animated glide ---

// Glide animates a PanZoom toward a target pan and zoom. Create one via
// GlideTo and call Update(dt) each frame until Done. There is no global
// animation manager; hosts drive the glide themselves.
type Glide struct {
	tweens [3]*gween.Tween
	target *PanZoom
	Done   bool
}

// GlideTo starts an animated transition of vp to the given pan and zoom over
// duration seconds using the easing function.
func GlideTo(vp *PanZoom, panX, panY, zoom float64, duration float32, fn ease.TweenFunc) *Glide {
	g := &Glide{target: vp}
	g.tweens[0] = gween.New(float32(vp.PanX), float32(panX), duration, fn)
	g.tweens[1] = gween.New(float32(vp.PanY), float32(panY), duration, fn)
	g.tweens[2] = gween.New(float32(vp.zoom()), float32(zoom), duration, fn)
	return g
}

// Update advances the glide by dt seconds and writes the interpolated values
// to the target viewport. Reports whether the viewport changed; callers use
// that to invalidate the engine.
func (g *Glide) Update(dt float32) bool {
	if g.Done {
		return false
	}
	allDone := true
	vx, done0 := g.tweens[0].Update(dt)
	vy, done1 := g.tweens[1].Update(dt)
	vz, done2 := g.tweens[2].Update(dt)
	allDone = done0 && done1 && done2
	changed := g.target.PanX != float64(vx) ||
		g.target.PanY != float64(vy) ||
		g.target.Zoom != float64(vz)
	g.target.PanX = float64(vx)
	g.target.PanY = float64(vy)
	g.target.Zoom = float64(vz)
	g.Done = allDone
	return changed
}
