package sumi

import "github.com/hajimehoshi/ebiten/v2"

// Surface is a persistent offscreen canvas owned by the engine: the three
// display surfaces and every per-layer buffer are Surfaces. Not recycled
// between frames; disposed explicitly when its owner tears it down.
type Surface struct {
	image *ebiten.Image
	w, h  int
}

// NewSurface creates a persistent offscreen canvas of the given pixel size.
func NewSurface(w, h int) *Surface {
	return &Surface{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// Image returns the underlying *ebiten.Image for direct drawing.
func (s *Surface) Image() *ebiten.Image {
	return s.image
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.w
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.h
}

// Clear fills the surface with transparent black.
func (s *Surface) Clear() {
	s.image.Clear()
}

// Fill fills the entire surface with the given color.
func (s *Surface) Fill(c Color) {
	s.image.Fill(c.toRGBA())
}

// Resize deallocates the old image and creates a new one at the given
// dimensions. Contents are lost; callers re-render.
func (s *Surface) Resize(w, h int) {
	if w == s.w && h == s.h {
		return
	}
	if s.image != nil {
		s.image.Deallocate()
	}
	s.image = ebiten.NewImage(w, h)
	s.w = w
	s.h = h
}

// Dispose deallocates the underlying image. The Surface must not be used
// after Dispose.
func (s *Surface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

// toRGBA converts a Color to a color.Color value (premultiplied).
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image fills.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
