package sumi

import "github.com/google/uuid"

// LayerType discriminates the two layer variants. Render and compositing
// logic switches on it exhaustively.
type LayerType uint8

const (
	LayerStrokes LayerType = iota // ordered stroke collection
	LayerImage                    // placed external raster image
)

// ImagePlacement is the geometry of a placed image layer. The engine never
// owns the pixel data; it owns only this placement plus a decoded-image
// cache entry keyed by BlobID.
type ImagePlacement struct {
	BlobID        string
	X, Y          float64
	Width, Height float64
	Rotation      float64 // degrees, normalized to [0, 360)
	AspectLocked  bool
	NaturalWidth  float64
	NaturalHeight float64
}

// Center returns the placement rectangle's center in world coordinates.
func (p ImagePlacement) Center() (x, y float64) {
	return p.X + p.Width/2, p.Y + p.Height/2
}

// AspectRatio returns Width/Height, or 1 for a degenerate placement.
func (p ImagePlacement) AspectRatio() float64 {
	if p.Height == 0 {
		return 1
	}
	return p.Width / p.Height
}

// Layer is an independently visible, lockable, opacity-controlled unit of
// content: either a stroke collection or a placed image, discriminated by
// Type. Slice order in the externally supplied layer list is z-order
// (index 0 = bottom). A layer disappearing from that list is the engine's
// only deletion signal.
type Layer struct {
	ID      string
	Name    string
	Type    LayerType
	Visible bool
	Locked  bool
	Opacity float64 // 0 means fully opaque

	// Strokes is the content of a LayerStrokes layer. Insertion order is
	// z-order within the layer.
	Strokes []*Stroke

	// Image is the content of a LayerImage layer.
	Image ImagePlacement
}

// NewStrokeLayer creates an empty visible stroke layer with a fresh id.
func NewStrokeLayer(name string) *Layer {
	return &Layer{
		ID:      uuid.NewString(),
		Name:    name,
		Type:    LayerStrokes,
		Visible: true,
		Opacity: 1,
	}
}

// NewImageLayer creates a visible image layer with a fresh id and the given
// placement.
func NewImageLayer(name string, placement ImagePlacement) *Layer {
	return &Layer{
		ID:      uuid.NewString(),
		Name:    name,
		Type:    LayerImage,
		Visible: true,
		Opacity: 1,
		Image:   placement,
	}
}

// opacity returns the effective layer opacity, treating the zero value as 1.0.
func (l *Layer) opacity() float64 {
	if l.Opacity <= 0 {
		return 1
	}
	if l.Opacity > 1 {
		return 1
	}
	return l.Opacity
}

// renderable reports whether the layer participates in the render pass at
// all. Hidden and locked layers are skipped entirely: not rendered into
// their buffer and not composited.
func (l *Layer) renderable() bool {
	return l.Visible && !l.Locked
}
