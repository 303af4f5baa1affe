package sumi

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black, the default ink color.
var ColorBlack = Color{0, 0, 0, 1}

// scaleAlpha returns the color with its alpha multiplied by f.
func (c Color) scaleAlpha(f float64) Color {
	c.A *= f
	return c
}

// Vec2 is a 2D vector used for positions, offsets, and outline vertices
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// whiteImage backs anti-aliased triangle fills. The 1x1 sub-image in the
// center keeps sampling away from texel edges.
var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

func init() {
	whiteImage = ebiten.NewImage(3, 3)
	whiteImage.Fill(ColorWhite.toRGBA())
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendErase                   // destination-out (punch transparent holes)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendErase:
		return ebiten.BlendDestinationOut
	default:
		return ebiten.BlendSourceOver
	}
}

// BrushStyle identifies one of the built-in brushes. The set is closed:
// rendering dispatches over these variants exhaustively, and an unrecognized
// value makes the stroke a per-frame skip rather than an error.
type BrushStyle uint8

const (
	BrushInk     BrushStyle = iota // variable-width filled outline
	BrushEraser                    // ink geometry, destination-out compositing
	BrushSpray                     // seeded dot clusters per input point
	BrushTexture                   // three jittered ink passes
)

// String returns the brush style's wire name.
func (s BrushStyle) String() string {
	switch s {
	case BrushInk:
		return "ink"
	case BrushEraser:
		return "eraser"
	case BrushSpray:
		return "spray"
	case BrushTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// BackgroundMode selects what the background surface shows.
type BackgroundMode uint8

const (
	BackgroundWhite       BackgroundMode = iota // solid white fill
	BackgroundGrid                              // pan/zoom-aware reference grid
	BackgroundTransparent                       // cleared, fully transparent
)
