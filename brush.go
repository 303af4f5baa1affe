package sumi

import (
	"math"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

// BrushOptions are the per-stroke rendering parameters supplied by the host
// as a pure function of (style, size). The zero value is usable: no
// thinning, no smoothing, no taper, linear easing.
type BrushOptions struct {
	// Thinning scales the pressure response of the outline width.
	Thinning float64
	// Smoothing blends adjacent segment directions at outline joins, in
	// [0, 1]. 0 keeps corners sharp.
	Smoothing float64
	// Streamline low-pass filters input jitter, in [0, 1).
	Streamline float64
	// TaperStart and TaperEnd are taper ramp lengths in world units.
	TaperStart, TaperEnd float64
	// Easing shapes the taper ramp. Nil is linear.
	Easing ease.TweenFunc
}

// DefaultBrushOptions returns the built-in rendering parameters for a brush
// style at a given size. Hosts that want different feels implement
// BrushOptionsProvider on their store instead.
func DefaultBrushOptions(style BrushStyle, size float64) BrushOptions {
	switch style {
	case BrushSpray:
		return BrushOptions{}
	case BrushTexture:
		return BrushOptions{
			Thinning:   0.5,
			Smoothing:  0.5,
			Streamline: 0.4,
			TaperStart: size,
			TaperEnd:   size,
			Easing:     ease.OutSine,
		}
	default: // ink, eraser
		return BrushOptions{
			Thinning:   0.6,
			Smoothing:  0.5,
			Streamline: 0.45,
			TaperStart: size * 1.5,
			TaperEnd:   size * 1.5,
			Easing:     ease.OutSine,
		}
	}
}

// Brush turns a stroke's point list and options into draw calls on dst.
// Brushes are pure: no state beyond registration, deterministic output for
// identical input.
type Brush interface {
	Render(dst *ebiten.Image, s *Stroke, opts BrushOptions)
}

// brushSet is the closed style-to-brush registry built once at engine
// construction.
type brushSet map[BrushStyle]Brush

// newBrushSet builds the registry. Eraser is not a distinct shape
// algorithm: it reuses the ink geometry under destination-out compositing.
func newBrushSet() brushSet {
	ink := inkBrush{}
	return brushSet{
		BrushInk:     ink,
		BrushEraser:  eraserBrush{ink: ink},
		BrushSpray:   sprayBrush{},
		BrushTexture: textureBrush{},
	}
}

// --- Ink ---

// inkBrush fills the variable-width outline as a smooth closed path.
type inkBrush struct{}

func (inkBrush) Render(dst *ebiten.Image, s *Stroke, opts BrushOptions) {
	renderInkPass(dst, s.Points, s.Size, s.Color.scaleAlpha(s.opacity()), opts, BlendNormal)
}

// renderInkPass is the shared ink pipeline: outline synthesis, quadratic
// path construction, anti-aliased fill.
func renderInkPass(dst *ebiten.Image, pts []Point, size float64, c Color, opts BrushOptions, blend BlendMode) {
	outline := strokeOutline(pts, size, opts)
	if outline == nil {
		return
	}
	var path vector.Path
	appendOutlinePath(&path, outline)
	fillPath(dst, &path, c, blend)
}

// --- Eraser ---

// eraserBrush renders the ink geometry with destination-out blending so the
// outline cuts existing content to transparency instead of painting.
type eraserBrush struct {
	ink inkBrush
}

func (b eraserBrush) Render(dst *ebiten.Image, s *Stroke, opts BrushOptions) {
	// Color is irrelevant under destination-out; only coverage matters.
	renderInkPass(dst, s.Points, s.Size, ColorWhite.scaleAlpha(s.opacity()), opts, BlendErase)
}

// --- Texture ---

// texturePasses are the per-pass size and opacity factors.
var texturePasses = [3]struct {
	scale, alpha float64
}{
	{1.0, 0.3},
	{0.9, 0.2},
	{0.8, 0.1},
}

// textureBrush layers three jittered ink passes at decreasing size and
// opacity. The jitter is a seeded function of each point's coordinates,
// pass index, and position in the stroke, so re-rendering an unchanged
// stroke is bit-reproducible.
type textureBrush struct{}

func (textureBrush) Render(dst *ebiten.Image, s *Stroke, opts BrushOptions) {
	if len(s.Points) < 2 {
		return
	}
	jitterMag := s.Size * 0.08
	perturbed := make([]Point, len(s.Points))
	for pass, pp := range texturePasses {
		for i, pt := range s.Points {
			jx := (hashUnit(pt.X, pt.Y, uint64(pass)*31+uint64(i)*2) - 0.5) * 2 * jitterMag
			jy := (hashUnit(pt.X, pt.Y, uint64(pass)*31+uint64(i)*2+1) - 0.5) * 2 * jitterMag
			perturbed[i] = Point{X: pt.X + jx, Y: pt.Y + jy, Pressure: pt.Pressure}
		}
		c := s.Color.scaleAlpha(pp.alpha * s.opacity())
		renderInkPass(dst, perturbed, s.Size*pp.scale, c, opts, BlendNormal)
	}
}

// --- Spray ---

// sprayBrush stamps a cluster of filled dots at every input point. Dot
// count scales with pressure-adjusted size; each dot's angle, distance from
// center, and radius come from the seeded hash keyed by the point's index
// and geometry.
type sprayBrush struct{}

func (sprayBrush) Render(dst *ebiten.Image, s *Stroke, opts BrushOptions) {
	if len(s.Points) == 0 || s.Size <= 0 {
		return
	}
	clr := s.Color.scaleAlpha(0.25 * s.opacity()).toRGBA()
	for i, pt := range s.Points {
		count := sprayDotCount(s.Size, pt.pressure())
		spread := s.Size * pt.pressure()
		for d := 0; d < count; d++ {
			salt := uint64(i)<<16 | uint64(d)
			angle := hashUnit(pt.X, pt.Y, salt*3) * 2 * math.Pi
			dist := hashUnit(pt.X, pt.Y, salt*3+1) * spread
			radius := 0.5 + hashUnit(pt.X, pt.Y, salt*3+2)*s.Size*0.12
			cx := pt.X + math.Cos(angle)*dist
			cy := pt.Y + math.Sin(angle)*dist
			vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(radius), clr, true)
		}
	}
}

// sprayDotCount returns the number of dots stamped per input point.
func sprayDotCount(size, pressure float64) int {
	n := int(size * pressure)
	if n < 4 {
		n = 4
	}
	return n
}

// --- Deterministic jitter ---

// hashUnit maps (x, y, salt) to a deterministic pseudo-random value in
// [0, 1). Spray and texture derive all per-point randomness from it so
// re-renders of unchanged strokes are pixel-identical; a global random
// generator would re-randomize every frame.
func hashUnit(x, y float64, salt uint64) float64 {
	h := math.Float64bits(x) * 0x9E3779B97F4A7C15
	h ^= bits.RotateLeft64(math.Float64bits(y), 31)
	h ^= salt * 0xD6E8FEB86659FD93
	// splitmix64 finalizer
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h>>11) / (1 << 53)
}
