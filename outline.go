package sumi

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

// easeValue evaluates an easing function at t in [0, 1], mapping to [0, 1].
// A nil function is linear.
func easeValue(fn ease.TweenFunc, t float64) float64 {
	if fn == nil {
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// streamlinePoints low-pass filters input jitter. Each output point is pulled
// toward its predecessor by the streamline coefficient in [0, 1); 0 leaves
// the input untouched. The first point is always exact.
func streamlinePoints(pts []Point, streamline float64) []Point {
	if streamline <= 0 || len(pts) < 3 {
		return pts
	}
	if streamline > 0.95 {
		streamline = 0.95
	}
	t := 1 - streamline
	out := make([]Point, len(pts))
	out[0] = pts[0]
	for i := 1; i < len(pts); i++ {
		prev := out[i-1]
		out[i] = Point{
			X:        prev.X + (pts[i].X-prev.X)*t,
			Y:        prev.Y + (pts[i].Y-prev.Y)*t,
			Pressure: pts[i].Pressure,
		}
	}
	return out
}

// strokeOutline computes the closed variable-width polygon outline for a
// stroke: the left edge walked forward, then the right edge walked backward.
// The local half-width is a function of pressure and the thinning
// coefficient, with eased taper ramps over the configured start and end
// lengths. Returns nil (a no-op, not an error) for fewer than 2 input
// points, a non-positive size, or degenerate zero-length geometry.
func strokeOutline(pts []Point, size float64, opts BrushOptions) []Vec2 {
	if len(pts) < 2 || size <= 0 {
		return nil
	}
	pts = streamlinePoints(pts, opts.Streamline)
	n := len(pts)

	// Cumulative arc length, for taper ramps.
	dist := make([]float64, n)
	for i := 1; i < n; i++ {
		dx := pts[i].X - pts[i-1].X
		dy := pts[i].Y - pts[i-1].Y
		dist[i] = dist[i-1] + math.Hypot(dx, dy)
	}
	total := dist[n-1]
	if total == 0 {
		return nil
	}

	radii := make([]float64, n)
	for i := 0; i < n; i++ {
		r := size / 2 * pressureWidth(pts[i].pressure(), opts.Thinning)
		if opts.TaperStart > 0 && dist[i] < opts.TaperStart {
			r *= easeValue(opts.Easing, dist[i]/opts.TaperStart)
		}
		if opts.TaperEnd > 0 && total-dist[i] < opts.TaperEnd {
			r *= easeValue(opts.Easing, (total-dist[i])/opts.TaperEnd)
		}
		if r < size*0.01 {
			r = size * 0.01
		}
		radii[i] = r
	}

	// Per-point direction: the adjacent segment directions blended by the
	// smoothing coefficient, so the perpendicular rotates smoothly through
	// corners instead of snapping.
	smoothing := opts.Smoothing
	if smoothing < 0 {
		smoothing = 0
	} else if smoothing > 1 {
		smoothing = 1
	}
	left := make([]Vec2, 0, n)
	right := make([]Vec2, 0, n)
	var prevDirX, prevDirY float64
	for i := 0; i < n; i++ {
		dirX, dirY := segmentDirection(pts, i)
		if dirX == 0 && dirY == 0 {
			dirX, dirY = prevDirX, prevDirY
			if dirX == 0 && dirY == 0 {
				continue
			}
		}
		if i > 0 && smoothing > 0 && (prevDirX != 0 || prevDirY != 0) {
			mx, my := dirX+prevDirX*smoothing, dirY+prevDirY*smoothing
			if l := math.Hypot(mx, my); l > 1e-9 {
				dirX, dirY = mx/l, my/l
			}
		}
		prevDirX, prevDirY = dirX, dirY

		// Perpendicular to the travel direction.
		px, py := -dirY, dirX
		r := radii[i]
		left = append(left, Vec2{pts[i].X + px*r, pts[i].Y + py*r})
		right = append(right, Vec2{pts[i].X - px*r, pts[i].Y - py*r})
	}

	outline := make([]Vec2, 0, len(left)+len(right))
	outline = append(outline, left...)
	for i := len(right) - 1; i >= 0; i-- {
		outline = append(outline, right[i])
	}
	if len(outline) < 3 {
		return nil
	}
	return outline
}

// pressureWidth maps effective pressure to a width multiplier. Thinning 0
// ignores pressure entirely; positive thinning narrows light strokes and
// widens heavy ones, negative thinning inverts the response.
func pressureWidth(pressure, thinning float64) float64 {
	w := 1 + thinning*(pressure-0.5)
	if w < 0.1 {
		w = 0.1
	}
	return w
}

// segmentDirection returns the normalized direction of the segment leaving
// point i (or arriving at it, for the last point). Zero for a zero-length
// segment.
func segmentDirection(pts []Point, i int) (dx, dy float64) {
	j, k := i, i+1
	if k >= len(pts) {
		j, k = i-1, i
	}
	dx = pts[k].X - pts[j].X
	dy = pts[k].Y - pts[j].Y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return 0, 0
	}
	return dx / l, dy / l
}

// appendOutlinePath appends the outline to the path as a smooth closed
// curve: each raw outline vertex becomes a quadratic control point and the
// curve passes through the midpoints between consecutive vertices, closing
// back to the first midpoint.
func appendOutlinePath(path *vector.Path, outline []Vec2) {
	n := len(outline)
	if n < 3 {
		return
	}
	m0x := float32(outline[0].X+outline[1].X) / 2
	m0y := float32(outline[0].Y+outline[1].Y) / 2
	path.MoveTo(m0x, m0y)
	for i := 1; i < n; i++ {
		ctrl := outline[i]
		next := outline[(i+1)%n]
		path.QuadTo(
			float32(ctrl.X), float32(ctrl.Y),
			float32(ctrl.X+next.X)/2, float32(ctrl.Y+next.Y)/2,
		)
	}
	path.QuadTo(float32(outline[0].X), float32(outline[0].Y), m0x, m0y)
	path.Close()
}

// fillPath rasterizes the path onto dst as an anti-aliased filled shape in
// the given color and blend mode.
func fillPath(dst *ebiten.Image, path *vector.Path, c Color, blend BlendMode) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	cr := float32(c.R * c.A)
	cg := float32(c.G * c.A)
	cb := float32(c.B * c.A)
	ca := float32(c.A)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = cr
		vs[i].ColorG = cg
		vs[i].ColorB = cb
		vs[i].ColorA = ca
	}
	dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
		Blend:     blend.EbitenBlend(),
	})
}
