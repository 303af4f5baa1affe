package sumi

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Registry ---

func TestBrushSetCoversAllStyles(t *testing.T) {
	set := newBrushSet()
	for _, style := range []BrushStyle{BrushInk, BrushEraser, BrushSpray, BrushTexture} {
		if _, ok := set[style]; !ok {
			t.Errorf("brush set missing style %v", style)
		}
	}
	if len(set) != 4 {
		t.Errorf("brush set has %d entries, want 4", len(set))
	}
}

func TestEraserWrapsInkGeometry(t *testing.T) {
	set := newBrushSet()
	if _, ok := set[BrushEraser].(eraserBrush); !ok {
		t.Fatalf("eraser brush is %T, want eraserBrush wrapping ink", set[BrushEraser])
	}
}

func TestEraseBlendIsDestinationOut(t *testing.T) {
	if BlendErase.EbitenBlend() != ebiten.BlendDestinationOut {
		t.Error("BlendErase must map to destination-out compositing")
	}
}

func TestBlendNormalIsSourceOver(t *testing.T) {
	if BlendNormal.EbitenBlend() != ebiten.BlendSourceOver {
		t.Error("BlendNormal must map to source-over compositing")
	}
}

// --- Rendering no-ops ---

func TestBrushesNoOpOnShortStrokes(t *testing.T) {
	dst := ebiten.NewImage(64, 64)
	defer dst.Deallocate()

	set := newBrushSet()
	short := &Stroke{ID: "short", Points: []Point{{X: 10, Y: 10}}, Size: 8}
	for style, brush := range set {
		short.Style = style
		// Must not panic or error; a sub-minimal stroke is a silent no-op
		// for outline brushes and a single stamp for spray.
		brush.Render(dst, short, DefaultBrushOptions(style, short.Size))
	}
}

func TestInkRenderEmptyStrokeNoPanic(t *testing.T) {
	dst := ebiten.NewImage(32, 32)
	defer dst.Deallocate()
	inkBrush{}.Render(dst, &Stroke{ID: "empty", Size: 8}, BrushOptions{})
}

// --- Determinism ---

func TestHashUnitDeterministic(t *testing.T) {
	a := hashUnit(12.5, -3.75, 42)
	b := hashUnit(12.5, -3.75, 42)
	if a != b {
		t.Errorf("hashUnit not deterministic: %f vs %f", a, b)
	}
}

func TestHashUnitRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := hashUnit(float64(i)*1.7, float64(i)*-0.3, uint64(i))
		if v < 0 || v >= 1 {
			t.Fatalf("hashUnit out of range: %f", v)
		}
	}
}

func TestHashUnitVariesWithInputs(t *testing.T) {
	base := hashUnit(1, 2, 3)
	if hashUnit(1.0001, 2, 3) == base {
		t.Error("hashUnit insensitive to x")
	}
	if hashUnit(1, 2.0001, 3) == base {
		t.Error("hashUnit insensitive to y")
	}
	if hashUnit(1, 2, 4) == base {
		t.Error("hashUnit insensitive to salt")
	}
}

func TestSprayDotCountScalesWithPressure(t *testing.T) {
	low := sprayDotCount(20, 0.2)
	high := sprayDotCount(20, 1.0)
	if low >= high {
		t.Errorf("dot count %d >= %d, want growth with pressure", low, high)
	}
	if sprayDotCount(1, 0.1) < 4 {
		t.Error("dot count should have a floor so light taps still spray")
	}
}

// --- Options ---

func TestDefaultBrushOptionsPerStyle(t *testing.T) {
	ink := DefaultBrushOptions(BrushInk, 10)
	if ink.Thinning == 0 || ink.Streamline == 0 {
		t.Error("ink defaults should enable pressure thinning and streamline")
	}
	if ink.TaperStart == 0 || ink.TaperEnd == 0 {
		t.Error("ink defaults should taper both ends")
	}

	spray := DefaultBrushOptions(BrushSpray, 10)
	if spray.Thinning != 0 || spray.TaperStart != 0 || spray.TaperEnd != 0 || spray.Easing != nil {
		t.Errorf("spray defaults = %+v, want zero options (no outline synthesis)", spray)
	}
}

func TestDefaultBrushOptionsScaleWithSize(t *testing.T) {
	small := DefaultBrushOptions(BrushInk, 4)
	large := DefaultBrushOptions(BrushInk, 40)
	if small.TaperStart >= large.TaperStart {
		t.Errorf("taper %f >= %f, want taper length to grow with size", small.TaperStart, large.TaperStart)
	}
}

func TestBrushStyleString(t *testing.T) {
	tests := []struct {
		style BrushStyle
		want  string
	}{
		{BrushInk, "ink"},
		{BrushEraser, "eraser"},
		{BrushSpray, "spray"},
		{BrushTexture, "texture"},
		{BrushStyle(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.style.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.style, got, tt.want)
		}
	}
}
