package sumi

import (
	"math"
	"testing"
)

func testPlacement() ImagePlacement {
	return ImagePlacement{
		BlobID: "blob-1",
		X:      100, Y: 100,
		Width: 200, Height: 100,
		NaturalWidth: 400, NaturalHeight: 200,
	}
}

func identityVP() PanZoom { return PanZoom{Zoom: 1} }

// --- Handle positions ---

func TestHandlePositionsUnrotated(t *testing.T) {
	p := testPlacement()
	hps := HandlePositions(p, identityVP())

	want := [4][2]float64{{100, 100}, {300, 100}, {300, 200}, {100, 200}}
	for i, w := range want {
		if math.Abs(hps[i].X-w[0]) > 1e-9 || math.Abs(hps[i].Y-w[1]) > 1e-9 {
			t.Errorf("corner %d = (%f, %f), want (%f, %f)", i, hps[i].X, hps[i].Y, w[0], w[1])
		}
	}
	knob := hps[4]
	if knob.Handle != HandleRotate {
		t.Fatalf("handle[4] = %v, want HandleRotate", knob.Handle)
	}
	if math.Abs(knob.X-200) > 1e-9 {
		t.Errorf("knob x = %f, want 200 (top-edge center)", knob.X)
	}
	if knob.Y >= 100 {
		t.Errorf("knob y = %f, want above the top edge", knob.Y)
	}
}

func TestHandlePositionsRotate180(t *testing.T) {
	p := testPlacement()
	p.Rotation = 180
	hps := HandlePositions(p, identityVP())

	// At 180 degrees the nw handle lands where se was.
	if math.Abs(hps[0].X-300) > 1e-6 || math.Abs(hps[0].Y-200) > 1e-6 {
		t.Errorf("rotated nw = (%f, %f), want (300, 200)", hps[0].X, hps[0].Y)
	}
}

func TestHandlePositionsKnobScalesWithInverseZoom(t *testing.T) {
	p := testPlacement()
	near := HandlePositions(p, PanZoom{Zoom: 1})
	far := HandlePositions(p, PanZoom{Zoom: 2})

	// Screen-space knob distance above the top edge must be fixed.
	topNear := near[0].Y
	topFar := far[0].Y
	dNear := topNear - near[4].Y
	dFar := topFar - far[4].Y
	if math.Abs(dNear-dFar) > 1e-6 {
		t.Errorf("knob screen offset %f vs %f, want zoom-independent", dNear, dFar)
	}
}

// --- Hit testing ---

func TestHitTestPriorityRotateOverCorner(t *testing.T) {
	// Shrink the placement so the knob region overlaps the nw corner region,
	// then probe a point inside both.
	p := testPlacement()
	p.Width = 10
	p.Height = 10
	hps := HandlePositions(p, identityVP())
	knob := hps[4]

	// Probe just below the knob, toward the nw corner.
	probeX, probeY := knob.X-4, knob.Y+8
	nw := hps[0]
	reach := handleSize + handleHitPadding
	if math.Abs(probeX-nw.X) > reach || math.Abs(probeY-nw.Y) > reach {
		t.Skip("probe point does not overlap the corner region; geometry changed")
	}

	if got := HitTestHandles(probeX, probeY, p, identityVP()); got != HandleRotate {
		t.Errorf("hit = %v, want HandleRotate to win over corner", got)
	}
}

func TestHitTestCorners(t *testing.T) {
	p := testPlacement()
	vp := identityVP()
	tests := []struct {
		x, y float64
		want Handle
	}{
		{100, 100, HandleNW},
		{300, 100, HandleNE},
		{300, 200, HandleSE},
		{100, 200, HandleSW},
	}
	for _, tt := range tests {
		if got := HitTestHandles(tt.x, tt.y, p, vp); got != tt.want {
			t.Errorf("hit(%f, %f) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHitTestInsideIsMove(t *testing.T) {
	p := testPlacement()
	if got := HitTestHandles(200, 150, p, identityVP()); got != HandleMove {
		t.Errorf("hit(center) = %v, want HandleMove", got)
	}
}

func TestHitTestOutsideIsNone(t *testing.T) {
	p := testPlacement()
	if got := HitTestHandles(700, 700, p, identityVP()); got != HandleNone {
		t.Errorf("hit(far away) = %v, want HandleNone", got)
	}
}

func TestHitTestRotatedRect(t *testing.T) {
	p := testPlacement()
	p.Rotation = 90

	// After a 90-degree rotation about (200, 150), the world point
	// (290, 150) is inside the rotated rect, while (110, 105) (inside the
	// unrotated rect, near its corner-edge) falls outside it.
	if got := HitTestHandles(200, 240, p, identityVP()); got != HandleMove {
		t.Errorf("hit inside rotated rect = %v, want HandleMove", got)
	}
	if got := HitTestHandles(105, 110, p, identityVP()); got == HandleMove {
		t.Error("point outside rotated rect resolved to move")
	}
}

// --- Move ---

func TestApplyMoveTranslates(t *testing.T) {
	p := testPlacement()
	vp := PanZoom{Zoom: 2}
	d := NewDragState(HandleMove, 400, 400, p, vp)

	got := ApplyMove(d, 440, 380, vp)
	// Screen delta (40, -20) at zoom 2 is world delta (20, -10).
	if math.Abs(got.X-120) > 1e-9 || math.Abs(got.Y-90) > 1e-9 {
		t.Errorf("moved to (%f, %f), want (120, 90)", got.X, got.Y)
	}
	if got.Width != p.Width || got.Height != p.Height || got.Rotation != p.Rotation {
		t.Error("move must not change size or rotation")
	}
}

// --- Rotation ---

func TestApplyRotationQuarterTurn(t *testing.T) {
	p := testPlacement() // center (200, 150)
	vp := identityVP()
	d := NewDragState(HandleRotate, 200, 50, p, vp) // straight above center

	got := ApplyRotation(d, 300, 150, vp) // straight right of center
	if math.Abs(got.Rotation-90) > 1e-6 {
		t.Errorf("rotation = %f, want 90", got.Rotation)
	}
}

func TestApplyRotationNormalized(t *testing.T) {
	p := testPlacement()
	p.Rotation = 350
	vp := identityVP()
	d := NewDragState(HandleRotate, 200, 50, p, vp)

	got := ApplyRotation(d, 300, 150, vp) // +90 on top of 350
	if got.Rotation < 0 || got.Rotation >= 360 {
		t.Fatalf("rotation = %f, want in [0, 360)", got.Rotation)
	}
	if math.Abs(got.Rotation-80) > 1e-6 {
		t.Errorf("rotation = %f, want 80", got.Rotation)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{540, 180},
		{-90, 270},
		{-720, 0},
		{1170, 90},
	}
	for _, tt := range tests {
		if got := normalizeDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeDegrees(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

// --- Resize ---

func TestApplyResizeSEGrows(t *testing.T) {
	p := testPlacement()
	vp := identityVP()
	d := NewDragState(HandleSE, 300, 200, p, vp)

	got := ApplyResize(d, 340, 230, vp, false)
	if got.Width != 240 || got.Height != 130 {
		t.Errorf("size = %fx%f, want 240x130", got.Width, got.Height)
	}
	if got.X != 100 || got.Y != 100 {
		t.Errorf("origin moved to (%f, %f), want anchored at (100, 100)", got.X, got.Y)
	}
}

func TestApplyResizeNWAnchorsOppositeCorner(t *testing.T) {
	p := testPlacement()
	vp := identityVP()
	d := NewDragState(HandleNW, 100, 100, p, vp)

	got := ApplyResize(d, 120, 110, vp, false)
	if got.X != 120 || got.Y != 110 {
		t.Errorf("origin = (%f, %f), want (120, 110)", got.X, got.Y)
	}
	if got.X+got.Width != 300 || got.Y+got.Height != 200 {
		t.Errorf("se corner = (%f, %f), want fixed at (300, 200)",
			got.X+got.Width, got.Y+got.Height)
	}
}

func TestApplyResizeMinimumFloor(t *testing.T) {
	p := testPlacement()
	vp := identityVP()
	d := NewDragState(HandleSE, 300, 200, p, vp)

	got := ApplyResize(d, 50, 50, vp, false)
	if got.Width != minLayerDimension || got.Height != minLayerDimension {
		t.Errorf("size = %fx%f, want clamped to %f on both axes", got.Width, got.Height, float64(minLayerDimension))
	}
}

func TestApplyResizeAspectLocked(t *testing.T) {
	p := testPlacement() // 2:1 aspect
	vp := identityVP()
	d := NewDragState(HandleSE, 300, 200, p, vp)

	got := ApplyResize(d, 360, 210, vp, true)
	if math.Abs(got.Width/got.Height-2) > 1e-9 {
		t.Errorf("aspect = %f, want 2", got.Width/got.Height)
	}
	if got.X != 100 || got.Y != 100 {
		t.Errorf("anchored corner moved to (%f, %f), want (100, 100)", got.X, got.Y)
	}
}

func TestApplyResizeAspectLockedRespectsFloor(t *testing.T) {
	p := testPlacement()
	vp := identityVP()
	d := NewDragState(HandleSE, 300, 200, p, vp)

	got := ApplyResize(d, 10, 10, vp, true)
	if got.Width < minLayerDimension || got.Height < minLayerDimension {
		t.Errorf("size = %fx%f, below the %f floor", got.Width, got.Height, float64(minLayerDimension))
	}
	if math.Abs(got.Width/got.Height-2) > 1e-6 {
		t.Errorf("aspect = %f, want preserved at 2 after clamping", got.Width/got.Height)
	}
}

func TestApplyResizeOnRotatedLayer(t *testing.T) {
	p := testPlacement()
	p.Rotation = 90
	vp := identityVP()
	d := NewDragState(HandleSE, 300, 200, p, vp)

	// At 90 degrees, dragging "down" in world space grows the width in the
	// layer's local frame.
	got := ApplyResize(d, 300, 240, vp, false)
	if math.Abs(got.Width-240) > 1e-6 {
		t.Errorf("width = %f, want 240 (world delta un-rotated into local frame)", got.Width)
	}
	if math.Abs(got.Height-100) > 1e-6 {
		t.Errorf("height = %f, want unchanged 100", got.Height)
	}
}

// --- Cursors ---

func TestCursorForTable(t *testing.T) {
	tests := []struct {
		h    Handle
		want string
	}{
		{HandleMove, "move"},
		{HandleRotate, "grab"},
		{HandleNW, "nwse-resize"},
		{HandleSE, "nwse-resize"},
		{HandleNE, "nesw-resize"},
		{HandleSW, "nesw-resize"},
		{HandleNone, "default"},
	}
	for _, tt := range tests {
		if got := CursorFor(tt.h); got != tt.want {
			t.Errorf("CursorFor(%v) = %q, want %q", tt.h, got, tt.want)
		}
	}
}
