package sumi

import "testing"

// --- Points ---

func TestPointPressureDefault(t *testing.T) {
	if got := (Point{X: 1, Y: 1}).pressure(); got != 0.5 {
		t.Errorf("pressure = %f for unreported sample, want 0.5", got)
	}
}

func TestPointPressureClamps(t *testing.T) {
	if got := (Point{Pressure: 3}).pressure(); got != 1 {
		t.Errorf("pressure = %f, want clamped to 1", got)
	}
	if got := (Point{Pressure: 0.7}).pressure(); got != 0.7 {
		t.Errorf("pressure = %f, want passed through", got)
	}
}

// --- Strokes ---

func TestNewStrokeIdentity(t *testing.T) {
	a := NewStroke(BrushInk, ColorBlack, 8)
	b := NewStroke(BrushInk, ColorBlack, 8)
	if a.ID == "" || a.ID == b.ID {
		t.Error("strokes must get unique non-empty ids")
	}
	if a.Timestamp == 0 {
		t.Error("stroke timestamp not set")
	}
	if a.Style != BrushInk || a.Size != 8 || a.Color != ColorBlack {
		t.Error("stroke parameters not carried")
	}
}

func TestStrokeOpacityZeroValueIsOpaque(t *testing.T) {
	s := &Stroke{}
	if got := s.opacity(); got != 1 {
		t.Errorf("opacity = %f for zero value, want 1", got)
	}
	s.Opacity = 0.4
	if got := s.opacity(); got != 0.4 {
		t.Errorf("opacity = %f, want 0.4", got)
	}
	s.Opacity = 5
	if got := s.opacity(); got != 1 {
		t.Errorf("opacity = %f, want clamped to 1", got)
	}
}

func TestStrokeHasTiming(t *testing.T) {
	s := &Stroke{StartTime: 100}
	if s.hasTiming() {
		t.Error("start time without duration is not explicit timing")
	}
	s.Duration = 250
	if !s.hasTiming() {
		t.Error("positive duration means explicit timing")
	}
}

// --- Layers ---

func TestNewStrokeLayerDefaults(t *testing.T) {
	l := NewStrokeLayer("sketch")
	if l.ID == "" || l.Name != "sketch" || l.Type != LayerStrokes {
		t.Error("unexpected stroke layer identity")
	}
	if !l.Visible || l.Locked || l.Opacity != 1 {
		t.Error("new layers start visible, unlocked, opaque")
	}
}

func TestNewImageLayerCarriesPlacement(t *testing.T) {
	p := ImagePlacement{BlobID: "b", X: 10, Y: 20, Width: 30, Height: 40}
	l := NewImageLayer("photo", p)
	if l.Type != LayerImage || l.Image != p {
		t.Error("image layer did not carry its placement")
	}
}

func TestLayerRenderable(t *testing.T) {
	tests := []struct {
		visible, locked bool
		want            bool
	}{
		{true, false, true},
		{false, false, false},
		{true, true, false},
		{false, true, false},
	}
	for _, tt := range tests {
		l := &Layer{Visible: tt.visible, Locked: tt.locked}
		if got := l.renderable(); got != tt.want {
			t.Errorf("renderable(visible=%v, locked=%v) = %v, want %v",
				tt.visible, tt.locked, got, tt.want)
		}
	}
}

func TestLayerOpacityZeroValueIsOpaque(t *testing.T) {
	l := &Layer{}
	if got := l.opacity(); got != 1 {
		t.Errorf("opacity = %f for zero value, want 1", got)
	}
}

// --- Placement geometry ---

func TestPlacementCenter(t *testing.T) {
	p := ImagePlacement{X: 100, Y: 200, Width: 50, Height: 30}
	cx, cy := p.Center()
	if cx != 125 || cy != 215 {
		t.Errorf("center = (%f, %f), want (125, 215)", cx, cy)
	}
}

func TestPlacementAspectRatio(t *testing.T) {
	p := ImagePlacement{Width: 200, Height: 100}
	if got := p.AspectRatio(); got != 2 {
		t.Errorf("aspect = %f, want 2", got)
	}
	if got := (ImagePlacement{Width: 10}).AspectRatio(); got != 1 {
		t.Errorf("aspect = %f for degenerate height, want 1", got)
	}
}
