package sumi

import (
	"time"

	"github.com/google/uuid"
)

// Point is a single pointer sample in world (drawing-surface) coordinates,
// not screen pixels. Pressure is in [0, 1]; zero means "not reported" and
// reads as 0.5.
type Point struct {
	X, Y     float64
	Pressure float64
}

// pressure returns the effective pressure, substituting the 0.5 default when
// the sample carries none and clamping reported values into [0, 1].
func (p Point) pressure() float64 {
	if p.Pressure <= 0 {
		return 0.5
	}
	if p.Pressure > 1 {
		return 1
	}
	return p.Pressure
}

// Stroke is one continuous pointer-down-to-pointer-up ink gesture. Points is
// append-only while the stroke is live (the engine's preview stroke) and
// frozen once the stroke is committed to a layer.
//
// StartTime and Duration are optional timing metadata in milliseconds, used
// only by playback. Duration 0 means "no explicit timing"; playback then
// falls back to Timestamp with an assumed fixed duration.
type Stroke struct {
	ID        string
	Points    []Point
	Color     Color
	Size      float64
	Opacity   float64 // 0 means fully opaque
	Style     BrushStyle
	Timestamp int64 // creation time, Unix milliseconds
	StartTime int64 // playback window start, milliseconds
	Duration  int64 // playback window length, milliseconds
}

// NewStroke creates an empty stroke with a fresh id and the current time.
func NewStroke(style BrushStyle, c Color, size float64) *Stroke {
	return &Stroke{
		ID:        uuid.NewString(),
		Color:     c,
		Size:      size,
		Style:     style,
		Timestamp: time.Now().UnixMilli(),
	}
}

// opacity returns the effective opacity, treating the zero value as 1.0.
func (s *Stroke) opacity() float64 {
	if s.Opacity <= 0 {
		return 1
	}
	if s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// hasTiming reports whether the stroke carries explicit playback timing.
func (s *Stroke) hasTiming() bool {
	return s.Duration > 0
}
