// Package sumi is a layered, pressure-sensitive freehand drawing engine for
// [Ebitengine].
//
// Sumi turns pointer samples into variable-width ink strokes, composites
// independently editable layers (stroke layers and placed raster images)
// into a final image, provides interactive move/resize/rotate manipulation
// of image layers, and can replay drawing history as a timed animation.
//
// # Engine
//
// The [Engine] owns three display surfaces (background, composited
// strokes/layers, UI overlay) plus one offscreen buffer per layer. It pulls
// stroke and layer data from a host-owned [Store] every render and never
// mutates it; a stroke or layer disappearing from the pulled list is the
// only deletion signal.
//
//	eng, err := sumi.NewEngine(sumi.EngineConfig{
//		Width: 800, Height: 600, Store: store,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	// each frame:
//	eng.Tick()
//	eng.Draw(screen)
//
// Rendering is dirty-driven: [Engine.Invalidate] (called implicitly by the
// viewport, background, preview, and cursor setters) marks the next tick
// for a full re-render; a tick without it is a no-op.
//
// # Brushes
//
// Four brush styles form a closed set: [BrushInk], [BrushEraser],
// [BrushSpray], and [BrushTexture]. Ink synthesizes a variable-width closed
// outline from pressure samples and fills it as a smooth quadratic path;
// the eraser reuses that geometry under destination-out compositing; spray
// stamps seeded dot clusters; texture layers three jittered ink passes.
// All jitter derives from a seeded hash of stable point identifiers, so
// re-rendering an unchanged stroke is bit-reproducible.
//
// # Transforms
//
// The transform controller is a set of stateless functions over an
// [ImagePlacement] and a [PanZoom] viewport: [HandlePositions],
// [HitTestHandles], and the [ApplyMove]/[ApplyRotation]/[ApplyResize]
// family, which map a captured [DragState] and the current mouse position
// to new placement geometry.
//
// # Playback
//
// [Player] replays a stroke set as a timed animation, reconstructing the
// partial form of each stroke for any playback time, with play/pause/seek,
// speed multipliers, and completion callbacks. It is driven by the host's
// frame tick and is independent of the render engine.
//
// [Ebitengine]: https://ebitengine.org
package sumi
