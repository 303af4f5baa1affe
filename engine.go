package sumi

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Store is the pull contract the engine queries every render. The engine
// never mutates store data; strokes and layers are created and destroyed
// entirely by the host, and disappearance from the pulled lists is the only
// deletion signal the engine sees.
type Store interface {
	Strokes() []*Stroke
}

// LayerStore is an optional store capability. When absent, the engine runs
// in legacy flat-stroke mode and draws Strokes() directly under the
// viewport transform.
type LayerStore interface {
	Layers() []*Layer
}

// SelectionStore is an optional store capability exposing the id of the at
// most one layer selected for transform, or "" for none.
type SelectionStore interface {
	SelectedLayerID() string
}

// BrushOptionsProvider is an optional store capability supplying rendering
// parameters as a pure function of (style, size). Without it the engine
// uses DefaultBrushOptions.
type BrushOptionsProvider interface {
	BrushOptions(style BrushStyle, size float64) BrushOptions
}

// ImageResolver resolves an opaque blob id to a decoded image. Resolution
// is asynchronous and may fail; the engine renders without the layer until
// the resolve lands and never retries a failed id.
type ImageResolver interface {
	Resolve(ctx context.Context, blobID string) (image.Image, error)
}

// CursorState is the dashed circular cursor indicator drawn on the overlay
// surface, in screen coordinates.
type CursorState struct {
	Visible bool
	X, Y    float64
	Radius  float64
}

// EngineConfig configures a new Engine. Width and Height are the host
// element's logical pixel dimensions; Scale is the device pixel ratio
// (0 defaults to 1).
type EngineConfig struct {
	Width, Height int
	Scale         float64
	Store         Store
	Resolver      ImageResolver
	Background    BackgroundMode
}

// loadResult carries a finished blob resolution back to the render
// goroutine. The decoded standard-library image is converted to a GPU image
// on the tick that drains it.
type loadResult struct {
	blobID string
	img    image.Image
	err    error
}

// frameStats holds per-frame metrics, populated every render pass and
// logged to stderr in debug mode.
type frameStats struct {
	renderTime     time.Duration
	layersDrawn    int
	layersSkipped  int
	strokesDrawn   int
	strokesSkipped int
	imagesPending  int
}

// Engine owns the display surfaces, the per-layer offscreen buffers, the
// decoded-image cache, and the dirty-driven render loop. All engine state
// is touched only from the host's frame tick; the sole concurrency is the
// per-blob resolve goroutine, which communicates through a buffered channel
// drained at tick start.
type Engine struct {
	store     Store
	layers    LayerStore // nil in legacy flat-stroke mode
	selection SelectionStore
	brushOpts BrushOptionsProvider
	resolver  ImageResolver

	background *Surface
	display    *Surface
	overlay    *Surface
	width      int
	height     int
	scale      float64

	brushes  brushSet
	viewport PanZoom
	bgMode   BackgroundMode
	preview  *Stroke
	cursor   CursorState

	layerBuffers map[string]*Surface
	imageCache   map[string]*ebiten.Image
	imageFailed  map[string]bool
	imageLoading map[string]bool
	loadDone     chan loadResult
	ctx          context.Context
	cancel       context.CancelFunc

	invalid  bool
	disposed bool
	debug    bool
	stats    frameStats
}

// NewEngine creates an engine for the given configuration. Construction
// fails loudly: a nil store or non-positive dimensions return an error and
// no partial engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("sumi: engine requires a store")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("sumi: invalid surface dimensions %dx%d", cfg.Width, cfg.Height)
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		store:        cfg.Store,
		resolver:     cfg.Resolver,
		width:        cfg.Width,
		height:       cfg.Height,
		scale:        scale,
		brushes:      newBrushSet(),
		viewport:     DefaultViewport,
		bgMode:       cfg.Background,
		layerBuffers: make(map[string]*Surface),
		imageCache:   make(map[string]*ebiten.Image),
		imageFailed:  make(map[string]bool),
		imageLoading: make(map[string]bool),
		loadDone:     make(chan loadResult, 16),
		ctx:          ctx,
		cancel:       cancel,
		invalid:      true,
	}

	if ls, ok := cfg.Store.(LayerStore); ok {
		e.layers = ls
	}
	if ss, ok := cfg.Store.(SelectionStore); ok {
		e.selection = ss
	}
	if bp, ok := cfg.Store.(BrushOptionsProvider); ok {
		e.brushOpts = bp
	}

	pw, ph := e.pixelSize()
	e.background = NewSurface(pw, ph)
	e.display = NewSurface(pw, ph)
	e.overlay = NewSurface(pw, ph)
	return e, nil
}

// pixelSize returns the surface dimensions in device pixels.
func (e *Engine) pixelSize() (int, int) {
	return int(float64(e.width) * e.scale), int(float64(e.height) * e.scale)
}

// pixelViewport folds the device pixel ratio into the viewport so world
// geometry lands on device pixels.
func (e *Engine) pixelViewport() PanZoom {
	return PanZoom{
		PanX: e.viewport.PanX * e.scale,
		PanY: e.viewport.PanY * e.scale,
		Zoom: e.viewport.zoom() * e.scale,
	}
}

// Invalidate marks the next tick for a full re-render. It is the only path
// to a re-render; a tick without it is a no-op.
func (e *Engine) Invalidate() {
	e.invalid = true
}

// SetViewport updates the pan/zoom mapping and invalidates on change.
func (e *Engine) SetViewport(vp PanZoom) {
	if e.viewport == vp {
		return
	}
	e.viewport = vp
	e.Invalidate()
}

// Viewport returns the current pan/zoom mapping.
func (e *Engine) Viewport() PanZoom {
	return e.viewport
}

// SetBackground switches the background mode and invalidates on change.
func (e *Engine) SetBackground(mode BackgroundMode) {
	if e.bgMode == mode {
		return
	}
	e.bgMode = mode
	e.Invalidate()
}

// SetPreviewStroke sets the live stroke being drawn (not yet committed to a
// layer), or nil to clear it. Always invalidates: the preview's point list
// mutates in place while the pointer moves.
func (e *Engine) SetPreviewStroke(s *Stroke) {
	e.preview = s
	e.Invalidate()
}

// SetCursor updates the overlay cursor indicator and invalidates on change.
func (e *Engine) SetCursor(c CursorState) {
	if e.cursor == c {
		return
	}
	e.cursor = c
	e.Invalidate()
}

// SetDebugMode enables per-frame stats logging to stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Resize resizes the display surfaces and every per-layer buffer to the new
// host dimensions and device pixel ratio, then invalidates. All buffers are
// re-rendered on the next tick.
func (e *Engine) Resize(width, height int, scale float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	if width == e.width && height == e.height && scale == e.scale {
		return
	}
	e.width = width
	e.height = height
	e.scale = scale

	pw, ph := e.pixelSize()
	e.background.Resize(pw, ph)
	e.display.Resize(pw, ph)
	e.overlay.Resize(pw, ph)
	for _, buf := range e.layerBuffers {
		buf.Resize(pw, ph)
	}
	e.Invalidate()
}

// BackgroundSurface returns the background surface.
func (e *Engine) BackgroundSurface() *Surface { return e.background }

// DisplaySurface returns the composited stroke/layer surface.
func (e *Engine) DisplaySurface() *Surface { return e.display }

// OverlaySurface returns the UI overlay surface.
func (e *Engine) OverlaySurface() *Surface { return e.overlay }

// Tick runs one cooperative frame: finished image loads are drained first,
// then a full render pass executes if and only if the engine has been
// invalidated since the last pass.
func (e *Engine) Tick() {
	if e.disposed {
		return
	}
	e.drainLoads()
	if !e.invalid {
		return
	}
	e.invalid = false
	e.renderFrame()
}

// Draw composites the three surfaces onto screen in order: background,
// strokes/layers, overlay. Convenience for hosts that do not place the
// surfaces themselves.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.disposed {
		return
	}
	var op ebiten.DrawImageOptions
	inv := 1 / e.scale
	op.GeoM.Scale(inv, inv)
	screen.DrawImage(e.background.Image(), &op)
	screen.DrawImage(e.display.Image(), &op)
	screen.DrawImage(e.overlay.Image(), &op)
}

// Dispose tears down all surfaces, buffers, and caches, and cancels any
// in-flight image resolution. The engine must not be used afterwards.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.cancel()
	e.background.Dispose()
	e.display.Dispose()
	e.overlay.Dispose()
	for id, buf := range e.layerBuffers {
		buf.Dispose()
		delete(e.layerBuffers, id)
	}
	for id, img := range e.imageCache {
		img.Deallocate()
		delete(e.imageCache, id)
	}
}

// --- Render pass ---

// renderFrame executes the full render pass: background, then layers
// bottom-to-top, then the preview stroke, then the overlay. Per-frame
// failures (unknown brush style, unresolved image) skip the offending
// element and never abort the pass.
func (e *Engine) renderFrame() {
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}
	e.stats = frameStats{}

	e.renderBackground()
	e.renderContent()
	e.renderOverlay()
	e.reconcileCaches()

	if e.debug {
		e.stats.renderTime = time.Since(t0)
		e.debugLog()
	}
}

// renderBackground fills or clears the background surface.
func (e *Engine) renderBackground() {
	switch e.bgMode {
	case BackgroundGrid:
		e.background.Clear()
		DrawGrid(e.background.Image(), e.pixelViewport())
	case BackgroundTransparent:
		e.background.Clear()
	default:
		e.background.Fill(ColorWhite)
	}
}

// renderContent clears the display surface and composites stroke and image
// layers bottom-to-top, or draws the flat stroke list in legacy mode. The
// preview stroke is drawn last, directly on the display surface, ignoring
// layer opacity.
func (e *Engine) renderContent() {
	e.display.Clear()

	if e.layers == nil {
		e.drawStrokes(e.display.Image(), e.store.Strokes())
	} else {
		for _, l := range e.layers.Layers() {
			if !l.renderable() {
				e.stats.layersSkipped++
				continue
			}
			e.renderLayer(l)
		}
	}

	if e.preview != nil {
		e.drawStroke(e.display.Image(), e.preview)
	}
}

// renderLayer renders one visible layer into its own offscreen buffer at
// full opacity, then composites the buffer onto the display surface with
// the layer's opacity as the single blend factor.
func (e *Engine) renderLayer(l *Layer) {
	buf := e.ensureBuffer(l.ID)
	buf.Clear()

	switch l.Type {
	case LayerImage:
		if !e.drawImageLayer(buf.Image(), l) {
			return
		}
	default:
		e.drawStrokes(buf.Image(), l.Strokes)
	}

	var op ebiten.DrawImageOptions
	op.ColorScale.ScaleAlpha(float32(l.opacity()))
	e.display.Image().DrawImage(buf.Image(), &op)
	e.stats.layersDrawn++
}

// ensureBuffer returns the layer's offscreen buffer, creating it lazily on
// first render.
func (e *Engine) ensureBuffer(id string) *Surface {
	if buf, ok := e.layerBuffers[id]; ok {
		return buf
	}
	pw, ph := e.pixelSize()
	buf := NewSurface(pw, ph)
	e.layerBuffers[id] = buf
	return buf
}

// drawStrokes renders a stroke list in order onto dst.
func (e *Engine) drawStrokes(dst *ebiten.Image, strokes []*Stroke) {
	for _, s := range strokes {
		e.drawStroke(dst, s)
	}
}

// drawStroke renders one stroke under the pixel viewport transform. An
// unknown brush style skips the stroke for this frame.
func (e *Engine) drawStroke(dst *ebiten.Image, s *Stroke) {
	brush, ok := e.brushes[s.Style]
	if !ok {
		e.stats.strokesSkipped++
		if e.debug {
			fmt.Fprintf(os.Stderr, "[sumi] skipping stroke %s: unknown brush style %d\n", s.ID, s.Style)
		}
		return
	}

	opts := e.brushOptions(s.Style, s.Size)
	brush.Render(dst, e.strokeToScreen(s), opts)
	e.stats.strokesDrawn++
}

// strokeToScreen returns a shallow copy of the stroke with its points and
// size mapped from world space into surface pixels. Taper lengths in
// BrushOptions are world units, so they are scaled the same way by
// brushOptions.
func (e *Engine) strokeToScreen(s *Stroke) *Stroke {
	vp := e.pixelViewport()
	out := *s
	out.Size = s.Size * vp.Zoom
	out.Points = make([]Point, len(s.Points))
	for i, p := range s.Points {
		x, y := vp.WorldToScreen(p.X, p.Y)
		out.Points[i] = Point{X: x, Y: y, Pressure: p.Pressure}
	}
	return &out
}

// brushOptions resolves per-stroke rendering parameters, preferring the
// store's provider, and scales world-unit lengths into surface pixels.
func (e *Engine) brushOptions(style BrushStyle, size float64) BrushOptions {
	var opts BrushOptions
	if e.brushOpts != nil {
		opts = e.brushOpts.BrushOptions(style, size)
	} else {
		opts = DefaultBrushOptions(style, size)
	}
	z := e.pixelViewport().Zoom
	opts.TaperStart *= z
	opts.TaperEnd *= z
	return opts
}

// drawImageLayer draws a placed image at its placement rectangle, rotated
// in place about its own center. Reports whether anything was drawn: a
// cache miss starts an asynchronous resolve (once per blob id) and skips
// the layer for this frame.
func (e *Engine) drawImageLayer(dst *ebiten.Image, l *Layer) bool {
	p := l.Image
	img, ok := e.imageCache[p.BlobID]
	if !ok {
		e.requestImage(p.BlobID)
		e.stats.imagesPending++
		return false
	}

	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 || p.Width <= 0 || p.Height <= 0 {
		return false
	}

	vp := e.pixelViewport()
	pw := p.Width * vp.Zoom
	ph := p.Height * vp.Zoom
	ccx, ccy := p.Center()
	scx, scy := vp.WorldToScreen(ccx, ccy)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(pw/iw, ph/ih)
	op.GeoM.Translate(-pw/2, -ph/2)
	op.GeoM.Rotate(p.Rotation * math.Pi / 180)
	op.GeoM.Translate(scx, scy)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, &op)
	return true
}

// requestImage starts a resolve goroutine for a blob id unless one is
// already in flight, the id already failed, or no resolver is configured.
func (e *Engine) requestImage(blobID string) {
	if blobID == "" || e.resolver == nil || e.imageLoading[blobID] || e.imageFailed[blobID] {
		return
	}
	e.imageLoading[blobID] = true
	go func() {
		img, err := e.resolver.Resolve(e.ctx, blobID)
		select {
		case e.loadDone <- loadResult{blobID: blobID, img: img, err: err}:
		case <-e.ctx.Done():
		}
	}()
}

// drainLoads applies finished image resolutions: successes fill the decoded
// cache and invalidate, failures are logged in debug mode and marked so the
// id is not retried every frame. GPU image creation happens here, on the
// render goroutine, never on the loader goroutine.
func (e *Engine) drainLoads() {
	for {
		select {
		case res := <-e.loadDone:
			delete(e.imageLoading, res.blobID)
			if res.err != nil || res.img == nil {
				e.imageFailed[res.blobID] = true
				if e.debug {
					fmt.Fprintf(os.Stderr, "[sumi] image %s failed to load: %v\n", res.blobID, res.err)
				}
			} else {
				e.imageCache[res.blobID] = ebiten.NewImageFromImage(res.img)
			}
			e.Invalidate()
		default:
			return
		}
	}
}

// renderOverlay clears the UI surface, draws transform handles when the
// selected layer is an image layer, and draws the cursor indicator.
func (e *Engine) renderOverlay() {
	e.overlay.Clear()

	if l := e.selectedImageLayer(); l != nil {
		DrawHandles(e.overlay.Image(), l.Image, e.pixelViewport())
	}

	if e.cursor.Visible && e.cursor.Radius > 0 {
		drawCursorRing(e.overlay.Image(),
			e.cursor.X*e.scale, e.cursor.Y*e.scale, e.cursor.Radius*e.scale)
	}
}

// selectedImageLayer returns the currently selected layer if it exists and
// is an image layer, else nil.
func (e *Engine) selectedImageLayer() *Layer {
	if e.selection == nil || e.layers == nil {
		return nil
	}
	id := e.selection.SelectedLayerID()
	if id == "" {
		return nil
	}
	for _, l := range e.layers.Layers() {
		if l.ID == id {
			if l.Type == LayerImage {
				return l
			}
			return nil
		}
	}
	return nil
}

// reconcileCaches tears down per-layer buffers and decoded-image cache
// entries whose ids are absent from the current frame's active set. This is
// the engine's only garbage-collection point; nothing is reference-counted
// or finalized.
func (e *Engine) reconcileCaches() {
	if e.layers == nil {
		// Legacy mode has no layers; everything derived is stale.
		for id, buf := range e.layerBuffers {
			buf.Dispose()
			delete(e.layerBuffers, id)
		}
		return
	}

	layers := e.layers.Layers()
	activeLayers := make(map[string]struct{}, len(layers))
	activeBlobs := make(map[string]struct{})
	for _, l := range layers {
		activeLayers[l.ID] = struct{}{}
		if l.Type == LayerImage && l.Image.BlobID != "" {
			activeBlobs[l.Image.BlobID] = struct{}{}
		}
	}

	for id, buf := range e.layerBuffers {
		if _, ok := activeLayers[id]; !ok {
			buf.Dispose()
			delete(e.layerBuffers, id)
		}
	}
	for id, img := range e.imageCache {
		if _, ok := activeBlobs[id]; !ok {
			img.Deallocate()
			delete(e.imageCache, id)
		}
	}
	for id := range e.imageFailed {
		if _, ok := activeBlobs[id]; !ok {
			delete(e.imageFailed, id)
		}
	}
}

// debugLog prints per-frame render stats to stderr.
func (e *Engine) debugLog() {
	_, _ = fmt.Fprintf(os.Stderr,
		"[sumi] render: %v | layers: %d drawn, %d skipped | strokes: %d drawn, %d skipped | images pending: %d\n",
		e.stats.renderTime, e.stats.layersDrawn, e.stats.layersSkipped,
		e.stats.strokesDrawn, e.stats.strokesSkipped, e.stats.imagesPending)
}
