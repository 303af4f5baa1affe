package sumi

import (
	"sort"
	"time"
)

// PlayState is the playback state machine's current state.
type PlayState uint8

const (
	PlayStopped PlayState = iota
	PlayPlaying
	PlayPaused
)

// String returns the state's name.
func (s PlayState) String() string {
	switch s {
	case PlayPlaying:
		return "playing"
	case PlayPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// fallbackStrokeDuration is the assumed per-stroke duration in milliseconds
// for strokes without explicit timing metadata.
const fallbackStrokeDuration = 500

// FrameInfo describes one emitted playback frame.
type FrameInfo struct {
	// Time is the current playback time in milliseconds from base time.
	Time float64
	// Total is the total playback duration in milliseconds.
	Total float64
	// Progress is Time/Total in [0, 1], or 0 for an empty timeline.
	Progress float64
}

// Player replays a fixed stroke set as a timed animation, reconstructing
// the partial form of each stroke for any playback time. It is independent
// of the render engine: the host calls Update each frame tick while playing
// and renders whatever OnFrame hands it.
//
// Invalid operations (Play with no strokes, Pause while not playing) are
// silent no-ops; out-of-range seeks clamp.
type Player struct {
	strokes []*Stroke
	state   PlayState
	current float64 // ms from base time
	total   float64 // ms
	base    int64   // earliest window start, Unix ms
	speed   float64

	lastTick time.Time
	hasTick  bool

	// OnFrame receives each emitted frame with the visible stroke set.
	OnFrame func(FrameInfo, []*Stroke)
	// OnStateChange fires on every state transition.
	OnStateChange func(PlayState)
	// OnComplete fires once when playback reaches the total duration.
	OnComplete func()
}

// NewPlayer creates a player over a private copy of the stroke list, sorted
// by playback window start.
func NewPlayer(strokes []*Stroke) *Player {
	owned := make([]*Stroke, 0, len(strokes))
	for _, s := range strokes {
		if s != nil {
			owned = append(owned, s)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		si, _ := strokeWindow(owned[i])
		sj, _ := strokeWindow(owned[j])
		return si < sj
	})

	p := &Player{strokes: owned, speed: 1}
	p.total, p.base = totalDuration(owned)
	return p
}

// strokeWindow returns a stroke's playback window as (start, duration) in
// absolute milliseconds. Strokes without explicit timing fall back to their
// creation timestamp with an assumed fixed duration.
func strokeWindow(s *Stroke) (start, duration int64) {
	if s.hasTiming() {
		return s.StartTime, s.Duration
	}
	return s.Timestamp, fallbackStrokeDuration
}

// totalDuration computes the timeline length and base time for a stroke
// set: total = max(window end) - min(window start), base = min(window
// start). An empty set yields (0, 0).
func totalDuration(strokes []*Stroke) (total float64, base int64) {
	if len(strokes) == 0 {
		return 0, 0
	}
	first := true
	var minStart, maxEnd int64
	for _, s := range strokes {
		start, dur := strokeWindow(s)
		if first {
			minStart, maxEnd = start, start+dur
			first = false
			continue
		}
		if start < minStart {
			minStart = start
		}
		if end := start + dur; end > maxEnd {
			maxEnd = end
		}
	}
	return float64(maxEnd - minStart), minStart
}

// Total returns the total playback duration in milliseconds.
func (p *Player) Total() float64 {
	return p.total
}

// Time returns the current playback time in milliseconds from base time.
func (p *Player) Time() float64 {
	return p.current
}

// Progress returns the playback position in [0, 1].
func (p *Player) Progress() float64 {
	if p.total == 0 {
		return 0
	}
	return p.current / p.total
}

// State returns the current playback state.
func (p *Player) State() PlayState {
	return p.state
}

// Speed returns the current speed multiplier.
func (p *Player) Speed() float64 {
	return p.speed
}

// SetSpeed sets the playback speed multiplier, clamped into [0.25, 8].
// The intended presets are 0.5x, 1x, 2x, and 4x.
func (p *Player) SetSpeed(m float64) {
	if m < 0.25 {
		m = 0.25
	}
	if m > 8 {
		m = 8
	}
	p.speed = m
}

// Play starts playback. No-op when already playing or when there are no
// strokes. Coming from stopped, time resets to 0.
func (p *Player) Play() {
	if p.state == PlayPlaying || len(p.strokes) == 0 {
		return
	}
	if p.state == PlayStopped {
		p.current = 0
	}
	p.hasTick = false
	p.setState(PlayPlaying)
}

// Pause suspends playback. Only valid while playing; otherwise a no-op.
func (p *Player) Pause() {
	if p.state != PlayPlaying {
		return
	}
	p.setState(PlayPaused)
}

// Stop halts playback and always resets time to 0.
func (p *Player) Stop() {
	p.current = 0
	p.hasTick = false
	p.setState(PlayStopped)
}

// Seek jumps to the given playback time in milliseconds, clamped into
// [0, Total]. Valid in any state; emits an immediate frame without
// altering the play state.
func (p *Player) Seek(t float64) {
	if t < 0 {
		t = 0
	}
	if t > p.total {
		t = p.total
	}
	p.current = t
	p.emitFrame()
}

// SeekProgress jumps to the given fraction of the total duration.
func (p *Player) SeekProgress(ratio float64) {
	p.Seek(ratio * p.total)
}

// Update advances playback by the wall-clock delta since the previous call,
// scaled by the speed multiplier. The host calls it once per frame tick
// while playing; calls in any other state are no-ops. Reaching the total
// duration clamps, emits a final frame, transitions to stopped, and fires
// OnComplete. There is no looping.
func (p *Player) Update(now time.Time) {
	if p.state != PlayPlaying {
		return
	}
	if !p.hasTick {
		p.lastTick = now
		p.hasTick = true
		p.emitFrame()
		return
	}

	dt := now.Sub(p.lastTick)
	p.lastTick = now
	if dt < 0 {
		dt = 0
	}
	p.current += dt.Seconds() * 1000 * p.speed

	if p.current >= p.total {
		p.current = p.total
		p.emitFrame()
		p.hasTick = false
		p.setState(PlayStopped)
		if p.OnComplete != nil {
			p.OnComplete()
		}
		return
	}
	p.emitFrame()
}

// StrokesAtTime returns the strokes visible at a playback time (ms from
// base time): strokes whose window has not begun are absent, finished
// strokes appear whole, and a stroke mid-window is truncated to its first
// floor(points * elapsed/duration) points (at least 1), giving the
// appearance of progressive drawing. Truncated strokes are shallow copies;
// the originals are never mutated.
func (p *Player) StrokesAtTime(t float64) []*Stroke {
	visible := make([]*Stroke, 0, len(p.strokes))
	for _, s := range p.strokes {
		ws, wd := strokeWindow(s)
		start := float64(ws - p.base)
		dur := float64(wd)

		if t < start {
			continue
		}
		if t >= start+dur || len(s.Points) == 0 || dur <= 0 {
			visible = append(visible, s)
			continue
		}

		n := int(float64(len(s.Points)) * (t - start) / dur)
		if n < 1 {
			n = 1
		}
		if n >= len(s.Points) {
			visible = append(visible, s)
			continue
		}
		partial := *s
		partial.Points = s.Points[:n]
		visible = append(visible, &partial)
	}
	return visible
}

// setState transitions the state machine and notifies the host.
func (p *Player) setState(s PlayState) {
	if p.state == s {
		return
	}
	p.state = s
	if p.OnStateChange != nil {
		p.OnStateChange(s)
	}
}

// emitFrame invokes OnFrame with the current frame info and visible
// strokes.
func (p *Player) emitFrame() {
	if p.OnFrame == nil {
		return
	}
	info := FrameInfo{Time: p.current, Total: p.total, Progress: p.Progress()}
	p.OnFrame(info, p.StrokesAtTime(p.current))
}

// Dispose clears stroke and callback state and halts playback. The player
// must not be used afterwards.
func (p *Player) Dispose() {
	p.state = PlayStopped
	p.current = 0
	p.hasTick = false
	p.strokes = nil
	p.OnFrame = nil
	p.OnStateChange = nil
	p.OnComplete = nil
}
