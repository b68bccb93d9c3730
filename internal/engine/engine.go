// Package engine runs the dot background: it owns the grid, pointer and
// ripple state, smoothed influence and GPU pipeline, and advances them once
// per frame on the caller's goroutine.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"dotfield/internal/dots"
	"dotfield/internal/influence"
	"dotfield/internal/interact"
	"dotfield/internal/render"
	"dotfield/internal/scene"
	"dotfield/internal/theme"
)

// Cue receives a request to play a sound for a click at y on a surface of
// height h. Implementations must not block.
type Cue interface {
	Dispatch(y, h float64)
	Close()
}

type nopCue struct{}

func (nopCue) Dispatch(float64, float64) {}
func (nopCue) Close()                    {}

// Engine is not safe for concurrent use; ebiten calls Update, Draw and
// Layout from one goroutine.
type Engine struct {
	cfg Config
	log *slog.Logger

	grid    *dots.Grid
	tracker *interact.Tracker
	sim     *influence.Simulator
	cue     Cue
	overlay *scene.Node
	theme   theme.Theme

	pipeline *render.Pipeline
	disabled bool // pipeline creation failed; never retried

	rect  scene.Rect // surface in window pixels
	scale float64

	start  time.Time
	clock  func() float64
	last   float64
	ticked bool
	frames uint64
	skips  uint64

	closed bool
}

// New returns an engine with no surface yet; send a Resize before the first
// Tick. cue may be nil.
func New(cfg Config, cue Cue, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cue == nil {
		cue = nopCue{}
	}
	if cfg.Theme == "" {
		cfg.Theme = theme.Dark
	}
	e := &Engine{
		cfg:     cfg,
		log:     log,
		grid:    dots.NewGrid(cfg.Layout),
		tracker: interact.NewTracker(),
		sim:     influence.New(cfg.Influence),
		cue:     cue,
		theme:   cfg.Theme,
		scale:   1,
		start:   time.Now(),
	}
	e.clock = func() float64 { return time.Since(e.start).Seconds() }
	return e
}

// Now returns seconds since the engine started.
func (e *Engine) Now() float64 { return e.clock() }

// SetOverlay installs the host's overlay tree used to recognise clicks on
// foreground content. Its coordinates are window pixels.
func (e *Engine) SetOverlay(root *scene.Node) { e.overlay = root }

// Theme returns the current theme.
func (e *Engine) Theme() theme.Theme { return e.theme }

// SetTheme switches theme. The GPU program is rebuilt on the next Draw so the
// ink color follows.
func (e *Engine) SetTheme(t theme.Theme) {
	if e.closed || t == e.theme {
		return
	}
	e.log.Debug("theme changed", "from", e.theme, "to", t)
	e.theme = t
	e.releasePipeline()
}

// Resize sets the surface size. The grid and the smoothed influence are
// rebuilt when the logical size changes.
func (e *Engine) Resize(w, h, scale float64) {
	if e.closed {
		return
	}
	w, h = math.Max(1, w), math.Max(1, h)
	if scale <= 0 {
		scale = 1
	}
	e.scale = scale
	e.rect = scene.Rect{MaxX: w, MaxY: h}
	if e.grid.Resize(w, h) {
		e.sim.Align(len(e.grid.Points()))
		e.log.Debug("grid rebuilt", "width", w, "height", h, "scale", scale, "points", len(e.grid.Points()))
	}
}

// Size returns the logical surface size and device scale.
func (e *Engine) Size() (w, h, scale float64) {
	return e.rect.Width(), e.rect.Height(), e.scale
}

// HandleEvent applies one host event.
func (e *Engine) HandleEvent(ev Event) {
	if e.closed {
		return
	}
	defer e.guard("event")

	switch ev := ev.(type) {
	case PointerMove:
		x, y := e.local(ev.X, ev.Y)
		e.tracker.Move(x, y, ev.Kind, e.localBounds())
	case PointerDown:
		e.pointerDown(ev)
	case PointerOut:
		if !ev.Related {
			e.tracker.Leave()
		}
	case Blur:
		e.tracker.Blur()
	case Resize:
		e.Resize(ev.Width, ev.Height, ev.Scale)
	default:
		e.log.Warn("unknown event", "type", fmt.Sprintf("%T", ev))
	}
}

func (e *Engine) pointerDown(ev PointerDown) {
	x, y := e.local(ev.X, ev.Y)
	fg := e.overlay != nil && scene.InForeground(e.overlay, ev.X, ev.Y)
	res := e.tracker.Down(interact.Click{X: x, Y: y, Kind: ev.Kind, Foreground: fg}, e.localBounds(), e.Now())
	if res.InSurface {
		e.cue.Dispatch(y, e.rect.Height())
	}
	if res.Evicted {
		e.log.Debug("ripple ring full, dropped oldest")
	}
}

func (e *Engine) local(x, y float64) (float64, float64) {
	return x - e.rect.MinX, y - e.rect.MinY
}

func (e *Engine) localBounds() scene.Rect {
	return scene.Rect{MaxX: e.rect.Width(), MaxY: e.rect.Height()}
}

// Tick advances the simulation to now (seconds since start). It returns false
// without doing any work when called sooner than the target frame interval.
func (e *Engine) Tick(now float64) bool {
	if e.closed {
		return false
	}
	if e.ticked && now-e.last < e.cfg.minInterval() {
		e.skips++
		return false
	}
	dt := 0.0
	if e.ticked {
		dt = math.Max(0, now-e.last)
	}
	e.last, e.ticked = now, true
	e.frames++

	e.tracker.Update(now, dt)
	e.sim.Step(e.grid.Points(), e.tracker.Pointer(), e.tracker.Ripples(), now, dt)
	return true
}

// Update ticks at the current time. It matches ebiten.Game.Update.
func (e *Engine) Update() error {
	e.Tick(e.Now())
	return nil
}

// Draw renders the dots onto screen. Rendering problems are logged once and
// turn the engine into a transparent no-op; they never reach the caller.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.closed || e.disabled {
		return
	}
	defer e.guard("draw")

	e.syncViewport(screen)
	if e.pipeline == nil {
		p, err := render.New(e.cfg.Shader, e.cfg.Gradient, e.theme, e.log)
		if err != nil {
			e.log.Error("rendering disabled", "err", err)
			e.disabled = true
			return
		}
		e.pipeline = p
	}

	w, h, scale := e.Size()
	surface := e.pipeline.Draw(render.Frame{
		Points:    e.grid.Points(),
		Influence: e.sim.Values(),
		Ripples:   e.tracker.Ripples(),
		Time:      e.last,
		Width:     w,
		Height:    h,
		Scale:     scale,
	})
	if surface != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(e.rect.MinX*scale, e.rect.MinY*scale)
		screen.DrawImage(surface, op)
	}
}

// syncViewport rebuilds the grid if the backing image no longer matches the
// surface size.
func (e *Engine) syncViewport(screen *ebiten.Image) {
	b := screen.Bounds()
	w, h := backingSize(e.rect.Width(), e.rect.Height(), e.scale)
	if b.Dx() == w && b.Dy() == h {
		return
	}
	e.log.Debug("viewport drift", "have", b.Size(), "want_w", w, "want_h", h)
	e.Resize(float64(b.Dx())/e.scale, float64(b.Dy())/e.scale, e.scale)
}

func backingSize(w, h, scale float64) (int, int) {
	return max(1, int(math.Ceil(w*scale))), max(1, int(math.Ceil(h*scale)))
}

// Layout converts the outside size reported by ebiten into the backing size
// and resizes the surface to match.
func (e *Engine) Layout(outsideWidth, outsideHeight int, scale float64) (int, int) {
	e.Resize(float64(outsideWidth), float64(outsideHeight), scale)
	return backingSize(e.rect.Width(), e.rect.Height(), e.scale)
}

func (e *Engine) guard(where string) {
	if r := recover(); r != nil {
		e.log.Error("engine failure, rendering disabled", "in", where, "panic", r)
		e.disabled = true
		e.releasePipeline()
	}
}

func (e *Engine) releasePipeline() {
	if e.pipeline != nil {
		e.pipeline.Close()
		e.pipeline = nil
	}
}

// Stats reports how many ticks ran and how many were throttled.
func (e *Engine) Stats() (frames, skipped uint64) { return e.frames, e.skips }

// Points returns the current grid.
func (e *Engine) Points() []dots.Point { return e.grid.Points() }

// Influence returns the smoothed influence, aligned with Points.
func (e *Engine) Influence() []float64 { return e.sim.Values() }

// Pointer returns the pointer state.
func (e *Engine) Pointer() interact.Pointer { return e.tracker.Pointer() }

// Ripples returns the live ripples oldest first.
func (e *Engine) Ripples() []interact.Ripple { return e.tracker.Ripples() }

// Enabled reports whether rendering is still active.
func (e *Engine) Enabled() bool { return !e.closed && !e.disabled }

// Close stops the engine and releases GPU and audio resources. Later calls
// to any method do nothing.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.releasePipeline()
	e.cue.Close()
	e.tracker.Reset()
	e.log.Debug("engine closed", "frames", e.frames, "skipped", e.skips)
}
