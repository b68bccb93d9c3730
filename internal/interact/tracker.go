// Package interact tracks pointer position, click ripples and the fade factor
// that mutes pointer glow right after a click.
package interact

import (
	"math"

	"dotfield/internal/scene"
)

const (
	// MaxRipples is the ripple ring capacity; the oldest is evicted first.
	MaxRipples = 10
	// RippleDuration is how long a ripple lives, in seconds.
	RippleDuration = 2.0
	// ResumeTau is the time constant of the pointer fade-in, in seconds.
	ResumeTau = 0.8
)

// PointerKind is the device behind a pointer event.
type PointerKind int

const (
	Mouse PointerKind = iota
	Touch
)

func (k PointerKind) String() string {
	switch k {
	case Mouse:
		return "mouse"
	case Touch:
		return "touch"
	}
	return "unknown"
}

// Pointer is the pointer state seen by the simulator.
type Pointer struct {
	X, Y      float64
	Present   bool    // false when the pointer is outside the surface
	Suspended bool    // set by a click, cleared by the next move
	Factor    float64 // pointer influence scale in [0,1]
}

// Active reports whether the pointer can contribute influence at all.
func (p Pointer) Active() bool { return p.Present && !p.Suspended && p.Factor > 0 }

// Ripple is an expanding ring started by a click.
type Ripple struct {
	X, Y      float64
	Start     float64 // seconds since engine start
	MaxRadius float64
}

// Age returns the ripple's age at now.
func (r Ripple) Age(now float64) float64 { return now - r.Start }

// Expired reports whether the ripple is done at now.
func (r Ripple) Expired(now float64) bool { return r.Age(now) >= RippleDuration }

// Click describes a pointer-down in surface coordinates.
type Click struct {
	X, Y       float64
	Kind       PointerKind
	Foreground bool // target sits inside foreground content
}

// ClickResult reports what a click did.
type ClickResult struct {
	InSurface   bool
	RippleAdded bool
	Evicted     bool
}

// Tracker owns the pointer state and the ripple ring.
type Tracker struct {
	pointer Pointer
	ring    [MaxRipples]Ripple
	head    int // index of the oldest ripple
	n       int
	scratch []Ripple
}

// NewTracker returns a tracker with no pointer and full pointer influence.
func NewTracker() *Tracker {
	return &Tracker{pointer: Pointer{Factor: 1}}
}

// Pointer returns the current pointer state.
func (t *Tracker) Pointer() Pointer { return t.pointer }

// Move handles a pointer move at surface-local (x,y). Only mouse pointers
// drive the glow.
func (t *Tracker) Move(x, y float64, kind PointerKind, bounds scene.Rect) {
	if kind != Mouse {
		return
	}
	if !bounds.Contains(x, y) {
		t.pointer.Present = false
		return
	}
	t.pointer.X, t.pointer.Y = x, y
	t.pointer.Present = true
	t.pointer.Suspended = false
}

// Leave handles the pointer leaving the window.
func (t *Tracker) Leave() { t.pointer.Present = false }

// Blur handles the window losing focus.
func (t *Tracker) Blur() { t.pointer.Present = false }

// Down handles a pointer-down. Any click suspends pointer glow; a ripple is
// only started for clicks inside bounds that do not land on foreground
// content. bounds must be anchored at the origin.
func (t *Tracker) Down(c Click, bounds scene.Rect, now float64) ClickResult {
	t.pointer.Suspended = true
	t.pointer.Factor = 0

	res := ClickResult{InSurface: bounds.Contains(c.X, c.Y)}
	if !res.InSurface || c.Foreground {
		return res
	}
	res.Evicted = t.push(Ripple{
		X:         c.X,
		Y:         c.Y,
		Start:     now,
		MaxRadius: math.Max(bounds.Width(), bounds.Height()),
	})
	res.RippleAdded = true
	return res
}

func (t *Tracker) push(r Ripple) (evicted bool) {
	if t.n == MaxRipples {
		t.head = (t.head + 1) % MaxRipples
		t.n--
		evicted = true
	}
	t.ring[(t.head+t.n)%MaxRipples] = r
	t.n++
	return evicted
}

// Update purges expired ripples and advances the pointer fade factor by dt
// seconds.
func (t *Tracker) Update(now, dt float64) {
	if t.n > 0 {
		live := t.Ripples()
		t.head, t.n = 0, 0
		for _, r := range live {
			if !r.Expired(now) {
				t.ring[t.n] = r
				t.n++
			}
		}
	}

	if t.pointer.Suspended {
		t.pointer.Factor = 0
		return
	}
	if dt > 0 {
		t.pointer.Factor += (1 - t.pointer.Factor) * (1 - math.Exp(-dt/ResumeTau))
	}
}

// Len returns the number of live ripples.
func (t *Tracker) Len() int { return t.n }

// Ripples returns the live ripples oldest first. The slice is reused by the
// next call.
func (t *Tracker) Ripples() []Ripple {
	t.scratch = t.scratch[:0]
	for i := 0; i < t.n; i++ {
		t.scratch = append(t.scratch, t.ring[(t.head+i)%MaxRipples])
	}
	return t.scratch
}

// Reset drops all ripples and the pointer position.
func (t *Tracker) Reset() {
	t.head, t.n = 0, 0
	t.pointer = Pointer{Factor: 1}
}
