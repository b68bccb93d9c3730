package engine

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"dotfield/internal/interact"
)

// inputState is one frame's worth of raw input, in logical pixels.
type inputState struct {
	focused bool
	cursor  [2]float64
	inside  bool // cursor within the window
	presses int  // mouse buttons that went down this frame
	touches [][2]float64
}

// Poller turns ebiten's polled input into engine events, the way a page's
// window listeners would deliver them.
type Poller struct {
	started bool
	focused bool
	inside  bool
	cursor  [2]float64

	touchIDs []ebiten.TouchID
	state    inputState
	events   []Event
}

var pollButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// Poll reads the current input and returns the events since the last call.
// w and h are the logical window size and scale converts ebiten's screen
// coordinates to logical pixels. The returned slice is reused.
func (p *Poller) Poll(w, h, scale float64) []Event {
	if scale <= 0 {
		scale = 1
	}
	s := &p.state
	s.focused = ebiten.IsFocused()
	cx, cy := ebiten.CursorPosition()
	s.cursor = [2]float64{float64(cx) / scale, float64(cy) / scale}
	s.inside = s.cursor[0] >= 0 && s.cursor[1] >= 0 && s.cursor[0] <= w && s.cursor[1] <= h

	s.presses = 0
	for _, b := range pollButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			s.presses++
		}
	}

	s.touches = s.touches[:0]
	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		s.touches = append(s.touches, [2]float64{float64(tx) / scale, float64(ty) / scale})
	}

	p.events = p.diff(s, p.events[:0])
	return p.events
}

// diff appends the events that explain the change from the previous state
// to s.
func (p *Poller) diff(s *inputState, dst []Event) []Event {
	first := !p.started
	p.started = true

	if !s.focused {
		if p.focused || first {
			dst = append(dst, Blur{})
		}
		p.focused = false
		return dst
	}
	p.focused = true

	moved := first || s.cursor != p.cursor
	switch {
	case s.inside && moved:
		dst = append(dst, PointerMove{X: s.cursor[0], Y: s.cursor[1], Kind: interact.Mouse})
	case !s.inside && p.inside:
		dst = append(dst, PointerOut{})
	}
	p.inside = s.inside
	p.cursor = s.cursor

	for i := 0; i < s.presses; i++ {
		dst = append(dst, PointerDown{X: s.cursor[0], Y: s.cursor[1], Kind: interact.Mouse})
	}
	for _, t := range s.touches {
		dst = append(dst, PointerDown{X: t[0], Y: t[1], Kind: interact.Touch})
	}
	return dst
}
