package engine

import "dotfield/internal/interact"

// Event is something the host reports to the engine. Coordinates are in
// window pixels.
type Event interface {
	event()
}

// PointerMove reports a pointer position.
type PointerMove struct {
	X, Y float64
	Kind interact.PointerKind
}

// PointerDown reports a press.
type PointerDown struct {
	X, Y float64
	Kind interact.PointerKind
}

// PointerOut reports the pointer leaving an element. Related is false when
// it left the window entirely.
type PointerOut struct {
	Related bool
}

// Blur reports the window losing focus.
type Blur struct{}

// Resize reports the surface size in logical pixels and the device scale
// factor.
type Resize struct {
	Width, Height float64
	Scale         float64
}

func (PointerMove) event() {}
func (PointerDown) event() {}
func (PointerOut) event()  {}
func (Blur) event()        {}
func (Resize) event()      {}
