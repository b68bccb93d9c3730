// Package influence computes how strongly each dot glows, from pointer
// proximity and click ripples, and smooths it over time.
package influence

import (
	"math"
	"time"

	"dotfield/internal/dots"
	"dotfield/internal/interact"
)

// Params tune the influence field.
type Params struct {
	PointerRadius  float64
	RingWidth      float64
	RippleDuration float64 // seconds
	RingScale      float64 // fraction of MaxRadius the ring covers per second
	RippleStrength float64
	RiseTau        time.Duration
	FallTau        time.Duration
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		PointerRadius:  150,
		RingWidth:      50,
		RippleDuration: interact.RippleDuration,
		RingScale:      0.5,
		RippleStrength: 0.8,
		RiseTau:        20 * time.Millisecond,
		FallTau:        300 * time.Millisecond,
	}
}

const minTau = 0.001

// Simulator holds the smoothed influence of every dot.
type Simulator struct {
	params   Params
	smoothed []float64
}

// New returns a simulator with no dots.
func New(p Params) *Simulator {
	return &Simulator{params: p}
}

// Raw returns the unsmoothed influence on pt at time now.
func (s *Simulator) Raw(pt dots.Point, ptr interact.Pointer, ripples []interact.Ripple, now float64) float64 {
	p := &s.params
	var v float64

	if ptr.Active() {
		dx, dy := ptr.X-pt.X, ptr.Y-pt.Y
		if d2 := dx*dx + dy*dy; d2 < p.PointerRadius*p.PointerRadius {
			v += math.Max(0, 1-math.Sqrt(d2)/p.PointerRadius) * ptr.Factor
		}
	}

	for _, r := range ripples {
		age := now - r.Start
		if age <= 0 || age >= p.RippleDuration {
			continue
		}
		radius := age * r.MaxRadius * p.RingScale
		ring := math.Abs(math.Hypot(r.X-pt.X, r.Y-pt.Y) - radius)
		if ring < p.RingWidth {
			v += (1 - ring/p.RingWidth) * (1 - age/p.RippleDuration) * p.RippleStrength
		}
	}
	return v
}

// Step advances every dot's smoothed influence by dt seconds toward its raw
// value. Rising values follow RiseTau, falling ones FallTau. If the number of
// points changed since the last step the state restarts from zero.
func (s *Simulator) Step(points []dots.Point, ptr interact.Pointer, ripples []interact.Ripple, now, dt float64) []float64 {
	s.Align(len(points))
	dt = math.Max(0, dt)

	rise := 1 - math.Exp(-dt/math.Max(minTau, s.params.RiseTau.Seconds()))
	fall := 1 - math.Exp(-dt/math.Max(minTau, s.params.FallTau.Seconds()))

	for i, pt := range points {
		raw := s.Raw(pt, ptr, ripples, now)
		cur := s.smoothed[i]
		k := fall
		if raw > cur {
			k = rise
		}
		s.smoothed[i] = cur + (raw-cur)*k
	}
	return s.smoothed
}

// Align resets the smoothed values to n zeros when the length differs.
func (s *Simulator) Align(n int) {
	if len(s.smoothed) == n {
		return
	}
	s.smoothed = make([]float64, n)
}

// Values returns the smoothed influence, index-aligned with the points.
func (s *Simulator) Values() []float64 { return s.smoothed }
