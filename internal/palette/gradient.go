// Package palette defines the color gradient used to tint dots by influence.
package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NumStops is the fixed number of gradient stops the shader expects.
const NumStops = 5

// DefaultHex is the stock ramp: grey, light pink, black, blue, purple.
var DefaultHex = []string{"#A6A6AD", "#FFB6C1", "#000000", "#3B30FF", "#8000FF"}

// DefaultStops are evenly spaced positions for DefaultHex.
var DefaultStops = []float64{0, 0.25, 0.5, 0.75, 1}

var white = colorful.Color{R: 1, G: 1, B: 1}

// Gradient is an immutable piecewise-linear color ramp over [0,1].
type Gradient struct {
	colors [NumStops]colorful.Color
	stops  [NumStops]float64
}

// Default returns the stock gradient.
func Default() Gradient {
	g, _ := New(DefaultHex, DefaultStops)
	return g
}

// New builds a gradient from hex colors and stop positions. Colors that fail
// to parse become white and are reported in the returned error, which is
// informational: the gradient is always usable. The color list is padded by
// repeating its last entry or truncated to NumStops. Stops must be
// NumStops long and non-decreasing, otherwise DefaultStops are used.
func New(hex []string, stops []float64) (Gradient, error) {
	var g Gradient
	var bad []string

	for i := 0; i < NumStops; i++ {
		switch {
		case i < len(hex):
			c, err := colorful.Hex(normalizeHex(hex[i]))
			if err != nil {
				bad = append(bad, hex[i])
				c = white
			}
			g.colors[i] = c
		case i > 0:
			g.colors[i] = g.colors[i-1]
		default:
			g.colors[i] = white
		}
	}

	if validStops(stops) {
		copy(g.stops[:], stops)
	} else {
		copy(g.stops[:], DefaultStops)
	}

	if len(bad) > 0 {
		return g, fmt.Errorf("palette: invalid colors %s, using white", strings.Join(bad, ", "))
	}
	return g, nil
}

// Parse builds a gradient from a comma-separated list of hex colors with the
// default stop positions.
func Parse(list string) (Gradient, error) {
	var hex []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			hex = append(hex, s)
		}
	}
	return New(hex, DefaultStops)
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return strings.ToLower(s)
}

func validStops(stops []float64) bool {
	if len(stops) != NumStops {
		return false
	}
	for i, s := range stops {
		if s < 0 || s > 1 || math.IsNaN(s) {
			return false
		}
		if i > 0 && s < stops[i-1] {
			return false
		}
	}
	return true
}

// At samples the gradient at t, clamped to [0,1]. It matches the shader's
// lookup so the two stay in agreement.
func (g Gradient) At(t float64) colorful.Color {
	t = math.Max(0, math.Min(1, t))
	if t <= g.stops[0] {
		return g.colors[0]
	}
	if t >= g.stops[NumStops-1] {
		return g.colors[NumStops-1]
	}
	for i := 0; i < NumStops-1; i++ {
		a, b := g.stops[i], g.stops[i+1]
		if t >= a && t <= b {
			u := (t - a) / math.Max(0.0001, b-a)
			return g.colors[i].BlendRgb(g.colors[i+1], u)
		}
	}
	return g.colors[NumStops-1]
}

// Color returns stop i's color.
func (g Gradient) Color(i int) colorful.Color { return g.colors[i] }

// Stop returns stop i's position.
func (g Gradient) Stop(i int) float64 { return g.stops[i] }

// ColorUniform packs the stop colors as consecutive RGB triples.
func (g Gradient) ColorUniform() []float32 {
	out := make([]float32, 0, NumStops*3)
	for _, c := range g.colors {
		out = append(out, float32(c.R), float32(c.G), float32(c.B))
	}
	return out
}

// StopUniform packs the stop positions.
func (g Gradient) StopUniform() []float32 {
	out := make([]float32, NumStops)
	for i, s := range g.stops {
		out[i] = float32(s)
	}
	return out
}
