// Package dots lays out the background dot grid.
package dots

import "math"

// Point is one dot in surface pixels.
type Point struct {
	X, Y    float64
	Size    float64
	Opacity float64
}

// Layout holds the constants that shape the grid.
type Layout struct {
	ReferenceWidth float64 // width at which BaseSpacing applies
	BaseSpacing    float64
	MinSpacing     float64
	MaxSpacing     float64
	Density        float64 // >1 packs more dots, <1 fewer
	DotSize        float64
	DotOpacity     float64
}

// DefaultLayout returns the stock grid settings.
func DefaultLayout() Layout {
	return Layout{
		ReferenceWidth: 1200,
		BaseSpacing:    40,
		MinSpacing:     30,
		MaxSpacing:     50,
		Density:        4,
		DotSize:        3,
		DotOpacity:     0.3,
	}
}

// Spacing returns the whole-pixel distance between neighbouring dots for a
// surface of width w.
func (l Layout) Spacing(w float64) float64 {
	raw := w / l.ReferenceWidth * l.BaseSpacing
	s := math.Max(l.MinSpacing, math.Min(l.MaxSpacing, raw))
	if l.Density > 0 {
		s /= l.Density
	}
	return math.Max(1, math.Round(s))
}

// Dims returns the column and row counts for a w x h surface.
func (l Layout) Dims(w, h float64) (cols, rows int) {
	w, h = math.Max(1, w), math.Max(1, h)
	s := l.Spacing(w)
	cols = max(1, int(math.Floor(w/s)))
	rows = max(1, int(math.Floor(h/s)))
	return cols, rows
}

// Build computes the centered grid for a w x h surface. Points are emitted
// column by column.
func (l Layout) Build(w, h float64) []Point {
	w, h = math.Max(1, w), math.Max(1, h)
	s := l.Spacing(w)
	cols, rows := l.Dims(w, h)
	startX := math.Round((w - float64(cols-1)*s) / 2)
	startY := math.Round((h - float64(rows-1)*s) / 2)

	pts := make([]Point, 0, cols*rows)
	for i := 0; i < cols; i++ {
		x := startX + float64(i)*s
		for j := 0; j < rows; j++ {
			pts = append(pts, Point{
				X:       x,
				Y:       startY + float64(j)*s,
				Size:    l.DotSize,
				Opacity: l.DotOpacity,
			})
		}
	}
	return pts
}

// Grid owns the current point set and the size it was built for.
type Grid struct {
	layout Layout
	w, h   float64
	points []Point
}

// NewGrid returns an empty grid; call Resize before use.
func NewGrid(l Layout) *Grid {
	return &Grid{layout: l}
}

// Resize rebuilds the points when the surface size changed. It reports
// whether a rebuild happened.
func (g *Grid) Resize(w, h float64) bool {
	if g.points != nil && w == g.w && h == g.h {
		return false
	}
	g.w, g.h = w, h
	g.points = g.layout.Build(w, h)
	return true
}

// Points returns the current points. Callers must not modify them.
func (g *Grid) Points() []Point { return g.points }

// Size returns the surface size of the last build.
func (g *Grid) Size() (w, h float64) { return g.w, g.h }
