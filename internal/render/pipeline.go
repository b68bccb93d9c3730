// Package render draws the dot grid with a Kage shader.
//
// ebiten has no point primitive, so every dot becomes a screen-aligned quad
// sized from its influence. All quads share one shader and one uniform set,
// and ebiten merges the batches into a single GPU draw.
package render

import (
	_ "embed"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"dotfield/internal/dots"
	"dotfield/internal/interact"
	"dotfield/internal/palette"
	"dotfield/internal/theme"
)

//go:embed dots.kage
var DefaultShader []byte

// SizeGain is how many logical pixels a dot grows per unit of influence.
const SizeGain = 7

// Each batch stays within uint16 indices.
const maxQuadsPerBatch = 1 << 14

// Uniform names the pipeline uploads.
const (
	uResolution     = "Resolution"
	uTime           = "Time"
	uRipples        = "Ripples"
	uRippleCount    = "RippleCount"
	uGradientColors = "GradientColors"
	uGradientStops  = "GradientStops"
	uInk            = "Ink"
)

var requiredUniforms = []string{uGradientColors, uGradientStops, uInk}

// ErrMissingUniform is returned by New when the shader lacks a required
// uniform.
var ErrMissingUniform = errors.New("render: shader is missing a required uniform")

// Frame is everything one draw needs.
type Frame struct {
	Points    []dots.Point
	Influence []float64
	Ripples   []interact.Ripple
	Time      float64
	Width     float64 // logical surface size
	Height    float64
	Scale     float64 // device pixels per logical pixel
}

// uniforms are resolved once when the program is built. Only names the
// shader declares are uploaded.
type uniforms struct {
	declared map[string]bool

	gradientColors []float32
	gradientStops  []float32
	ink            []float32
	ripples        []float32
	values         map[string]any
}

func resolveUniforms(src []byte) (*uniforms, error) {
	declared, err := declaredUniforms(src)
	if err != nil {
		return nil, err
	}
	u := &uniforms{declared: declared}
	for _, name := range requiredUniforms {
		if !u.declared[name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingUniform, name)
		}
	}
	u.ripples = make([]float32, interact.MaxRipples*4)
	u.values = make(map[string]any, len(u.declared))
	return u, nil
}

// declaredUniforms returns the package-level variables of a Kage program.
// Kage is Go syntax, so the Go parser reads it. Variables local to a
// function are not uniforms.
func declaredUniforms(src []byte) (map[string]bool, error) {
	f, err := parser.ParseFile(token.NewFileSet(), "shader.kage", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("render: parse shader: %w", err)
	}
	names := map[string]bool{}
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}
		for _, spec := range gd.Specs {
			for _, n := range spec.(*ast.ValueSpec).Names {
				names[n.Name] = true
			}
		}
	}
	return names, nil
}

func (u *uniforms) set(name string, v any) {
	if u.declared[name] {
		u.values[name] = v
	}
}

// update refreshes the per-frame values and returns the uniform map.
func (u *uniforms) update(f *Frame) map[string]any {
	clear(u.ripples)
	n := min(len(f.Ripples), interact.MaxRipples)
	for i, r := range f.Ripples[:n] {
		u.ripples[i*4+0] = float32(r.X)
		u.ripples[i*4+1] = float32(r.Y)
		u.ripples[i*4+2] = float32(r.Start)
		u.ripples[i*4+3] = float32(r.MaxRadius)
	}
	u.set(uResolution, []float32{float32(f.Width), float32(f.Height)})
	u.set(uTime, float32(f.Time))
	u.set(uRipples, u.ripples)
	u.set(uRippleCount, int32(n))
	u.set(uGradientColors, u.gradientColors)
	u.set(uGradientStops, u.gradientStops)
	u.set(uInk, u.ink)
	return u.values
}

// resources are the GPU objects owned by a Pipeline.
type resources struct {
	shader  *ebiten.Shader
	surface *ebiten.Image
}

func (r *resources) release() {
	if r.surface != nil {
		r.surface.Deallocate()
		r.surface = nil
	}
	if r.shader != nil {
		r.shader.Deallocate()
		r.shader = nil
	}
}

// Pipeline owns the shader program, the offscreen surface and the reusable
// vertex buffers.
type Pipeline struct {
	log      *slog.Logger
	res      resources
	uniforms *uniforms

	vertices []ebiten.Vertex
	indices  []uint16
	opts     ebiten.DrawTrianglesShaderOptions
}

// New compiles src (DefaultShader when nil) and resolves its uniforms. On
// error nothing is allocated.
func New(src []byte, g palette.Gradient, t theme.Theme, log *slog.Logger) (*Pipeline, error) {
	if src == nil {
		src = DefaultShader
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	u, err := resolveUniforms(src)
	if err != nil {
		return nil, err
	}
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("render: compile shader: %w", err)
	}

	ink := t.Ink()
	u.gradientColors = g.ColorUniform()
	u.gradientStops = g.StopUniform()
	u.ink = []float32{float32(ink.R), float32(ink.G), float32(ink.B)}

	p := &Pipeline{
		log:      log,
		res:      resources{shader: sh},
		uniforms: u,
	}
	p.opts.Blend = ebiten.BlendSourceOver
	log.Debug("render pipeline ready", "theme", t, "uniforms", len(u.declared))
	return p, nil
}

// ensureSurface matches the offscreen surface to the backing size.
func (p *Pipeline) ensureSurface(w, h int) *ebiten.Image {
	if s := p.res.surface; s != nil && s.Bounds().Dx() == w && s.Bounds().Dy() == h {
		return s
	}
	if p.res.surface != nil {
		p.res.surface.Deallocate()
	}
	p.res.surface = ebiten.NewImage(w, h)
	p.log.Debug("surface resized", "width", w, "height", h)
	return p.res.surface
}

// Draw renders f into the pipeline's transparent surface and returns it.
// A closed pipeline draws nothing and returns nil.
func (p *Pipeline) Draw(f Frame) *ebiten.Image {
	if p.res.shader == nil {
		return nil
	}
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(math.Ceil(f.Width*scale)))
	h := max(1, int(math.Ceil(f.Height*scale)))
	surface := p.ensureSurface(w, h)
	surface.Clear()

	p.opts.Uniforms = p.uniforms.update(&f)
	for start := 0; start < len(f.Points); start += maxQuadsPerBatch {
		end := min(start+maxQuadsPerBatch, len(f.Points))
		p.vertices, p.indices = AppendQuads(p.vertices[:0], p.indices[:0],
			f.Points[start:end], influenceSlice(f.Influence, start, end), scale)
		surface.DrawTrianglesShader(p.vertices, p.indices, p.res.shader, &p.opts)
	}
	return surface
}

func influenceSlice(v []float64, start, end int) []float64 {
	if end > len(v) {
		return nil
	}
	return v[start:end]
}

// Close releases the shader and surface. It is safe to call more than once.
func (p *Pipeline) Close() {
	p.res.release()
	p.vertices, p.indices = nil, nil
}

// AppendQuads appends one quad per point. The quad side is the point's base
// size plus SizeGain per unit of influence, scaled to device pixels. Custom
// attributes carry (influence, base opacity, u, v). influence may be nil or
// shorter than points; missing entries count as zero.
func AppendQuads(vs []ebiten.Vertex, is []uint16, points []dots.Point, influence []float64, scale float64) ([]ebiten.Vertex, []uint16) {
	for i, pt := range points {
		var inf float64
		if i < len(influence) {
			inf = influence[i]
		}
		half := (pt.Size + inf*SizeGain) * scale / 2
		cx, cy := pt.X*scale, pt.Y*scale

		base := uint16(len(vs))
		for _, c := range quadCorners {
			vs = append(vs, ebiten.Vertex{
				DstX:    float32(cx + c[0]*2*half),
				DstY:    float32(cy + c[1]*2*half),
				ColorR:  1,
				ColorG:  1,
				ColorB:  1,
				ColorA:  1,
				Custom0: float32(inf),
				Custom1: float32(pt.Opacity),
				Custom2: float32(c[0]),
				Custom3: float32(c[1]),
			})
		}
		is = append(is, base, base+1, base+2, base+1, base+3, base+2)
	}
	return vs, is
}

// Corner offsets in point-local units.
var quadCorners = [4][2]float64{
	{-0.5, -0.5},
	{0.5, -0.5},
	{-0.5, 0.5},
	{0.5, 0.5},
}
