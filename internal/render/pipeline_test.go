package render

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"dotfield/internal/dots"
	"dotfield/internal/interact"
	"dotfield/internal/palette"
)

func TestAppendQuads(t *testing.T) {
	pts := []dots.Point{
		{X: 10, Y: 20, Size: 3, Opacity: 0.3},
		{X: 50, Y: 20, Size: 3, Opacity: 0.3},
	}
	vs, is := AppendQuads(nil, nil, pts, []float64{0, 1}, 2)
	if len(vs) != 8 || len(is) != 12 {
		t.Fatalf("got %d vertices, %d indices", len(vs), len(is))
	}

	// resting dot: side 3 logical px, 6 device px, centred at (20,40)
	if vs[0].DstX != 17 || vs[0].DstY != 37 || vs[3].DstX != 23 || vs[3].DstY != 43 {
		t.Errorf("quad 0 corners = (%v,%v) (%v,%v)", vs[0].DstX, vs[0].DstY, vs[3].DstX, vs[3].DstY)
	}
	// full influence: side 3+7 = 10 logical px, 20 device px, centred at (100,40)
	if vs[4].DstX != 90 || vs[7].DstX != 110 {
		t.Errorf("quad 1 x extent = %v..%v", vs[4].DstX, vs[7].DstX)
	}
	if vs[4].Custom0 != 1 || vs[4].Custom1 != 0.3 {
		t.Errorf("quad 1 custom = %v %v", vs[4].Custom0, vs[4].Custom1)
	}
	if vs[0].Custom2 != -0.5 || vs[0].Custom3 != -0.5 || vs[3].Custom2 != 0.5 || vs[3].Custom3 != 0.5 {
		t.Errorf("local coords = %v", vs[:4])
	}

	want := []uint16{0, 1, 2, 1, 3, 2, 4, 5, 6, 5, 7, 6}
	for i := range want {
		if is[i] != want[i] {
			t.Fatalf("indices = %v, want %v", is, want)
		}
	}
}

func TestAppendQuadsShortInfluence(t *testing.T) {
	pts := make([]dots.Point, 3)
	vs, _ := AppendQuads(nil, nil, pts, []float64{0.5}, 1)
	if vs[0].Custom0 != 0.5 || vs[4].Custom0 != 0 || vs[8].Custom0 != 0 {
		t.Fatalf("influence = %v %v %v", vs[0].Custom0, vs[4].Custom0, vs[8].Custom0)
	}
}

func TestResolveUniforms(t *testing.T) {
	u, err := resolveUniforms(DefaultShader)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{uResolution, uTime, uRipples, uRippleCount, uGradientColors, uGradientStops, uInk} {
		if !u.declared[name] {
			t.Errorf("default shader does not declare %s", name)
		}
	}

	_, err = resolveUniforms([]byte("package main\n\nvar GradientColors [5]vec3\n"))
	if !errors.Is(err, ErrMissingUniform) {
		t.Fatalf("err = %v, want ErrMissingUniform", err)
	}
}

func TestResolveUniformsGrouped(t *testing.T) {
	src := `package main

var (
	GradientColors [5]vec3
	GradientStops  [5]float
	Ink            vec3
)

func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {
	return vec4(Ink, 1)
}
`
	u, err := resolveUniforms([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range requiredUniforms {
		if !u.declared[name] {
			t.Errorf("grouped declaration of %s not found", name)
		}
	}
}

func TestResolveUniformsIgnoresLocals(t *testing.T) {
	src := `package main

var GradientColors [5]vec3
var GradientStops [5]float

func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {
	var Ink vec3
	return vec4(Ink, 1)
}
`
	_, err := resolveUniforms([]byte(src))
	if !errors.Is(err, ErrMissingUniform) {
		t.Fatalf("err = %v, want ErrMissingUniform", err)
	}
}

func TestResolveUniformsSyntaxError(t *testing.T) {
	_, err := resolveUniforms([]byte("package main\n\nvar Ink vec3 = (\n"))
	if err == nil || errors.Is(err, ErrMissingUniform) {
		t.Fatalf("err = %v, want a parse error", err)
	}
}

func TestDefaultShaderCompiles(t *testing.T) {
	// NewShader only translates Kage to the intermediate form; the GPU
	// object is created on first draw.
	sh, err := ebiten.NewShader(DefaultShader)
	if err != nil {
		t.Fatalf("default shader: %v", err)
	}
	sh.Deallocate()
}

func TestUniformUpdate(t *testing.T) {
	u, err := resolveUniforms([]byte("package main\n\nvar GradientColors [5]vec3\nvar GradientStops [5]float\nvar Ink vec3\nvar Ripples [10]vec4\nvar RippleCount int\n"))
	if err != nil {
		t.Fatal(err)
	}
	u.gradientStops = palette.Default().StopUniform()

	ripples := make([]interact.Ripple, 12)
	ripples[1] = interact.Ripple{X: 1, Y: 2, Start: 3, MaxRadius: 4}
	vals := u.update(&Frame{Ripples: ripples, Width: 100, Height: 50})

	if _, ok := vals[uResolution]; ok {
		t.Error("undeclared uniform uploaded")
	}
	if got := vals[uRippleCount].(int32); got != interact.MaxRipples {
		t.Errorf("ripple count = %d", got)
	}
	packed := vals[uRipples].([]float32)
	if len(packed) != 40 || packed[4] != 1 || packed[5] != 2 || packed[6] != 3 || packed[7] != 4 {
		t.Errorf("packed ripples = %v", packed)
	}

	vals = u.update(&Frame{})
	if vals[uRippleCount].(int32) != 0 || vals[uRipples].([]float32)[4] != 0 {
		t.Error("stale ripple data not cleared")
	}
}
