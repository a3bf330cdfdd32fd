package shading

import (
	"math"
	"testing"

	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/params"
)

const ditherTolerance = 1.0/512 + 1e-6

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		e0, e1, x, want float32
	}{
		{0, 1, -1, 0},
		{0, 1, 0.5, 0.5},
		{0, 1, 2, 1},
		{1, 0, 0.25, 0.84375},
		{0, 0, 0, 0},
		{0, 0, 1e-3, 1},
	}
	for _, tt := range tests {
		if got := smoothstep(tt.e0, tt.e1, tt.x); !near(got, tt.want, 1e-6) {
			t.Errorf("smoothstep(%v, %v, %v) = %v, want %v", tt.e0, tt.e1, tt.x, got, tt.want)
		}
	}
}

func TestBeatRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		b := beat(float32(i) * 0.013)
		if b < 0 || b > 1 {
			t.Fatalf("beat out of range: %v", b)
		}
	}
	if b := beat(0); !near(b, 0.6*float32(math.Pow(math.Abs(math.Sin(-0.15*2*math.Pi)), 10)), 1e-5) {
		t.Errorf("beat(0) = %v", b)
	}
}

func TestOutputInRange(t *testing.T) {
	for _, name := range params.PresetNames() {
		t.Run(name, func(t *testing.T) {
			p, err := params.Preset(name)
			if err != nil {
				t.Fatal(err)
			}
			u := uniforms(t, p, 1)
			vp := Viewport{Width: 64, Height: 48, PixelRatio: 1}
			for _, tm := range []float32{0, 1.7, 250} {
				e := NewEvaluator(nil, u, vp, tm)
				for y := 0; y < vp.Height; y++ {
					for x := 0; x < vp.Width; x++ {
						c := e.EvalPixel(x, y)
						for _, v := range []float32{c.R, c.G, c.B, c.A} {
							if math.IsNaN(float64(v)) || v < 0 || v > 1 {
								t.Fatalf("pixel (%d,%d) at t=%v = %+v", x, y, tm, c)
							}
						}
					}
				}
			}
		})
	}
}

func TestDeterministic(t *testing.T) {
	u := uniforms(t, params.Default(), 1)
	vp := Viewport{Width: 40, Height: 40, PixelRatio: 1}
	a := NewEvaluator(nil, u, vp, 3.25)
	b := NewEvaluator(noise.Default(), u, vp, 3.25)
	for y := 0; y < vp.Height; y += 3 {
		for x := 0; x < vp.Width; x += 3 {
			if a.EvalPixel(x, y) != b.EvalPixel(x, y) {
				t.Fatalf("pixel (%d,%d) differs between identical evaluators", x, y)
			}
		}
	}
}

func TestNoSpotsShowsBackground(t *testing.T) {
	backs := []string{"#000000ff", "#336699", "#ff000080", ""}
	for _, back := range backs {
		p := params.Default()
		p.Spots = 0
		p.Smoke = 1
		p.ColorBack = back
		u := uniforms(t, p, 1)
		bg := u.ColorBack.Premultiplied()
		vp := Viewport{Width: 32, Height: 32, PixelRatio: 1}
		e := NewEvaluator(nil, u, vp, 12)
		for y := 0; y < vp.Height; y++ {
			for x := 0; x < vp.Width; x++ {
				c := e.EvalPixel(x, y)
				if !near(c.R, bg[0], ditherTolerance) || !near(c.G, bg[1], ditherTolerance) ||
					!near(c.B, bg[2], ditherTolerance) || c.A != clamp01(bg[3]) {
					t.Fatalf("back %q pixel (%d,%d) = %+v, want %v", back, x, y, c, bg)
				}
			}
		}
	}
}

func TestSpotTable(t *testing.T) {
	p := params.Default()
	p.Colors = []string{"#f00", "#0f0"}
	p.Spots = 6
	u := uniforms(t, p, 1)
	e := NewEvaluator(nil, u, Viewport{Width: 8, Height: 8, PixelRatio: 1}, 0)
	if got, want := len(e.spots), 2*params.MaxSpots; got != want {
		t.Errorf("len(spots) = %d, want %d", got, want)
	}
	for _, s := range e.spots {
		if s.mask < 0 || s.mask > 1 {
			t.Errorf("spot mask out of range: %+v", s)
		}
	}
}

func TestCompositeBloom(t *testing.T) {
	acc := accumulation{
		blend:      [3]float32{0.3, 0.1, 0},
		blendAlpha: 0.4,
		add:        [3]float32{0.9, 0.2, 0.1},
		addAlpha:   1.6,
	}
	back := params.RGBA{0, 0, 1, 1}

	rgb, a := composite(acc, 0, back)
	want := [3]float32{0.3, 0.1, 0.6}
	for k := range rgb {
		if !near(rgb[k], want[k], 1e-6) {
			t.Errorf("bloom 0 rgb = %v, want %v", rgb, want)
			break
		}
	}
	if !near(a, 1, 1e-6) {
		t.Errorf("bloom 0 alpha = %v, want 1", a)
	}

	rgb, a = composite(acc, 1, back)
	for k := range rgb {
		if !near(rgb[k], acc.add[k], 1e-6) {
			t.Errorf("bloom 1 rgb = %v, want additive %v", rgb, acc.add)
			break
		}
	}
	if a != 1 {
		t.Errorf("bloom 1 alpha = %v, want clamped 1", a)
	}
}

func TestBloomSelectsPath(t *testing.T) {
	p := params.Default()
	p.Bloom = 0
	p.Spots = 4
	p.Intensity = 1
	p.ColorBack = ""
	u := uniforms(t, p, 1)
	vp := Viewport{Width: 64, Height: 64, PixelRatio: 1}
	e := NewEvaluator(nil, u, vp, 5)

	// Blend alpha never exceeds one, so the blended ring can only be as
	// bright as the additive one.
	u.Bloom = 1
	add := NewEvaluator(nil, u, vp, 5)
	for y := 0; y < vp.Height; y += 2 {
		for x := 0; x < vp.Width; x += 2 {
			b := e.EvalPixel(x, y)
			a := add.EvalPixel(x, y)
			if b.A > a.A+1e-6 {
				t.Fatalf("pixel (%d,%d): blended alpha %v above additive %v", x, y, b.A, a.A)
			}
		}
	}
}

func TestSymmetricMarginsKeepCenter(t *testing.T) {
	tests := []struct {
		name   string
		given  Vec2
		m      params.Margins
		aspect float32
	}{
		{"square", Vec2{100, 100}, params.Margins{Left: 0.1, Right: 0.1, Top: 0.1, Bottom: 0.1}, 0},
		{"wide", Vec2{300, 100}, params.Margins{Left: 0.2, Right: 0.2, Top: 0.05, Bottom: 0.05}, 0},
		{"wide aspect", Vec2{300, 100}, params.Margins{}, 1},
		{"tall aspect", Vec2{100, 250}, params.Margins{Top: 0.1, Bottom: 0.1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := uniforms(t, params.Default(), 1)
			u.Margins = tt.m
			u.AspectRatio = tt.aspect
			g := NewGeometry(tt.given, u)
			if !nearVec(g.CenterShift, Vec2{}, 1e-6) {
				t.Errorf("CenterShift = %v, want zero", g.CenterShift)
			}
		})
	}
}

func TestAsymmetricMarginsShiftCenter(t *testing.T) {
	u := uniforms(t, params.Default(), 1)
	u.Margins = params.Margins{Left: 0.2}
	g := NewGeometry(Vec2{100, 100}, u)
	if !nearVec(g.CenterShift, Vec2{0.1, 0}, 1e-6) {
		t.Errorf("CenterShift = %v, want (0.1, 0)", g.CenterShift)
	}
}

func TestSquareAspect(t *testing.T) {
	for _, given := range []Vec2{{400, 100}, {100, 300}, {100, 100}} {
		u := uniforms(t, params.Default(), 1)
		u.AspectRatio = 1
		g := NewGeometry(given, u)
		if !near(g.HalfSize.X, g.HalfSize.Y, 1e-5) {
			t.Errorf("given %v: HalfSize = %v, want square", given, g.HalfSize)
		}
	}
}

func TestRing(t *testing.T) {
	p, err := params.Preset("ring")
	if err != nil {
		t.Fatal(err)
	}
	u := uniforms(t, p, 1)
	vp := Viewport{Width: 512, Height: 512, PixelRatio: 1}
	e := NewEvaluator(nil, u, vp, 0)

	g := e.Geometry()
	if !near(g.Radius, g.HalfSize.X, 1e-6) || !near(g.HalfSize.X, g.HalfSize.Y, 1e-6) {
		t.Fatalf("ring geometry is not a circle: %+v", g)
	}

	// Pixels on the ring, at its four compass points.
	r := g.HalfSize.X * 512
	on := [][2]int{
		{int(256 + r), 256},
		{int(256 - r), 256},
		{256, int(256 + r)},
		{256, int(256 - r)},
	}
	for _, xy := range on {
		c := e.EvalPixel(xy[0], xy[1])
		if c.R < 0.2 || c.G > 0.01 || c.B > 0.01 || !near(c.A, 1, 1e-6) {
			t.Errorf("ring pixel %v = %+v, want red", xy, c)
		}
	}

	off := [][2]int{{256, 256}, {200, 300}, {3, 3}, {508, 508}, {3, 508}}
	for _, xy := range off {
		c := e.EvalPixel(xy[0], xy[1])
		if c.R > ditherTolerance || c.G > ditherTolerance || c.B > ditherTolerance || c.A != 1 {
			t.Errorf("pixel %v = %+v, want black", xy, c)
		}
	}
}

func TestRGBA8(t *testing.T) {
	got := Color{R: 1, G: 0.5, B: 0, A: 2}.RGBA8()
	want := [4]uint8{255, 128, 0, 255}
	if got != want {
		t.Errorf("RGBA8() = %v, want %v", got, want)
	}
}
