// Package shading is the CPU rendition of the pulsing border kernel: the
// layout transform from viewport to border space, and the per-pixel border and
// lighting evaluation. It computes in float32 so that its output tracks the
// GPU programs in package shader.
package shading

import (
	"github.com/chewxy/math32"
	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/params"
)

// Color is a shaded pixel. RGB and A are in [0,1].
type Color struct {
	R, G, B, A float32
}

// RGBA8 quantizes c the way an RGBA8 framebuffer does.
func (c Color) RGBA8() [4]uint8 {
	q := func(v float32) uint8 { return uint8(clamp01(v)*255 + 0.5) }
	return [4]uint8{q(c.R), q(c.G), q(c.B), q(c.A)}
}

// Evaluator shades the pixels of one frame. It is immutable after
// construction and safe for concurrent use.
type Evaluator struct {
	tex    *noise.Texture
	u      params.Uniforms
	vp     Viewport
	layout Layout
	geom   Geometry

	time  float32
	t     float32
	pulse float32
	spots []spot

	intensity   float32
	smokeWeight float32
	// stepX and stepY are the border-space distances between neighboring
	// pixels; the layout is affine so they hold across the frame.
	stepX, stepY Vec2
}

// NewEvaluator prepares the frame at the given time. A nil texture selects
// noise.Default().
func NewEvaluator(tex *noise.Texture, u params.Uniforms, vp Viewport, time float32) *Evaluator {
	if tex == nil {
		tex = noise.Default()
	}
	e := &Evaluator{
		tex:    tex,
		u:      u,
		vp:     vp,
		layout: NewLayout(vp, u),
		time:   time,
		t:      1.2 * (time + firstFrameOffset),
		pulse:  u.Pulse * beat(0.18*time),
	}
	e.geom = NewGeometry(e.layout.GivenSize(), u)
	e.spots = newSpots(tex, u, e.t, e.pulse)
	e.intensity = 1 + (1+4*u.Softness)*u.Intensity
	e.smokeWeight = mix(0, 0.5, u.Smoke*u.Smoke) * mix(1, e.pulse, u.Pulse)

	e.stepX, e.stepY = pixelSteps(e.layout, e.geom)
	return e
}

// PixelSteps returns the border-space offsets between a pixel and its right
// and upper neighbors. The GPU programs take them as uniforms so that every
// backend derives antialiasing widths the same way.
func PixelSteps(vp Viewport, u params.Uniforms) (Vec2, Vec2) {
	l := NewLayout(vp, u)
	return pixelSteps(l, NewGeometry(l.GivenSize(), u))
}

func pixelSteps(l Layout, g Geometry) (Vec2, Vec2) {
	origin := g.BorderSpace(l.AtPixel(Vec2{0.5, 0.5}).Responsive)
	x := g.BorderSpace(l.AtPixel(Vec2{1.5, 0.5}).Responsive).Sub(origin)
	y := g.BorderSpace(l.AtPixel(Vec2{0.5, 1.5}).Responsive).Sub(origin)
	return x, y
}

// Layout returns the frame's layout transform.
func (e *Evaluator) Layout() Layout { return e.layout }

// Geometry returns the resolved border shape.
func (e *Evaluator) Geometry() Geometry { return e.geom }

// PixelSteps returns the frame's border-space pixel offsets.
func (e *Evaluator) PixelSteps() (Vec2, Vec2) { return e.stepX, e.stepY }

// Pulse returns the pulse envelope of the frame, already scaled by the pulse
// parameter.
func (e *Evaluator) Pulse() float32 { return e.pulse }

// FragCoord converts an image pixel (row 0 at the top) to the framebuffer
// position of its center (row 0 at the bottom).
func (e *Evaluator) FragCoord(x, y int) Vec2 {
	return Vec2{float32(x) + 0.5, float32(e.vp.Height-y) - 0.5}
}

// EvalPixel shades the image pixel at (x, y), row 0 at the top.
func (e *Evaluator) EvalPixel(x, y int) Color {
	fc := e.FragCoord(x, y)
	return e.Shade(e.layout.AtPixel(fc), fc)
}

// Shade evaluates the kernel for a fragment produced by the layout.
func (e *Evaluator) Shade(frag Fragment, fragCoord Vec2) Color {
	g := &e.geom
	uv := g.BorderSpace(frag.Responsive)

	s := g.sdf(uv)
	sx := g.sdf(uv.Add(e.stepX))
	sy := g.sdf(uv.Add(e.stepY))
	fw := derivatives{
		distance: math32.Abs(sx.distance-s.distance) + math32.Abs(sy.distance-s.distance),
		corner:   math32.Abs(sx.corner-s.corner) + math32.Abs(sy.corner-s.corner),
	}

	border := g.ring(uv, s, fw, g.BorderThickness, g.Softness)
	border = math32.Pow(border, 1+g.Softness)
	border = clamp01(border + e.smoke(frag.Pattern, uv, s, fw))

	acc := light(e.spots, uv, border, e.intensity)
	rgb, alpha := composite(acc, e.u.Bloom, e.u.ColorBack)
	d := dither(fragCoord)
	return Color{
		R: clamp01(rgb[0] + d),
		G: clamp01(rgb[1] + d),
		B: clamp01(rgb[2] + d),
		A: clamp01(alpha),
	}
}

func (e *Evaluator) smoke(pattern, uv Vec2, s sdf, fw derivatives) float32 {
	if e.smokeWeight == 0 {
		return 0
	}
	st := pattern.Scale(0.3 * e.u.SmokeSize)
	drift := 0.5 * e.t
	v := clamp01(3*valueNoise(e.tex, st.Scale(2.7).AddScalar(drift))) -
		valueNoise(e.tex, st.Scale(3.4).AddScalar(-drift))
	v *= e.geom.ring(uv, s, fw, e.geom.SmokeThickness, 1)
	return clamp01(30 * v * v * e.smokeWeight)
}
