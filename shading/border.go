package shading

import (
	"github.com/chewxy/math32"
	"github.com/richinsley/pulseborder/params"
)

// Geometry is the border shape resolved for one canvas. It depends on the
// given box size and the static uniforms, never on the pixel.
type Geometry struct {
	CanvasRatio float32
	// Stretch maps the responsive field onto a space where the shorter canvas
	// side has unit length.
	Stretch Vec2
	// Margins are the effective margins after aspect-ratio redistribution.
	Margins     params.Margins
	HalfSize    Vec2
	CenterShift Vec2
	Radius      float32
	// Thickness is the border half-width before softening.
	Thickness float32
	// BorderThickness is the softened width used for the main ring.
	BorderThickness float32
	// SmokeThickness is the width of the band the smoke is confined to.
	SmokeThickness float32
	Softness       float32
}

// NewGeometry resolves the border shape for a canvas of the given box size.
func NewGeometry(given Vec2, u params.Uniforms) Geometry {
	cr := given.X / max(given.Y, eps)
	g := Geometry{
		CanvasRatio: cr,
		Stretch:     Vec2{max(cr, 1), 1 / max(min(cr, 1), eps)},
		Softness:    u.Softness,
	}
	half := Vec2{0.5, 0.5}.Mul(g.Stretch)

	m := u.Margins
	mX := m.Left + m.Right
	mY := m.Top + m.Bottom
	if u.AspectRatio > 0 {
		shape := cr * (1 - mX) / max(1-mY, eps)
		var freeX, freeY float32
		if shape > 1 {
			freeX = (1 - mX) * (1 - 1/max(math32.Abs(shape), eps))
		}
		if shape < 1 {
			freeY = (1 - mY) * (1 - shape)
		}
		m.Left += freeX / 2
		m.Right += freeX / 2
		m.Top += freeY / 2
		m.Bottom += freeY / 2
		mX = m.Left + m.Right
		mY = m.Top + m.Bottom
	}
	g.Margins = m

	g.Thickness = 0.5 * u.Thickness * half.MinElem()
	half = half.Mul(Vec2{1 - mX, 1 - mY})
	g.CenterShift = Vec2{
		(m.Left - m.Right) * g.Stretch.X * 0.5,
		(m.Bottom - m.Top) * g.Stretch.Y * 0.5,
	}
	half = half.AddScalar(-mix(g.Thickness, 0, u.Softness))
	g.HalfSize = half
	g.Radius = u.Roundness * half.MinElem()

	g.BorderThickness = mix(g.Thickness, 3*g.Thickness, u.Softness)
	g.SmokeThickness = clamp(g.Thickness+0.2, 0.1, 0.4)
	return g
}

// BorderSpace maps a responsive coordinate into the centered border space.
func (g Geometry) BorderSpace(responsive Vec2) Vec2 {
	return responsive.Mul(g.Stretch).Sub(g.CenterShift)
}

// sdf holds the rounded-rectangle distances at one border-space position.
type sdf struct {
	distance float32
	corner   float32
}

func (g Geometry) sdf(uv Vec2) sdf {
	d := uv.Abs().Sub(g.HalfSize).AddScalar(g.Radius)
	outside := d.Max(0.0001).Len() - g.Radius
	inner := max(d.X, d.Y)
	return sdf{
		distance: outside + min(inner, 0.0001),
		corner:   math32.Abs(min(inner-0.45*g.Radius, 0)),
	}
}

// Distance is the signed distance from uv to the rounded rectangle outline.
func (g Geometry) Distance(uv Vec2) float32 {
	return g.sdf(uv).distance
}

// derivatives is the screen-space change of the sdf fields, fwidth(x).
type derivatives struct {
	distance float32
	corner   float32
}

// ring returns the antialiased band of half-width th around the outline plus
// the corner fade.
func (g Geometry) ring(uv Vec2, s sdf, fw derivatives, th, softness float32) float32 {
	aa := 2 * fw.distance
	edge := mix(th, -th, softness)
	lo := min(edge, th+aa)
	hi := max(edge, th+aa)
	border := 1 - smoothstep(lo, hi, math32.Abs(s.distance))

	inv := 1 / max(th, eps)
	hs := g.HalfSize
	var circles float32
	for _, c := range [4]Vec2{
		uv.Add(hs),
		uv.Sub(Vec2{-hs.X, hs.Y}),
		uv.Sub(Vec2{hs.X, -hs.Y}),
		uv.Sub(hs),
	} {
		circles = mix(1, circles, smoothstep(0, 1, c.Len()*inv))
	}
	fade := smoothstep(0, mix(fw.corner, th, softness), s.corner)
	return border + fade*circles
}
