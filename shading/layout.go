package shading

import (
	"github.com/chewxy/math32"
	"github.com/richinsley/pulseborder/params"
)

// Viewport is the drawable surface in device pixels.
type Viewport struct {
	Width, Height int
	PixelRatio    float32
}

// Resolution returns the viewport size as a vector.
func (v Viewport) Resolution() Vec2 {
	return Vec2{float32(v.Width), float32(v.Height)}
}

// Fragment holds the per-pixel coordinate fields produced by the layout.
type Fragment struct {
	// Responsive is the border-space coordinate; the unit box spans [-0.5,0.5].
	Responsive Vec2
	// Pattern is the noise-space coordinate with a layout-independent frequency.
	Pattern Vec2
	// GivenSize is the box size the responsive field was fitted to.
	GivenSize Vec2
}

// patternFrequency converts pattern pixels into noise lattice units.
const patternFrequency = 0.01

// Layout maps viewport positions to the canonical border space. It holds only
// frame constants; every method is a pure function of its argument.
type Layout struct {
	res        Vec2
	pixelRatio float32

	boxOrigin Vec2
	offset    Vec2
	scale     float32
	sin, cos  float32

	givenSize Vec2
	ratio     float32
	boxScale  Vec2
	// patternFit rescales the pattern so fit modes keep its natural frequency.
	patternFit float32
}

// NewLayout precomputes the transform for one frame.
func NewLayout(vp Viewport, u params.Uniforms) Layout {
	res := vp.Resolution()
	pr := max(vp.PixelRatio, eps)
	l := Layout{
		res:        res,
		pixelRatio: pr,
		boxOrigin:  Vec2{0.5 - u.OriginX, u.OriginY - 0.5},
		offset:     Vec2{-u.OffsetX, u.OffsetY},
		scale:      u.Scale,
	}
	if math32.Abs(l.scale) < eps {
		l.scale = eps
	}
	l.sin, l.cos = math32.Sincos(u.Rotation * pi / 180)

	given := Vec2{max(u.WorldWidth, 1), max(u.WorldHeight, 1)}.Scale(pr)
	l.givenSize = given
	if u.WorldWidth == 0 {
		l.givenSize.X = res.X
	}
	if u.WorldHeight == 0 {
		l.givenSize.Y = res.Y
	}
	l.ratio = max(l.givenSize.X/max(l.givenSize.Y, eps), eps)

	box, noFitWidth := boxSize(l.ratio, l.givenSize, res, u.Fit)
	l.boxScale = res.Div(box.Max(eps))
	l.patternFit = 1
	if u.Fit > 0 {
		l.patternFit = noFitWidth / max(box.X, eps)
	}
	return l
}

// boxSize returns the largest box of the given ratio inside given, overridden
// by the viewport for contain (1) and cover (2), plus the unfitted width.
func boxSize(ratio float32, given, res Vec2, fit float32) (Vec2, float32) {
	var box Vec2
	box.X = ratio * min(given.X/ratio, given.Y)
	noFitWidth := box.X
	switch fit {
	case 1:
		box.X = ratio * min(res.X/ratio, res.Y)
	case 2:
		box.X = ratio * max(res.X/ratio, res.Y)
	}
	box.Y = box.X / ratio
	return box, noFitWidth
}

// GivenSize returns the box size the responsive field is fitted to.
func (l Layout) GivenSize() Vec2 {
	return l.givenSize
}

// AtPixel evaluates the layout at a framebuffer position (pixel centers at
// +0.5, y growing upwards).
func (l Layout) AtPixel(fragCoord Vec2) Fragment {
	return l.at(fragCoord.Div(l.res).AddScalar(-0.5))
}

// AtClip evaluates the layout at a clip-space position in [-1,1]².
func (l Layout) AtClip(pos Vec2) Fragment {
	return l.at(pos.Scale(0.5))
}

func (l Layout) at(uv Vec2) Fragment {
	r := uv.Mul(l.boxScale)
	r = r.Add(l.boxOrigin.Mul(l.boxScale.AddScalar(-1)))
	r = r.Add(l.offset)
	r = r.Scale(1 / l.scale)
	r.X *= l.ratio
	r = r.Rotate(l.sin, l.cos)
	r.X /= l.ratio

	originShift := l.boxOrigin.Div(l.boxScale)
	p := uv.Add(l.offset.Div(l.boxScale))
	p = p.Add(l.boxOrigin).Sub(originShift)
	p = p.Mul(l.res).Scale(1 / l.pixelRatio)
	p = p.Scale(l.patternFit)
	p = p.Scale(1 / l.scale)
	p = p.Rotate(l.sin, l.cos)
	p = p.Add(originShift).Sub(l.boxOrigin)
	p = p.Scale(patternFrequency)

	return Fragment{Responsive: r, Pattern: p, GivenSize: l.givenSize}
}
