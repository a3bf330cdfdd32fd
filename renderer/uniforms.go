package renderer

import (
	"github.com/richinsley/pulseborder/shader"
	"github.com/richinsley/pulseborder/shading"
)

// uniformValue is one uniform of the GPU programs, flattened to floats. A
// length of 1 is a float, 2 a vec2, 4 a vec4 and multiples of 4 a vec4 array.
type uniformValue struct {
	name string
	v    []float32
}

// uniformValues packs f for a frame of the given viewport, in the order of
// shader.UniformNames minus the sampler.
func uniformValues(vp shading.Viewport, f Frame) []uniformValue {
	u := f.Uniforms
	res := vp.Resolution()
	stepX, stepY := shading.PixelSteps(vp, u)
	m := u.Margins
	one := func(v float32) []float32 { return []float32{v} }

	return []uniformValue{
		{shader.Resolution, []float32{res.X, res.Y}},
		{shader.PixelRatio, one(max(vp.PixelRatio, 1e-6))},
		{shader.OriginX, one(u.OriginX)},
		{shader.OriginY, one(u.OriginY)},
		{shader.WorldWidth, one(u.WorldWidth)},
		{shader.WorldHeight, one(u.WorldHeight)},
		{shader.Fit, one(u.Fit)},
		{shader.Scale, one(u.Scale)},
		{shader.Rotation, one(u.Rotation)},
		{shader.OffsetX, one(u.OffsetX)},
		{shader.OffsetY, one(u.OffsetY)},
		{shader.Time, one(f.Time)},
		{shader.ColorBack, u.ColorBack[:]},
		{shader.Colors, u.PackedColors()},
		{shader.ColorsCount, one(float32(u.ColorsCount))},
		{shader.Roundness, one(u.Roundness)},
		{shader.Thickness, one(u.Thickness)},
		{shader.Margins, []float32{m.Left, m.Right, m.Top, m.Bottom}},
		{shader.AspectRatio, one(u.AspectRatio)},
		{shader.Softness, one(u.Softness)},
		{shader.Intensity, one(u.Intensity)},
		{shader.Bloom, one(u.Bloom)},
		{shader.Spots, one(float32(u.Spots))},
		{shader.SpotSize, one(u.SpotSize)},
		{shader.Pulse, one(u.Pulse)},
		{shader.Smoke, one(u.Smoke)},
		{shader.SmokeSize, one(u.SmokeSize)},
		{shader.PixelStepX, []float32{stepX.X, stepX.Y}},
		{shader.PixelStepY, []float32{stepY.X, stepY.Y}},
	}
}
