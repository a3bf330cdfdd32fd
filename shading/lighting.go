package shading

import (
	"github.com/chewxy/math32"
	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/params"
)

// firstFrameOffset shifts the clock so time 0 already shows a lively frame.
const firstFrameOffset = 109

// beat is the double-thump pulse envelope in [0,1].
func beat(time float32) float32 {
	first := math32.Pow(math32.Abs(math32.Sin(time*twoPi)), 10)
	second := math32.Pow(math32.Abs(math32.Sin((time-0.15)*twoPi)), 10)
	return clamp01(first + 0.6*second)
}

// lattice looks up the noise texel assigned to an integer lattice point.
func lattice(tex *noise.Texture, p Vec2) [4]float32 {
	uv := p.Floor().Scale(0.01).AddScalar(0.5).Fract()
	return tex.Sample(uv.X, uv.Y)
}

func valueNoise(tex *noise.Texture, st Vec2) float32 {
	i := st.Floor()
	f := st.Fract()
	a := lattice(tex, i)[1]
	b := lattice(tex, i.Add(Vec2{1, 0}))[1]
	c := lattice(tex, i.Add(Vec2{0, 1}))[1]
	d := lattice(tex, i.Add(Vec2{1, 1}))[1]
	ux := f.X * f.X * (3 - 2*f.X)
	uy := f.Y * f.Y * (3 - 2*f.Y)
	return mix(mix(a, b, ux), mix(c, d, ux), uy)
}

// spot is one rotating light sector. Everything but the angle is constant
// over a frame.
type spot struct {
	color [3]float32 // premultiplied
	alpha float32
	phase float32
	mask  float32
	size  float32
}

// newSpots builds the light sectors of every active color for time t.
func newSpots(tex *noise.Texture, u params.Uniforms, t, pulse float32) []spot {
	spots := make([]spot, 0, u.ColorsCount*u.Spots)
	sizeBase := 0.05 + 0.6*u.SpotSize*u.SpotSize
	for ci := 0; ci < u.ColorsCount; ci++ {
		col := u.Colors[ci]
		cf := float32(ci)
		for si := 0; si < u.Spots; si++ {
			sf := float32(si)
			rv := lattice(tex, Vec2{sf*10 + 2, 40 + cf})
			rx, ry := rv[1], rv[2]

			speed := 0.1 + 0.15*math32.Abs(math32.Sin(sf*(2+cf))*math32.Cos(sf*(2+2.5*cf)))
			phase := speed*t + 3*rx
			phase *= mix(1, -1, step(0.5, ry))

			mask := 0.5 + 0.5*mix(
				math32.Sin(t+sf*(5-1.5*cf)),
				math32.Cos(t+sf*(3+1.3*cf)),
				step(mod(cf, 2), 0.5),
			)
			p := clamp01(2*u.Pulse - rx)

			spots = append(spots, spot{
				color: [3]float32{col[0] * col[3], col[1] * col[3], col[2] * col[3]},
				alpha: col[3],
				phase: phase,
				mask:  mix(mask, pulse, p),
				size:  mix(sizeBase+0.05*rx, 0.1, p),
			})
		}
	}
	return spots
}

// accumulation carries both compositing paths of the spot loop.
type accumulation struct {
	blend      [3]float32
	blendAlpha float32
	add        [3]float32
	addAlpha   float32
}

// light runs every spot at the border-space position uv with ring coverage
// border.
func light(spots []spot, uv Vec2, border, intensity float32) accumulation {
	var acc accumulation
	if border <= 0 || len(spots) == 0 {
		return acc
	}
	angle := math32.Atan2(uv.Y, uv.X) / twoPi
	for _, s := range spots {
		a := fract(angle + s.phase)
		sector := smoothstep(0.5-s.size, 0.5, a) * (1 - smoothstep(0.5, 0.5+s.size, a))
		sector = clamp01(sector * s.mask * border * intensity)
		if sector == 0 {
			continue
		}
		srcAlpha := s.alpha * sector
		keep := 1 - acc.blendAlpha
		for k := range 3 {
			src := s.color[k] * sector
			acc.blend[k] += keep * src
			acc.add[k] += src
		}
		acc.blendAlpha += keep * srcAlpha
		acc.addAlpha += srcAlpha
	}
	return acc
}

// composite mixes the blend and additive paths by bloom and lays the result
// over the premultiplied background.
func composite(acc accumulation, bloom float32, back params.RGBA) ([3]float32, float32) {
	alpha := clamp01(mix(acc.blendAlpha, acc.addAlpha, bloom))
	var rgb [3]float32
	for k := range 3 {
		rgb[k] = mix(acc.blend[k], acc.add[k], bloom) + (1-alpha)*back[k]*back[3]
	}
	return rgb, alpha + (1-alpha)*back[3]
}

// dither is the per-pixel offset in [-1/512, 1/512) that breaks up banding.
func dither(fragCoord Vec2) float32 {
	h := math32.Sin(0.014 * (fragCoord.X*12.9898 + fragCoord.Y*78.233))
	return (fract(h*43758.5453) - 0.5) / 256
}
