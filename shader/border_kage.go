//go:build ignore

//kage:unit pixels

package main

const TwoPi = 6.28318530718

// Layout uniforms.
var Resolution vec2
var PixelRatio float
var OriginX float
var OriginY float
var WorldWidth float
var WorldHeight float
var Fit float
var Scale float
var Rotation float
var OffsetX float
var OffsetY float

// Border uniforms.
var Time float
var ColorBack vec4
var Colors [5]vec4
var ColorsCount float
var Roundness float
var Thickness float
var Margins vec4
var AspectRatio float
var Softness float
var Intensity float
var Bloom float
var Spots float
var SpotSize float
var Pulse float
var Smoke float
var SmokeSize float
var PixelStepX vec2
var PixelStepY vec2

func sst(e0, e1, x float) float {
	if e0 == e1 {
		if x > e0 {
			return 1
		}
		return 0
	}
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func beat(t float) float {
	first := pow(abs(sin(t*TwoPi)), 10)
	second := pow(abs(sin((t-0.15)*TwoPi)), 10)
	return clamp(first+0.6*second, 0, 1)
}

// texel fetches a wrapped texel of the noise image.
func texel(p vec2) vec4 {
	size := imageSrc0Size()
	return imageSrc0UnsafeAt(mod(p, size) + 0.5 + imageSrc0Origin())
}

// noiseAt filters the noise image like a LINEAR/REPEAT texture unit.
func noiseAt(uv vec2) vec4 {
	x := uv*imageSrc0Size() - 0.5
	i := floor(x)
	f := x - i
	a := texel(i)
	b := texel(i + vec2(1, 0))
	c := texel(i + vec2(0, 1))
	d := texel(i + vec2(1, 1))
	return mix(mix(a, b, f.x), mix(c, d, f.x), f.y)
}

func lattice(p vec2) vec4 {
	return noiseAt(fract(floor(p)*0.01 + 0.5))
}

func valueNoise(st vec2) float {
	i := floor(st)
	f := fract(st)
	a := lattice(i).g
	b := lattice(i + vec2(1, 0)).g
	c := lattice(i + vec2(0, 1)).g
	d := lattice(i + vec2(1, 1)).g
	u := f * f * (3 - 2*f)
	return mix(mix(a, b, u.x), mix(c, d, u.x), u.y)
}

// sdf returns the signed distance to the outline and the corner distance.
func sdf(uv vec2, hs vec2, radius float) vec2 {
	d := abs(uv) - hs + radius
	inner := max(d.x, d.y)
	return vec2(length(max(d, 0.0001))-radius+min(inner, 0.0001), abs(min(inner-0.45*radius, 0)))
}

func ring(uv vec2, s vec2, fw vec2, th float, softness float, hs vec2) float {
	aa := 2 * fw.x
	edge := mix(th, -th, softness)
	border := 1 - sst(min(edge, th+aa), max(edge, th+aa), abs(s.x))

	inv := 1 / max(th, 1e-6)
	circles := 0.0
	circles = mix(1, circles, sst(0, 1, length(uv+hs)*inv))
	circles = mix(1, circles, sst(0, 1, length(uv-vec2(-hs.x, hs.y))*inv))
	circles = mix(1, circles, sst(0, 1, length(uv-vec2(hs.x, -hs.y))*inv))
	circles = mix(1, circles, sst(0, 1, length(uv-hs)*inv))
	return border + sst(0, mix(fw.y, th, softness), s.y)*circles
}

// layout returns the responsive coordinate in xy and the pattern coordinate
// in zw for a framebuffer position.
func layout(fragCoord vec2, given vec2) vec4 {
	uv := fragCoord/Resolution - 0.5
	boxOrigin := vec2(0.5-OriginX, OriginY-0.5)
	pr := max(PixelRatio, 1e-6)

	ratio := max(given.x/max(given.y, 1e-6), 1e-6)
	w := ratio * min(given.x/ratio, given.y)
	natural := w
	if Fit == 1 {
		w = ratio * min(Resolution.x/ratio, Resolution.y)
	} else if Fit == 2 {
		w = ratio * max(Resolution.x/ratio, Resolution.y)
	}
	boxScale := Resolution / max(vec2(w, w/ratio), 1e-6)

	scale := Scale
	if abs(scale) < 1e-6 {
		scale = 1e-6
	}
	r := Rotation * TwoPi / 360
	rot := mat2(cos(r), sin(r), -sin(r), cos(r))
	offset := vec2(-OffsetX, OffsetY)

	resp := uv*boxScale + boxOrigin*(boxScale-1) + offset
	resp /= scale
	resp.x *= ratio
	resp = rot * resp
	resp.x /= ratio

	originShift := boxOrigin / boxScale
	pat := uv + offset/boxScale + boxOrigin - originShift
	pat *= Resolution / pr
	if Fit > 0 {
		pat *= natural / max(w, 1e-6)
	}
	pat /= scale
	pat = rot * pat
	pat += originShift - boxOrigin
	return vec4(resp, 0.01*pat)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	pos := dstPos.xy - imageDstOrigin()
	fragCoord := vec2(pos.x, Resolution.y-pos.y)

	pr := max(PixelRatio, 1e-6)
	given := max(vec2(WorldWidth, WorldHeight), 1) * pr
	if WorldWidth == 0 {
		given.x = Resolution.x
	}
	if WorldHeight == 0 {
		given.y = Resolution.y
	}
	fields := layout(fragCoord, given)

	t := 1.2 * (Time + 109)
	pulse := Pulse * beat(0.18*Time)

	cr := given.x / max(given.y, 1e-6)
	stretch := vec2(max(cr, 1), 1/max(min(cr, 1), 1e-6))
	hs := 0.5 * stretch

	mL := Margins.x
	mR := Margins.y
	mT := Margins.z
	mB := Margins.w
	if AspectRatio > 0 {
		shape := cr * (1 - mL - mR) / max(1-mT-mB, 1e-6)
		freeX := 0.0
		freeY := 0.0
		if shape > 1 {
			freeX = (1 - mL - mR) * (1 - 1/max(abs(shape), 1e-6))
		}
		if shape < 1 {
			freeY = (1 - mT - mB) * (1 - shape)
		}
		mL += 0.5 * freeX
		mR += 0.5 * freeX
		mT += 0.5 * freeY
		mB += 0.5 * freeY
	}

	thickness := 0.5 * Thickness * min(hs.x, hs.y)
	hs *= vec2(1-(mL+mR), 1-(mT+mB))
	centerShift := vec2(mL-mR, mB-mT) * stretch * 0.5
	hs -= mix(thickness, 0, Softness)
	radius := Roundness * min(hs.x, hs.y)

	uv := fields.xy*stretch - centerShift
	s := sdf(uv, hs, radius)
	fw := abs(sdf(uv+PixelStepX, hs, radius)-s) + abs(sdf(uv+PixelStepY, hs, radius)-s)

	border := ring(uv, s, fw, mix(thickness, 3*thickness, Softness), Softness, hs)
	border = pow(border, 1+Softness)

	smokeWeight := mix(0, 0.5, Smoke*Smoke) * mix(1, pulse, Pulse)
	if smokeWeight != 0 {
		st := 0.3 * SmokeSize * fields.zw
		v := clamp(3*valueNoise(2.7*st+0.5*t), 0, 1) - valueNoise(3.4*st-0.5*t)
		v *= ring(uv, s, fw, clamp(thickness+0.2, 0.1, 0.4), 1, hs)
		border += clamp(30*v*v*smokeWeight, 0, 1)
	}
	border = clamp(border, 0, 1)

	blendColor := vec3(0)
	blendAlpha := 0.0
	addColor := vec3(0)
	addAlpha := 0.0

	intensity := 1 + (1+4*Softness)*Intensity
	angle := atan2(uv.y, uv.x) / TwoPi
	sizeBase := 0.05 + 0.6*SpotSize*SpotSize

	for ci := 0; ci < 5; ci++ {
		cf := float(ci)
		if cf < ColorsCount {
			col := Colors[ci]
			for si := 0; si < 4; si++ {
				sf := float(si)
				if sf < Spots {
					rv := lattice(vec2(sf*10+2, 40+cf)).gb
					phase := (0.1+0.15*abs(sin(sf*(2+cf))*cos(sf*(2+2.5*cf))))*t + 3*rv.x
					phase *= mix(1, -1, step(0.5, rv.y))

					mask := 0.5 + 0.5*mix(sin(t+sf*(5-1.5*cf)), cos(t+sf*(3+1.3*cf)), step(mod(cf, 2), 0.5))
					p := clamp(2*Pulse-rv.x, 0, 1)
					mask = mix(mask, pulse, p)
					size := mix(sizeBase+0.05*rv.x, 0.1, p)

					a := fract(angle + phase)
					sector := sst(0.5-size, 0.5, a) * (1 - sst(0.5, 0.5+size, a))
					sector = clamp(sector*mask*border*intensity, 0, 1)

					src := col.rgb * col.a * sector
					srcAlpha := col.a * sector
					blendColor += (1 - blendAlpha) * src
					blendAlpha += (1 - blendAlpha) * srcAlpha
					addColor += src
					addAlpha += srcAlpha
				}
			}
		}
	}

	accumAlpha := clamp(mix(blendAlpha, addAlpha, Bloom), 0, 1)
	rgb := mix(blendColor, addColor, Bloom) + (1-accumAlpha)*ColorBack.rgb*ColorBack.a
	opacity := accumAlpha + (1-accumAlpha)*ColorBack.a

	h := sin(0.014 * dot(fragCoord, vec2(12.9898, 78.233)))
	rgb += (fract(h*43758.5453) - 0.5) / 256

	return vec4(clamp(rgb, 0, 1), clamp(opacity, 0, 1))
}
