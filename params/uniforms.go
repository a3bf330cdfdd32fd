package params

import "fmt"

// Uniforms is the numeric form of Params handed to a render backend. It is a
// plain value: backends copy it freely and never mutate it.
type Uniforms struct {
	Speed      float32
	Frame      float32
	PixelRatio float32

	ColorBack   RGBA
	Colors      [MaxColors]RGBA
	ColorsCount int

	Roundness float32
	Thickness float32
	Margins   Margins
	// AspectRatio is 1 for square and 0 when unset.
	AspectRatio float32

	Softness  float32
	Intensity float32
	Bloom     float32
	Spots     int
	SpotSize  float32
	Pulse     float32
	Smoke     float32
	SmokeSize float32

	// Fit is 0 for none, 1 for contain and 2 for cover.
	Fit         float32
	Scale       float32
	Rotation    float32
	OffsetX     float32
	OffsetY     float32
	OriginX     float32
	OriginY     float32
	WorldWidth  float32
	WorldHeight float32
}

// FromParams parses and packs p for the given device pixel ratio. Colors past
// MaxColors are dropped, the spot count is clamped to [0, MaxSpots] and the
// unit-range fields are clamped to [0,1].
func FromParams(p Params, pixelRatio float32) (Uniforms, error) {
	back, err := ParseColor(p.ColorBack)
	if err != nil {
		return Uniforms{}, fmt.Errorf("colorBack: %w", err)
	}

	u := Uniforms{
		Speed:      p.Speed,
		Frame:      p.Frame,
		PixelRatio: max(pixelRatio, 1e-6),
		ColorBack:  back,

		Roundness: clamp01(p.Roundness),
		Thickness: clamp01(p.Thickness),
		Margins:   p.ResolveMargins(),

		Softness:  clamp01(p.Softness),
		Intensity: max(p.Intensity, 0),
		Bloom:     clamp01(p.Bloom),
		Spots:     min(max(p.Spots, 0), MaxSpots),
		SpotSize:  clamp01(p.SpotSize),
		Pulse:     clamp01(p.Pulse),
		Smoke:     clamp01(p.Smoke),
		SmokeSize: max(p.SmokeSize, 0),

		Fit:         float32(p.Fit),
		Scale:       p.Scale,
		Rotation:    p.Rotation,
		OffsetX:     p.OffsetX,
		OffsetY:     p.OffsetY,
		OriginX:     clamp01(p.OriginX),
		OriginY:     clamp01(p.OriginY),
		WorldWidth:  max(p.WorldWidth, 0),
		WorldHeight: max(p.WorldHeight, 0),
	}
	if p.AspectRatio == AspectSquare {
		u.AspectRatio = 1
	}

	u.ColorsCount = min(len(p.Colors), MaxColors)
	for i := 0; i < u.ColorsCount; i++ {
		c, err := ParseColor(p.Colors[i])
		if err != nil {
			return Uniforms{}, fmt.Errorf("colors[%d]: %w", i, err)
		}
		u.Colors[i] = c
	}
	return u, nil
}

// Static reports whether the animation clock is pinned.
func (u Uniforms) Static() bool {
	return u.Speed == 0
}

// PackedColors flattens the color table for uniform upload (5 vec4s).
func (u Uniforms) PackedColors() []float32 {
	out := make([]float32, 0, MaxColors*4)
	for _, c := range u.Colors {
		out = append(out, c[0], c[1], c[2], c[3])
	}
	return out
}
