package params

import (
	"fmt"

	css "github.com/mazznoer/csscolorparser"
)

// RGBA is a straight (not premultiplied) color with channels in [0,1].
type RGBA [4]float32

// Premultiplied returns the color with rgb scaled by alpha.
func (c RGBA) Premultiplied() RGBA {
	return RGBA{c[0] * c[3], c[1] * c[3], c[2] * c[3], c[3]}
}

// ParseColor parses any CSS color string ("#rgb", "#rrggbbaa", "rgb(...)",
// named colors, ...). An empty string is transparent black.
func ParseColor(s string) (RGBA, error) {
	if s == "" {
		return RGBA{}, nil
	}
	c, err := css.Parse(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGBA{clamp01(float32(c.R)), clamp01(float32(c.G)), clamp01(float32(c.B)), clamp01(float32(c.A))}, nil
}

// MustParseColor is like ParseColor but panics on error. Meant for literals.
func MustParseColor(s string) RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
