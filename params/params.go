// Package params holds the user-facing parameter set of the pulsing border and
// its mapping onto the numeric uniforms consumed by the shading kernel.
package params

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// MaxColors is the number of border colors the kernel iterates over.
	MaxColors = 5
	// MaxSpots is the number of light spots per color the kernel iterates over.
	MaxSpots = 4
)

// Fit selects how the border box is fitted into the viewport.
type Fit int

const (
	FitNone Fit = iota
	FitContain
	FitCover
)

func (f Fit) String() string {
	switch f {
	case FitContain:
		return "contain"
	case FitCover:
		return "cover"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Fit) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fit) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "none":
		*f = FitNone
	case "contain":
		*f = FitContain
	case "cover":
		*f = FitCover
	default:
		return fmt.Errorf("unknown fit %q", string(text))
	}
	return nil
}

// AspectRatio selects an optional aspect ratio the drawable region is forced to.
type AspectRatio int

const (
	AspectAuto AspectRatio = iota
	AspectSquare
)

func (a AspectRatio) String() string {
	if a == AspectSquare {
		return "square"
	}
	return "auto"
}

// MarshalText implements encoding.TextMarshaler.
func (a AspectRatio) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AspectRatio) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "auto":
		*a = AspectAuto
	case "square":
		*a = AspectSquare
	default:
		return fmt.Errorf("unknown aspect ratio %q", string(text))
	}
	return nil
}

// Params is the full parameter set of the effect. Colors are CSS color strings;
// everything else is numeric and expected in the documented ranges.
type Params struct {
	Colors    []string `json:"colors"`
	ColorBack string   `json:"colorBack"`

	Roundness float32 `json:"roundness"` // [0,1]
	Thickness float32 `json:"thickness"` // [0,1], fraction of the half size

	// Margin applies to every side that has no explicit override.
	Margin       float32  `json:"margin"`
	MarginLeft   *float32 `json:"marginLeft,omitempty"`
	MarginRight  *float32 `json:"marginRight,omitempty"`
	MarginTop    *float32 `json:"marginTop,omitempty"`
	MarginBottom *float32 `json:"marginBottom,omitempty"`

	AspectRatio AspectRatio `json:"aspectRatio"`

	Softness  float32 `json:"softness"`  // [0,1]
	Intensity float32 `json:"intensity"` // >= 0
	Bloom     float32 `json:"bloom"`     // [0,1]
	Spots     int     `json:"spots"`     // [0,4]
	SpotSize  float32 `json:"spotSize"`  // [0,1]
	Pulse     float32 `json:"pulse"`     // [0,1]
	Smoke     float32 `json:"smoke"`     // [0,1]
	SmokeSize float32 `json:"smokeSize"` // >= 0

	Speed float32 `json:"speed"`
	Frame float32 `json:"frame"`

	Fit         Fit     `json:"fit"`
	Scale       float32 `json:"scale"`
	Rotation    float32 `json:"rotation"` // degrees
	OffsetX     float32 `json:"offsetX"`
	OffsetY     float32 `json:"offsetY"`
	OriginX     float32 `json:"originX"`
	OriginY     float32 `json:"originY"`
	WorldWidth  float32 `json:"worldWidth"`
	WorldHeight float32 `json:"worldHeight"`
}

// Default returns the parameter set used when nothing else is configured.
func Default() Params {
	return Params{
		Colors:      []string{"#0dc1fd", "#d915ef", "#ff3f2ecc"},
		ColorBack:   "#000000",
		Roundness:   0.25,
		Thickness:   0.1,
		Softness:    0.75,
		Intensity:   0.2,
		Bloom:       0.25,
		Spots:       4,
		SpotSize:    0.5,
		Pulse:       0.25,
		Smoke:       0.3,
		SmokeSize:   0.6,
		Speed:       1,
		Fit:         FitNone,
		Scale:       1,
		OriginX:     0.5,
		OriginY:     0.5,
		WorldWidth:  0,
		WorldHeight: 0,
	}
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	out := p
	out.Colors = append([]string(nil), p.Colors...)
	out.MarginLeft = cloneFloat(p.MarginLeft)
	out.MarginRight = cloneFloat(p.MarginRight)
	out.MarginTop = cloneFloat(p.MarginTop)
	out.MarginBottom = cloneFloat(p.MarginBottom)
	return out
}

func cloneFloat(v *float32) *float32 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Validate reports every problem that would make p unusable. Range violations
// of the clamped fields are not errors; FromParams clamps them.
func (p Params) Validate() error {
	var errs []error
	for i, c := range p.Colors {
		if _, err := ParseColor(c); err != nil {
			errs = append(errs, fmt.Errorf("colors[%d]: %w", i, err))
		}
	}
	if _, err := ParseColor(p.ColorBack); err != nil {
		errs = append(errs, fmt.Errorf("colorBack: %w", err))
	}
	if !(p.Scale > 0) {
		errs = append(errs, fmt.Errorf("scale must be positive, got %v", p.Scale))
	}
	if p.WorldWidth < 0 || p.WorldHeight < 0 {
		errs = append(errs, fmt.Errorf("world size must not be negative, got %vx%v", p.WorldWidth, p.WorldHeight))
	}
	if p.Spots < 0 {
		errs = append(errs, fmt.Errorf("spots must not be negative, got %d", p.Spots))
	}
	fields := map[string]float32{
		"roundness": p.Roundness, "thickness": p.Thickness, "margin": p.Margin,
		"softness": p.Softness, "intensity": p.Intensity, "bloom": p.Bloom,
		"spotSize": p.SpotSize, "pulse": p.Pulse, "smoke": p.Smoke,
		"smokeSize": p.SmokeSize, "speed": p.Speed, "frame": p.Frame,
		"rotation": p.Rotation, "offsetX": p.OffsetX, "offsetY": p.OffsetY,
		"originX": p.OriginX, "originY": p.OriginY,
	}
	for name, v := range fields {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			errs = append(errs, fmt.Errorf("%s is not finite", name))
		}
	}
	return errors.Join(errs...)
}
