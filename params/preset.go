package params

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

var presets = map[string]func() Params{
	"default": Default,
	// Mirrors the sample screen: three colors, soft square glow.
	"sample": func() Params {
		p := Default()
		p.Colors = []string{"#0dc1fd", "#d915ef", "#ff3f2ecc"}
		p.ColorBack = "#000000"
		p.Roundness = 1
		p.Thickness = 0
		p.Softness = 0.75
		p.AspectRatio = AspectSquare
		p.Intensity = 0.2
		p.Bloom = 0.45
		p.Spots = 3
		p.SpotSize = 0.4
		p.Pulse = 0.5
		p.Smoke = 1
		p.SmokeSize = 0
		p.Speed = 1
		p.Scale = 0.6
		p.SetMargins(Margins{})
		return p
	},
	// A static hard red ring, handy for checking geometry.
	"ring": func() Params {
		p := Default()
		p.Colors = []string{"#ff0000ff"}
		p.ColorBack = "#000000ff"
		p.Roundness = 1
		p.Thickness = 0.1
		p.SetMargins(Margins{})
		p.Softness = 0
		p.Intensity = 1
		p.Bloom = 0
		p.Spots = 1
		p.SpotSize = 1
		p.Pulse = 0
		p.Smoke = 0
		p.Speed = 0
		p.Frame = 0
		return p
	},
	"neon": func() Params {
		p := Default()
		p.Colors = []string{"#00ffa3", "#00b3ff", "#ff00e5", "#ffe600"}
		p.ColorBack = "#05010d"
		p.Roundness = 0.6
		p.Thickness = 0.05
		p.Softness = 0.3
		p.Intensity = 0.5
		p.Bloom = 0.8
		p.Spots = 2
		p.SpotSize = 0.3
		p.Pulse = 0.6
		p.Smoke = 0.5
		p.SmokeSize = 1
		p.Margin = 0.05
		return p
	},
}

// Preset returns a copy of the named built-in parameter set.
func Preset(name string) (Params, error) {
	fn, ok := presets[name]
	if !ok {
		return Params{}, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
	}
	return fn(), nil
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse decodes a JSON parameter document on top of base, so omitted fields
// keep their base values.
func Parse(data []byte, base Params) (Params, error) {
	p := base.Clone()
	if err := json.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("failed to decode params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Load reads a JSON parameter file on top of base.
func Load(path string, base Params) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read params file: %w", err)
	}
	p, err := Parse(data, base)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p as indented JSON.
func Save(path string, p Params) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
