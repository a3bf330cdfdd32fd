package renderer

import (
	"testing"

	"github.com/richinsley/pulseborder/shader"
	"github.com/richinsley/pulseborder/shading"
)

func TestUniformValuesCoverProgram(t *testing.T) {
	u := presetUniforms(t, "sample", 2)
	vp := shading.Viewport{Width: 300, Height: 200, PixelRatio: 2}
	values := uniformValues(vp, Frame{Uniforms: u, Time: 1.5})

	seen := make(map[string]uniformValue)
	for _, v := range values {
		if _, dup := seen[v.name]; dup {
			t.Errorf("uniform %s packed twice", v.name)
		}
		switch n := len(v.v); {
		case n == 1, n == 2, n%4 == 0 && n > 0:
		default:
			t.Errorf("uniform %s has %d components", v.name, n)
		}
		seen[v.name] = v
	}
	for _, name := range shader.UniformNames {
		if name == shader.NoiseTexture {
			continue
		}
		if _, ok := seen[name]; !ok {
			t.Errorf("uniform %s is not packed", name)
		}
	}

	if res := seen[shader.Resolution].v; res[0] != 300 || res[1] != 200 {
		t.Errorf("resolution = %v", res)
	}
	if tm := seen[shader.Time].v[0]; tm != 1.5 {
		t.Errorf("time = %v", tm)
	}
	if n := len(seen[shader.Colors].v); n != 20 {
		t.Errorf("colors has %d floats, want 20", n)
	}

	sx, sy := shading.PixelSteps(vp, u)
	if got := seen[shader.PixelStepX].v; got[0] != sx.X || got[1] != sx.Y {
		t.Errorf("pixel step x = %v, want %v", got, sx)
	}
	if got := seen[shader.PixelStepY].v; got[0] != sy.X || got[1] != sy.Y {
		t.Errorf("pixel step y = %v, want %v", got, sy)
	}
}
