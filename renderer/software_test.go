package renderer

import (
	"bytes"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/params"
	"github.com/richinsley/pulseborder/shading"
)

func presetUniforms(t *testing.T, name string, pixelRatio float32) params.Uniforms {
	t.Helper()
	p, err := params.Preset(name)
	if err != nil {
		t.Fatal(err)
	}
	u, err := params.FromParams(p, pixelRatio)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestSoftwareMatchesEvaluator(t *testing.T) {
	b := NewSoftwareBackend(nil, 3)
	defer b.Release()

	for _, name := range params.PresetNames() {
		t.Run(name, func(t *testing.T) {
			u := presetUniforms(t, name, 1.5)
			f := Frame{Uniforms: u, Time: 3.25}
			img := image.NewNRGBA(image.Rect(0, 0, 100, 70))
			if err := b.RenderFrame(img, f); err != nil {
				t.Fatal(err)
			}

			vp := shading.Viewport{Width: 100, Height: 70, PixelRatio: 1.5}
			e := shading.NewEvaluator(noise.Default(), u, vp, f.Time)
			for y := 0; y < 70; y++ {
				for x := 0; x < 100; x++ {
					want := e.EvalPixel(x, y).RGBA8()
					off := img.PixOffset(x, y)
					got := [4]uint8(img.Pix[off : off+4])
					if got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestSoftwareSubImage(t *testing.T) {
	b := NewSoftwareBackend(nil, 2)
	defer b.Release()
	f := Frame{Uniforms: presetUniforms(t, "sample", 1)}

	full := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	if err := b.RenderFrame(full, f); err != nil {
		t.Fatal(err)
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, 60, 50))
	sub := canvas.SubImage(image.Rect(10, 5, 50, 35)).(*image.NRGBA)
	if err := b.RenderFrame(sub, f); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			if full.NRGBAAt(x, y) != sub.NRGBAAt(10+x, 5+y) {
				t.Fatalf("sub-image pixel (%d,%d) differs", x, y)
			}
		}
	}
	if canvas.NRGBAAt(0, 0).A != 0 {
		t.Error("render wrote outside the sub-image")
	}
}

func TestSoftwareErrors(t *testing.T) {
	b := NewSoftwareBackend(nil, 1)
	f := Frame{Uniforms: presetUniforms(t, "default", 1)}

	if err := b.RenderFrame(image.NewNRGBA(image.Rect(0, 0, 0, 5)), f); !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("empty image: err = %v, want ErrInvalidViewport", err)
	}
	if err := b.RenderFrame(nil, f); !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("nil image: err = %v, want ErrInvalidViewport", err)
	}

	b.Release()
	b.Release()
	if err := b.RenderFrame(image.NewNRGBA(image.Rect(0, 0, 4, 4)), f); !errors.Is(err, ErrReleased) {
		t.Errorf("after release: err = %v, want ErrReleased", err)
	}
	if b.Kind() != Software {
		t.Errorf("Kind() = %v", b.Kind())
	}
}

func TestStaticClockFreezesFrames(t *testing.T) {
	b := NewSoftwareBackend(nil, 2)
	defer b.Release()

	u := presetUniforms(t, "sample", 1)
	u.Speed = 0
	u.Frame = 12
	clock := NewClock(u)

	first := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	later := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	if err := b.RenderFrame(first, Frame{Uniforms: u, Time: clock.Time(0)}); err != nil {
		t.Fatal(err)
	}
	if err := b.RenderFrame(later, Frame{Uniforms: u, Time: clock.Time(90 * time.Second)}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Pix, later.Pix) {
		t.Error("frames differ although speed is 0")
	}
}
