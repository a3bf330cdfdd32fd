package noise

import (
	"bytes"
	"math"
	"testing"
)

func TestDefaultIsDeterministic(t *testing.T) {
	a := Generate(Size, seedHi, seedLo)
	b := Default()
	if !bytes.Equal(a.Pix(), b.Pix()) {
		t.Fatal("default texture is not reproducible from its seeds")
	}
	if Default() != b {
		t.Error("Default() should return the shared instance")
	}
}

func TestSampleAtTexelCenter(t *testing.T) {
	tex := Generate(16, 1, 2)
	for _, p := range [][2]int{{0, 0}, {3, 7}, {15, 15}} {
		u := (float32(p[0]) + 0.5) / 16
		v := (float32(p[1]) + 0.5) / 16
		got := tex.Sample(u, v)
		want := tex.Texel(p[0], p[1])
		for k := range got {
			if math.Abs(float64(got[k]-want[k])) > 1e-5 {
				t.Errorf("Sample at texel %v = %v, want %v", p, got, want)
				break
			}
		}
	}
}

func TestSampleWraps(t *testing.T) {
	tex := Generate(8, 3, 4)
	a := tex.Sample(0.3, 0.6)
	b := tex.Sample(1.3, -0.4)
	for k := range a {
		if math.Abs(float64(a[k]-b[k])) > 1e-5 {
			t.Fatalf("Sample does not repeat: %v vs %v", a, b)
		}
	}
}

func TestSampleInterpolates(t *testing.T) {
	tex := Generate(4, 5, 6)
	// Halfway between texel (0,0) and (1,0).
	got := tex.Sample(0.25, 0.125)
	a := tex.Texel(0, 0)
	b := tex.Texel(1, 0)
	for k := range got {
		want := (a[k] + b[k]) / 2
		if math.Abs(float64(got[k]-want)) > 1e-5 {
			t.Errorf("channel %d = %v, want %v", k, got[k], want)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	tex := Generate(32, 7, 8)
	var buf bytes.Buffer
	if err := tex.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix(), tex.Pix()) {
		t.Error("decoded texture differs")
	}
}
