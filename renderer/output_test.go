package renderer

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.png", PNG, false},
		{"dir/OUT.PNG", PNG, false},
		{"frame.bmp", BMP, false},
		{"frame.tif", TIFF, false},
		{"frame.tiff", TIFF, false},
		{"frame.jpg", "", true},
		{"frame", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEncodeDecodes(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	src.Pix[0], src.Pix[1], src.Pix[2] = 200, 10, 30

	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		PNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		BMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		TIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}
	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatal(err)
			}
			img, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			if img.Bounds().Size() != src.Bounds().Size() {
				t.Fatalf("size = %v, want %v", img.Bounds().Size(), src.Bounds().Size())
			}
			r, g, b, _ := img.At(0, 0).RGBA()
			if r>>8 != 200 || g>>8 != 10 || b>>8 != 30 {
				t.Errorf("pixel (0,0) = %d,%d,%d", r>>8, g>>8, b>>8)
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, src, Format("gif")); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestWriteImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	if err := WriteImage(path, src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 8 || cfg.Height != 8 {
		t.Errorf("decoded size %dx%d", cfg.Width, cfg.Height)
	}

	if err := WriteImage(filepath.Join(t.TempDir(), "frame.jpg"), src); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func TestSnapshotSupersample(t *testing.T) {
	b := NewSoftwareBackend(nil, 2)
	defer b.Release()
	f := Frame{Uniforms: presetUniforms(t, "ring", 1)}

	plain, err := Snapshot(b, f, 48, 32, 1)
	if err != nil {
		t.Fatal(err)
	}
	smooth, err := Snapshot(b, f, 48, 32, 3)
	if err != nil {
		t.Fatal(err)
	}
	if plain.Bounds() != smooth.Bounds() {
		t.Fatalf("bounds %v vs %v", plain.Bounds(), smooth.Bounds())
	}

	// Supersampling renders the same picture: the center stays inside the
	// ring in both.
	if p, s := plain.NRGBAAt(24, 16).R, smooth.NRGBAAt(24, 16).R; p > 8 || s > 8 {
		t.Errorf("center red = %d / %d, want near 0", p, s)
	}
	if _, err := Snapshot(b, f, 0, 10, 1); err == nil {
		t.Error("expected an error for an empty snapshot")
	}
}

func TestDownsampleSize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	dst := Downsample(src, 16, 8)
	if dst.Bounds().Dx() != 16 || dst.Bounds().Dy() != 8 {
		t.Errorf("Downsample size = %v", dst.Bounds())
	}
}
