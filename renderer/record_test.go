package renderer

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetArgs(t *testing.T) {
	tests := []struct {
		name      string
		opts      RecordOptions
		wantCodec any
		wantPix   any
	}{
		{"mp4 default", RecordOptions{Output: "out.mp4", FPS: 30, Width: 320, Height: 200}, "libx264", "yuv420p"},
		{"mp4 hevc", RecordOptions{Output: "out.mp4", Codec: "hevc", FPS: 30, Width: 320, Height: 200}, "libx265", "yuv420p"},
		{"webm keeps alpha", RecordOptions{Output: "out.webm", FPS: 60, Width: 64, Height: 64}, "libvpx-vp9", "yuva420p"},
		{"gif", RecordOptions{Output: "loop.GIF", FPS: 15, Width: 64, Height: 64}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := getArgs(tt.opts)
			if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" {
				t.Errorf("input args = %v, want raw rgba", in)
			}
			if want := "320x200"; tt.opts.Width == 320 && in["s"] != want {
				t.Errorf("input size = %v, want %s", in["s"], want)
			}
			if in["framerate"] != tt.opts.FPS {
				t.Errorf("input framerate = %v, want %d", in["framerate"], tt.opts.FPS)
			}
			if out["c:v"] != tt.wantCodec {
				t.Errorf("codec = %v, want %v", out["c:v"], tt.wantCodec)
			}
			if out["pix_fmt"] != tt.wantPix {
				t.Errorf("pix_fmt = %v, want %v", out["pix_fmt"], tt.wantPix)
			}
		})
	}
}

func TestRecordOptionsValidate(t *testing.T) {
	good := RecordOptions{Output: "a.mp4", FPS: 30, Duration: 1, Width: 16, Height: 16}
	if err := good.validate(); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}
	if n := good.frameCount(); n != 30 {
		t.Errorf("frameCount = %d, want 30", n)
	}

	bad := RecordOptions{Width: 0, Height: 16}
	err := bad.validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrInvalidViewport) {
		t.Errorf("error %v does not wrap ErrInvalidViewport", err)
	}
}

func TestFrameTime(t *testing.T) {
	if got := frameTime(60, 60); got != time.Second {
		t.Errorf("frameTime(60, 60) = %v", got)
	}
	if got := frameTime(1, 4); got != 250*time.Millisecond {
		t.Errorf("frameTime(1, 4) = %v", got)
	}
}

func TestRecordRejectsBadOptions(t *testing.T) {
	b := NewSoftwareBackend(nil, 1)
	defer b.Release()
	err := Record(context.Background(), b, presetUniforms(t, "default", 1), RecordOptions{})
	if err == nil {
		t.Fatal("Record accepted empty options")
	}
}
