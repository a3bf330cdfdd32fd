// Package renderer turns resolved border parameters into pixels. A Backend
// wraps one way of running the border kernel: on the CPU, as a GL program or
// as an ebiten runtime shader. The package also carries the animation clock,
// the redraw policy, snapshot output and ffmpeg recording.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/richinsley/pulseborder/params"
	"github.com/richinsley/pulseborder/shading"
)

var (
	// ErrUnsupported is returned when a backend is requested explicitly on a
	// host that cannot run it.
	ErrUnsupported = errors.New("renderer: backend not supported on this host")
	// ErrReleased is returned by a backend used after Release.
	ErrReleased = errors.New("renderer: backend released")
	// ErrInvalidViewport is returned for an empty destination image.
	ErrInvalidViewport = errors.New("renderer: invalid viewport")
)

// Kind names a backend.
type Kind int

const (
	Auto Kind = iota
	Software
	GL
	Kage
)

func (k Kind) String() string {
	switch k {
	case Auto:
		return "auto"
	case Software:
		return "software"
	case GL:
		return "gl"
	case Kage:
		return "kage"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses the -backend flag value.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "software", "cpu":
		return Software, nil
	case "gl", "opengl", "gles":
		return GL, nil
	case "kage", "ebiten":
		return Kage, nil
	}
	return Auto, fmt.Errorf("unknown backend %q", s)
}

// Frame is everything a backend needs for one picture besides the
// destination size.
type Frame struct {
	Uniforms params.Uniforms
	// Time is the animation clock in seconds, see Clock.
	Time float32
}

// Backend renders frames of the border into RGBA images. The bytes written
// are the straight (color, opacity) output of the kernel.
//
// Backends are not safe for concurrent use. GL and Kage backends must be used
// from the goroutine that owns their graphics context.
type Backend interface {
	Kind() Kind
	RenderFrame(dst *image.NRGBA, f Frame) error
	// Release frees the backend's resources. It is idempotent.
	Release()
}

// Capabilities describes what the host can run.
type Capabilities struct {
	// RuntimeShader is set inside a running ebiten game.
	RuntimeShader bool
	// GL is set when a GL 4.1 or GLES 3 context is available.
	GL bool
}

// Supports reports whether k can run with c. The software backend always can.
func (c Capabilities) Supports(k Kind) bool {
	switch k {
	case Software:
		return true
	case GL:
		return c.GL
	case Kage:
		return c.RuntimeShader
	}
	return false
}

// Select resolves a requested kind against the host. Auto prefers the
// runtime shader, then the GL program, then the CPU. An explicit request the
// host cannot honor fails with ErrUnsupported.
func Select(want Kind, caps Capabilities) (Kind, error) {
	if want != Auto {
		if !caps.Supports(want) {
			return want, fmt.Errorf("%w: %s", ErrUnsupported, want)
		}
		return want, nil
	}
	for _, k := range []Kind{Kage, GL, Software} {
		if caps.Supports(k) {
			Logger().Info("backend selected", "kind", k.String())
			return k, nil
		}
	}
	return Software, nil
}

// viewport validates dst and derives the viewport of a frame.
func viewport(dst *image.NRGBA, f Frame) (shading.Viewport, error) {
	if dst == nil {
		return shading.Viewport{}, ErrInvalidViewport
	}
	b := dst.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return shading.Viewport{}, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, b.Dx(), b.Dy())
	}
	return viewportOf(b.Dx(), b.Dy(), f), nil
}

func viewportOf(width, height int, f Frame) shading.Viewport {
	return shading.Viewport{Width: width, Height: height, PixelRatio: f.Uniforms.PixelRatio}
}
