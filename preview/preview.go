// Package preview hosts the border in a live view: an ebiten window running
// the Kage backend, a GLFW window running the GL backend, or a terminal
// drawn by the software backend.
package preview

import (
	"fmt"
	"sync"
	"time"

	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/params"
	"github.com/richinsley/pulseborder/renderer"
)

// Options configures a preview.
type Options struct {
	Title  string
	Width  int
	Height int
	// PixelRatio overrides the device pixel ratio when positive.
	PixelRatio float32
	// ParamsPath, when set, is re-read on the reload key.
	ParamsPath string
	Params     params.Params
	Noise      *noise.Texture
	// FPS caps the terminal refresh rate.
	FPS     int
	Workers int
}

// source holds the live parameters and the animation clock of a preview.
type source struct {
	mu     sync.Mutex
	path   string
	base   params.Params
	params params.Params
	start  time.Time
	policy *renderer.RedrawPolicy
}

func newSource(o Options) *source {
	return &source{
		path:   o.ParamsPath,
		base:   o.Params.Clone(),
		params: o.Params,
		start:  time.Now(),
		policy: renderer.NewRedrawPolicy(o.Params.Speed),
	}
}

// reload re-reads the parameter file on top of the starting parameters. The
// clock restarts so that the new
// frame offset takes effect.
func (s *source) reload() error {
	if s.path == "" {
		return nil
	}
	p, err := params.Load(s.path, s.base)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	s.mu.Lock()
	s.params = p
	s.start = time.Now()
	s.mu.Unlock()
	s.policy.Update(params.Uniforms{Speed: p.Speed})
	renderer.Logger().Info("parameters reloaded", "path", s.path)
	return nil
}

// frame resolves the current parameters for the given pixel ratio.
func (s *source) frame(pixelRatio float32) (renderer.Frame, error) {
	s.mu.Lock()
	p, start := s.params, s.start
	s.mu.Unlock()

	u, err := params.FromParams(p, pixelRatio)
	if err != nil {
		return renderer.Frame{}, err
	}
	return renderer.Frame{Uniforms: u, Time: renderer.NewClock(u).Time(time.Since(start))}, nil
}
