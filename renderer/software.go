package renderer

import (
	"image"
	"sync/atomic"

	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/shading"
)

// SoftwareBackend runs the kernel on the CPU, one tile per work item.
type SoftwareBackend struct {
	tex      *noise.Texture
	pool     *WorkerPool
	released atomic.Bool
}

var _ Backend = (*SoftwareBackend)(nil)

// NewSoftwareBackend creates a CPU backend with the given number of workers
// (GOMAXPROCS when non-positive). A nil texture selects noise.Default().
func NewSoftwareBackend(tex *noise.Texture, workers int) *SoftwareBackend {
	if tex == nil {
		tex = noise.Default()
	}
	return &SoftwareBackend{tex: tex, pool: NewWorkerPool(workers)}
}

func (s *SoftwareBackend) Kind() Kind { return Software }

// RenderFrame shades every pixel of dst.
func (s *SoftwareBackend) RenderFrame(dst *image.NRGBA, f Frame) error {
	if s.released.Load() {
		return ErrReleased
	}
	vp, err := viewport(dst, f)
	if err != nil {
		return err
	}
	e := shading.NewEvaluator(s.tex, f.Uniforms, vp, f.Time)

	tiles := Tiles(vp.Width, vp.Height)
	work := make([]func(), len(tiles))
	for i, r := range tiles {
		work[i] = func() { shadeTile(dst, e, r) }
	}
	Logger().Debug("software frame", "width", vp.Width, "height", vp.Height, "tiles", len(tiles))
	if !s.pool.ExecuteAll(work) {
		return ErrReleased
	}
	return nil
}

// shadeTile fills r, given in frame coordinates, of dst.
func shadeTile(dst *image.NRGBA, e *shading.Evaluator, r image.Rectangle) {
	origin := dst.Bounds().Min
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := dst.PixOffset(origin.X+r.Min.X, origin.Y+y)
		for x := r.Min.X; x < r.Max.X; x++ {
			c := e.EvalPixel(x, y).RGBA8()
			copy(dst.Pix[off:off+4], c[:])
			off += 4
		}
	}
}

// Release stops the worker pool.
func (s *SoftwareBackend) Release() {
	if s.released.CompareAndSwap(false, true) {
		s.pool.Close()
	}
}
