package renderer

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/shader"
)

// KageBackend runs the border as an ebiten runtime shader. ebiten only
// executes draw calls inside a running game, so both Draw and RenderFrame
// must be called from Update or Draw.
type KageBackend struct {
	shader *ebiten.Shader
	noise  *ebiten.Image
	target *ebiten.Image
	// names maps each uniform to its exported Kage variable.
	names    map[string]string
	released bool
}

var _ Backend = (*KageBackend)(nil)

// NewKageBackend compiles the shader and uploads the noise texture. A nil
// texture selects noise.Default().
func NewKageBackend(tex *noise.Texture) (*KageBackend, error) {
	if tex == nil {
		tex = noise.Default()
	}
	s, err := ebiten.NewShader(shader.Kage())
	if err != nil {
		return nil, fmt.Errorf("failed to compile Kage shader: %w", err)
	}

	names := make(map[string]string, len(shader.UniformNames))
	for _, name := range shader.UniformNames {
		if name == shader.NoiseTexture {
			continue
		}
		kname, err := shader.KageName(name)
		if err != nil {
			s.Deallocate()
			return nil, err
		}
		names[name] = kname
	}

	w, h := tex.Bounds()
	img := ebiten.NewImage(w, h)
	img.WritePixels(opaqueNoise(tex))
	return &KageBackend{shader: s, noise: img, names: names}, nil
}

// opaqueNoise returns the texture bytes with alpha forced to 255. ebiten
// stores images premultiplied; an opaque upload keeps the color channels
// intact.
func opaqueNoise(tex *noise.Texture) []byte {
	pix := append([]byte(nil), tex.Pix()...)
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 0xff
	}
	return pix
}

func (k *KageBackend) Kind() Kind { return Kage }

// Draw renders f over the whole of dst.
func (k *KageBackend) Draw(dst *ebiten.Image, f Frame) error {
	if k.released {
		return ErrReleased
	}
	b := dst.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, b.Dx(), b.Dy())
	}
	vp := viewportOf(b.Dx(), b.Dy(), f)

	op := &ebiten.DrawRectShaderOptions{}
	op.Blend = ebiten.BlendCopy
	op.Images[0] = k.noise
	op.Uniforms = make(map[string]any, len(k.names))
	for _, u := range uniformValues(vp, f) {
		if len(u.v) == 1 {
			op.Uniforms[k.names[u.name]] = u.v[0]
		} else {
			op.Uniforms[k.names[u.name]] = u.v
		}
	}

	nw, nh := k.noise.Bounds().Dx(), k.noise.Bounds().Dy()
	op.GeoM.Scale(float64(b.Dx())/float64(nw), float64(b.Dy())/float64(nh))
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	dst.DrawRectShader(nw, nh, k.shader, op)
	return nil
}

// RenderFrame draws into an offscreen image and reads it back into dst.
func (k *KageBackend) RenderFrame(dst *image.NRGBA, f Frame) error {
	if k.released {
		return ErrReleased
	}
	vp, err := viewport(dst, f)
	if err != nil {
		return err
	}
	if k.target == nil || k.target.Bounds().Dx() != vp.Width || k.target.Bounds().Dy() != vp.Height {
		if k.target != nil {
			k.target.Deallocate()
		}
		k.target = ebiten.NewImage(vp.Width, vp.Height)
	}
	if err := k.Draw(k.target, f); err != nil {
		return err
	}

	// The shader writes (color, opacity) unchanged; read the stored bytes
	// as they are.
	buf := make([]byte, vp.Width*vp.Height*4)
	k.target.ReadPixels(buf)
	rowSize := vp.Width * 4
	origin := dst.Bounds().Min
	for y := 0; y < vp.Height; y++ {
		off := dst.PixOffset(origin.X, origin.Y+y)
		copy(dst.Pix[off:off+rowSize], buf[y*rowSize:(y+1)*rowSize])
	}
	return nil
}

// Release frees the shader and images.
func (k *KageBackend) Release() {
	if k.released {
		return
	}
	k.released = true
	k.shader.Deallocate()
	k.noise.Deallocate()
	if k.target != nil {
		k.target.Deallocate()
	}
}
