// Package noise provides the pseudorandom lookup texture sampled by the border
// kernel for smoke and spot placement.
package noise

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/chewxy/math32"
)

// Size is the edge length of the default texture.
const Size = 256

// Seeds of the default texture. Changing them changes spot placement and smoke.
const (
	seedHi uint64 = 0x70756c7365
	seedLo uint64 = 0x626f72646572
)

// Texture is an immutable RGBA8 image sampled with bilinear filtering and
// repeat wrapping, matching a GL_LINEAR / GL_REPEAT texture unit.
type Texture struct {
	width, height int
	pix           []uint8
}

var (
	defaultOnce sync.Once
	defaultTex  *Texture
)

// Default returns the shared texture used by all backends.
func Default() *Texture {
	defaultOnce.Do(func() {
		defaultTex = Generate(Size, seedHi, seedLo)
	})
	return defaultTex
}

// Generate fills a size×size texture with independent random channels.
func Generate(size int, seed1, seed2 uint64) *Texture {
	rng := rand.New(rand.NewPCG(seed1, seed2))
	t := &Texture{width: size, height: size, pix: make([]uint8, size*size*4)}
	for i := range t.pix {
		t.pix[i] = uint8(rng.UintN(256))
	}
	return t
}

// FromImage copies img into a texture.
func FromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("noise image is empty")
	}
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		// Copy rows directly; draw.Draw would round-trip through premultiplied
		// color and lose precision in low-alpha texels.
		rowSize := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(rgba.Pix[y*rgba.Stride:], srcRow[:rowSize])
		}
	} else {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Texture{width: b.Dx(), height: b.Dy(), pix: rgba.Pix}, nil
}

// Decode reads a PNG noise texture.
func Decode(r io.Reader) (*Texture, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode noise texture: %w", err)
	}
	return FromImage(img)
}

// Encode writes t as PNG.
func (t *Texture) Encode(w io.Writer) error {
	return png.Encode(w, t.Image())
}

// Bounds returns the texture size in texels.
func (t *Texture) Bounds() (int, int) {
	return t.width, t.height
}

// Image returns a copy of the texels as an image.
func (t *Texture) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	copy(img.Pix, t.pix)
	return img
}

// Pix returns the raw RGBA8 rows. Callers must not modify it.
func (t *Texture) Pix() []uint8 {
	return t.pix
}

// Texel returns the normalized channels of the texel at (x, y), wrapping.
func (t *Texture) Texel(x, y int) [4]float32 {
	x = wrap(x, t.width)
	y = wrap(y, t.height)
	i := (y*t.width + x) * 4
	return [4]float32{
		float32(t.pix[i]) / 255,
		float32(t.pix[i+1]) / 255,
		float32(t.pix[i+2]) / 255,
		float32(t.pix[i+3]) / 255,
	}
}

// Sample returns the bilinearly filtered value at normalized coordinates
// (u, v). v grows with texel rows, as in a GL texture upload of the image.
func (t *Texture) Sample(u, v float32) [4]float32 {
	x := u*float32(t.width) - 0.5
	y := v*float32(t.height) - 0.5
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)

	a := t.Texel(ix, iy)
	b := t.Texel(ix+1, iy)
	c := t.Texel(ix, iy+1)
	d := t.Texel(ix+1, iy+1)

	var out [4]float32
	for k := range out {
		top := a[k] + (b[k]-a[k])*fx
		bottom := c[k] + (d[k]-c[k])*fx
		out[k] = top + (bottom-top)*fy
	}
	return out
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
