package renderer

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// offscreenTarget is an RGBA8 framebuffer the GL backend renders into before
// reading the frame back.
type offscreenTarget struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
	pixels    []byte
}

func newOffscreenTarget(width, height int) (*offscreenTarget, error) {
	t := &offscreenTarget{}
	gl.GenFramebuffers(1, &t.fbo)
	gl.GenTextures(1, &t.textureID)
	if err := t.allocate(width, height); err != nil {
		t.destroy()
		return nil, err
	}
	return t, nil
}

func (t *offscreenTarget) allocate(width, height int) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.textureID, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("offscreen fbo is not complete: 0x%x", status)
	}
	t.width, t.height = width, height
	t.pixels = make([]byte, width*height*4)
	Logger().Debug("offscreen target allocated", "width", width, "height", height)
	return nil
}

func (t *offscreenTarget) resize(width, height int) error {
	if width == t.width && height == t.height {
		return nil
	}
	return t.allocate(width, height)
}

func (t *offscreenTarget) bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
}

func (t *offscreenTarget) unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// readPixels copies the bound target into dst, flipping GL's bottom-up rows.
func (t *offscreenTarget) readPixels(dst *image.NRGBA) {
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.pixels))
	flipRows(dst, t.pixels, t.width, t.height)
}

// flipRows copies bottom-up RGBA rows into dst.
func flipRows(dst *image.NRGBA, src []byte, width, height int) {
	rowSize := width * 4
	origin := dst.Bounds().Min
	for y := 0; y < height; y++ {
		srcRow := src[(height-1-y)*rowSize:]
		off := dst.PixOffset(origin.X, origin.Y+y)
		copy(dst.Pix[off:off+rowSize], srcRow[:rowSize])
	}
}

func (t *offscreenTarget) destroy() {
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.textureID)
}
