package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format is a still image encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
}

// Encode writes img to w.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// WriteImage encodes img into the file at path, choosing the format from the
// extension.
func WriteImage(path string, img image.Image) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := Encode(w, img, format); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return w.Flush()
}

// Downsample scales src to width x height with a Catmull-Rom filter.
func Downsample(src *image.NRGBA, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Snapshot renders one width x height frame. With supersample > 1 the frame
// is rendered that many times larger, at a matching pixel ratio so that the
// picture keeps its proportions, and scaled down.
func Snapshot(b Backend, f Frame, width, height, supersample int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	if supersample <= 1 {
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		if err := b.RenderFrame(img, f); err != nil {
			return nil, err
		}
		return img, nil
	}

	big := f
	big.Uniforms.PixelRatio = f.Uniforms.PixelRatio * float32(supersample)
	img := image.NewNRGBA(image.Rect(0, 0, width*supersample, height*supersample))
	if err := b.RenderFrame(img, big); err != nil {
		return nil, err
	}
	Logger().Debug("supersampled snapshot", "factor", supersample)
	return Downsample(img, width, height), nil
}
