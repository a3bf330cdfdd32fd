package preview

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/richinsley/pulseborder/renderer"
)

// borderGame runs the Kage backend inside ebiten's game loop.
type borderGame struct {
	src        *source
	opts       Options
	backend    *renderer.KageBackend
	pixelRatio float32
	width      int
	height     int
	err        error
}

func (g *borderGame) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.src.reload(); err != nil {
			log.Printf("%v", err)
		}
	}
	return nil
}

func (g *borderGame) Draw(screen *ebiten.Image) {
	if !g.src.policy.NeedsRedraw() {
		return
	}
	if g.backend == nil {
		b, err := renderer.NewKageBackend(g.opts.Noise)
		if err != nil {
			g.err = err
			return
		}
		g.backend = b
	}

	f, err := g.src.frame(g.pixelRatio)
	if err != nil {
		g.err = err
		return
	}
	screen.Fill(color.Transparent)
	if err := g.backend.Draw(screen, f); err != nil {
		g.err = err
	}
}

// Layout sizes the screen in device pixels so that the border is shaded at
// full resolution.
func (g *borderGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := float64(g.opts.PixelRatio)
	if scale <= 0 {
		scale = ebiten.Monitor().DeviceScaleFactor()
	}
	w, h := int(float64(outsideWidth)*scale), int(float64(outsideHeight)*scale)
	if w != g.width || h != g.height || float32(scale) != g.pixelRatio {
		g.width, g.height, g.pixelRatio = w, h, float32(scale)
		g.src.policy.MarkDirty()
	}
	return w, h
}

// RunEbiten opens a window and renders with the Kage backend until the window
// is closed or Esc is pressed. R reloads the parameter file.
func RunEbiten(o Options) error {
	g := &borderGame{src: newSource(o), opts: o}
	defer func() {
		if g.backend != nil {
			g.backend.Release()
		}
	}()

	ebiten.SetWindowSize(o.Width, o.Height)
	ebiten.SetWindowTitle(o.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// A still border keeps its last frame between redraws.
	ebiten.SetScreenClearedEveryFrame(false)

	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{ScreenTransparent: true})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ebiten window: %w", err)
	}
	return nil
}
