package preview

import (
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/richinsley/pulseborder/renderer"
)

// halfBlock draws the upper pixel of a cell as foreground and the lower one
// as background.
const halfBlock = '▀'

// RunTerminal renders with the software backend into the terminal, two
// pixels per character cell. Esc, Ctrl-C or q quit; r reloads the parameter
// file.
func RunTerminal(o Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	backend := renderer.NewSoftwareBackend(o.Noise, o.Workers)
	defer backend.Release()

	t := &terminalView{screen: screen, backend: backend, src: newSource(o), opts: o}
	return t.run()
}

type terminalView struct {
	screen  tcell.Screen
	backend *renderer.SoftwareBackend
	src     *source
	opts    Options
	frame   *image.NRGBA
	status  string
}

func (t *terminalView) run() error {
	fps := t.opts.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !t.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if !t.src.policy.NeedsRedraw() {
				continue
			}
			if err := t.draw(); err != nil {
				return err
			}
		}
	}
}

// handleEvent reports false when the view should close.
func (t *terminalView) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				t.status = ""
				if err := t.src.reload(); err != nil {
					t.status = err.Error()
					t.src.policy.MarkDirty()
				}
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.src.policy.MarkDirty()
	}
	return true
}

func (t *terminalView) draw() error {
	cols, rows := t.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	w, h := cols, rows*2
	if t.frame == nil || t.frame.Bounds().Dx() != w || t.frame.Bounds().Dy() != h {
		t.frame = image.NewNRGBA(image.Rect(0, 0, w, h))
	}

	pixelRatio := t.opts.PixelRatio
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	f, err := t.src.frame(pixelRatio)
	if err != nil {
		return err
	}
	if err := t.backend.RenderFrame(t.frame, f); err != nil {
		return err
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.
				Foreground(cellColor(t.frame, x, 2*y)).
				Background(cellColor(t.frame, x, 2*y+1))
			t.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	if t.status != "" {
		errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)
		for i, r := range []rune(t.status) {
			if i >= cols {
				break
			}
			t.screen.SetContent(i, rows-1, r, nil, errStyle)
		}
	}
	t.screen.Show()
	return nil
}

// cellColor composites a pixel over black; terminals have no alpha.
func cellColor(img *image.NRGBA, x, y int) tcell.Color {
	c := img.NRGBAAt(x, y)
	a := int32(c.A)
	return tcell.NewRGBColor(int32(c.R)*a/255, int32(c.G)*a/255, int32(c.B)*a/255)
}
