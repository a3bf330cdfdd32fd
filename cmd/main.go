package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/richinsley/pulseborder/glfwcontext"
	"github.com/richinsley/pulseborder/graphics"
	"github.com/richinsley/pulseborder/headless"
	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/options"
	"github.com/richinsley/pulseborder/params"
	"github.com/richinsley/pulseborder/preview"
	"github.com/richinsley/pulseborder/renderer"
)

func init() {
	runtime.LockOSThread()
}

// loadParams applies the parameter file, if any, on top of the preset.
func loadParams(o *options.Options) (params.Params, error) {
	p, err := params.Preset(*o.Preset)
	if err != nil {
		return params.Params{}, err
	}
	if *o.ParamsFile != "" {
		return params.Load(*o.ParamsFile, p)
	}
	return p, nil
}

func loadNoise(path string) (*noise.Texture, error) {
	if path == "" {
		return noise.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return noise.Decode(f)
}

// offscreenContext creates a GL context without a visible window: an EGL
// pbuffer where available, otherwise a hidden GLFW window.
func offscreenContext(width, height int) (graphics.Context, func(), error) {
	ctx, err := headless.NewHeadless(width, height)
	if err == nil {
		return ctx, ctx.Shutdown, nil
	}
	log.Printf("Headless EGL unavailable (%v), falling back to a hidden window", err)

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, err
	}
	win, err := glfwcontext.New(width, height, false, "pulseborder")
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, err
	}
	return win, func() {
		win.Shutdown()
		glfwcontext.TerminateGraphics()
	}, nil
}

// offscreenBackend builds the backend for snapshot and record modes. A
// runtime shader needs a running game, so offscreen work picks between the GL
// program and the CPU.
func offscreenBackend(want renderer.Kind, o *options.Options, tex *noise.Texture) (renderer.Backend, func(), error) {
	caps := renderer.Capabilities{}
	var ctx graphics.Context
	cleanup := func() {}

	if want == renderer.Auto || want == renderer.GL {
		c, done, err := offscreenContext(*o.Width, *o.Height)
		if err != nil {
			log.Printf("No GL context: %v", err)
		} else {
			ctx, cleanup, caps.GL = c, done, true
		}
	}

	kind, err := renderer.Select(want, caps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if kind == renderer.GL {
		b, err := renderer.NewGLBackend(ctx, tex)
		if err == nil {
			return b, func() { b.Release(); cleanup() }, nil
		}
		cleanup()
		if want == renderer.GL {
			return nil, nil, err
		}
		log.Printf("GL backend failed, using software: %v", err)
	} else {
		cleanup()
	}
	b := renderer.NewSoftwareBackend(tex, *o.Workers)
	return b, b.Release, nil
}

func pixelRatio(o *options.Options) float32 {
	if *o.PixelRatio > 0 {
		return float32(*o.PixelRatio)
	}
	return 1
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func runSnapshot(o *options.Options, p params.Params, b renderer.Backend) error {
	u, err := params.FromParams(p, pixelRatio(o))
	if err != nil {
		return err
	}
	f := renderer.Frame{Uniforms: u, Time: renderer.NewClock(u).Time(secondsToDuration(*o.Time))}
	img, err := renderer.Snapshot(b, f, *o.Width, *o.Height, *o.Supersample)
	if err != nil {
		return err
	}
	out := o.Output()
	if err := renderer.WriteImage(out, img); err != nil {
		return err
	}
	log.Printf("Wrote %s (%dx%d, %s backend)", out, *o.Width, *o.Height, b.Kind())
	return nil
}

func runRecord(o *options.Options, p params.Params, b renderer.Backend) error {
	u, err := params.FromParams(p, pixelRatio(o))
	if err != nil {
		return err
	}
	if u.Static() {
		log.Println("Warning: speed is 0, every frame of the recording is identical.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = renderer.Record(ctx, b, u, renderer.RecordOptions{
		Output:     o.Output(),
		FFmpegPath: *o.FFMPEGPath,
		Codec:      *o.Codec,
		FPS:        *o.FPS,
		Duration:   *o.Duration,
		Width:      *o.Width,
		Height:     *o.Height,
	})
	if err != nil {
		return err
	}
	log.Printf("Successfully rendered to %s", o.Output())
	return nil
}

func runWindow(want renderer.Kind, po preview.Options) error {
	kind, err := renderer.Select(want, renderer.Capabilities{RuntimeShader: true, GL: true})
	if err != nil {
		return err
	}
	switch kind {
	case renderer.Kage:
		return preview.RunEbiten(po)
	case renderer.GL:
		return preview.RunGLFW(po)
	}
	return fmt.Errorf("%w: the window preview runs kage or gl, use -mode terminal for software", renderer.ErrUnsupported)
}

func main() {
	o := options.Register(flag.CommandLine)
	flag.Parse()

	if *o.Help {
		fmt.Println("Pulsing border renderer")
		fmt.Println("Presets: " + strings.Join(params.PresetNames(), ", "))
		flag.PrintDefaults()
		return
	}
	if err := o.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if *o.Verbose {
		renderer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	want, err := renderer.ParseKind(*o.Backend)
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	p, err := loadParams(o)
	if err != nil {
		log.Fatalf("Error loading parameters: %v", err)
	}
	tex, err := loadNoise(*o.NoiseFile)
	if err != nil {
		log.Fatalf("Error loading noise texture: %v", err)
	}

	po := preview.Options{
		Title:      "pulseborder",
		Width:      *o.Width,
		Height:     *o.Height,
		PixelRatio: float32(*o.PixelRatio),
		ParamsPath: *o.ParamsFile,
		Params:     p,
		Noise:      tex,
		FPS:        *o.FPS,
		Workers:    *o.Workers,
	}

	switch *o.Mode {
	case "window":
		err = runWindow(want, po)
	case "terminal":
		if _, err = renderer.Select(want, renderer.Capabilities{}); err == nil {
			err = preview.RunTerminal(po)
		}
	case "snapshot", "record":
		var b renderer.Backend
		var release func()
		b, release, err = offscreenBackend(want, o, tex)
		if err != nil {
			break
		}
		if *o.Mode == "snapshot" {
			err = runSnapshot(o, p, b)
		} else {
			err = runRecord(o, p, b)
		}
		release()
	}

	if err != nil {
		if errors.Is(err, renderer.ErrUnsupported) {
			log.Fatalf("Backend %q is not available in %s mode: %v", *o.Backend, *o.Mode, err)
		}
		log.Fatalf("%s failed: %v", *o.Mode, err)
	}
}
