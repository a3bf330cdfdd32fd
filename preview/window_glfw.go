package preview

import (
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/pulseborder/glfwcontext"
	"github.com/richinsley/pulseborder/renderer"
)

// RunGLFW opens a GLFW window and renders with the GL backend until the
// window is closed or Esc is pressed. R reloads the parameter file. It must be
// called from the main goroutine.
func RunGLFW(o Options) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(o.Width, o.Height, true, o.Title)
	if err != nil {
		return fmt.Errorf("failed to initialize glfw context: %w", err)
	}
	defer ctx.Shutdown()

	backend, err := renderer.NewGLBackend(ctx, o.Noise)
	if err != nil {
		return err
	}
	defer backend.Release()

	src := newSource(o)
	ctx.RegisterKeyCallback(glfw.KeyR, func() {
		if err := src.reload(); err != nil {
			log.Printf("%v", err)
		}
	})
	ctx.Window().SetFramebufferSizeCallback(func(*glfw.Window, int, int) {
		src.policy.MarkDirty()
	})

	for !ctx.ShouldClose() {
		if !src.policy.NeedsRedraw() {
			glfw.WaitEventsTimeout(0.1)
			continue
		}

		pixelRatio := o.PixelRatio
		if pixelRatio <= 0 {
			pixelRatio = ctx.ContentScale()
		}
		f, err := src.frame(pixelRatio)
		if err != nil {
			return err
		}

		width, height := ctx.GetFramebufferSize()
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		if err := backend.Draw(width, height, f); err != nil {
			return err
		}
		ctx.EndFrame()
	}
	return nil
}
