package renderer

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/pulseborder/graphics"
	"github.com/richinsley/pulseborder/noise"
	"github.com/richinsley/pulseborder/shader"
	"github.com/richinsley/pulseborder/translator"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// initGL loads the GL entry points. The context must be current.
func initGL() error {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	return glInitErr
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// GLBackend runs the border as a GL program over a full-screen quad. It
// renders either into an offscreen target (RenderFrame) or into whatever
// framebuffer is bound (Draw).
type GLBackend struct {
	ctx      graphics.Context
	program  uint32
	quadVAO  uint32
	quadVBO  uint32
	noiseTex uint32
	target   *offscreenTarget

	// locations caches uniform locations by source name; -1 marks a uniform
	// the compiler optimized out.
	locations  map[string]int32
	samplerLoc int32

	released bool
}

var _ Backend = (*GLBackend)(nil)

// NewGLBackend builds the program on ctx, which is made current. A nil
// texture selects noise.Default().
func NewGLBackend(ctx graphics.Context, tex *noise.Texture) (*GLBackend, error) {
	if tex == nil {
		tex = noise.Default()
	}
	ctx.MakeCurrent()
	if err := initGL(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	b := &GLBackend{ctx: ctx, locations: make(map[string]int32)}
	if err := b.setupProgram(ctx.IsGLES()); err != nil {
		return nil, err
	}

	gl.GenVertexArrays(1, &b.quadVAO)
	gl.GenBuffers(1, &b.quadVBO)
	gl.BindVertexArray(b.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	b.noiseTex = uploadNoise(tex)
	Logger().Debug("gl backend ready", "gles", ctx.IsGLES(), "program", b.program)
	return b, nil
}

// setupProgram translates, compiles and links the border program and caches
// its uniform locations.
func (b *GLBackend) setupProgram(gles bool) error {
	p, err := translator.Translate(shader.VertexSource(), shader.FragmentSource(), gles)
	if err != nil {
		return err
	}
	position, ok := p.Uniforms["a_position"]
	if !ok {
		position = "a_position"
	}
	b.program, err = newProgram(p.Vertex, p.Fragment, position)
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.UseProgram(b.program)
	for _, name := range shader.UniformNames {
		loc := uniformLocation(b.program, p.Uniforms, name)
		if loc < 0 {
			Logger().Debug("uniform not active", "name", name)
		}
		b.locations[name] = loc
	}
	b.samplerLoc = b.locations[shader.NoiseTexture]
	return nil
}

// uniformLocation resolves a source uniform through the translator's name
// mapping. Arrays are looked up by their first element.
func uniformLocation(program uint32, mapping map[string]string, name string) int32 {
	mapped, ok := mapping[name]
	if !ok {
		mapped = name
	}
	loc := gl.GetUniformLocation(program, gl.Str(mapped+"[0]\x00"))
	if loc < 0 {
		loc = gl.GetUniformLocation(program, gl.Str(mapped+"\x00"))
	}
	return loc
}

// uploadNoise creates the noise texture with linear filtering and repeat
// wrapping.
func uploadNoise(tex *noise.Texture) uint32 {
	w, h := tex.Bounds()
	pix := tex.Pix()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func (b *GLBackend) Kind() Kind { return GL }

// Draw renders f into the bound framebuffer over a width x height viewport.
func (b *GLBackend) Draw(width, height int, f Frame) error {
	if b.released {
		return ErrReleased
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	vp := viewportOf(width, height, f)

	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Disable(gl.BLEND)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(b.program)
	for _, u := range uniformValues(vp, f) {
		setUniform(b.locations[u.name], u.v)
	}
	if b.samplerLoc >= 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, b.noiseTex)
		gl.Uniform1i(b.samplerLoc, 0)
	}
	gl.BindVertexArray(b.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

func setUniform(loc int32, v []float32) {
	if loc < 0 {
		return
	}
	switch len(v) {
	case 1:
		gl.Uniform1f(loc, v[0])
	case 2:
		gl.Uniform2fv(loc, 1, &v[0])
	case 3:
		gl.Uniform3fv(loc, 1, &v[0])
	default:
		gl.Uniform4fv(loc, int32(len(v)/4), &v[0])
	}
}

// RenderFrame draws into the offscreen target and reads it back into dst.
func (b *GLBackend) RenderFrame(dst *image.NRGBA, f Frame) error {
	if b.released {
		return ErrReleased
	}
	vp, err := viewport(dst, f)
	if err != nil {
		return err
	}
	b.ctx.MakeCurrent()
	if b.target == nil {
		if b.target, err = newOffscreenTarget(vp.Width, vp.Height); err != nil {
			return err
		}
	} else if err := b.target.resize(vp.Width, vp.Height); err != nil {
		return err
	}

	b.target.bind()
	defer b.target.unbind()
	if err := b.Draw(vp.Width, vp.Height, f); err != nil {
		return err
	}
	b.target.readPixels(dst)
	return nil
}

// Release deletes the program and its GL objects. The context is not
// destroyed.
func (b *GLBackend) Release() {
	if b.released {
		return
	}
	b.released = true
	b.ctx.MakeCurrent()
	gl.DeleteProgram(b.program)
	gl.DeleteTextures(1, &b.noiseTex)
	gl.DeleteBuffers(1, &b.quadVBO)
	gl.DeleteVertexArrays(1, &b.quadVAO)
	if b.target != nil {
		b.target.destroy()
		b.target = nil
	}
}

func newProgram(vertexShaderSource, fragmentShaderSource, positionName string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, fmt.Errorf("fragment stage: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	if positionName != "" {
		gl.BindAttribLocation(program, 0, gl.Str(positionName+"\x00"))
	}
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	id := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(id, logLength, nil, gl.Str(logText))
		gl.DeleteShader(id)
		return 0, fmt.Errorf("failed to compile shader: %v", strings.TrimRight(logText, "\x00"))
	}
	return id, nil
}
