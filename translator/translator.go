// Package translator converts the ESSL border program into the GLSL dialect
// of the current GL context.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the shared translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// Program is a translated vertex/fragment pair with the name mapping of its
// uniforms.
type Program struct {
	Vertex   string
	Fragment string
	// Uniforms maps a source uniform name to its name in the translated code.
	Uniforms map[string]string
}

// Translate compiles the ESSL 300 sources into GLSL 410 core, or validates
// and re-emits them as ESSL when gles is set.
func Translate(vertex, fragment string, gles bool) (*Program, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	format := gst.OutputFormatGLSL410
	if gles {
		format = gst.OutputFormatESSL
	}

	vs, err := t.TranslateShader(vertex, "vertex", gst.ShaderSpecWebGL2, format)
	if err != nil {
		return nil, fmt.Errorf("vertex shader translation failed: %w", err)
	}
	fs, err := t.TranslateShader(fragment, "fragment", gst.ShaderSpecWebGL2, format)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	p := &Program{Vertex: vs.Code, Fragment: fs.Code, Uniforms: make(map[string]string)}
	for name, v := range vs.Variables {
		p.Uniforms[name] = v.MappedName
	}
	for name, v := range fs.Variables {
		p.Uniforms[name] = v.MappedName
	}
	return p, nil
}
