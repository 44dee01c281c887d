package shaders

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed gbuffer.wgsl
var GBufferWGSL string

//go:embed lighting.wgsl
var LightingWGSL string

//go:embed text.wgsl
var TextWGSL string

const (
	GBuffer  = "gbuffer"
	Lighting = "lighting"
	Text     = "text"
)

var sources = map[string]string{
	GBuffer:  GBufferWGSL,
	Lighting: LightingWGSL,
	Text:     TextWGSL,
}

func Names() []string {
	return []string{GBuffer, Lighting, Text}
}

// Source returns the WGSL for a named shader.
func Source(name string) (string, error) {
	src, ok := sources[name]
	if !ok {
		return "", fmt.Errorf("unknown shader %q", name)
	}
	return src, nil
}

// SPIRV compiles a named shader ahead of pipeline creation.
func SPIRV(name string) ([]byte, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader %q: %w", name, err)
	}
	return spirv, nil
}
