package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformsSize is the byte size of Uniforms in the G-buffer shader.
const UniformsSize = 128

type Uniforms struct {
	ViewProj mgl32.Mat4
	Model    mgl32.Mat4
}

func NewUniforms() Uniforms {
	return Uniforms{ViewProj: mgl32.Ident4(), Model: mgl32.Ident4()}
}

func (u *Uniforms) Bytes() []byte {
	buf := make([]byte, 0, UniformsSize)
	buf = append(buf, mat4ToBytes(u.ViewProj)...)
	buf = append(buf, mat4ToBytes(u.Model)...)
	return buf
}

func (u *Uniforms) NewBuffer(ctx *Context) (*wgpu.Buffer, error) {
	buf, err := ctx.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Uniforms",
		Contents: u.Bytes(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, resourceErr("uniform buffer", err)
	}
	return buf, nil
}

func (u *Uniforms) Write(ctx *Context, buf *wgpu.Buffer) error {
	return ctx.Queue.WriteBuffer(buf, 0, u.Bytes())
}
