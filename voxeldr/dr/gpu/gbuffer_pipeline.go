package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/janus/voxeldr/dr/mesh"
	"github.com/gekko3d/janus/voxeldr/dr/shaders"
)

// GBufferPipeline rasterizes voxel meshes into the G-buffer targets.
type GBufferPipeline struct {
	Pipeline      *wgpu.RenderPipeline
	UniformLayout *wgpu.BindGroupLayout
	TextureLayout *wgpu.BindGroupLayout

	device *wgpu.Device
}

func voxelVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: mesh.VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

func uniformLayoutDescriptor() *wgpu.BindGroupLayoutDescriptor {
	return &wgpu.BindGroupLayoutDescriptor{
		Label: "GBuffer Uniform BGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				MinBindingSize:   UniformsSize,
				HasDynamicOffset: false,
			},
		}},
	}
}

func atlasLayoutDescriptor() *wgpu.BindGroupLayoutDescriptor {
	return &wgpu.BindGroupLayoutDescriptor{
		Label: "GBuffer Atlas BGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
				Multisampled:  false,
			},
		}},
	}
}

func gbufferPipelineDescriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule) *wgpu.RenderPipelineDescriptor {
	target := wgpu.ColorTargetState{
		Format:    GBufferColorFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	return &wgpu.RenderPipelineDescriptor{
		Label:  "GBuffer Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{voxelVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			// position, normal, albedo
			Targets: []wgpu.ColorTargetState{target, target, target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            GBufferDepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

func NewGBufferPipeline(ctx *Context, shader ShaderProvider) (*GBufferPipeline, error) {
	module, err := shader.Module(ctx.Device, shaders.GBuffer)
	if err != nil {
		return nil, err
	}
	defer module.Release()

	p := &GBufferPipeline{device: ctx.Device}

	p.UniformLayout, err = ctx.Device.CreateBindGroupLayout(uniformLayoutDescriptor())
	if err != nil {
		return nil, resourceErr("gbuffer uniform layout", err)
	}
	p.TextureLayout, err = ctx.Device.CreateBindGroupLayout(atlasLayoutDescriptor())
	if err != nil {
		p.Release()
		return nil, resourceErr("gbuffer texture layout", err)
	}

	layout, err := ctx.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "GBuffer Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.UniformLayout, p.TextureLayout},
	})
	if err != nil {
		p.Release()
		return nil, resourceErr("gbuffer pipeline layout", err)
	}
	defer layout.Release()

	p.Pipeline, err = ctx.Device.CreateRenderPipeline(gbufferPipelineDescriptor(layout, module))
	if err != nil {
		p.Release()
		return nil, resourceErr("gbuffer pipeline", err)
	}
	return p, nil
}

func (p *GBufferPipeline) BindUniforms(buf *wgpu.Buffer) (*wgpu.BindGroup, error) {
	bg, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "GBuffer Uniform BG",
		Layout: p.UniformLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Size:    UniformsSize,
		}},
	})
	if err != nil {
		return nil, resourceErr("gbuffer uniform bind group", err)
	}
	return bg, nil
}

func (p *GBufferPipeline) BindTextures(atlas *wgpu.TextureView) (*wgpu.BindGroup, error) {
	bg, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "GBuffer Atlas BG",
		Layout: p.TextureLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding:     0,
			TextureView: atlas,
		}},
	})
	if err != nil {
		return nil, resourceErr("gbuffer texture bind group", err)
	}
	return bg, nil
}

// Render draws an indexed voxel mesh with 16-bit indices.
func (p *GBufferPipeline) Render(vbuf, ibuf *wgpu.Buffer, indexCount uint32, uniforms, textures *wgpu.BindGroup, pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, uniforms, nil)
	pass.SetBindGroup(1, textures, nil)
	pass.SetVertexBuffer(0, vbuf, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(ibuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(indexCount, 1, 0, 0, 0)
}

func (p *GBufferPipeline) Release() {
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.TextureLayout != nil {
		p.TextureLayout.Release()
		p.TextureLayout = nil
	}
	if p.UniformLayout != nil {
		p.UniformLayout.Release()
		p.UniformLayout = nil
	}
}
