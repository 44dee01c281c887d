package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/janus/voxeldr/dr/shaders"
)

// FullscreenTriangle covers the whole [-1, 1] clip square with one triangle.
var FullscreenTriangle = [3][2]float32{
	{-15, 10},
	{5, 10},
	{5, -10},
}

// LightingPipeline resolves the G-buffer into the surface image.
type LightingPipeline struct {
	Pipeline      *wgpu.RenderPipeline
	GBufferLayout *wgpu.BindGroupLayout
	Triangle      *wgpu.Buffer

	device *wgpu.Device
}

func gbufferLayoutDescriptor() *wgpu.BindGroupLayoutDescriptor {
	entry := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
				Multisampled:  false,
			},
		}
	}
	return &wgpu.BindGroupLayoutDescriptor{
		Label: "Lighting GBuffer BGL",
		// position, normal, albedo
		Entries: []wgpu.BindGroupLayoutEntry{entry(0), entry(1), entry(2)},
	}
}

func lightingPipelineDescriptor(layout *wgpu.PipelineLayout, module *wgpu.ShaderModule, format wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	return &wgpu.RenderPipelineDescriptor{
		Label:  "Lighting Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: 8,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

func NewLightingPipeline(ctx *Context, shader ShaderProvider) (*LightingPipeline, error) {
	module, err := shader.Module(ctx.Device, shaders.Lighting)
	if err != nil {
		return nil, err
	}
	defer module.Release()

	p := &LightingPipeline{device: ctx.Device}

	p.GBufferLayout, err = ctx.Device.CreateBindGroupLayout(gbufferLayoutDescriptor())
	if err != nil {
		return nil, resourceErr("lighting gbuffer layout", err)
	}

	layout, err := ctx.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Lighting Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.GBufferLayout},
	})
	if err != nil {
		p.Release()
		return nil, resourceErr("lighting pipeline layout", err)
	}
	defer layout.Release()

	p.Pipeline, err = ctx.Device.CreateRenderPipeline(lightingPipelineDescriptor(layout, module, ctx.Format()))
	if err != nil {
		p.Release()
		return nil, resourceErr("lighting pipeline", err)
	}

	p.Triangle, err = ctx.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Fullscreen Triangle",
		Contents: vec2sToBytes(FullscreenTriangle[:]),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		p.Release()
		return nil, resourceErr("fullscreen triangle buffer", err)
	}
	return p, nil
}

// BindGBuffer must be called again after the G-buffer is recreated.
func (p *LightingPipeline) BindGBuffer(gb *GBuffer) (*wgpu.BindGroup, error) {
	bg, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Lighting GBuffer BG",
		Layout: p.GBufferLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: gb.PositionView},
			{Binding: 1, TextureView: gb.NormalView},
			{Binding: 2, TextureView: gb.AlbedoView},
		},
	})
	if err != nil {
		return nil, resourceErr("lighting gbuffer bind group", err)
	}
	return bg, nil
}

func (p *LightingPipeline) Render(gbufferGroup *wgpu.BindGroup, pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, gbufferGroup, nil)
	pass.SetVertexBuffer(0, p.Triangle, 0, wgpu.WholeSize)
	pass.Draw(3, 1, 0, 0)
}

func (p *LightingPipeline) Release() {
	if p.Triangle != nil {
		p.Triangle.Release()
		p.Triangle = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.GBufferLayout != nil {
		p.GBufferLayout.Release()
		p.GBufferLayout = nil
	}
}
