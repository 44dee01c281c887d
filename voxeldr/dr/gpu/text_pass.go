package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/janus/voxeldr/dr/core"
	"github.com/gekko3d/janus/voxeldr/dr/shaders"
)

// TextPass draws HUD strings over the lit image with alpha blending.
type TextPass struct {
	Pipeline     *wgpu.RenderPipeline
	BindGroup    *wgpu.BindGroup
	Atlas        *wgpu.Texture
	AtlasView    *wgpu.TextureView
	Sampler      *wgpu.Sampler
	VertexBuffer *wgpu.Buffer
	VertexCount  uint32

	renderer *core.TextRenderer
	items    []core.TextItem
	ctx      *Context
}

func textVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
		},
	}
}

func NewTextPass(ctx *Context, shader ShaderProvider, renderer *core.TextRenderer) (*TextPass, error) {
	tp := &TextPass{renderer: renderer, ctx: ctx}

	w, h := renderer.AtlasImage.Bounds().Dx(), renderer.AtlasImage.Bounds().Dy()
	extent := wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}

	var err error
	tp.Atlas, err = ctx.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          extent,
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, resourceErr("text atlas", err)
	}
	err = ctx.Queue.WriteTexture(tp.Atlas.AsImageCopy(), renderer.AtlasImage.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(renderer.AtlasImage.Stride),
		RowsPerImage: uint32(h),
	}, &extent)
	if err != nil {
		tp.Release()
		return nil, resourceErr("text atlas upload", err)
	}

	tp.AtlasView, err = tp.Atlas.CreateView(nil)
	if err != nil {
		tp.Release()
		return nil, resourceErr("text atlas view", err)
	}

	tp.Sampler, err = ctx.Device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		tp.Release()
		return nil, resourceErr("text sampler", err)
	}

	module, err := shader.Module(ctx.Device, shaders.Text)
	if err != nil {
		tp.Release()
		return nil, err
	}
	defer module.Release()

	tp.Pipeline, err = ctx.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{textVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: ctx.Format(),
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		tp.Release()
		return nil, resourceErr("text pipeline", err)
	}

	tp.BindGroup, err = ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Text BG",
		Layout: tp.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: tp.AtlasView},
			{Binding: 1, Sampler: tp.Sampler},
		},
	})
	if err != nil {
		tp.Release()
		return nil, resourceErr("text bind group", err)
	}
	return tp, nil
}

func (tp *TextPass) Clear() {
	tp.items = tp.items[:0]
	tp.VertexCount = 0
}

func (tp *TextPass) Add(text string, x, y, scale float32, color [4]float32) {
	tp.items = append(tp.items, core.TextItem{
		Text:     text,
		Position: [2]float32{x, y},
		Scale:    scale,
		Color:    color,
	})
}

// Upload rebuilds the vertex buffer for the queued items, growing it as needed.
func (tp *TextPass) Upload() error {
	w, h := tp.ctx.Size()
	vertices := tp.renderer.BuildVertices(tp.items, w, h)
	tp.VertexCount = uint32(len(vertices))
	if len(vertices) == 0 {
		return nil
	}

	data := textVerticesToBytes(vertices)
	size := uint64(len(data))
	if tp.VertexBuffer == nil || tp.VertexBuffer.GetSize() < size {
		if tp.VertexBuffer != nil {
			tp.VertexBuffer.Release()
		}
		var err error
		tp.VertexBuffer, err = tp.ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Text VB",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			tp.VertexCount = 0
			return resourceErr("text vertex buffer", err)
		}
	}
	return tp.ctx.Queue.WriteBuffer(tp.VertexBuffer, 0, data)
}

func (tp *TextPass) Draw(pass *wgpu.RenderPassEncoder) {
	if tp.VertexCount == 0 || tp.VertexBuffer == nil {
		return
	}
	pass.SetPipeline(tp.Pipeline)
	pass.SetBindGroup(0, tp.BindGroup, nil)
	pass.SetVertexBuffer(0, tp.VertexBuffer, 0, tp.VertexBuffer.GetSize())
	pass.Draw(tp.VertexCount, 1, 0, 0)
}

func (tp *TextPass) Release() {
	if tp.VertexBuffer != nil {
		tp.VertexBuffer.Release()
		tp.VertexBuffer = nil
	}
	if tp.BindGroup != nil {
		tp.BindGroup.Release()
		tp.BindGroup = nil
	}
	if tp.Pipeline != nil {
		tp.Pipeline.Release()
		tp.Pipeline = nil
	}
	if tp.Sampler != nil {
		tp.Sampler.Release()
		tp.Sampler = nil
	}
	if tp.AtlasView != nil {
		tp.AtlasView.Release()
		tp.AtlasView = nil
	}
	if tp.Atlas != nil {
		tp.Atlas.Release()
		tp.Atlas = nil
	}
}
