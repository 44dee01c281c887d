package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	GBufferColorFormat = wgpu.TextureFormatRGBA16Float
	GBufferDepthFormat = wgpu.TextureFormatDepth32Float
)

// GBuffer holds the geometry pass targets: world position, normal, albedo
// and depth. It is recreated whenever the surface size changes.
type GBuffer struct {
	Width, Height uint32

	Position     *wgpu.Texture
	PositionView *wgpu.TextureView
	Normal       *wgpu.Texture
	NormalView   *wgpu.TextureView
	Albedo       *wgpu.Texture
	AlbedoView   *wgpu.TextureView
	Depth        *wgpu.Texture
	DepthView    *wgpu.TextureView
}

func NewGBuffer(ctx *Context, width, height uint32) (*GBuffer, error) {
	gb := &GBuffer{Width: width, Height: height}

	var err error
	targets := []struct {
		label  string
		format wgpu.TextureFormat
		tex    **wgpu.Texture
		view   **wgpu.TextureView
	}{
		{"GBuffer Position", GBufferColorFormat, &gb.Position, &gb.PositionView},
		{"GBuffer Normal", GBufferColorFormat, &gb.Normal, &gb.NormalView},
		{"GBuffer Albedo", GBufferColorFormat, &gb.Albedo, &gb.AlbedoView},
		{"GBuffer Depth", GBufferDepthFormat, &gb.Depth, &gb.DepthView},
	}
	for _, t := range targets {
		*t.tex, *t.view, err = createTarget(ctx.Device, t.label, t.format, width, height)
		if err != nil {
			gb.Release()
			return nil, err
		}
	}
	return gb, nil
}

func createTarget(device *wgpu.Device, label string, format wgpu.TextureFormat, width, height uint32) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, nil, resourceErr(label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, resourceErr(label+" view", err)
	}
	return tex, view, nil
}

func (gb *GBuffer) passDescriptor() *wgpu.RenderPassDescriptor {
	attach := func(view *wgpu.TextureView) wgpu.RenderPassColorAttachment {
		return wgpu.RenderPassColorAttachment{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
		}
	}
	return &wgpu.RenderPassDescriptor{
		Label: "GBuffer Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			attach(gb.PositionView),
			attach(gb.NormalView),
			attach(gb.AlbedoView),
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            gb.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	}
}

// Begin opens the geometry pass with every target cleared.
func (gb *GBuffer) Begin(encoder *wgpu.CommandEncoder) *wgpu.RenderPassEncoder {
	return encoder.BeginRenderPass(gb.passDescriptor())
}

func (gb *GBuffer) Release() {
	for _, v := range []*wgpu.TextureView{gb.PositionView, gb.NormalView, gb.AlbedoView, gb.DepthView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{gb.Position, gb.Normal, gb.Albedo, gb.Depth} {
		if t != nil {
			t.Release()
		}
	}
	*gb = GBuffer{Width: gb.Width, Height: gb.Height}
}
