package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Context owns the device, queue and configured surface. Every GPU
// component takes it explicitly.
type Context struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	log Logger
}

type contextOptions struct {
	vsync bool
	log   Logger
}

type ContextOption func(*contextOptions)

// WithVSync selects FIFO presentation when true and immediate otherwise.
func WithVSync(on bool) ContextOption {
	return func(o *contextOptions) { o.vsync = on }
}

func WithLogger(l Logger) ContextOption {
	return func(o *contextOptions) { o.log = l }
}

func NewContext(window *glfw.Window, opts ...ContextOption) (*Context, error) {
	o := contextOptions{vsync: true, log: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{log: o.log}
	c.Instance = wgpu.CreateInstance(nil)
	c.Surface = c.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := c.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: c.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		c.Release()
		return nil, resourceErr("adapter", err)
	}
	c.Adapter = adapter

	c.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		c.Release()
		return nil, resourceErr("device", err)
	}
	c.Queue = c.Device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := c.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		c.Release()
		return nil, resourceErr("surface", fmt.Errorf("surface is not compatible with adapter"))
	}

	c.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: choosePresentMode(caps.PresentModes, o.vsync),
		AlphaMode:   caps.AlphaModes[0],
	}
	c.Surface.Configure(c.Adapter, c.Device, c.Config)

	c.log.Infof("surface configured: %dx%d format=%v present=%v", c.Config.Width, c.Config.Height, c.Config.Format, c.Config.PresentMode)
	return c, nil
}

// choosePresentMode falls back to FIFO, which every surface supports.
func choosePresentMode(supported []wgpu.PresentMode, vsync bool) wgpu.PresentMode {
	if vsync {
		return wgpu.PresentModeFifo
	}
	for _, m := range []wgpu.PresentMode{wgpu.PresentModeImmediate, wgpu.PresentModeMailbox} {
		for _, s := range supported {
			if s == m {
				return m
			}
		}
	}
	return wgpu.PresentModeFifo
}

// Resize reconfigures the surface. Zero sizes are ignored and reported as false.
func (c *Context) Resize(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	if width == c.Config.Width && height == c.Config.Height {
		return false
	}
	c.Config.Width = width
	c.Config.Height = height
	c.Surface.Configure(c.Adapter, c.Device, c.Config)
	c.log.Debugf("surface resized to %dx%d", width, height)
	return true
}

func (c *Context) Size() (uint32, uint32) {
	return c.Config.Width, c.Config.Height
}

func (c *Context) Format() wgpu.TextureFormat {
	return c.Config.Format
}

// Frame is the acquired surface texture for one presentation.
type Frame struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

func (f *Frame) Release() {
	if f.View != nil {
		f.View.Release()
	}
	if f.Texture != nil {
		f.Texture.Release()
	}
}

func (c *Context) NextFrame() (*Frame, error) {
	tex, err := c.Surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, resourceErr("surface view", err)
	}
	return &Frame{Texture: tex, View: view}, nil
}

func (c *Context) Encoder() (*wgpu.CommandEncoder, error) {
	enc, err := c.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Frame Encoder"})
	if err != nil {
		return nil, resourceErr("command encoder", err)
	}
	return enc, nil
}

// RenderPass opens a pass on the frame's surface view, cleared to black.
func (c *Context) RenderPass(encoder *wgpu.CommandEncoder, frame *Frame) *wgpu.RenderPassEncoder {
	return encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Surface Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       frame.View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
}

func (c *Context) Submit(encoder *wgpu.CommandEncoder) error {
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()
	c.Queue.Submit(cmd)
	return nil
}

func (c *Context) Present() {
	c.Surface.Present()
}

func (c *Context) Release() {
	if c.Queue != nil {
		c.Queue.Release()
		c.Queue = nil
	}
	if c.Device != nil {
		c.Device.Release()
		c.Device = nil
	}
	if c.Adapter != nil {
		c.Adapter.Release()
		c.Adapter = nil
	}
	if c.Surface != nil {
		c.Surface.Release()
		c.Surface = nil
	}
	if c.Instance != nil {
		c.Instance.Release()
		c.Instance = nil
	}
}
