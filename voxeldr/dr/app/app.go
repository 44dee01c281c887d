package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/janus/voxeldr/dr/config"
	"github.com/gekko3d/janus/voxeldr/dr/core"
	"github.com/gekko3d/janus/voxeldr/dr/gpu"
	"github.com/gekko3d/janus/voxeldr/dr/mesh"
	"github.com/gekko3d/janus/voxeldr/dr/volume"
)

var hudColor = [4]float32{1, 1, 0, 1}

type App struct {
	Window *glfw.Window
	Ctx    *gpu.Context

	GBuffer          *gpu.GBuffer
	GBufferPipeline  *gpu.GBufferPipeline
	LightingPipeline *gpu.LightingPipeline

	Uniforms      gpu.Uniforms
	UniformBuffer *wgpu.Buffer
	UniformGroup  *wgpu.BindGroup
	AtlasGroup    *wgpu.BindGroup
	LightingGroup *wgpu.BindGroup

	Voxels *gpu.VoxelBuffer
	Text   *gpu.TextPass

	Camera   *core.Camera
	Model    *core.Transform
	Profiler *Profiler

	Rotating bool
	ShowHUD  bool

	FrameCount     int
	FPS            float64
	FPSTime        float64
	LastRenderTime float64

	cfg           *config.Config
	step          float32
	rotationStart float64
	now           func() float64
	log           Logger
}

func NewApp(window *glfw.Window, cfg *config.Config, log Logger) *App {
	if log == nil {
		log = nopLogger{}
	}
	cam := core.NewCamera(mgl32.Vec3(cfg.Camera.Eye), mgl32.Vec3(cfg.Camera.Target))
	cam.FovY = cfg.Camera.FovY
	cam.ZNear = cfg.Camera.ZNear
	cam.ZFar = cfg.Camera.ZFar
	cam.SetViewport(uint32(cfg.Window.Width), uint32(cfg.Window.Height))

	return &App{
		Window:   window,
		Camera:   cam,
		Model:    core.NewTransform(),
		Profiler: NewProfiler(),
		Uniforms: gpu.NewUniforms(),
		Rotating: cfg.Model.Rotate,
		ShowHUD:  cfg.Render.ShowHUD,
		cfg:      cfg,
		step:     cfg.Camera.Step,
		now:      glfw.GetTime,
		log:      log,
	}
}

// Init creates the device, both pipelines, the G-buffer and compiles and
// uploads the model. Any failure here is fatal to the caller.
func (a *App) Init(model *volume.Grid) error {
	var err error
	a.Ctx, err = gpu.NewContext(a.Window, gpu.WithVSync(a.cfg.Window.VSync), gpu.WithLogger(a.log))
	if err != nil {
		return err
	}
	shader := gpu.EmbeddedShaders{SPIRV: a.cfg.Render.SPIRV}

	width, height := a.Ctx.Size()
	a.Camera.SetViewport(width, height)

	if a.GBuffer, err = gpu.NewGBuffer(a.Ctx, width, height); err != nil {
		return err
	}
	if a.GBufferPipeline, err = gpu.NewGBufferPipeline(a.Ctx, shader); err != nil {
		return err
	}
	if a.LightingPipeline, err = gpu.NewLightingPipeline(a.Ctx, shader); err != nil {
		return err
	}

	if a.UniformBuffer, err = a.Uniforms.NewBuffer(a.Ctx); err != nil {
		return err
	}
	if a.UniformGroup, err = a.GBufferPipeline.BindUniforms(a.UniformBuffer); err != nil {
		return err
	}

	if a.Voxels, err = gpu.NewVoxelBuffer(a.Ctx, model); err != nil {
		return err
	}
	if a.AtlasGroup, err = a.GBufferPipeline.BindTextures(a.Voxels.AtlasView()); err != nil {
		return err
	}
	if a.LightingGroup, err = a.LightingPipeline.BindGBuffer(a.GBuffer); err != nil {
		return err
	}

	a.setupText(shader)
	a.countModel(a.Voxels)

	a.rotationStart = a.now()
	a.log.Infof("renderer ready: %dx%d, %v", width, height, a.Ctx.Format())
	return nil
}

// setupText is best effort; without a HUD the viewer still renders.
func (a *App) setupText(shader gpu.ShaderProvider) {
	renderer, err := core.NewTextRenderer(nil, a.cfg.Render.HUDFontSize)
	if err != nil {
		a.log.Warnf("failed to initialize text renderer: %v", err)
		return
	}
	a.Text, err = gpu.NewTextPass(a.Ctx, shader, renderer)
	if err != nil {
		a.log.Warnf("failed to create text pass: %v", err)
		a.Text = nil
	}
}

func (a *App) countModel(vb *gpu.VoxelBuffer) {
	a.Profiler.SetCount("voxels", int(vb.VertexCount())/mesh.VerticesPerVoxel)
	a.Profiler.SetCount("vertices", int(vb.VertexCount()))
	a.Profiler.SetCount("indices", int(vb.IndexCount()))
}

// Resize reconfigures the surface and rebuilds the G-buffer with its
// lighting bind group. On failure the previous targets are kept.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	width, height := uint32(w), uint32(h)
	if !a.Ctx.Resize(width, height) {
		return
	}
	a.Camera.SetViewport(width, height)

	gb, err := gpu.NewGBuffer(a.Ctx, width, height)
	if err != nil {
		a.log.Errorf("resize: keeping %dx%d g-buffer: %v", a.GBuffer.Width, a.GBuffer.Height, err)
		return
	}
	group, err := a.LightingPipeline.BindGBuffer(gb)
	if err != nil {
		gb.Release()
		a.log.Errorf("resize: keeping %dx%d g-buffer: %v", a.GBuffer.Width, a.GBuffer.Height, err)
		return
	}

	a.LightingGroup.Release()
	a.GBuffer.Release()
	a.GBuffer = gb
	a.LightingGroup = group
}

// Update writes this frame's uniforms and queues the HUD text.
func (a *App) Update() {
	a.Profiler.BeginScope("update")
	defer a.Profiler.EndScope("update")

	a.Uniforms.ViewProj = a.Camera.ViewProj()
	a.Uniforms.Model = a.ModelMatrix()
	if err := a.Uniforms.Write(a.Ctx, a.UniformBuffer); err != nil {
		a.log.Errorf("write uniforms: %v", err)
	}

	if a.Text == nil {
		return
	}
	a.Text.Clear()
	if a.ShowHUD {
		a.Text.Add(fmt.Sprintf("FPS %.1f", a.FPS), 10, 10, 1.0, hudColor)
		a.Text.Add(a.Profiler.GetStatsString(), 10, 34, 1.0, hudColor)
	}
	if err := a.Text.Upload(); err != nil {
		a.log.Errorf("upload hud text: %v", err)
	}
}

// Render records the geometry pass into the G-buffer, then resolves it onto
// the surface with the lighting triangle and the HUD on top.
func (a *App) Render() {
	encoder, err := a.Ctx.Encoder()
	if err != nil {
		a.log.Errorf("%v", err)
		return
	}

	a.Profiler.BeginScope("gbuffer")
	gpass := a.GBuffer.Begin(encoder)
	if !a.Voxels.Empty() {
		vbuf, ibuf := a.Voxels.Buffers()
		a.GBufferPipeline.Render(vbuf, ibuf, a.Voxels.IndexCount(), a.UniformGroup, a.AtlasGroup, gpass)
	}
	if err := gpass.End(); err != nil {
		a.log.Errorf("g-buffer pass end failed: %v", err)
	}
	a.Profiler.EndScope("gbuffer")

	frame, err := a.Ctx.NextFrame()
	if err != nil {
		a.log.Warnf("skipping frame: %v", err)
		encoder.Release()
		return
	}
	defer frame.Release()

	a.Profiler.BeginScope("lighting")
	rpass := a.Ctx.RenderPass(encoder, frame)
	a.LightingPipeline.Render(a.LightingGroup, rpass)
	if a.Text != nil {
		a.Text.Draw(rpass)
	}
	if err := rpass.End(); err != nil {
		a.log.Errorf("lighting pass end failed: %v", err)
	}
	a.Profiler.EndScope("lighting")

	if err := a.Ctx.Submit(encoder); err != nil {
		a.log.Errorf("%v", err)
		return
	}
	a.Ctx.Present()
	a.tickFPS()
}

func (a *App) tickFPS() {
	now := a.now()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

func (a *App) Release() {
	if a.Text != nil {
		a.Text.Release()
		a.Text = nil
	}
	for _, g := range []*wgpu.BindGroup{a.LightingGroup, a.AtlasGroup, a.UniformGroup} {
		if g != nil {
			g.Release()
		}
	}
	a.LightingGroup, a.AtlasGroup, a.UniformGroup = nil, nil, nil
	if a.UniformBuffer != nil {
		a.UniformBuffer.Release()
		a.UniformBuffer = nil
	}
	if a.Voxels != nil {
		a.Voxels.Release()
		a.Voxels = nil
	}
	if a.LightingPipeline != nil {
		a.LightingPipeline.Release()
		a.LightingPipeline = nil
	}
	if a.GBufferPipeline != nil {
		a.GBufferPipeline.Release()
		a.GBufferPipeline = nil
	}
	if a.GBuffer != nil {
		a.GBuffer.Release()
		a.GBuffer = nil
	}
	if a.Ctx != nil {
		a.Ctx.Release()
		a.Ctx = nil
	}
}
