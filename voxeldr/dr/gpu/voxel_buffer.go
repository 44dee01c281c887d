package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/janus/voxeldr/dr/mesh"
	"github.com/gekko3d/janus/voxeldr/dr/volume"
)

const AtlasFormat = wgpu.TextureFormatRGBA8UnormSrgb

// VoxelBuffer is a compiled voxel model resident on the GPU: vertex and
// index buffers plus the 1xN color atlas.
type VoxelBuffer struct {
	Vertices *wgpu.Buffer
	Indices  *wgpu.Buffer
	Atlas    *wgpu.Texture

	atlasView   *wgpu.TextureView
	vertexCount uint32
	indexCount  uint32
}

// NewVoxelBuffer compiles the grid and uploads the mesh and its atlas.
func NewVoxelBuffer(ctx *Context, grid *volume.Grid) (*VoxelBuffer, error) {
	m, err := mesh.Compile(grid)
	if err != nil {
		return nil, err
	}
	return uploadMesh(ctx, m)
}

// uploadMesh creates the GPU resources for a compiled mesh. Empty meshes get
// no vertex or index buffer; the atlas always exists so it can be bound.
func uploadMesh(ctx *Context, m *mesh.Buffers) (*VoxelBuffer, error) {
	vb := &VoxelBuffer{
		vertexCount: uint32(len(m.Vertices)),
		indexCount:  uint32(len(m.Indices)),
	}

	var err error
	if !m.Empty() {
		vb.Vertices, err = ctx.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "Voxel Vertices",
			Contents: verticesToBytes(m.Vertices),
			Usage:    wgpu.BufferUsageVertex,
		})
		if err != nil {
			return nil, resourceErr("voxel vertex buffer", err)
		}

		vb.Indices, err = ctx.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "Voxel Indices",
			Contents: indicesToBytes(m.Indices),
			Usage:    wgpu.BufferUsageIndex,
		})
		if err != nil {
			vb.Release()
			return nil, resourceErr("voxel index buffer", err)
		}
	}

	width, texels := atlasTexels(m)
	extent := wgpu.Extent3D{Width: width, Height: 1, DepthOrArrayLayers: 1}
	vb.Atlas, err = ctx.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Voxel Atlas",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        AtlasFormat,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, resourceErr("voxel atlas", err)
	}

	err = ctx.Queue.WriteTexture(vb.Atlas.AsImageCopy(), texels, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  4 * width,
		RowsPerImage: 1,
	}, &extent)
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("upload voxel atlas: %w", err)
	}

	vb.atlasView, err = vb.Atlas.CreateView(nil)
	if err != nil {
		vb.Release()
		return nil, resourceErr("voxel atlas view", err)
	}
	return vb, nil
}

func atlasTexels(m *mesh.Buffers) (uint32, []byte) {
	if m.AtlasWidth == 0 {
		return 1, []byte{0, 0, 0, 0}
	}
	return m.AtlasWidth, m.Texels
}

func (vb *VoxelBuffer) Empty() bool {
	return vb.indexCount == 0
}

func (vb *VoxelBuffer) IndexCount() uint32 {
	return vb.indexCount
}

func (vb *VoxelBuffer) VertexCount() uint32 {
	return vb.vertexCount
}

func (vb *VoxelBuffer) Buffers() (*wgpu.Buffer, *wgpu.Buffer) {
	return vb.Vertices, vb.Indices
}

func (vb *VoxelBuffer) AtlasView() *wgpu.TextureView {
	return vb.atlasView
}

func (vb *VoxelBuffer) Release() {
	if vb.atlasView != nil {
		vb.atlasView.Release()
		vb.atlasView = nil
	}
	if vb.Atlas != nil {
		vb.Atlas.Release()
		vb.Atlas = nil
	}
	if vb.Indices != nil {
		vb.Indices.Release()
		vb.Indices = nil
	}
	if vb.Vertices != nil {
		vb.Vertices.Release()
		vb.Vertices = nil
	}
}
