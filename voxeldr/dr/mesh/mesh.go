package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/gekko3d/janus/voxeldr/dr/volume"
)

const (
	VerticesPerVoxel = 8
	IndicesPerVoxel  = 36
	// VertexStride is the size in bytes of one interleaved Vertex on the GPU.
	VertexStride = 20
	// MaxVoxels is the largest visible voxel count whose vertices fit u16 indices.
	MaxVoxels = (math.MaxUint16 + 1) / VerticesPerVoxel
)

var ErrTooManyVertices = errors.New("mesh: too many vertices for 16-bit indices")

type Vertex struct {
	Pos [3]float32
	UV  [2]float32
}

// Buffers is a compiled voxel mesh: interleaved vertices, triangle indices
// and a 1xN RGBA8 color atlas.
type Buffers struct {
	Vertices    []Vertex
	Indices     []uint16
	Texels      []uint8
	AtlasWidth  uint32
	AtlasHeight uint32
}

func (b *Buffers) Empty() bool {
	return len(b.Vertices) == 0
}

// Unit cube corners in the order CubeIndices refers to them.
var cubeCorners = [VerticesPerVoxel][3]float32{
	{0, 0, 0},
	{0, 0, 1},
	{0, 1, 0},
	{0, 1, 1},
	{1, 0, 0},
	{1, 0, 1},
	{1, 1, 1},
	{1, 1, 0},
}

var CubeIndices = [IndicesPerVoxel]uint16{
	0, 1, 3, 0, 3, 2, // left
	0, 4, 5, 0, 5, 1, // bottom
	0, 2, 4, 2, 7, 4, // back
	1, 3, 5, 3, 6, 5, // front
	4, 5, 6, 4, 6, 7, // right
	2, 7, 6, 2, 6, 3, // top
}

// Compile emits one cube per visible cell, walking x then y then z. Grids
// with more than MaxVoxels visible cells fail with ErrTooManyVertices since
// their vertices cannot be addressed by 16-bit indices.
func Compile(g *volume.Grid) (*Buffers, error) {
	if n := g.VisibleCount(); n > MaxVoxels {
		return nil, fmt.Errorf("%w: %d visible voxels, limit %d", ErrTooManyVertices, n, MaxVoxels)
	}
	return compile(g), nil
}

func compile(g *volume.Grid) *Buffers {
	visible := g.VisibleCount()
	b := &Buffers{
		Vertices: make([]Vertex, 0, visible*VerticesPerVoxel),
		Indices:  make([]uint16, 0, visible*IndicesPerVoxel),
		Texels:   make([]uint8, 0, visible*4),
	}

	for x := uint32(0); x < g.Width; x++ {
		for y := uint32(0); y < g.Height; y++ {
			for z := uint32(0); z < g.Depth; z++ {
				c := g.At(x, y, z)
				if !c.Visible {
					continue
				}
				b.appendVoxel(x, y, z, c)
			}
		}
	}

	b.finalize()
	return b
}

func (b *Buffers) appendVoxel(x, y, z uint32, c volume.Color) {
	// uv.x holds the raw atlas slot until finalize
	slot := float32(len(b.Texels) / 4)
	base := uint16(len(b.Vertices))

	rgba := c.RGBA()
	b.Texels = append(b.Texels, rgba[:]...)

	fx, fy, fz := float32(x), float32(y), float32(z)
	for _, corner := range cubeCorners {
		b.Vertices = append(b.Vertices, Vertex{
			Pos: [3]float32{fx + corner[0], fy + corner[1], fz + corner[2]},
			UV:  [2]float32{slot, 0},
		})
	}
	for _, idx := range CubeIndices {
		b.Indices = append(b.Indices, base+idx)
	}
}

// finalize turns raw atlas slots into normalized texture coordinates.
func (b *Buffers) finalize() {
	count := len(b.Texels) / 4
	b.AtlasWidth = uint32(count)
	b.AtlasHeight = 1
	if count == 0 {
		return
	}
	for i := range b.Vertices {
		b.Vertices[i].UV[0] /= float32(count)
		b.Vertices[i].UV[1] = 0.5
	}
}
