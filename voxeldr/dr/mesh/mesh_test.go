package mesh

import (
	"testing"

	"github.com/gekko3d/janus/voxeldr/dr/volume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridOf(t *testing.T, records ...volume.Record) *volume.Grid {
	t.Helper()
	g, err := volume.FromRecords(records)
	require.NoError(t, err)
	return g
}

func mustCompile(t *testing.T, g *volume.Grid) *Buffers {
	t.Helper()
	b, err := Compile(g)
	require.NoError(t, err)
	return b
}

func TestCompile_SingleVoxel(t *testing.T) {
	g := gridOf(t, volume.Record{Pos: [3]int{3, 4, 5}, Color: [3]uint8{10, 20, 30}})
	b := mustCompile(t, g)

	require.Len(t, b.Vertices, VerticesPerVoxel)
	require.Len(t, b.Indices, IndicesPerVoxel)
	assert.Equal(t, []uint8{10, 20, 30, 0xFF}, b.Texels)
	assert.Equal(t, uint32(1), b.AtlasWidth)
	assert.Equal(t, uint32(1), b.AtlasHeight)

	for i, v := range b.Vertices {
		assert.Equal(t, cubeCorners[i], v.Pos)
		assert.Equal(t, [2]float32{0, 0.5}, v.UV)
	}
	assert.Equal(t, CubeIndices[:], b.Indices)
}

func TestCompile_Cardinality(t *testing.T) {
	g := gridOf(t,
		volume.Record{Pos: [3]int{0, 0, 0}, Color: [3]uint8{1, 1, 1}},
		volume.Record{Pos: [3]int{1, 0, 0}, Color: [3]uint8{2, 2, 2}},
		volume.Record{Pos: [3]int{0, 3, 2}, Color: [3]uint8{3, 3, 3}},
		volume.Record{Pos: [3]int{2, 1, 1}, Color: [3]uint8{4, 4, 4}},
	)
	n := g.VisibleCount()
	require.Equal(t, 4, n)

	b := mustCompile(t, g)
	assert.Len(t, b.Vertices, 8*n)
	assert.Len(t, b.Indices, 36*n)
	assert.Len(t, b.Texels, 4*n)
	assert.Equal(t, uint32(n), b.AtlasWidth)
}

func TestCompile_UVNormalization(t *testing.T) {
	g := gridOf(t,
		volume.Record{Pos: [3]int{0, 0, 0}, Color: [3]uint8{1, 0, 0}},
		volume.Record{Pos: [3]int{0, 0, 1}, Color: [3]uint8{0, 1, 0}},
		volume.Record{Pos: [3]int{0, 0, 2}, Color: [3]uint8{0, 0, 1}},
		volume.Record{Pos: [3]int{0, 0, 3}, Color: [3]uint8{1, 1, 1}},
	)
	b := mustCompile(t, g)
	n := float32(g.VisibleCount())

	for k := 0; k < g.VisibleCount(); k++ {
		for j := 0; j < VerticesPerVoxel; j++ {
			v := b.Vertices[k*VerticesPerVoxel+j]
			assert.InDelta(t, float32(k)/n, v.UV[0], 1e-6)
			assert.Equal(t, float32(0.5), v.UV[1])
		}
	}
	// Atlas order follows traversal order.
	assert.Equal(t, []uint8{1, 0, 0, 0xFF, 0, 1, 0, 0xFF, 0, 0, 1, 0xFF, 1, 1, 1, 0xFF}, b.Texels)
}

func TestCompile_TraversalOrder(t *testing.T) {
	// x outermost, z innermost
	g := gridOf(t,
		volume.Record{Pos: [3]int{1, 0, 0}, Color: [3]uint8{3, 0, 0}},
		volume.Record{Pos: [3]int{0, 1, 0}, Color: [3]uint8{2, 0, 0}},
		volume.Record{Pos: [3]int{0, 0, 1}, Color: [3]uint8{1, 0, 0}},
	)
	b := mustCompile(t, g)
	require.Len(t, b.Texels, 12)
	assert.Equal(t, uint8(1), b.Texels[0])
	assert.Equal(t, uint8(2), b.Texels[4])
	assert.Equal(t, uint8(3), b.Texels[8])

	assert.Equal(t, [3]float32{0, 0, 1}, b.Vertices[0].Pos)
	assert.Equal(t, [3]float32{1, 0, 0}, b.Vertices[16].Pos)
}

func TestCompile_IndexValidity(t *testing.T) {
	var records []volume.Record
	for x := 0; x < 4; x++ {
		for z := 0; z < 3; z++ {
			records = append(records, volume.Record{Pos: [3]int{x, -x, z}, Color: [3]uint8{uint8(x), 0, uint8(z)}})
		}
	}
	b := mustCompile(t, gridOf(t, records...))

	require.Len(t, b.Indices, 36*len(records))
	for k := 0; k < len(records); k++ {
		for j := 0; j < IndicesPerVoxel; j++ {
			idx := b.Indices[k*IndicesPerVoxel+j]
			assert.Less(t, int(idx), len(b.Vertices))
			assert.Equal(t, uint16(8*k)+CubeIndices[j], idx)
		}
	}
}

func TestCompile_EmptyGrid(t *testing.T) {
	g, err := volume.NewGrid(make([]volume.Color, 2*2*2), 2, 2, 2)
	require.NoError(t, err)

	b := mustCompile(t, g)
	assert.True(t, b.Empty())
	assert.Empty(t, b.Vertices)
	assert.Empty(t, b.Indices)
	assert.Empty(t, b.Texels)
	assert.Equal(t, uint32(0), b.AtlasWidth)
}

func TestCompile_Limit(t *testing.T) {
	colors := make([]volume.Color, MaxVoxels+1)
	for i := range colors {
		colors[i] = volume.NewColor(1, 2, 3)
	}

	g, err := volume.NewGrid(colors, 1, 1, uint32(len(colors)))
	require.NoError(t, err)
	b, err := Compile(g)
	assert.ErrorIs(t, err, ErrTooManyVertices)
	assert.Nil(t, b)

	g, err = volume.NewGrid(colors[:MaxVoxels], 1, 1, MaxVoxels)
	require.NoError(t, err)
	b, err = Compile(g)
	require.NoError(t, err)
	var maxIdx uint16
	for _, idx := range b.Indices {
		maxIdx = max(maxIdx, idx)
	}
	assert.Equal(t, uint16(0xFFFF), maxIdx)
}
