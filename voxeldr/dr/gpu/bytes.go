package gpu

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/gekko3d/janus/voxeldr/dr/core"
	"github.com/gekko3d/janus/voxeldr/dr/mesh"
)

func mat4ToBytes(m [16]float32) []byte {
	buf := make([]byte, 64)
	for i, v := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func verticesToBytes(vertices []mesh.Vertex) []byte {
	buf := make([]byte, len(vertices)*mesh.VertexStride)
	for i, v := range vertices {
		off := i * mesh.VertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.Pos[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v.Pos[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v.Pos[2]))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(v.UV[0]))
		binary.LittleEndian.PutUint32(buf[off+16:], math.Float32bits(v.UV[1]))
	}
	return buf
}

// indicesToBytes pads to a multiple of 4 bytes as buffer sizes require.
func indicesToBytes(indices []uint16) []byte {
	size := len(indices) * 2
	if size%4 != 0 {
		size += 2
	}
	buf := make([]byte, size)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

func vec2sToBytes(vs [][2]float32) []byte {
	buf := make([]byte, len(vs)*8)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(v[1]))
	}
	return buf
}

func textVerticesToBytes(vertices []core.TextVertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	size := len(vertices) * int(unsafe.Sizeof(core.TextVertex{}))
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size)
}
