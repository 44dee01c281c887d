package janus

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gekko3d/janus/voxeldr/dr/volume"
)

const (
	VOXMagicNumber = "VOX "
)

var (
	ErrNotVox   = errors.New("not a valid VOX file")
	ErrNoModels = errors.New("VOX file contains no models")
)

type Voxel struct {
	X, Y, Z, ColorIndex byte
}

type VoxModel struct {
	SizeX, SizeY, SizeZ uint32
	Voxels              []Voxel
}

type VoxPalette [256][4]byte // RGBA colors

type VoxFile struct {
	Version int
	Models  []VoxModel
	Palette VoxPalette
}

func LoadVoxFile(filename string) (*VoxFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadVox(bufio.NewReader(file))
}

// ReadVox decodes a MagicaVoxel file. Chunks other than SIZE, XYZI and
// RGBA are skipped.
func ReadVox(r io.Reader) (*VoxFile, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotVox, err)
	}
	if string(magic[:]) != VOXMagicNumber {
		return nil, ErrNotVox
	}

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}

	voxFile := &VoxFile{
		Version: int(version),
		Palette: defaultPalette(),
	}

	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		var chunkSize, childrenSize int32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &childrenSize); err != nil {
			return nil, err
		}
		if chunkSize < 0 || childrenSize < 0 {
			return nil, fmt.Errorf("chunk %q has negative size", chunkID[:])
		}

		// MAIN only wraps the other chunks.
		if string(chunkID[:]) == "MAIN" {
			if _, err := io.CopyN(io.Discard, r, int64(chunkSize)); err != nil {
				return nil, err
			}
			continue
		}

		chunkData := make([]byte, chunkSize)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, err
		}

		switch string(chunkID[:]) {
		case "SIZE":
			if len(chunkData) < 12 {
				return nil, errors.New("SIZE chunk too small")
			}
			voxFile.Models = append(voxFile.Models, VoxModel{
				SizeX: binary.LittleEndian.Uint32(chunkData[0:4]),
				SizeY: binary.LittleEndian.Uint32(chunkData[4:8]),
				SizeZ: binary.LittleEndian.Uint32(chunkData[8:12]),
			})
		case "XYZI":
			if len(voxFile.Models) == 0 {
				return nil, errors.New("XYZI chunk before SIZE")
			}
			if len(chunkData) < 4 {
				return nil, errors.New("XYZI chunk too small")
			}
			model := &voxFile.Models[len(voxFile.Models)-1]
			numVoxels := binary.LittleEndian.Uint32(chunkData[:4])
			if uint64(numVoxels)*4+4 > uint64(len(chunkData)) {
				return nil, errors.New("XYZI chunk data overflow")
			}
			model.Voxels = make([]Voxel, numVoxels)
			for i := range model.Voxels {
				offset := 4 + i*4
				model.Voxels[i] = Voxel{
					X:          chunkData[offset],
					Y:          chunkData[offset+1],
					Z:          chunkData[offset+2],
					ColorIndex: chunkData[offset+3],
				}
			}
		case "RGBA":
			// entry i describes color index i+1
			for i := 0; i < 255 && i*4+3 < len(chunkData); i++ {
				copy(voxFile.Palette[i+1][:], chunkData[i*4:i*4+4])
			}
		}
	}

	return voxFile, nil
}

// Records resolves a model's palette colors into sparse voxel records. The
// file's Z-up axes are remapped the same way as the text format: up becomes
// negative grid Y.
func (f *VoxFile) Records(model int) ([]volume.Record, error) {
	if len(f.Models) == 0 {
		return nil, ErrNoModels
	}
	if model < 0 || model >= len(f.Models) {
		return nil, fmt.Errorf("model %d out of range [0, %d)", model, len(f.Models))
	}

	m := f.Models[model]
	records := make([]volume.Record, 0, len(m.Voxels))
	for _, v := range m.Voxels {
		c := f.Palette[v.ColorIndex]
		records = append(records, volume.Record{
			Pos:   [3]int{int(v.X), -int(v.Z), int(v.Y)},
			Color: [3]uint8{c[0], c[1], c[2]},
		})
	}
	return records, nil
}

func defaultPalette() VoxPalette {
	var palette VoxPalette
	for i := range palette {
		palette[i] = [4]uint8{255, 255, 255, 255} // white as fallback
	}
	return palette
}
