package janus

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gekko3d/janus/voxeldr/dr/mesh"
	"github.com/gekko3d/janus/voxeldr/dr/txt"
	"github.com/gekko3d/janus/voxeldr/dr/volume"
)

type AssetId string

// VoxelModel is a loaded model whose grid fits a single 16-bit indexed mesh.
type VoxelModel struct {
	Name string
	Grid *volume.Grid
}

// AssetServer loads voxel models from disk or memory and keeps their
// compiled form under a generated id.
type AssetServer struct {
	mu     sync.RWMutex
	models map[AssetId]*VoxelModel
	log    Logger
}

func NewAssetServer(log Logger) *AssetServer {
	if log == nil {
		log = NewNopLogger()
	}
	return &AssetServer{
		models: make(map[AssetId]*VoxelModel),
		log:    log,
	}
}

// LoadFile picks the decoder from the file extension: .txt or .vox.
func (server *AssetServer) LoadFile(path string) (AssetId, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return server.LoadText(filepath.Base(path), string(data))
	case ".vox":
		return server.LoadVox(path)
	default:
		return "", fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
}

func (server *AssetServer) LoadText(name, text string) (AssetId, error) {
	records, err := txt.Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", name, err)
	}
	return server.add(name, records)
}

func (server *AssetServer) LoadVox(path string) (AssetId, error) {
	f, err := LoadVoxFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return server.addVox(filepath.Base(path), f)
}

func (server *AssetServer) LoadVoxReader(name string, r io.Reader) (AssetId, error) {
	f, err := ReadVox(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return server.addVox(name, f)
}

func (server *AssetServer) LoadVoxBytes(name string, data []byte) (AssetId, error) {
	return server.LoadVoxReader(name, bytes.NewReader(data))
}

func (server *AssetServer) addVox(name string, f *VoxFile) (AssetId, error) {
	if len(f.Models) > 1 {
		server.log.Warnf("%s has %d models, only the first is loaded", name, len(f.Models))
	}
	records, err := f.Records(0)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return server.add(name, records)
}

func (server *AssetServer) add(name string, records []volume.Record) (AssetId, error) {
	grid, err := volume.FromRecords(records)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	visible := grid.VisibleCount()
	if visible > mesh.MaxVoxels {
		return "", fmt.Errorf("%s: %w: %d visible voxels, limit %d", name, mesh.ErrTooManyVertices, visible, mesh.MaxVoxels)
	}

	id := makeAssetId()
	server.mu.Lock()
	server.models[id] = &VoxelModel{Name: name, Grid: grid}
	server.mu.Unlock()

	server.log.Infof("loaded %s: %dx%dx%d grid, %d voxels", name,
		grid.Width, grid.Height, grid.Depth, visible)
	return id, nil
}

func (server *AssetServer) Get(id AssetId) (*VoxelModel, bool) {
	server.mu.RLock()
	defer server.mu.RUnlock()
	m, ok := server.models[id]
	return m, ok
}

func (server *AssetServer) Len() int {
	server.mu.RLock()
	defer server.mu.RUnlock()
	return len(server.models)
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
