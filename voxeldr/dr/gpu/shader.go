package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/janus/voxeldr/dr/shaders"
)

// ShaderProvider resolves a named shader to a module exposing vs_main and fs_main.
type ShaderProvider interface {
	Module(device *wgpu.Device, name string) (*wgpu.ShaderModule, error)
}

// EmbeddedShaders serves the WGSL compiled into the binary. With SPIRV set
// the sources are translated ahead of time and handed to the driver as SPIR-V.
type EmbeddedShaders struct {
	SPIRV bool
}

func (s EmbeddedShaders) Module(device *wgpu.Device, name string) (*wgpu.ShaderModule, error) {
	desc := &wgpu.ShaderModuleDescriptor{Label: name + " shader"}

	if s.SPIRV {
		code, err := shaders.SPIRV(name)
		if err != nil {
			return nil, resourceErr(desc.Label, err)
		}
		desc.SPIRVDescriptor = &wgpu.ShaderModuleSPIRVDescriptor{Code: code}
	} else {
		src, err := shaders.Source(name)
		if err != nil {
			return nil, resourceErr(desc.Label, err)
		}
		desc.WGSLDescriptor = &wgpu.ShaderModuleWGSLDescriptor{Code: src}
	}

	mod, err := device.CreateShaderModule(desc)
	if err != nil {
		return nil, resourceErr(desc.Label, err)
	}
	return mod, nil
}
