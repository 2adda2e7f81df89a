//go:build !nogpu

// Package gpu registers the WebGPU accelerator for the postfx stages.
//
// Importing this package routes Gamma, Blit and Tonemap through wgpu/hal
// compute shaders. If no Vulkan device is available, the accelerator
// stays registered but declines every stage, and the CPU path runs.
//
// Usage:
//
//	import _ "github.com/gogpu/postfx/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/postfx"
	gpuimpl "github.com/gogpu/postfx/internal/gpu"
)

func init() {
	if err := postfx.RegisterAccelerator(gpuimpl.NewAccelerator()); err != nil {
		postfx.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). This avoids creating a separate
// GPU instance.
//
// The provider must implement HalDevice() any and HalQueue() any.
func SetDeviceProvider(provider any) error {
	return postfx.SetAcceleratorDeviceProvider(provider)
}

// Ready reports whether the registered accelerator has a usable device.
func Ready() bool {
	a, ok := postfx.Accelerator().(*gpuimpl.Accelerator)
	return ok && a.Ready()
}

// Shaders returns the names of the embedded WGSL modules.
func Shaders() []string {
	shaders := gpuimpl.Shaders()
	names := make([]string, len(shaders))
	for i, s := range shaders {
		names[i] = s.Name
	}
	return names
}

// CompileShader compiles the named embedded shader to SPIR-V.
func CompileShader(name string) ([]byte, error) {
	s, err := gpuimpl.ShaderByName(name)
	if err != nil {
		return nil, err
	}
	return gpuimpl.CompileSPIRV(s.Source)
}
