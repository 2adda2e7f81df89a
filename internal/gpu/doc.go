//go:build !nogpu

// Package gpu provides the WebGPU rendition of the postfx stages.
//
// This is an internal package used by postfx/gpu. It embeds the WGSL
// sources of every stage, compiles them to SPIR-V with gogpu/naga and runs
// the compute renditions on a gogpu/wgpu HAL device (zero CGO).
//
// # Shaders
//
// Each stage has a render form and, where the accelerator needs one, a
// compute form over storage buffers:
//
//   - gamma.wgsl: cs_main, workgroup size 1, one invocation per pixel
//   - blit.wgsl: vs_main (full-screen triangle) and fs_main (texture sample)
//   - blit_cs.wgsl: cs_main, nearest or bilinear, clamp or repeat
//   - tonemap.wgsl: vs_main (six-vertex quad) and fs_main (texel load)
//   - tonemap_cs.wgsl: cs_main with a selectable un-premultiply step
//
// # Accelerator
//
// Accelerator implements postfx.GPUAccelerator. It opens a Vulkan device
// of its own, or shares a host device passed through SetDeviceProvider.
// Pixels travel as vec4<f32>: upload, one compute pass, copy to a staging
// buffer, readback. When no device is available every call returns
// postfx.ErrFallbackToCPU and the CPU path runs instead.
//
// # Build Tags
//
// The package is excluded with the nogpu build tag.
package gpu
