// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle is an alias for gpucontext.DeviceProvider.
// Hosts that own a window pass their provider to
// SetAcceleratorDeviceProvider so the accelerator shares their device.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only processing where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo reports an unknown adapter for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// SurfaceEncodes reports whether the hardware sRGB-encodes writes to a
// surface of format f. A present chain targeting such a surface must not
// run a gamma or sRGB tonemap stage of its own.
func SurfaceEncodes(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8UnormSrgb, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// PresentPipeline returns the chain that resolves a premultiplied linear
// render target into a width x height image for h's surface: an sRGB
// tonemap unless the surface encodes itself, then a linear blit.
func PresentPipeline(h DeviceHandle, width, height int, opts ...Option) *Pipeline {
	p := NewPipeline(opts...)
	if !SurfaceEncodes(h.SurfaceFormat()) {
		p.Tonemap(SRGBTransfer())
	}
	return p.Blit(width, height, LinearSampler())
}
