// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"
)

type surfaceHandle struct {
	NullDeviceHandle
	format gputypes.TextureFormat
}

func (h surfaceHandle) SurfaceFormat() gputypes.TextureFormat { return h.format }

func TestNullDeviceHandle(t *testing.T) {
	var h DeviceHandle = NullDeviceHandle{}
	if h.Device() != nil || h.Queue() != nil || h.Adapter() != nil {
		t.Error("NullDeviceHandle returned a non-nil GPU object")
	}
	if h.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() = %v, want undefined", h.SurfaceFormat())
	}
	if got := h.AdapterInfo(); got.Type != gpucontext.AdapterTypeUnknown || got.Name != "" {
		t.Errorf("AdapterInfo() = %+v, want unknown adapter", got)
	}
}

func TestSurfaceEncodes(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   bool
	}{
		{gputypes.TextureFormatRGBA8UnormSrgb, true},
		{gputypes.TextureFormatBGRA8UnormSrgb, true},
		{gputypes.TextureFormatRGBA8Unorm, false},
		{gputypes.TextureFormatBGRA8Unorm, false},
		{gputypes.TextureFormatUndefined, false},
	}
	for _, tt := range tests {
		if got := SurfaceEncodes(tt.format); got != tt.want {
			t.Errorf("SurfaceEncodes(%v) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestPresentPipeline(t *testing.T) {
	tests := []struct {
		name string
		h    gpucontext.DeviceProvider
		want []string
	}{
		{"null device", NullDeviceHandle{}, []string{"tonemap", "blit"}},
		{"unorm surface", surfaceHandle{format: gputypes.TextureFormatBGRA8Unorm}, []string{"tonemap", "blit"}},
		{"srgb surface", surfaceHandle{format: gputypes.TextureFormatBGRA8UnormSrgb}, []string{"blit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PresentPipeline(tt.h, 64, 32).Stages()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Stages() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
