//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx"
)

// uniformSize is the size of every uniform block bound by the compute
// shaders.
const uniformSize = 16

// Sampler state codes read by blit_cs.wgsl.
const (
	filterNearest uint32 = 0
	filterLinear  uint32 = 1

	addressClamp  uint32 = 0
	addressRepeat uint32 = 1
)

// packWords encodes four u32 values as a 16-byte uniform.
func packWords(a, b, c, d uint32) []byte {
	buf := make([]byte, 0, uniformSize)
	buf = binary.LittleEndian.AppendUint32(buf, a)
	buf = binary.LittleEndian.AppendUint32(buf, b)
	buf = binary.LittleEndian.AppendUint32(buf, c)
	buf = binary.LittleEndian.AppendUint32(buf, d)
	return buf
}

// extentUniform is the Extent block of gamma.wgsl and tonemap_cs.wgsl.
func extentUniform(width, height int, unpremultiply postfx.UnpremultiplyMode) []byte {
	return packWords(uint32(width), uint32(height), uint32(unpremultiply), 0) //nolint:gosec // dimensions checked by fitsDispatch
}

// blitExtentUniform is the Extent block of blit_cs.wgsl.
func blitExtentUniform(srcW, srcH, dstW, dstH int) []byte {
	return packWords(uint32(srcW), uint32(srcH), uint32(dstW), uint32(dstH)) //nolint:gosec // dimensions checked by fitsDispatch
}

// samplerUniform is the BlitParams block of blit_cs.wgsl.
func samplerUniform(s postfx.Sampler) []byte {
	filter, address := filterNearest, addressClamp
	if s.Filter == gputypes.FilterModeLinear {
		filter = filterLinear
	}
	if s.AddressMode == gputypes.AddressModeRepeat {
		address = addressRepeat
	}
	return packWords(filter, address, 0, 0)
}

// packPixels encodes float texels as the array<vec4<f32>> storage layout.
func packPixels(pix []float32) []byte {
	out := make([]byte, len(pix)*4)
	for i, v := range pix {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// unpackPixels decodes a readback buffer into dst.
func unpackPixels(data []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
}

// maxDispatch is the WebGPU default limit on workgroups per dimension.
const maxDispatch = 65535

// fitsDispatch reports whether a width x height grid with the given
// workgroup edge can be dispatched in one call.
func fitsDispatch(width, height int, workgroup int) bool {
	return (width+workgroup-1)/workgroup <= maxDispatch && (height+workgroup-1)/workgroup <= maxDispatch
}
