package color

import "math"

// decodeLUT maps an 8-bit sRGB value to linear light.
var decodeLUT [256]float32

// encodeLUT maps linear light in [0,1], quantized to 12 bits, to an 8-bit
// sRGB value. 4096 entries keep the error within one 8-bit step.
var encodeLUT [4096]uint8

func init() {
	for i := range decodeLUT {
		decodeLUT[i] = SRGBToLinear(float32(i) / 255)
	}
	for i := range encodeLUT {
		encodeLUT[i] = Quantize(LinearToSRGB(float32(i) / 4095))
	}
}

// DecodeU8 converts an 8-bit sRGB channel to linear light.
func DecodeU8(s uint8) float32 {
	return decodeLUT[s]
}

// EncodeU8 converts linear light to an 8-bit sRGB channel. Input outside
// [0,1] saturates.
func EncodeU8(l float32) uint8 {
	if !(l > 0) {
		return encodeLUT[0]
	}
	if l >= 1 {
		return encodeLUT[len(encodeLUT)-1]
	}
	return encodeLUT[int(l*4095+0.5)]
}

// EncodeU8Exact is EncodeU8 without the table. Used to verify the table.
func EncodeU8Exact(l float32) uint8 {
	if l > 1 {
		l = 1
	}
	return Quantize(LinearToSRGB(l))
}

// Quantize maps [0,1] to [0,255] with rounding; out-of-range input saturates.
func Quantize(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	//nolint:gosec // G115: v*255+0.5 is within [0,255.5)
	return uint8(math.Floor(float64(v)*255 + 0.5))
}
