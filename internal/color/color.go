// Package color implements the transfer curves used by the postfx stages.
//
// All curves operate on single float32 channels. Computation is carried out
// in float64 and rounded once at the end, so the CPU results match what a
// GPU evaluating the same expression in f32 produces to within a few ULP.
package color

import "math"

// sRGB curve constants (IEC 61966-2-1).
const (
	linearThreshold  = 0.0031308
	encodedThreshold = 0.04045
	linearSlope      = 12.92
	srgbExponent     = 2.4
	srgbOffset       = 0.055
	srgbScale        = 1.055
)

// nonNegative maps negative values and NaN to zero.
func nonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}

// LinearToSRGB applies the piecewise sRGB opto-electronic transfer function.
// Negative and NaN inputs are treated as 0. Values above 1 are not clamped.
//
//	v <= 0.0031308: v * 12.92
//	otherwise:      1.055 * v^(1/2.4) - 0.055
func LinearToSRGB(l float32) float32 {
	v := nonNegative(float64(l))
	if v <= linearThreshold {
		return float32(v * linearSlope)
	}
	return float32(srgbScale*math.Pow(v, 1/srgbExponent) - srgbOffset)
}

// SRGBToLinear is the inverse of LinearToSRGB.
func SRGBToLinear(s float32) float32 {
	v := nonNegative(float64(s))
	if v <= encodedThreshold {
		return float32(v / linearSlope)
	}
	return float32(math.Pow((v+srgbOffset)/srgbScale, srgbExponent))
}

// PowerLaw evaluates scale * (bias + v)^gamma. The input and the biased
// base are both clamped at zero so a fractional exponent never sees a
// negative base.
func PowerLaw(v, scale, bias, gamma float32) float32 {
	base := nonNegative(nonNegative(float64(v)) + float64(bias))
	return float32(float64(scale) * math.Pow(base, float64(gamma)))
}

// Parametric evaluates the shifted power curve
//
//	f(v) = (((1-v)*shift^g + v*(shift+scale)^g)^(1/g) - shift) / scale
//
// The input is not clamped: shift = 0, scale = 1, gamma = 1 is the identity
// for every v. Non-positive scale or gamma yields Inf or NaN.
func Parametric(v, shift, scale, gamma float32) float32 {
	s, k, g, x := float64(shift), float64(scale), float64(gamma), float64(v)
	lo := math.Pow(s, g)
	hi := math.Pow(s+k, g)
	return float32((math.Pow((1-x)*lo+x*hi, 1/g) - s) / k)
}

// ParametricInverse is the closed-form inverse of Parametric:
//
//	v(x) = ((shift + scale*x)^g - shift^g) / ((shift+scale)^g - shift^g)
func ParametricInverse(x, shift, scale, gamma float32) float32 {
	s, k, g, y := float64(shift), float64(scale), float64(gamma), float64(x)
	lo := math.Pow(s, g)
	hi := math.Pow(s+k, g)
	return float32((math.Pow(s+k*y, g) - lo) / (hi - lo))
}
