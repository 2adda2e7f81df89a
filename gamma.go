package postfx

import "context"

// EncodeGamma converts a linear-light triple to display encoding.
//
// Negative and NaN channels are treated as 0. In GammaPiecewise mode each
// channel follows the sRGB curve:
//
//	v <= 0.0031308: v * 12.92
//	otherwise:      1.055 * v^(1/2.4) - 0.055
//
// In GammaPowerLaw mode each channel is p.Scale * (p.Bias + v)^p.Gamma.
// Any other mode is encoded as GammaPiecewise; use GammaParams.Validate to
// reject it.
func EncodeGamma(p GammaParams, c RGB) RGB {
	return RGB{
		R: p.Encode(c.R),
		G: p.Encode(c.G),
		B: p.Encode(c.B),
	}
}

// Gamma encodes every texel of src into dst. RGB is encoded as-is, without
// un-premultiplying; alpha is copied. dst and src must have the same size
// and may be the same pixmap.
func Gamma(ctx context.Context, dst, src *Pixmap, params GammaParams, opts ...Option) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := checkPixmaps(dst, src, true); err != nil {
		return err
	}
	o := resolveOptions(opts)

	if tryAccelerate(&o, AccelGamma, func(a GPUAccelerator) error {
		return a.Gamma(dst, src, params)
	}) {
		return nil
	}

	Logger().Debug("postfx: gamma", "width", src.Width(), "height", src.Height(), "mode", params.Mode)
	return mapTexels(ctx, &o, dst, src, func(c RGBA) RGBA {
		return EncodeGamma(params, c.RGB()).WithAlpha(c.A)
	})
}
