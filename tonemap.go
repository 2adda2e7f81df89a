package postfx

import (
	"context"
	"fmt"
)

// UnpremultiplyMode selects how the tonemap stage turns a premultiplied
// texel back into straight color.
type UnpremultiplyMode uint8

const (
	// UnpremultiplyMultiply multiplies RGB by alpha once more. This is the
	// historical behavior of the tonemap shader and the default: opaque
	// texels are unaffected, translucent texels darken by alpha squared.
	UnpremultiplyMultiply UnpremultiplyMode = iota

	// UnpremultiplyDivide divides RGB by alpha. Alpha 0 yields black.
	UnpremultiplyDivide
)

// String returns the mode name.
func (m UnpremultiplyMode) String() string {
	switch m {
	case UnpremultiplyMultiply:
		return "multiply"
	case UnpremultiplyDivide:
		return "divide"
	default:
		return fmt.Sprintf("UnpremultiplyMode(%d)", uint8(m))
	}
}

// Apply returns the straight RGB of a premultiplied texel.
func (m UnpremultiplyMode) Apply(c RGBA) RGB {
	if m == UnpremultiplyDivide {
		if !(c.A > 0) {
			return RGB{}
		}
		return RGB{R: c.R / c.A, G: c.G / c.A, B: c.B / c.A}
	}
	return RGB{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A}
}

// TonemapTexel resolves one premultiplied texel: RGB is multiplied by
// alpha, every channel goes through p.Apply and alpha is kept.
func TonemapTexel(p TransferParams, texel RGBA) RGBA {
	return tonemapTexel(p, UnpremultiplyMultiply, texel)
}

func tonemapTexel(p TransferParams, m UnpremultiplyMode, texel RGBA) RGBA {
	c := m.Apply(texel)
	return RGBA{
		R: p.Apply(c.R),
		G: p.Apply(c.G),
		B: p.Apply(c.B),
		A: texel.A,
	}
}

// Tonemap resolves every texel of src into dst with TonemapTexel. The
// un-premultiply step follows WithUnpremultiply. dst and src must have the
// same size and may be the same pixmap.
func Tonemap(ctx context.Context, dst, src *Pixmap, params TransferParams, opts ...Option) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := checkPixmaps(dst, src, true); err != nil {
		return err
	}
	o := resolveOptions(opts)
	mode := o.unpremultiply

	if tryAccelerate(&o, AccelTonemap, func(a GPUAccelerator) error {
		return a.Tonemap(dst, src, params, mode)
	}) {
		return nil
	}

	Logger().Debug("postfx: tonemap", "width", src.Width(), "height", src.Height(), "unpremultiply", mode)
	return mapTexels(ctx, &o, dst, src, func(c RGBA) RGBA {
		return tonemapTexel(params, mode, c)
	})
}
