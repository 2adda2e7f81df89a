package postfx

import "context"

// Unpremultiply divides the RGB of every texel of src by its alpha and
// writes the straight result to dst. Texels with zero alpha become
// transparent black. dst and src must have the same size and may be the
// same pixmap.
func Unpremultiply(ctx context.Context, dst, src *Pixmap, opts ...Option) error {
	if err := checkPixmaps(dst, src, true); err != nil {
		return err
	}
	o := resolveOptions(opts)
	return mapTexels(ctx, &o, dst, src, func(c RGBA) RGBA {
		return UnpremultiplyDivide.Apply(c).WithAlpha(c.A)
	})
}

// Premultiply multiplies the RGB of every texel of src by its alpha.
// It is the inverse of Unpremultiply for texels with non-zero alpha.
func Premultiply(ctx context.Context, dst, src *Pixmap, opts ...Option) error {
	if err := checkPixmaps(dst, src, true); err != nil {
		return err
	}
	o := resolveOptions(opts)
	return mapTexels(ctx, &o, dst, src, RGBA.Premultiply)
}

// Unpremultiply appends a stage converting premultiplied texels to
// straight alpha. Gamma encodes whatever RGB it is given, so a chain
// starting from a premultiplied target un-premultiplies first.
func (p *Pipeline) Unpremultiply() *Pipeline {
	p.steps = append(p.steps, step{
		name:  "unpremultiply",
		check: func() error { return nil },
		run: inPlace(func(ctx context.Context, dst *Pixmap, opts []Option) error {
			return Unpremultiply(ctx, dst, dst, opts...)
		}),
	})
	return p
}

// Premultiply appends a stage converting straight-alpha texels to
// premultiplied.
func (p *Pipeline) Premultiply() *Pipeline {
	p.steps = append(p.steps, step{
		name:  "premultiply",
		check: func() error { return nil },
		run: inPlace(func(ctx context.Context, dst *Pixmap, opts []Option) error {
			return Premultiply(ctx, dst, dst, opts...)
		}),
	})
	return p
}
