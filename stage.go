package postfx

import (
	"context"
	"fmt"

	"github.com/gogpu/postfx/internal/parallel"
	"github.com/gogpu/postfx/internal/texture"
)

// checkPixmaps rejects empty pixmaps and, for per-texel stages, pixmaps
// of different sizes.
func checkPixmaps(dst, src *Pixmap, sameSize bool) error {
	if src.Empty() {
		return fmt.Errorf("%w: source", ErrEmptyPixmap)
	}
	if dst.Empty() {
		return fmt.Errorf("%w: destination", ErrEmptyPixmap)
	}
	if sameSize && !dst.sameSize(src) {
		return fmt.Errorf("%w: destination %dx%d, source %dx%d", ErrSizeMismatch,
			dst.Width(), dst.Height(), src.Width(), src.Height())
	}
	return nil
}

// mapTexels writes fn(src[x,y]) to dst[x,y] for every texel. Each texel
// is read before it is written, so dst may be src.
func mapTexels(ctx context.Context, o *options, dst, src *Pixmap, fn func(RGBA) RGBA) error {
	pool, release := o.acquirePool()
	defer release()

	w := src.Width()
	return pool.ForEachBand(ctx, src.Height(), o.bandHeight, func(b parallel.Band) {
		for y := b.Y0; y < b.Y1; y++ {
			s := src.tex.Row(y)
			d := dst.tex.Row(y)
			for x := range w {
				i := x * texture.Channels
				out := fn(RGBA{R: s[i], G: s[i+1], B: s[i+2], A: s[i+3]})
				d[i], d[i+1], d[i+2], d[i+3] = out.R, out.G, out.B, out.A
			}
		}
	})
}
