package postfx

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/postfx/internal/parallel"
	"github.com/gogpu/postfx/internal/texture"
)

// Sampler is the filtering state of the blit stage.
//
// FilterModeLinear interpolates between the four nearest texel centers;
// any other filter selects the nearest texel. AddressModeRepeat wraps
// coordinates; any other mode clamps to the edge.
type Sampler struct {
	Filter      gputypes.FilterMode
	AddressMode gputypes.AddressMode
}

// NearestSampler returns a clamping nearest-texel sampler.
func NearestSampler() Sampler {
	return Sampler{Filter: gputypes.FilterModeNearest, AddressMode: gputypes.AddressModeClampToEdge}
}

// LinearSampler returns a clamping bilinear sampler.
func LinearSampler() Sampler {
	return Sampler{Filter: gputypes.FilterModeLinear, AddressMode: gputypes.AddressModeClampToEdge}
}

func (s Sampler) texture() texture.Sampler {
	return texture.Sampler{Filter: s.Filter, Address: s.AddressMode}
}

// Interpolator returns the x/image/draw scaler equivalent to s for 8-bit
// images.
func (s Sampler) Interpolator() xdraw.Interpolator {
	if s.Filter == gputypes.FilterModeLinear {
		return xdraw.BiLinear
	}
	return xdraw.NearestNeighbor
}

// BlitFragment returns the color of pixel (x, y) of a viewportW x
// viewportH target covered by the full-screen triangle: src sampled at the
// pixel center, ((x+0.5)/viewportW, (y+0.5)/viewportH). An empty source
// or viewport yields Transparent.
func BlitFragment(src *Pixmap, s Sampler, x, y, viewportW, viewportH int) RGBA {
	if src.Empty() || viewportW <= 0 || viewportH <= 0 {
		return Transparent
	}
	u := (float64(x) + 0.5) / float64(viewportW)
	v := (float64(y) + 0.5) / float64(viewportH)
	return rgbaFromArray(src.tex.Sample(s.texture(), u, v))
}

// Blit fills every pixel of dst with BlitFragment over src. The pixmaps
// may differ in size; they must not share storage.
func Blit(ctx context.Context, dst, src *Pixmap, s Sampler, opts ...Option) error {
	if err := checkPixmaps(dst, src, false); err != nil {
		return err
	}
	if dst == src {
		return fmt.Errorf("%w: blit source and destination alias", ErrInvalidParams)
	}
	o := resolveOptions(opts)

	if tryAccelerate(&o, AccelBlit, func(a GPUAccelerator) error {
		return a.Blit(dst, src, s)
	}) {
		return nil
	}

	Logger().Debug("postfx: blit",
		"src_width", src.Width(), "src_height", src.Height(),
		"dst_width", dst.Width(), "dst_height", dst.Height())

	pool, release := o.acquirePool()
	defer release()

	ts := s.texture()
	w, h := dst.Width(), dst.Height()
	return pool.ForEachBand(ctx, h, o.bandHeight, func(b parallel.Band) {
		for y := b.Y0; y < b.Y1; y++ {
			v := (float64(y) + 0.5) / float64(h)
			row := dst.tex.Row(y)
			for x := range w {
				u := (float64(x) + 0.5) / float64(w)
				c := src.tex.Sample(ts, u, v)
				copy(row[x*texture.Channels:], c[:])
			}
		}
	})
}

// BlitImage scales src onto the whole of dst with interp, replacing dst's
// pixels. It works directly on 8-bit encoded images.
//
//	postfx.BlitImage(dst, src, postfx.NearestSampler().Interpolator())
//	postfx.BlitImage(dst, src, xdraw.CatmullRom)
func BlitImage(dst xdraw.Image, src image.Image, interp xdraw.Interpolator) {
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}
