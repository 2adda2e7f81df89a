package postfx

import (
	"image/color"

	pfcolor "github.com/gogpu/postfx/internal/color"
)

// RGB is a linear-light color triple. Channels are not clamped.
type RGB struct {
	R, G, B float32
}

// RGBA is a color with alpha. Stored pixmap texels are premultiplied:
// R, G and B have already been multiplied by A.
type RGBA struct {
	R, G, B, A float32
}

// Common colors (premultiplied).
var (
	Transparent = RGBA{}
	Black       = RGBA{A: 1}
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
)

// RGB drops alpha.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// WithAlpha returns c with alpha a. RGB is not rescaled.
func (c RGB) WithAlpha(a float32) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Premultiply multiplies RGB by alpha.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Over composites c over dst. Both colors are premultiplied.
func (c RGBA) Over(dst RGBA) RGBA {
	k := 1 - c.A
	return RGBA{
		R: c.R + dst.R*k,
		G: c.G + dst.G*k,
		B: c.B + dst.B*k,
		A: c.A + dst.A*k,
	}
}

// FromColor converts a standard color (straight sRGB) to premultiplied
// linear RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: pfcolor.DecodeU8(n.R),
		G: pfcolor.DecodeU8(n.G),
		B: pfcolor.DecodeU8(n.B),
		A: float32(n.A) / 255,
	}.Premultiply()
}

func (c RGBA) array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func rgbaFromArray(a [4]float32) RGBA {
	return RGBA{R: a[0], G: a[1], B: a[2], A: a[3]}
}
