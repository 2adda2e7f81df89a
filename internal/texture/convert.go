package texture

import (
	"image"
	stdcolor "image/color"

	"github.com/gogpu/postfx/internal/color"
)

// Encoding selects how 8-bit images map to float texels.
type Encoding uint8

const (
	// LinearPremultiplied: texels hold premultiplied linear light; the 8-bit
	// side is straight (non-premultiplied) sRGB.
	LinearPremultiplied Encoding = iota

	// Raw: each channel is value/255 with no transfer curve and no alpha
	// arithmetic. Used for data that is already display-encoded.
	Raw
)

// FromImage converts img to a texture using enc.
func FromImage(img image.Image, enc Encoding) (View, error) {
	b := img.Bounds()
	v, err := New(b.Dx(), b.Dy())
	if err != nil {
		return View{}, err
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range v.Height {
			src := nrgba.Pix[nrgba.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := v.Row(y)
			for x := range v.Width {
				p := src[x*4 : x*4+4]
				decode(dst[x*Channels:x*Channels+Channels], p[0], p[1], p[2], p[3], enc)
			}
		}
		return v, nil
	}

	for y := range v.Height {
		dst := v.Row(y)
		for x := range v.Width {
			c := stdcolor.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(stdcolor.NRGBA)
			decode(dst[x*Channels:x*Channels+Channels], c.R, c.G, c.B, c.A, enc)
		}
	}
	return v, nil
}

func decode(dst []float32, r, g, b, a uint8, enc Encoding) {
	if enc == Raw {
		dst[0] = float32(r) / 255
		dst[1] = float32(g) / 255
		dst[2] = float32(b) / 255
		dst[3] = float32(a) / 255
		return
	}
	alpha := float32(a) / 255
	dst[0] = color.DecodeU8(r) * alpha
	dst[1] = color.DecodeU8(g) * alpha
	dst[2] = color.DecodeU8(b) * alpha
	dst[3] = alpha
}

// ToNRGBA converts the texture to a straight-alpha 8-bit image using enc.
func (v View) ToNRGBA(enc Encoding) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, v.Width, v.Height))
	for y := range v.Height {
		src := v.Row(y)
		dst := img.Pix[y*img.Stride:]
		for x := range v.Width {
			p := src[x*Channels : x*Channels+Channels]
			encode(dst[x*4:x*4+4], p, enc)
		}
	}
	return img
}

func encode(dst []uint8, p []float32, enc Encoding) {
	if enc == Raw {
		dst[0] = color.Quantize(p[0])
		dst[1] = color.Quantize(p[1])
		dst[2] = color.Quantize(p[2])
		dst[3] = color.Quantize(p[3])
		return
	}
	a := p[3]
	if !(a > 0) {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}
	dst[0] = color.EncodeU8(p[0] / a)
	dst[1] = color.EncodeU8(p[1] / a)
	dst[2] = color.EncodeU8(p[2] / a)
	dst[3] = color.Quantize(a)
}
