package postfx

import (
	"image"

	"github.com/gogpu/postfx/internal/texture"
)

// Pixmap is a float RGBA texel buffer, row-major, top row first.
// Texels are premultiplied linear light unless a stage says otherwise.
//
// A zero-area Pixmap is valid but rejected by every stage with
// ErrEmptyPixmap.
type Pixmap struct {
	tex texture.View
}

// NewPixmap creates a transparent pixmap. Non-positive dimensions produce
// an empty pixmap.
func NewPixmap(width, height int) *Pixmap {
	tex, err := texture.New(width, height)
	if err != nil {
		return &Pixmap{}
	}
	return &Pixmap{tex: tex}
}

// PixmapFromImage decodes a straight-alpha sRGB image into premultiplied
// linear texels.
func PixmapFromImage(img image.Image) (*Pixmap, error) {
	tex, err := texture.FromImage(img, texture.LinearPremultiplied)
	if err != nil {
		return nil, err
	}
	return &Pixmap{tex: tex}, nil
}

// PixmapFromEncodedImage loads img without any transfer curve or alpha
// arithmetic: each channel becomes value/255.
func PixmapFromEncodedImage(img image.Image) (*Pixmap, error) {
	tex, err := texture.FromImage(img, texture.Raw)
	if err != nil {
		return nil, err
	}
	return &Pixmap{tex: tex}, nil
}

// Width returns the width in texels.
func (p *Pixmap) Width() int { return p.tex.Width }

// Height returns the height in texels.
func (p *Pixmap) Height() int { return p.tex.Height }

// Bounds returns the pixmap rectangle.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.tex.Width, p.tex.Height)
}

// Pix returns the texel storage, four float32 values per texel.
func (p *Pixmap) Pix() []float32 { return p.tex.Pix }

// Empty reports whether the pixmap has zero area.
func (p *Pixmap) Empty() bool {
	return p == nil || p.tex.Width == 0 || p.tex.Height == 0
}

// Texel loads texel (x, y) without filtering. Out-of-bounds loads return
// Transparent.
func (p *Pixmap) Texel(x, y int) RGBA {
	return rgbaFromArray(p.tex.Load(x, y))
}

// SetTexel stores texel (x, y). Out-of-bounds stores are ignored.
func (p *Pixmap) SetTexel(x, y int, c RGBA) {
	p.tex.Store(x, y, c.array())
}

// Fill sets every texel to c.
func (p *Pixmap) Fill(c RGBA) {
	a := c.array()
	for i := 0; i < len(p.tex.Pix); i += texture.Channels {
		copy(p.tex.Pix[i:i+texture.Channels], a[:])
	}
}

// Clone returns a deep copy.
func (p *Pixmap) Clone() *Pixmap {
	tex := p.tex
	tex.Pix = append([]float32(nil), p.tex.Pix...)
	return &Pixmap{tex: tex}
}

// Image encodes premultiplied linear texels as a straight-alpha sRGB image.
func (p *Pixmap) Image() *image.NRGBA {
	return p.tex.ToNRGBA(texture.LinearPremultiplied)
}

// EncodedImage quantizes every channel as-is. Use it after a stage that
// already produced display-encoded values, such as the gamma or tonemap
// stage.
func (p *Pixmap) EncodedImage() *image.NRGBA {
	return p.tex.ToNRGBA(texture.Raw)
}

func (p *Pixmap) sameSize(o *Pixmap) bool {
	return p.tex.Width == o.tex.Width && p.tex.Height == o.tex.Height
}
