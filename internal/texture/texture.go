// Package texture provides float RGBA texel storage, texel loads and
// filtered sampling for the CPU rendition of the postfx stages.
package texture

import (
	"errors"
	"fmt"
)

// Channels is the number of float32 values per texel (R, G, B, A).
const Channels = 4

// ErrInvalidDimensions is returned when width or height is non-positive.
var ErrInvalidDimensions = errors.New("texture: invalid dimensions")

// View is a read-write window on tightly packed RGBA float32 texels,
// row-major, top row first.
type View struct {
	Pix           []float32
	Width, Height int
}

// New allocates a zeroed texture.
func New(width, height int) (View, error) {
	if width <= 0 || height <= 0 {
		return View{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return View{
		Pix:    make([]float32, width*height*Channels),
		Width:  width,
		Height: height,
	}, nil
}

// Offset returns the index of texel (x, y) in Pix. Coordinates must be in
// bounds.
func (v View) Offset(x, y int) int {
	return (y*v.Width + x) * Channels
}

// Row returns the texels of row y.
func (v View) Row(y int) []float32 {
	off := y * v.Width * Channels
	return v.Pix[off : off+v.Width*Channels]
}

// Load fetches texel (x, y) without filtering. Out-of-bounds loads return
// transparent black, matching WGSL textureLoad robustness rules.
func (v View) Load(x, y int) [4]float32 {
	if x < 0 || y < 0 || x >= v.Width || y >= v.Height {
		return [4]float32{}
	}
	i := v.Offset(x, y)
	return [4]float32{v.Pix[i], v.Pix[i+1], v.Pix[i+2], v.Pix[i+3]}
}

// Store writes texel (x, y). Out-of-bounds stores are ignored.
func (v View) Store(x, y int, c [4]float32) {
	if x < 0 || y < 0 || x >= v.Width || y >= v.Height {
		return
	}
	i := v.Offset(x, y)
	copy(v.Pix[i:i+Channels], c[:])
}
