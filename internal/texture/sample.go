package texture

import (
	"math"

	"github.com/gogpu/gputypes"
)

// Sampler mirrors the GPU sampler state used by the blit stage.
type Sampler struct {
	Filter  gputypes.FilterMode
	Address gputypes.AddressMode
}

// Sample reads the texture at normalized coordinates (u, v), where (0,0)
// is the top-left corner of the top-left texel and (1,1) the bottom-right
// corner of the bottom-right texel.
//
// Linear filtering interpolates between texel centers; any other filter
// value selects the nearest texel. An empty texture or a NaN coordinate
// samples as transparent black.
func (v View) Sample(s Sampler, u, w float64) [4]float32 {
	if v.Width <= 0 || v.Height <= 0 || math.IsNaN(u) || math.IsNaN(w) {
		return [4]float32{}
	}
	if s.Filter == gputypes.FilterModeLinear {
		return v.sampleLinear(s.Address, u, w)
	}
	return v.sampleNearest(s.Address, u, w)
}

func (v View) sampleNearest(addr gputypes.AddressMode, u, w float64) [4]float32 {
	x := address(addr, int(math.Floor(u*float64(v.Width))), v.Width)
	y := address(addr, int(math.Floor(w*float64(v.Height))), v.Height)
	return v.Load(x, y)
}

func (v View) sampleLinear(addr gputypes.AddressMode, u, w float64) [4]float32 {
	fx := u*float64(v.Width) - 0.5
	fy := w*float64(v.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	x1 := address(addr, x0+1, v.Width)
	y1 := address(addr, y0+1, v.Height)
	x0 = address(addr, x0, v.Width)
	y0 = address(addr, y0, v.Height)

	c00 := v.Load(x0, y0)
	c10 := v.Load(x1, y0)
	c01 := v.Load(x0, y1)
	c11 := v.Load(x1, y1)

	var out [4]float32
	for i := range out {
		top := lerp(c00[i], c10[i], tx)
		bottom := lerp(c01[i], c11[i], tx)
		out[i] = lerp(top, bottom, ty)
	}
	return out
}

// address resolves an integer texel coordinate against size.
func address(mode gputypes.AddressMode, i, size int) int {
	if size <= 0 {
		return 0
	}
	if mode == gputypes.AddressModeRepeat {
		i %= size
		if i < 0 {
			i += size
		}
		return i
	}
	return min(max(i, 0), size-1)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
