package postfx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/postfx/internal/color"
)

// UniformSize is the byte size of every stage parameter block.
const UniformSize = 16

// TransferParams parameterizes the tonemap curve
//
//	f(v) = (((1-v)*shift^gamma + v*(shift+scale)^gamma)^(1/gamma) - shift) / scale
//
// The field order is the uniform layout: four little-endian float32 values.
// Bias is carried in the layout but not read by the curve.
type TransferParams struct {
	Bias  float32
	Shift float32
	Scale float32
	Gamma float32
}

// IdentityTransfer returns the parameters under which the curve is the
// identity.
func IdentityTransfer() TransferParams {
	return TransferParams{Shift: 0, Scale: 1, Gamma: 1}
}

// SRGBTransfer returns the parameters under which the curve approximates
// the sRGB encoding.
func SRGBTransfer() TransferParams {
	return TransferParams{Shift: 0.055, Scale: 1, Gamma: 2.4}
}

// Validate reports whether the parameters produce a finite curve.
func (p TransferParams) Validate() error {
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"bias", p.Bias},
		{"shift", p.Shift},
		{"scale", p.Scale},
		{"gamma", p.Gamma},
	} {
		if !finite(f.v) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, f.name)
		}
	}
	switch {
	case p.Scale <= 0:
		return fmt.Errorf("%w: scale %g must be positive", ErrInvalidParams, p.Scale)
	case p.Gamma <= 0:
		return fmt.Errorf("%w: gamma %g must be positive", ErrInvalidParams, p.Gamma)
	case p.Shift < 0:
		return fmt.Errorf("%w: shift %g must not be negative", ErrInvalidParams, p.Shift)
	}
	return nil
}

// Apply evaluates the curve at v.
func (p TransferParams) Apply(v float32) float32 {
	return color.Parametric(v, p.Shift, p.Scale, p.Gamma)
}

// Invert evaluates the inverse curve at x, so that Apply(Invert(x)) == x.
func (p TransferParams) Invert(x float32) float32 {
	return color.ParametricInverse(x, p.Shift, p.Scale, p.Gamma)
}

// AppendBinary appends the 16-byte uniform encoding to b.
func (p TransferParams) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(p.Bias))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(p.Shift))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(p.Scale))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(p.Gamma))
	return b, nil
}

// MarshalBinary returns the 16-byte uniform encoding.
func (p TransferParams) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(make([]byte, 0, UniformSize))
}

// UnmarshalBinary decodes the 16-byte uniform encoding.
func (p *TransferParams) UnmarshalBinary(data []byte) error {
	if len(data) != UniformSize {
		return fmt.Errorf("postfx: transfer params: want %d bytes, got %d", UniformSize, len(data))
	}
	p.Bias = math.Float32frombits(binary.LittleEndian.Uint32(data[0:]))
	p.Shift = math.Float32frombits(binary.LittleEndian.Uint32(data[4:]))
	p.Scale = math.Float32frombits(binary.LittleEndian.Uint32(data[8:]))
	p.Gamma = math.Float32frombits(binary.LittleEndian.Uint32(data[12:]))
	return nil
}

// GammaMode selects the gamma encoding curve.
type GammaMode uint32

const (
	// GammaPiecewise is the standard sRGB encoding: a linear segment near
	// black followed by a 1/2.4 power segment.
	GammaPiecewise GammaMode = iota

	// GammaPowerLaw is scale * (bias + v)^gamma.
	GammaPowerLaw
)

// String returns the mode name.
func (m GammaMode) String() string {
	switch m {
	case GammaPiecewise:
		return "piecewise"
	case GammaPowerLaw:
		return "powerlaw"
	default:
		return fmt.Sprintf("GammaMode(%d)", uint32(m))
	}
}

// ParseGammaMode parses the names returned by GammaMode.String.
func ParseGammaMode(s string) (GammaMode, error) {
	switch s {
	case "piecewise", "srgb":
		return GammaPiecewise, nil
	case "powerlaw", "power":
		return GammaPowerLaw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGammaMode, s)
}

// GammaParams parameterizes the gamma stage. Scale, Bias and Gamma are
// only read in GammaPowerLaw mode.
//
// The uniform layout is {mode u32, scale, bias, gamma}, little-endian.
type GammaParams struct {
	Mode  GammaMode
	Scale float32
	Bias  float32
	Gamma float32
}

// PiecewiseGamma returns parameters selecting the sRGB curve.
func PiecewiseGamma() GammaParams {
	return GammaParams{Mode: GammaPiecewise, Scale: 1, Gamma: 1 / 2.2}
}

// PowerLawGamma returns parameters for scale * (bias + v)^gamma.
func PowerLawGamma(scale, bias, gamma float32) GammaParams {
	return GammaParams{Mode: GammaPowerLaw, Scale: scale, Bias: bias, Gamma: gamma}
}

// Validate checks the mode and, in power-law mode, the curve parameters.
func (p GammaParams) Validate() error {
	switch p.Mode {
	case GammaPiecewise:
		return nil
	case GammaPowerLaw:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownGammaMode, uint32(p.Mode))
	}
	if !finite(p.Scale) || !finite(p.Bias) || !finite(p.Gamma) {
		return fmt.Errorf("%w: power law parameters must be finite", ErrInvalidParams)
	}
	if p.Scale <= 0 {
		return fmt.Errorf("%w: scale %g must be positive", ErrInvalidParams, p.Scale)
	}
	if p.Gamma <= 0 {
		return fmt.Errorf("%w: gamma %g must be positive", ErrInvalidParams, p.Gamma)
	}
	return nil
}

// Encode applies the selected curve to one channel.
func (p GammaParams) Encode(v float32) float32 {
	if p.Mode == GammaPowerLaw {
		return color.PowerLaw(v, p.Scale, p.Bias, p.Gamma)
	}
	return color.LinearToSRGB(v)
}

// AppendBinary appends the 16-byte uniform encoding to b.
func (p GammaParams) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, uint32(p.Mode))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(p.Scale))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(p.Bias))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(p.Gamma))
	return b, nil
}

// MarshalBinary returns the 16-byte uniform encoding.
func (p GammaParams) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(make([]byte, 0, UniformSize))
}

// UnmarshalBinary decodes the 16-byte uniform encoding. The mode is not
// validated.
func (p *GammaParams) UnmarshalBinary(data []byte) error {
	if len(data) != UniformSize {
		return fmt.Errorf("postfx: gamma params: want %d bytes, got %d", UniformSize, len(data))
	}
	p.Mode = GammaMode(binary.LittleEndian.Uint32(data[0:]))
	p.Scale = math.Float32frombits(binary.LittleEndian.Uint32(data[4:]))
	p.Bias = math.Float32frombits(binary.LittleEndian.Uint32(data[8:]))
	p.Gamma = math.Float32frombits(binary.LittleEndian.Uint32(data[12:]))
	return nil
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
