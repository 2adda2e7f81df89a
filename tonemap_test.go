package postfx

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTransferIdentity(t *testing.T) {
	p := IdentityTransfer()
	for i := 0; i <= 100; i++ {
		v := float32(i) / 100
		if got := p.Apply(v); !floatNear(got, v, 1e-6) {
			t.Errorf("Apply(%v) = %v, want identity", v, got)
		}
	}
}

func TestTransferEndpoints(t *testing.T) {
	for _, p := range []TransferParams{
		SRGBTransfer(),
		{Shift: 0.1, Scale: 2, Gamma: 3},
		{Shift: 0, Scale: 0.5, Gamma: 0.8},
	} {
		if got := p.Apply(0); !floatNear(got, 0, 1e-6) {
			t.Errorf("%+v: Apply(0) = %v, want 0", p, got)
		}
		if got := p.Apply(1); !floatNear(got, 1, 1e-6) {
			t.Errorf("%+v: Apply(1) = %v, want 1", p, got)
		}
	}
}

func TestTransferRoundTrip(t *testing.T) {
	p := SRGBTransfer()
	gp := PiecewiseGamma()
	for i := 0; i <= 200; i++ {
		v := float32(i) / 200
		encoded := gp.Encode(v)
		if got := p.Invert(encoded); !floatNear(got, v, 5e-3) {
			t.Errorf("Invert(encode(%v)) = %v", v, got)
		}
		if got := p.Apply(p.Invert(v)); !floatNear(got, v, 1e-5) {
			t.Errorf("Apply(Invert(%v)) = %v", v, got)
		}
	}
}

func TestTonemapTexelMultipliesAlpha(t *testing.T) {
	p := IdentityTransfer()
	tests := []struct {
		name string
		in   RGBA
		want RGBA
	}{
		{"opaque unchanged", RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}, RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}},
		{"half alpha", RGBA{R: 0.5, G: 0.25, B: 1, A: 0.5}, RGBA{R: 0.25, G: 0.125, B: 0.5, A: 0.5}},
		{"transparent", RGBA{R: 0, G: 0, B: 0, A: 0}, RGBA{}},
		{"zero alpha with color", RGBA{R: 0.7, G: 0.7, B: 0.7, A: 0}, RGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TonemapTexel(p, tt.in)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
				t.Errorf("TonemapTexel() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTonemapTexelAlphaZeroNoNaN(t *testing.T) {
	for _, p := range []TransferParams{IdentityTransfer(), SRGBTransfer()} {
		got := TonemapTexel(p, RGBA{R: 0.3, G: 0, B: 1, A: 0})
		for _, v := range []float32{got.R, got.G, got.B, got.A} {
			if math.IsNaN(float64(v)) {
				t.Fatalf("%+v: TonemapTexel produced NaN: %+v", p, got)
			}
		}
	}
}

func TestTonemapTexelSRGB(t *testing.T) {
	p := SRGBTransfer()
	got := TonemapTexel(p, RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1})
	want := PiecewiseGamma().Encode(0.5)
	if !floatNear(got.R, want, 5e-3) {
		t.Errorf("R = %v, want about %v", got.R, want)
	}
	if got.A != 1 {
		t.Errorf("alpha = %v, want 1", got.A)
	}
}

func TestUnpremultiplyModes(t *testing.T) {
	c := RGBA{R: 0.25, G: 0.5, B: 0, A: 0.5}
	tests := []struct {
		mode UnpremultiplyMode
		in   RGBA
		want RGB
	}{
		{UnpremultiplyMultiply, c, RGB{R: 0.125, G: 0.25, B: 0}},
		{UnpremultiplyDivide, c, RGB{R: 0.5, G: 1, B: 0}},
		{UnpremultiplyDivide, RGBA{R: 0.5, A: 0}, RGB{}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTonemapPixmap(t *testing.T) {
	src := NewPixmap(2, 2)
	src.SetTexel(0, 0, RGBA{R: 0.5, G: 0.5, B: 0.5, A: 0.5})
	src.SetTexel(1, 1, White)

	for _, tt := range []struct {
		mode UnpremultiplyMode
		want float32
	}{
		{UnpremultiplyMultiply, 0.25},
		{UnpremultiplyDivide, 1},
	} {
		t.Run(tt.mode.String(), func(t *testing.T) {
			dst := NewPixmap(2, 2)
			err := Tonemap(context.Background(), dst, src, IdentityTransfer(),
				WithUnpremultiply(tt.mode), WithAccelerator(false), WithWorkers(2))
			if err != nil {
				t.Fatalf("Tonemap() = %v", err)
			}
			got := dst.Texel(0, 0)
			if !floatNear(got.R, tt.want, 1e-6) || got.A != 0.5 {
				t.Errorf("texel(0,0) = %+v, want R %v alpha 0.5", got, tt.want)
			}
			if got := dst.Texel(1, 1); got != White {
				t.Errorf("texel(1,1) = %+v, want white", got)
			}
		})
	}
}

func TestTonemapRejectsInvalidParams(t *testing.T) {
	pm := NewPixmap(1, 1)
	err := Tonemap(context.Background(), pm, pm, TransferParams{Scale: 0, Gamma: 1})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Tonemap() = %v, want ErrInvalidParams", err)
	}
}

func BenchmarkTonemap(b *testing.B) {
	src := NewPixmap(256, 256)
	src.Fill(RGBA{R: 0.4, G: 0.3, B: 0.2, A: 0.8})
	dst := NewPixmap(256, 256)
	ctx := context.Background()
	p := SRGBTransfer()
	b.ResetTimer()
	for b.Loop() {
		_ = Tonemap(ctx, dst, src, p, WithAccelerator(false))
	}
}
