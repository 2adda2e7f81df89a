package postfx

import (
	"context"
	"errors"
	"testing"
)

func TestUnpremultiply(t *testing.T) {
	src := NewPixmap(3, 1)
	src.SetTexel(0, 0, RGBA{R: 0.5, G: 0.25, B: 0, A: 0.5})
	src.SetTexel(1, 0, RGBA{R: 0.3, G: 0.3, B: 0.3, A: 0})
	src.SetTexel(2, 0, White)

	dst := NewPixmap(3, 1)
	if err := Unpremultiply(context.Background(), dst, src); err != nil {
		t.Fatalf("Unpremultiply() = %v", err)
	}
	want := []RGBA{{R: 1, G: 0.5, B: 0, A: 0.5}, Transparent, White}
	for x, w := range want {
		if got := dst.Texel(x, 0); got != w {
			t.Errorf("texel %d = %+v, want %+v", x, got, w)
		}
	}
}

func TestPremultiplyInvertsUnpremultiply(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.Fill(RGBA{R: 0.2, G: 0.1, B: 0.05, A: 0.25})
	want := pm.Texel(0, 0)

	ctx := context.Background()
	if err := Unpremultiply(ctx, pm, pm); err != nil {
		t.Fatal(err)
	}
	if err := Premultiply(ctx, pm, pm); err != nil {
		t.Fatal(err)
	}
	got := pm.Texel(1, 1)
	if !floatNear(got.R, want.R, 1e-6) || !floatNear(got.G, want.G, 1e-6) ||
		!floatNear(got.B, want.B, 1e-6) || got.A != want.A {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestAlphaStagesRejectMismatch(t *testing.T) {
	ctx := context.Background()
	if err := Unpremultiply(ctx, NewPixmap(2, 2), NewPixmap(1, 1)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Unpremultiply() = %v, want ErrSizeMismatch", err)
	}
	if err := Premultiply(ctx, NewPixmap(1, 1), NewPixmap(0, 0)); !errors.Is(err, ErrEmptyPixmap) {
		t.Errorf("Premultiply() = %v, want ErrEmptyPixmap", err)
	}
}

func TestPipelineGammaOnStraightAlpha(t *testing.T) {
	src := NewPixmap(1, 1)
	// Half-transparent white, premultiplied.
	src.SetTexel(0, 0, RGBA{R: 0.5, G: 0.5, B: 0.5, A: 0.5})

	out, err := NewPipeline(WithAccelerator(false)).
		Unpremultiply().
		Gamma(PiecewiseGamma()).
		Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	got := out.Texel(0, 0)
	if !floatNear(got.R, 1, 1e-6) || got.A != 0.5 {
		t.Errorf("texel = %+v, want white at alpha 0.5", got)
	}
}
