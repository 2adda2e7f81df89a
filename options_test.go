package postfx

import (
	"context"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := resolveOptions(nil)
	if !o.accelerate {
		t.Error("accelerator disabled by default")
	}
	if o.unpremultiply != UnpremultiplyMultiply {
		t.Errorf("unpremultiply = %v, want multiply", o.unpremultiply)
	}
	if o.pool != nil || o.workers != 0 || o.bandHeight != 0 {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestOptionsApplyInOrder(t *testing.T) {
	o := resolveOptions([]Option{
		WithAccelerator(false),
		WithBandHeight(8),
		WithUnpremultiply(UnpremultiplyDivide),
		WithWorkers(3),
		WithAccelerator(true),
	})
	if !o.accelerate || o.bandHeight != 8 || o.unpremultiply != UnpremultiplyDivide || o.workers != 3 {
		t.Errorf("resolved options = %+v", o)
	}
}

func TestAcquirePool(t *testing.T) {
	shared := NewWorkerPool(2)
	defer shared.Close()

	o := resolveOptions([]Option{WithPool(shared), WithWorkers(5)})
	p, release := o.acquirePool()
	if p != shared.pool {
		t.Error("WithPool not honored")
	}
	release()
	if !p.IsRunning() {
		t.Error("release closed a caller-owned pool")
	}

	o = resolveOptions([]Option{WithWorkers(3)})
	p, release = o.acquirePool()
	if p.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", p.Workers())
	}
	release()
	if p.IsRunning() {
		t.Error("temporary pool still running after release")
	}
}

func TestWorkerPoolReuse(t *testing.T) {
	pool := NewWorkerPool(2)
	if pool.Workers() != 2 {
		t.Errorf("Workers() = %d, want 2", pool.Workers())
	}

	src := NewPixmap(16, 16)
	src.Fill(White)
	for range 3 {
		dst := NewPixmap(16, 16)
		if err := Tonemap(context.Background(), dst, src, IdentityTransfer(), WithPool(pool), WithAccelerator(false)); err != nil {
			t.Fatalf("Tonemap() = %v", err)
		}
	}

	pool.Close()
	dst := NewPixmap(16, 16)
	if err := Tonemap(context.Background(), dst, src, IdentityTransfer(), WithPool(pool), WithAccelerator(false)); err != nil {
		t.Fatalf("Tonemap() on closed pool = %v", err)
	}
	if dst.Texel(15, 15) != White {
		t.Error("closed pool did not run the work inline")
	}
}
