package postfx

import "github.com/gogpu/postfx/internal/parallel"

// Option configures a stage call or a Pipeline.
//
// Example:
//
//	// Default: shared worker pool, accelerator when registered
//	err := postfx.Tonemap(ctx, dst, src, postfx.SRGBTransfer())
//
//	// Dedicated pool, conventional un-premultiply, CPU only
//	pool := postfx.NewWorkerPool(4)
//	defer pool.Close()
//	err := postfx.Tonemap(ctx, dst, src, params,
//	    postfx.WithPool(pool),
//	    postfx.WithUnpremultiply(postfx.UnpremultiplyDivide),
//	    postfx.WithAccelerator(false))
type Option func(*options)

// options holds the resolved configuration of a stage call.
type options struct {
	pool          *WorkerPool
	workers       int
	bandHeight    int
	unpremultiply UnpremultiplyMode
	accelerate    bool
}

// defaultOptions returns the default stage options.
func defaultOptions() options {
	return options{
		unpremultiply: UnpremultiplyMultiply,
		accelerate:    true,
	}
}

func resolveOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// acquirePool returns the pool to run on and a release function that must
// be called when the stage finishes.
func (o *options) acquirePool() (*parallel.Pool, func()) {
	switch {
	case o.pool != nil:
		return o.pool.pool, func() {}
	case o.workers > 0:
		p := parallel.NewPool(o.workers)
		return p, p.Close
	default:
		return parallel.Default(), func() {}
	}
}

// WithPool runs CPU work on p instead of the shared pool.
func WithPool(p *WorkerPool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithWorkers runs CPU work on a temporary pool of n workers that lives for
// the duration of the call. It is ignored when WithPool is also given.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBandHeight sets the number of rows per work item. Zero or negative
// lets the pool choose.
func WithBandHeight(rows int) Option {
	return func(o *options) {
		o.bandHeight = rows
	}
}

// WithUnpremultiply selects how the tonemap stage recovers straight color
// from premultiplied texels.
func WithUnpremultiply(m UnpremultiplyMode) Option {
	return func(o *options) {
		o.unpremultiply = m
	}
}

// WithAccelerator enables or disables the registered GPU accelerator for
// the call. Enabled by default.
func WithAccelerator(enabled bool) Option {
	return func(o *options) {
		o.accelerate = enabled
	}
}

// WorkerPool is a reusable set of goroutines for CPU stage work.
type WorkerPool struct {
	pool *parallel.Pool
}

// NewWorkerPool starts a pool. If workers is 0 or negative, GOMAXPROCS is
// used.
func NewWorkerPool(workers int) *WorkerPool {
	return &WorkerPool{pool: parallel.NewPool(workers)}
}

// Workers returns the number of goroutines in the pool.
func (w *WorkerPool) Workers() int { return w.pool.Workers() }

// Close stops the pool. Stages run on a closed pool execute inline.
func (w *WorkerPool) Close() { w.pool.Close() }
