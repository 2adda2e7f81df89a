// Package parallel maps per-pixel work over a pixel grid on a pool of
// goroutines.
//
// The grid is cut into horizontal bands of whole rows. Every band writes a
// disjoint row range of the destination, so bands never need to
// synchronize with each other.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines.
//
// Each worker owns a queue. An idle worker steals from the other queues
// before blocking on its own, which keeps the pool busy when bands take
// uneven time (e.g. a blit that only partially overlaps the source).
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

var defaultPool = sync.OnceValue(func() *Pool { return NewPool(0) })

// Default returns the process-wide pool, creating it on first use.
// It is never closed.
func Default() *Pool {
	return defaultPool()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

func drain(queue chan func()) {
	for {
		select {
		case fn := <-queue:
			fn()
		default:
			return
		}
	}
}

// steal takes one item from another worker's queue, or returns nil.
func (p *Pool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// Run distributes work round-robin and waits until every item has run.
// On a closed pool the items run on the calling goroutine.
func (p *Pool) Run(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		wrapped := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	wg.Wait()
}

// Close stops the workers after the queued work has run.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
