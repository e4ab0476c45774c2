// Package parallel provides a small worker pool for data-parallel
// geometry work. Callers hand it an index range and a function; results
// must be written to per-index slots so the outcome does not depend on
// scheduling.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool runs independent work items across a fixed set of worker
// goroutines.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// work carries queued items to the workers.
	work chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// closeOnce guards Close.
	closeOnce sync.Once
}

// NewWorkerPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		work:    make(chan func(), workers*4),
		done:    make(chan struct{}),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			// Drain remaining work before exiting.
			for {
				select {
				case fn := <-p.work:
					fn()
				default:
					return
				}
			}
		case fn := <-p.work:
			fn()
		}
	}
}

// Submit queues a work item. Blocks when the queue is full.
func (p *WorkerPool) Submit(fn func()) {
	p.work <- fn
}

// ForEach runs fn for every index in [0, n) across the pool's workers
// and returns once all calls have completed. Each index is handed to
// exactly one worker; fn must confine its writes to state owned by its
// index.
func (p *WorkerPool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		p.Submit(func() {
			defer wg.Done()
			fn(i)
		})
	}
	wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int { return p.workers }

// Close stops the workers after draining queued work. Idempotent.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
