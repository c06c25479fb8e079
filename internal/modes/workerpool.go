package modes

import (
	"context"
	"sync"
)

// compileJob is one unit of work for the book compile fan-out.
type compileJob func(ctx context.Context)

// workerPool runs compile jobs on a fixed number of goroutines. Section
// compiles share no mutable state, so the pool needs no coordination
// beyond the wait group; results land in caller-owned slots.
type workerPool struct {
	jobs    chan compileJob
	wg      sync.WaitGroup
	workers int
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	return &workerPool{
		jobs:    make(chan compileJob, workers*2),
		workers: workers,
	}
}

// start launches the workers. They drain jobs until the channel closes
// or ctx is cancelled.
func (p *workerPool) start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					job(ctx)
				}
			}
		}()
	}
}

// submit enqueues a job, blocking while the queue is full. Reports
// false once ctx is cancelled: the workers stop draining the queue on
// cancellation, so a blind send could block forever.
func (p *workerPool) submit(ctx context.Context, job compileJob) bool {
	select {
	case <-ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// close stops accepting jobs and waits for the workers to finish.
func (p *workerPool) close() {
	close(p.jobs)
	p.wg.Wait()
}
