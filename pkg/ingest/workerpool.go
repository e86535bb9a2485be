package ingest

import (
	"context"
	"sync"
)

// Job is a unit of work submitted to the WorkerPool.
// It returns an error to indicate failure; callers may treat errors as they see fit.
type Job func(ctx context.Context) error

// WorkerPool runs jobs using a fixed number of goroutines. It
// parallelizes the CPU-bound part of a re-parse run: tokenizing text
// bodies and reconciling their overlays.
type WorkerPool struct {
	jobs    chan Job
	done    chan struct{}
	wg      sync.WaitGroup
	workers int

	closeMu    sync.Mutex
	closed     bool
	submitters sync.WaitGroup
}

// NewWorkerPool creates a new worker pool with the specified number of workers
// and job queue capacity.
func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &WorkerPool{
		jobs:    make(chan Job, queue),
		done:    make(chan struct{}),
		workers: workers,
	}
}

// Start begins the worker goroutines and listens for jobs until ctx is done or Close is called.
func (p *WorkerPool) Start(ctx context.Context) {
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
					// Errors travel through the job's own result channel.
					_ = job(ctx)
				}
			}
		}()
	}
}

// Submit enqueues a job for processing. A Submit blocked on a full queue
// returns ErrPoolClosed if the pool is closed in the meantime.
func (p *WorkerPool) Submit(job Job) error {
	if !p.enterSubmit() {
		return ErrPoolClosed
	}
	defer p.submitters.Done()
	select {
	case p.jobs <- job:
		return nil
	case <-p.done:
		return ErrPoolClosed
	}
}

// SubmitCtx enqueues a job but returns promptly if ctx is canceled while
// the queue is full.
func (p *WorkerPool) SubmitCtx(ctx context.Context, job Job) error {
	if !p.enterSubmit() {
		return ErrPoolClosed
	}
	defer p.submitters.Done()
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrPoolClosed
	}
}

func (p *WorkerPool) enterSubmit() bool {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return false
	}
	p.submitters.Add(1)
	return true
}

// Close stops accepting new jobs and waits for workers to finish.
// The jobs channel is only closed once in-flight Submits have returned.
func (p *WorkerPool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.closeMu.Unlock()
	p.submitters.Wait()
	close(p.jobs)
	p.wg.Wait()
}

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = &PoolError{"worker pool closed"}

// PoolError provides a simple typed error for pool operations.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
