package worker

import (
	"context"
	"runtime"
	"sync"
)

// Job is one unit of batch work. Execute must be safe to run alongside
// other jobs and should return early when ctx is cancelled.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job. Index ties the result back to its
// submission slot so batch output can be reassembled in input order no
// matter which worker finished first.
type Result interface {
	Index() int
	Err() error
}

// Pool fans jobs out across a fixed set of worker goroutines.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool of the given size. Zero or negative workers
// fall back to the CPU count. The queue capacity must cover the whole
// batch when jobs are all submitted before Wait, so callers pass their
// batch size; small values are raised to a workable minimum.
func NewPool(ctx context.Context, workers, queue int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queue < workers*2 {
		queue = workers * 2
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: workers,
		jobs:    make(chan Job, queue),
		results: make(chan Result, queue),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. After Shutdown it returns without blocking.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it, and
// returns the results in completion order. Callers that need input
// order reassemble by Result.Index.
func (p *Pool) Wait() []Result {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown cancels in-flight jobs and releases the workers.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
