package worker

import "context"

// RunOrdered executes a batch of jobs across a bounded pool and returns
// the results slotted by Result.Index, so results[i] always belongs to
// jobs[i] regardless of completion order. The queue is sized to the
// batch, so submitting everything up front cannot deadlock.
//
// When ctx is cancelled mid-batch some slots may be nil; callers should
// check ctx.Err before trusting the output.
func RunOrdered(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	pool := NewPool(ctx, workers, len(jobs))
	pool.Start()

	for _, job := range jobs {
		pool.Submit(job)
	}

	ordered := make([]Result, len(jobs))
	for _, result := range pool.Wait() {
		idx := result.Index()
		if idx < 0 || idx >= len(ordered) {
			continue
		}
		ordered[idx] = result
	}

	return ordered
}
