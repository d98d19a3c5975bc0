package latency

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
	"stealthspanner/internal/extract"
)

// ProgressFunc is called each time a target completes during a batch run,
// with a monotonically increasing completed count and the total count.
type ProgressFunc func(completed, total int)

// Pool dispatches one probe per target across a bounded number of
// concurrent workers. A Pool is cheap; construct one per batch.
type Pool struct {
	workers int64
}

// NewPool creates a pool with the given worker bound.
func NewPool(workers int) *Pool {
	return &Pool{workers: int64(workers)}
}

// Run probes every target and returns exactly one Outcome per target, in
// target order. Completion order does not affect the result. A nil or empty
// target list, or a non-positive worker count, yields an empty result.
func (p *Pool) Run(ctx context.Context, targets []extract.Target, prober *Prober, progress ProgressFunc) []Outcome {
	if p.workers <= 0 || len(targets) == 0 {
		return []Outcome{}
	}

	results := make([]Outcome, len(targets))
	var mu sync.Mutex
	var completed int

	sem := semaphore.NewWeighted(p.workers)
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(idx int, t extract.Target) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				// Batch canceled before this target was dispatched.
				results[idx] = Outcome{Target: t, Status: StatusFailed}
				return
			}
			results[idx] = prober.Probe(ctx, t)
			sem.Release(1)

			// The semaphore is already released, so holding the lock
			// through the callback never stalls dispatch. It keeps the
			// observed counts strictly increasing.
			mu.Lock()
			completed++
			if progress != nil {
				progress(completed, len(targets))
			}
			mu.Unlock()
		}(i, target)
	}

	wg.Wait()
	return results
}
