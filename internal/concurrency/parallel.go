// Package concurrency runs independent jobs on a bounded worker pool.
package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions bounds the worker pool.
type ParallelOptions struct {
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 4,
	}
}

type outcome[R any] struct {
	index  int
	result R
	err    error
}

// ProcessParallel calls itemFunc for every item and returns the results in input order.
// Items not started before ctx is cancelled keep their zero value and report ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultOptions().MaxWorkers
	}
	workers = min(workers, len(items))

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	outcomes := make(chan outcome[R], len(items))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					outcomes <- outcome[R]{index: i, err: err}
					continue
				}
				r, err := itemFunc(ctx, i, items[i])
				outcomes <- outcome[R]{index: i, result: r, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]R, len(items))
	var errs []error
	for o := range outcomes {
		if o.err != nil {
			errs = append(errs, o.err)
		}
		results[o.index] = o.result
	}
	return results, errs
}
