package worker

import (
	"context"
	"sync"
)

// Result pairs a fan-out outcome with the index of its input item.
// Indexes let callers preserve input order after unordered execution.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Map runs fn over every item with at most workers goroutines and waits for
// all of them. Failures are returned alongside successes rather than
// aborting the batch: one bad item must degrade quality, not abort the
// request. Results are ordered by input index.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]Result[R], len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				value, err := fn(ctx, items[i])
				results[i] = Result[R]{Index: i, Value: value, Err: err}
			}
		}()
	}

	for i := range items {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Mark the undispatched items as cancelled and stop feeding
			for j := i; j < len(items); j++ {
				results[j] = Result[R]{Index: j, Err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

// Successes filters a result set down to the values that completed without
// error, preserving order
func Successes[R any](results []Result[R]) []R {
	out := make([]R, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Value)
		}
	}
	return out
}
