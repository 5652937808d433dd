package concurrent

import (
	"context"
	"sync"
)

type Result[T any] struct {
	Value T
	Err   error
}

// Settled runs fn over every input with at most parallelism goroutines and
// returns one Result per input, in input order. Unlike WorkGroup, a failing
// input never cancels its siblings.
func Settled[In any, Out any](ctx context.Context, parallelism uint, inputs []In, fn func(ctx context.Context, in In) (Out, error)) []Result[Out] {
	results := make([]Result[Out], len(inputs))
	sem := make(chan struct{}, parallelism)

	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result[Out]{Err: ctx.Err()}
				return
			}

			v, err := fn(ctx, in)
			results[i] = Result[Out]{Value: v, Err: err}
		}()
	}

	wg.Wait()
	return results
}
