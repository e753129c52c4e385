package filter

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEach runs fn(i) for i in [0, n) on at most workers goroutines. It stops
// scheduling after the first error and returns it.
func forEach(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}

		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error { return fn(i) })
	}

	return g.Wait()
}
