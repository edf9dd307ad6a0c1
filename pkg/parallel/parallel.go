// Package parallel runs a function over a slice with a bounded number of
// workers.
package parallel

import (
	"context"
	"errors"
	"sync"
)

// Each calls fn for every input using at most limit concurrent workers and
// returns every failure joined. Unlike a fail-fast pool, one failing input
// does not cancel the rest; only ctx does.
func Each[T any](ctx context.Context, inputs []T, limit int, fn func(context.Context, T) error) error {
	if len(inputs) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > len(inputs) {
		limit = len(inputs)
	}

	tasks := make(chan T)

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if err := fn(ctx, item); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for _, item := range inputs {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- item:
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
