package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// WorkerPool applies f to every input with at most maxWorkers calls in
// flight. Output order matches input order.
type WorkerPool[I any, O any] struct {
	maxWorkers int
	f          func(ctx context.Context, value I) (O, error)
	onProgress func(current int, total int)
}

func NewWorkerPool[I any, O any](f func(ctx context.Context, value I) (O, error), maxWorkers int) *WorkerPool[I, O] {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &WorkerPool[I, O]{
		maxWorkers: maxWorkers,
		f:          f,
	}
}

func (wp *WorkerPool[I, O]) OnProgress(f func(current int, total int)) {
	wp.onProgress = f
}

// Map stops at the first error and cancels the remaining calls.
func (wp *WorkerPool[I, O]) Map(ctx context.Context, input []I) ([]O, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.maxWorkers)

	output := make([]O, len(input))
	var done atomic.Int64

	for index, value := range input {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := wp.f(ctx, value)
			if err != nil {
				return fmt.Errorf("item %d: %w", index, err)
			}

			output[index] = result
			wp.progress(int(done.Add(1)), len(input))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return output, nil
}

// MapAll runs every input regardless of failures. Failed items keep the zero
// value and their errors are joined.
func (wp *WorkerPool[I, O]) MapAll(ctx context.Context, input []I) ([]O, error) {
	var g errgroup.Group
	g.SetLimit(wp.maxWorkers)

	output := make([]O, len(input))
	var done atomic.Int64

	var mu sync.Mutex
	var errs error

	for index, value := range input {
		g.Go(func() error {
			result, err := wp.f(ctx, value)

			if err != nil {
				mu.Lock()
				errs = errors.Join(errs, fmt.Errorf("item %d: %w", index, err))
				mu.Unlock()
			} else {
				output[index] = result
			}

			wp.progress(int(done.Add(1)), len(input))
			return nil
		})
	}

	_ = g.Wait()

	return output, errs
}

func (wp *WorkerPool[I, O]) progress(current, total int) {
	if wp.onProgress != nil {
		wp.onProgress(current, total)
	}
}
