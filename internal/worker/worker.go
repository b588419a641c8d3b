// Package worker provides types and utilities for parallel batch validation.
package worker

import (
	"context"
	"sync"
)

// Semaphore provides a counting semaphore for controlling concurrency.
// It limits the number of validations in flight so a batch does not spawn
// one ffmpeg process per file at once.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a new semaphore with the given number of permits.
func NewSemaphore(count int) *Semaphore {
	if count <= 0 {
		count = 1
	}
	s := &Semaphore{
		permits: make(chan struct{}, count),
	}
	// Pre-fill the permits
	for i := 0; i < count; i++ {
		s.permits <- struct{}{}
	}
	return s
}

// Acquire takes a permit, or returns the context error if ctx ends first.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case <-s.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a permit to the semaphore.
func (s *Semaphore) Release() {
	select {
	case s.permits <- struct{}{}:
	default:
		// Semaphore is full, this shouldn't happen in normal use
	}
}

// Chan returns the underlying permit channel for use with select.
func (s *Semaphore) Chan() <-chan struct{} {
	return s.permits
}

// Result is the outcome of one unit of batch work, keyed by input index so
// callers can restore submission order.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Run executes fn for every input with at most workers running at once.
// Results are returned in input order. A cancelled context stops new work
// from starting; inputs never started report the context error.
func Run[I, O any](ctx context.Context, workers int, inputs []I, fn func(ctx context.Context, index int, input I) (O, error)) []Result[O] {
	sem := NewSemaphore(workers)
	results := make([]Result[O], len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		if err := sem.Acquire(ctx); err != nil {
			results[i] = Result[O]{Index: i, Err: err}
			continue
		}

		wg.Add(1)
		go func(i int, input I) {
			defer wg.Done()
			defer sem.Release()

			value, err := fn(ctx, i, input)
			results[i] = Result[O]{Index: i, Value: value, Err: err}
		}(i, input)
	}
	wg.Wait()

	return results
}
