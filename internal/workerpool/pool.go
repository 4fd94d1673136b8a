// Package workerpool runs blocking collaborator calls on a bounded set of
// goroutines and hands results back through futures.
package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/semaphore"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 8

// Pool bounds the number of tasks running at once.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New creates a pool that runs at most size tasks concurrently.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Size returns the maximum number of concurrent tasks.
func (p *Pool) Size() int { return p.size }

// Future is the pending result of a submitted task.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Await blocks until the task finishes or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("await task: %w", ctx.Err())
	}
}

// Submit schedules fn on the pool. The returned future resolves with fn's
// result, with ctx's error if no worker slot frees up before ctx is done,
// or with an error describing a panic raised by fn.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		f.err = fmt.Errorf("acquire worker: %w", err)
		close(f.done)
		return f
	}

	go func() {
		defer close(f.done)
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("task panicked: %v\n%s", r, debug.Stack())
			}
		}()
		f.value, f.err = fn(ctx)
	}()

	return f
}

// Run submits fn and waits for its result.
func Run[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	return Submit(ctx, p, fn).Await(ctx)
}
