// Package executor implements the parallel executor: it splits a batch
// of size n into k contiguous sub-ranges, runs a caller-supplied
// per-range body on a worker pool, and joins — or degenerates to inline
// execution when disabled or the batch is small.
//
// Fan-out uses golang.org/x/sync/errgroup over a fixed set of contiguous
// ranges so that partition I/O errors propagate and cancel the
// remaining workers.
package executor

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/23skdu/graphserving/internal/metrics"
)

// Executor runs a batched operation either inline or fanned out across a
// bounded number of goroutines.
type Executor struct {
	enabled bool
}

// New creates an Executor. When enabled is false, Run always executes
// the body inline with a single worker, regardless of batch size.
func New(enabled bool) *Executor {
	return &Executor{enabled: enabled}
}

// Body is one worker's unit of work over the contiguous range [start,
// end) of the batch, addressed by its worker index i (0-based, ascending
// with start).
type Body func(ctx context.Context, workerIndex, start, end int) error

// Pre is called synchronously, once, before any Body runs, so the caller
// can pre-size k per-worker result buffers.
type Pre func(workers int)

// Run computes the concurrency k for a batch of size n (k = 1 if the
// executor is disabled; otherwise chunk = n / GOMAXPROCS(0) and k = 1 if
// chunk == 0, else GOMAXPROCS(0)), calls pre(k) synchronously, then runs
// body over k contiguous ranges — inline when k == 1.
func (e *Executor) Run(ctx context.Context, n int, pre Pre, body Body) error {
	if n <= 0 {
		pre(1)
		return nil
	}

	h := runtime.GOMAXPROCS(0)
	chunk := n / h
	k := h
	if !e.enabled || chunk == 0 {
		k = 1
		chunk = n
	}

	pre(k)

	if k == 1 {
		metrics.ExecutorInlineTotal.Inc()
		return body(ctx, 0, 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < k; i++ {
		start := i * chunk
		end := start + chunk
		if i == k-1 {
			end = n
		}
		i, start, end := i, start, end
		metrics.ExecutorTasksTotal.Inc()
		g.Go(func() error {
			return body(gctx, i, start, end)
		})
	}
	return g.Wait()
}

// Workers reports how many workers Run would use for a batch of size n,
// without running anything — used by handlers that need to pre-size
// worker-local buffers ahead of a Run call with a stateful Pre.
func (e *Executor) Workers(n int) int {
	if n <= 0 {
		return 1
	}
	h := runtime.GOMAXPROCS(0)
	chunk := n / h
	if !e.enabled || chunk == 0 {
		return 1
	}
	return h
}
