package lang

import (
	"context"
	"iter"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the input size below which Map and Filter run
// sequentially. Goroutine and scheduling overhead dominates tiny inputs.
const parallelThreshold = 10

// ParallelExecutor fans work items out over bounded worker pools. Two limits
// are kept: an I/O limit sized for blocking work and a CPU limit sized to
// the core count. Results always preserve input order, and the first task
// error cancels the remaining work (fail-fast; no partial results).
type ParallelExecutor struct {
	ioWorkers  int
	cpuWorkers int
	inflight   sync.WaitGroup
}

// NewParallelExecutor creates an executor with default pool sizes:
// min(32, NumCPU+4) for I/O-bound work and NumCPU for CPU-bound work.
func NewParallelExecutor() *ParallelExecutor {
	return NewParallelExecutorSize(min(32, runtime.NumCPU()+4), runtime.NumCPU())
}

// NewParallelExecutorSize creates an executor with explicit pool sizes.
func NewParallelExecutorSize(ioWorkers, cpuWorkers int) *ParallelExecutor {
	if ioWorkers < 1 {
		ioWorkers = 1
	}

	if cpuWorkers < 1 {
		cpuWorkers = 1
	}

	return &ParallelExecutor{ioWorkers: ioWorkers, cpuWorkers: cpuWorkers}
}

func (p *ParallelExecutor) limit(cpuBound bool) int {
	if cpuBound {
		return p.cpuWorkers
	}

	return p.ioWorkers
}

// Map applies fn to every item, returning results in input order.
func (p *ParallelExecutor) Map(
	ctx context.Context,
	fn func(any) (any, error),
	items []any,
	cpuBound bool,
) ([]any, error) {
	if len(items) < parallelThreshold {
		return sequentialMap(fn, items)
	}

	p.inflight.Add(1)
	defer p.inflight.Done()

	results := make([]any, len(items))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.limit(cpuBound))

	for i, item := range items {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			v, err := fn(item)
			if err != nil {
				return err
			}

			results[i] = v

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Filter keeps the items for which pred is truthy, preserving input order.
func (p *ParallelExecutor) Filter(
	ctx context.Context,
	pred func(any) (any, error),
	items []any,
	cpuBound bool,
) ([]any, error) {
	keep, err := p.Map(ctx, pred, items, cpuBound)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(items))

	for i, item := range items {
		if truthy(keep[i]) {
			out = append(out, item)
		}
	}

	return out, nil
}

// Batch splits items into batchSize chunks, runs each chunk through the I/O
// pool, and yields results chunk by chunk as each completes. The first error
// ends the sequence.
func (p *ParallelExecutor) Batch(
	ctx context.Context,
	fn func(any) (any, error),
	items []any,
	batchSize int,
) iter.Seq2[any, error] {
	if batchSize < 1 {
		batchSize = 1
	}

	return func(yield func(any, error) bool) {
		for start := 0; start < len(items); start += batchSize {
			end := min(start+batchSize, len(items))

			chunk, err := p.Map(ctx, fn, items[start:end], false)
			if err != nil {
				yield(nil, err)

				return
			}

			for _, v := range chunk {
				if !yield(v, nil) {
					return
				}
			}
		}
	}
}

// Shutdown blocks until all in-flight parallel operations have drained.
func (p *ParallelExecutor) Shutdown() {
	p.inflight.Wait()
}

func sequentialMap(fn func(any) (any, error), items []any) ([]any, error) {
	results := make([]any, len(items))

	for i, item := range items {
		v, err := fn(item)
		if err != nil {
			return nil, err
		}

		results[i] = v
	}

	return results, nil
}
