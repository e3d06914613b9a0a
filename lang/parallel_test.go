package lang

import (
	"context"
	"errors"
	"testing"
)

func testItems(n int) []any {
	items := make([]any, n)
	for i := range items {
		items[i] = float64(i)
	}

	return items
}

func TestParallelMap_PreservesOrder(t *testing.T) {
	pool := NewParallelExecutorSize(8, 4)
	defer pool.Shutdown()

	items := testItems(200)

	results, err := pool.Map(t.Context(), func(v any) (any, error) {
		return v.(float64) * 2, nil
	}, items, false)
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}

	for i, v := range results {
		if v != float64(i)*2 {
			t.Fatalf("result %d out of order: got %v", i, v)
		}
	}
}

func TestParallelMap_SmallInputRunsSequentially(t *testing.T) {
	pool := NewParallelExecutorSize(8, 4)
	defer pool.Shutdown()

	// Below the threshold every call runs on the calling goroutine, so an
	// unsynchronized counter is safe.
	calls := 0

	results, err := pool.Map(t.Context(), func(v any) (any, error) {
		calls++

		return v, nil
	}, testItems(parallelThreshold-1), false)
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if calls != parallelThreshold-1 || len(results) != parallelThreshold-1 {
		t.Errorf("expected %d sequential calls, got %d", parallelThreshold-1, calls)
	}
}

func TestParallelMap_FailFast(t *testing.T) {
	pool := NewParallelExecutorSize(2, 2)
	defer pool.Shutdown()

	boom := errors.New("task failed")

	// The join surfaces the first task error alone; there is no partial
	// result slice to observe.
	results, err := pool.Map(t.Context(), func(v any) (any, error) {
		if v.(float64) == 0 {
			return nil, boom
		}

		return v, nil
	}, testItems(1000), false)

	if !errors.Is(err, boom) {
		t.Fatalf("expected task error, got %v", err)
	}

	if results != nil {
		t.Errorf("expected no results on failure, got %d", len(results))
	}
}

func TestParallelMap_ContextCancellation(t *testing.T) {
	pool := NewParallelExecutorSize(2, 2)
	defer pool.Shutdown()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := pool.Map(ctx, func(v any) (any, error) {
		return v, nil
	}, testItems(100), false)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestParallelFilter_PreservesOrder(t *testing.T) {
	pool := NewParallelExecutorSize(8, 4)
	defer pool.Shutdown()

	results, err := pool.Filter(t.Context(), func(v any) (any, error) {
		return int(v.(float64))%3 == 0, nil
	}, testItems(90), true)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	if len(results) != 30 {
		t.Fatalf("expected 30 results, got %d", len(results))
	}

	for i, v := range results {
		if v != float64(i*3) {
			t.Fatalf("result %d out of order: got %v", i, v)
		}
	}
}

func TestParallelBatch_YieldsInOrder(t *testing.T) {
	pool := NewParallelExecutorSize(4, 2)
	defer pool.Shutdown()

	var out []any

	for v, err := range pool.Batch(t.Context(), func(v any) (any, error) {
		return v.(float64) + 100, nil
	}, testItems(47), 10) {
		if err != nil {
			t.Fatalf("Batch failed: %v", err)
		}

		out = append(out, v)
	}

	if len(out) != 47 {
		t.Fatalf("expected 47 results, got %d", len(out))
	}

	for i, v := range out {
		if v != float64(i)+100 {
			t.Fatalf("result %d out of order: got %v", i, v)
		}
	}
}

func TestParallelBatch_ErrorEndsSequence(t *testing.T) {
	pool := NewParallelExecutorSize(4, 2)
	defer pool.Shutdown()

	boom := errors.New("chunk failed")

	var seen int
	var got error

	for _, err := range pool.Batch(t.Context(), func(v any) (any, error) {
		if v.(float64) >= 20 {
			return nil, boom
		}

		return v, nil
	}, testItems(100), 10) {
		if err != nil {
			got = err

			break
		}

		seen++
	}

	if !errors.Is(got, boom) {
		t.Fatalf("expected chunk error, got %v", got)
	}

	if seen != 20 {
		t.Errorf("expected 20 results before the failing chunk, got %d", seen)
	}
}

func TestParallelExecutor_MinimumPoolSizes(t *testing.T) {
	pool := NewParallelExecutorSize(0, -1)

	if pool.ioWorkers != 1 || pool.cpuWorkers != 1 {
		t.Errorf("expected pools clamped to 1, got %d/%d",
			pool.ioWorkers, pool.cpuWorkers)
	}
}
