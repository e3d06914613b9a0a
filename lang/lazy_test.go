package lang

import (
	"iter"
	"testing"
)

// countingSeq yields 0..n-1 and records how many values were produced.
func countingSeq(n int, produced *int) iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := range n {
			*produced++

			if !yield(float64(i)) {
				return
			}
		}
	}
}

func TestLazySeq_TakePullsOnlyWhatIsNeeded(t *testing.T) {
	var produced int

	seq := NewLazySeq(countingSeq(1000, &produced))

	out := seq.Take(3)
	if len(out) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(out))
	}

	if produced != 3 {
		t.Errorf("expected 3 productions, got %d", produced)
	}
}

func TestLazySeq_RestartReplaysCachedPrefix(t *testing.T) {
	var produced int

	seq := NewLazySeq(countingSeq(100, &produced))

	first := seq.Take(5)
	second := seq.Take(5)

	if produced != 5 {
		t.Errorf("restart re-ran the producer: %d productions", produced)
	}

	for i := range 5 {
		if first[i] != second[i] {
			t.Errorf("element %d: %v != %v", i, first[i], second[i])
		}
	}
}

func TestLazySeq_AllIteratesFromStart(t *testing.T) {
	var produced int

	seq := NewLazySeq(countingSeq(4, &produced))

	seq.Take(2)

	var values []any
	for v := range seq.All() {
		values = append(values, v)
	}

	if len(values) != 4 {
		t.Fatalf("expected 4 values, got %d", len(values))
	}

	if values[0] != float64(0) || values[3] != float64(3) {
		t.Errorf("unexpected values %v", values)
	}

	if produced != 4 {
		t.Errorf("expected exactly 4 productions, got %d", produced)
	}
}

func TestLazySeq_CollectExhausts(t *testing.T) {
	var produced int

	seq := NewLazySeq(countingSeq(6, &produced))

	out := seq.Collect()
	if len(out) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(out))
	}

	// A second Collect serves entirely from cache.
	again := seq.Collect()
	if len(again) != 6 || produced != 6 {
		t.Errorf("second Collect re-ran the producer (%d productions)", produced)
	}
}

func TestLazySeq_TakePastEnd(t *testing.T) {
	seq := NewLazySeq(countingSeq(2, new(int)))

	out := seq.Take(10)
	if len(out) != 2 {
		t.Errorf("expected 2 elements, got %d", len(out))
	}

	if seq.Produced() != 2 {
		t.Errorf("expected 2 produced, got %d", seq.Produced())
	}
}

func TestLazySeq_EarlyBreakDoesNotExhaust(t *testing.T) {
	var produced int

	seq := NewLazySeq(countingSeq(100, &produced))

	for v := range seq.All() {
		if v == float64(1) {
			break
		}
	}

	if produced > 2 {
		t.Errorf("breaking out produced %d values", produced)
	}

	// Iteration can resume past the break point.
	if out := seq.Take(4); len(out) != 4 {
		t.Errorf("expected 4 elements after resume, got %d", len(out))
	}
}
