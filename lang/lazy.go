package lang

import "iter"

// LazySeq evaluates a sequence on demand, remembering every value produced
// so far. Iteration is restartable: a new iteration replays the cached
// prefix and only then pulls fresh values from the producer. The producer
// runs at most once end to end.
//
// LazySeq is not safe for concurrent iteration.
type LazySeq struct {
	next      func() (any, bool)
	stop      func()
	cached    []any
	exhausted bool
}

// NewLazySeq wraps a producer sequence.
func NewLazySeq(producer iter.Seq[any]) *LazySeq {
	next, stop := iter.Pull(producer)

	return &LazySeq{next: next, stop: stop}
}

// All iterates the sequence from the beginning.
func (l *LazySeq) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := 0; ; i++ {
			v, ok := l.at(i)
			if !ok {
				return
			}

			if !yield(v) {
				return
			}
		}
	}
}

// at returns element i, pulling from the producer as needed.
func (l *LazySeq) at(i int) (any, bool) {
	for i >= len(l.cached) {
		if l.exhausted {
			return nil, false
		}

		v, ok := l.next()
		if !ok {
			l.exhausted = true
			l.stop()

			return nil, false
		}

		l.cached = append(l.cached, v)
	}

	return l.cached[i], true
}

// Take returns the first n elements, or fewer if the sequence ends early.
func (l *LazySeq) Take(n int) []any {
	out := make([]any, 0, n)

	for i := 0; i < n; i++ {
		v, ok := l.at(i)
		if !ok {
			break
		}

		out = append(out, v)
	}

	return out
}

// Collect materializes the entire sequence.
func (l *LazySeq) Collect() []any {
	for i := 0; ; i++ {
		if _, ok := l.at(i); !ok {
			break
		}
	}

	out := make([]any, len(l.cached))
	copy(out, l.cached)

	return out
}

// Produced reports how many elements have been evaluated so far.
func (l *LazySeq) Produced() int { return len(l.cached) }
