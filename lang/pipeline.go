package lang

import "strings"

// Stage transforms a pipeline's current value into the next one.
type Stage func(v any) (any, error)

// Pipeline threads an initial value through a chain of stages. Execution is
// fail-fast: the first stage error aborts the run and surfaces unchanged.
type Pipeline struct {
	initial any
	stages  []Stage
}

// NewPipeline starts a pipeline from an initial value.
func NewPipeline(initial any) *Pipeline {
	return &Pipeline{initial: initial}
}

// Add appends a stage and returns the pipeline for chaining.
func (p *Pipeline) Add(stage Stage) *Pipeline {
	p.stages = append(p.stages, stage)

	return p
}

// Execute runs the stages in order.
func (p *Pipeline) Execute() (any, error) {
	v := p.initial

	for _, stage := range p.stages {
		next, err := stage(v)
		if err != nil {
			return nil, err
		}

		v = next
	}

	return v, nil
}

// String implements fmt.Stringer.
func (p *Pipeline) String() string {
	return "Pipeline(" + formatQuoted(p.initial) + ")"
}

// streamOp is one deferred stage of a Stream.
type streamOp struct {
	kind string // map, filter, take, skip, distinct, sort
	fn   *Function
	n    int
}

// Stream is a lazily evaluated stage list over a fixed source. Stage methods
// only record work; nothing runs until a terminal (collect, count, sum, min,
// max) demands results. Streams are immutable: each stage method returns a
// new Stream sharing the source.
type Stream struct {
	source []any
	ops    []streamOp
}

// NewStream builds a Stream over items. The slice is not copied; callers
// hand over ownership.
func NewStream(items []any) *Stream {
	return &Stream{source: items}
}

func (s *Stream) with(op streamOp) *Stream {
	ops := make([]streamOp, len(s.ops)+1)
	copy(ops, s.ops)
	ops[len(s.ops)] = op

	return &Stream{source: s.source, ops: ops}
}

// Property implements the Object interface.
func (s *Stream) Property(name string) (any, error) {
	return nil, noProperty(TypeStream, name)
}

// Call implements the Object interface.
func (s *Stream) Call(name string, args []any) (any, error) {
	switch name {
	case "map", "filter":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		fn, err := callbackArg(args[0], name)
		if err != nil {
			return nil, err
		}

		return s.with(streamOp{kind: name, fn: fn}), nil

	case "take", "skip":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		n, ok := asNumber(args[0])
		if !ok {
			return nil, errf(ErrInvalidOperand,
				"%s requires a Number, got %s", name, TypeOf(args[0]))
		}

		return s.with(streamOp{kind: name, n: int(n)}), nil

	case "distinct":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return s.with(streamOp{kind: name}), nil

	case "sort":
		var key *Function

		if len(args) > 0 {
			var err error

			key, err = callbackArg(args[0], "sort")
			if err != nil {
				return nil, err
			}
		}

		return s.with(streamOp{kind: name, fn: key}), nil

	case "collect":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		items, err := s.run()
		if err != nil {
			return nil, err
		}

		return &List{items: items}, nil

	case "count":
		items, err := s.run()
		if err != nil {
			return nil, err
		}

		return float64(len(items)), nil

	case "sum":
		items, err := s.run()
		if err != nil {
			return nil, err
		}

		return (&List{items: items}).Sum()

	case "min", "max":
		items, err := s.run()
		if err != nil {
			return nil, err
		}

		return extremum(items, name == "max")
	}

	return nil, noMethod(TypeStream, name)
}

// run materializes the stream by applying each recorded stage in order.
func (s *Stream) run() ([]any, error) {
	items := s.source

	for _, op := range s.ops {
		var err error

		items, err = applyStreamOp(items, op)
		if err != nil {
			return nil, err
		}
	}

	return items, nil
}

func applyStreamOp(items []any, op streamOp) ([]any, error) {
	switch op.kind {
	case "map":
		out := make([]any, len(items))

		for i, item := range items {
			v, err := op.fn.Call([]any{item})
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil

	case "filter":
		out := make([]any, 0, len(items))

		for _, item := range items {
			keep, err := op.fn.Call([]any{item})
			if err != nil {
				return nil, err
			}

			if truthy(keep) {
				out = append(out, item)
			}
		}

		return out, nil

	case "take":
		n := min(max(op.n, 0), len(items))

		return items[:n], nil

	case "skip":
		n := min(max(op.n, 0), len(items))

		return items[n:], nil

	case "distinct":
		return (&List{items: items}).Unique().items, nil

	case "sort":
		sorted, err := (&List{items: items}).Sort(op.fn, false)
		if err != nil {
			return nil, err
		}

		return sorted.items, nil
	}

	return items, nil
}

// extremum finds the minimum or maximum of items by natural order.
func extremum(items []any, wantMax bool) (any, error) {
	if len(items) == 0 {
		return nil, errf(ErrInvalidOperand, "empty sequence has no extremum")
	}

	best := items[0]

	for _, item := range items[1:] {
		c, err := compareValues(item, best)
		if err != nil {
			return nil, err
		}

		if (wantMax && c > 0) || (!wantMax && c < 0) {
			best = item
		}
	}

	return best, nil
}

// String implements fmt.Stringer.
func (s *Stream) String() string {
	if len(s.ops) == 0 {
		return "Stream"
	}

	kinds := make([]string, len(s.ops))
	for i, op := range s.ops {
		kinds[i] = op.kind
	}

	return "Stream(" + strings.Join(kinds, " | ") + ")"
}
