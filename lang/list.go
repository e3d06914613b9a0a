package lang

import (
	"sort"
	"strings"
)

// List is the ordered collection type. All transforming methods return new
// lists; a List's contents never change after construction, so lists may be
// shared between contexts and pool workers freely.
type List struct {
	items []any
}

// NewList builds a List from a slice. The slice is copied.
func NewList(items []any) *List {
	l := &List{items: make([]any, len(items))}
	copy(l.items, items)

	return l
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// At returns the element at index i.
func (l *List) At(i int) any { return l.items[i] }

// Items returns a copy of the backing slice.
func (l *List) Items() []any {
	items := make([]any, len(l.items))
	copy(items, l.items)

	return items
}

// Index implements `list[i]` with bounds checking.
func (l *List) Index(i int) (any, error) {
	if i < 0 || i >= len(l.items) {
		return nil, errf(ErrInvalidIndex,
			"index %d out of range for list of length %d", i, len(l.items))
	}

	return l.items[i], nil
}

// Property implements the Object interface.
func (l *List) Property(name string) (any, error) {
	switch name {
	case "length", "size":
		return float64(len(l.items)), nil
	case "empty":
		return len(l.items) == 0, nil
	case "first":
		if len(l.items) == 0 {
			return nil, errf(ErrInvalidIndex, "first of empty list")
		}

		return l.items[0], nil
	case "last":
		if len(l.items) == 0 {
			return nil, errf(ErrInvalidIndex, "last of empty list")
		}

		return l.items[len(l.items)-1], nil
	}

	return nil, noProperty(TypeList, name)
}

// Call implements the Object interface.
func (l *List) Call(name string, args []any) (any, error) {
	switch name {
	case "map":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		fn, err := callbackArg(args[0], "map")
		if err != nil {
			return nil, err
		}

		return l.Map(fn)

	case "filter":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		fn, err := callbackArg(args[0], "filter")
		if err != nil {
			return nil, err
		}

		return l.Filter(fn)

	case "reduce":
		if len(args) != 1 && len(args) != 2 {
			return nil, errf(ErrArityMismatch,
				"reduce expects 1 or 2 arguments, got %d", len(args))
		}

		fn, err := callbackArg(args[0], "reduce")
		if err != nil {
			return nil, err
		}

		return l.Reduce(fn, args[1:]...)

	case "forEach":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		fn, err := callbackArg(args[0], "forEach")
		if err != nil {
			return nil, err
		}

		for _, item := range l.items {
			if _, err := fn.Call([]any{item}); err != nil {
				return nil, err
			}
		}

		return l, nil

	case "count":
		if len(args) == 0 {
			return float64(len(l.items)), nil
		}

		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		fn, err := callbackArg(args[0], "count")
		if err != nil {
			return nil, err
		}

		return l.CountWhere(fn)

	case "sort":
		if len(args) > 2 {
			return nil, errf(ErrArityMismatch,
				"sort expects at most 2 arguments, got %d", len(args))
		}

		var key *Function

		reverse := false

		rest := args

		// A lone boolean is the reverse flag for a natural-order sort.
		if len(rest) == 1 {
			if b, ok := rest[0].(bool); ok {
				return l.Sort(nil, b)
			}
		}

		if len(rest) > 0 {
			var err error

			key, err = callbackArg(rest[0], "sort")
			if err != nil {
				return nil, err
			}

			rest = rest[1:]
		}

		if len(rest) > 0 {
			reverse = truthy(rest[0])
		}

		return l.Sort(key, reverse)

	case "reverse":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return l.Reverse(), nil

	case "unique":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return l.Unique(), nil

	case "join":
		sep := ", "

		if len(args) > 0 {
			s, ok := args[0].(string)
			if !ok {
				return nil, errf(ErrInvalidOperand,
					"join separator must be String, got %s", TypeOf(args[0]))
			}

			sep = s
		}

		return l.Join(sep), nil

	case "sum":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return l.Sum()

	case "contains":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		for _, item := range l.items {
			if equalValues(item, args[0]) {
				return true, nil
			}
		}

		return false, nil

	case "stream":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		return NewStream(l.items), nil
	}

	return nil, noMethod(TypeList, name)
}

func methodArity(name string, args []any, want int) error {
	if len(args) != want {
		return errf(ErrArityMismatch,
			"%s expects %d argument(s), got %d", name, want, len(args))
	}

	return nil
}

// Map applies fn to every element, returning a new list of the results.
func (l *List) Map(fn *Function) (*List, error) {
	out := make([]any, len(l.items))

	for i, item := range l.items {
		v, err := fn.Call([]any{item})
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return &List{items: out}, nil
}

// Filter returns a new list of the elements for which fn is truthy.
func (l *List) Filter(fn *Function) (*List, error) {
	out := make([]any, 0, len(l.items))

	for _, item := range l.items {
		keep, err := fn.Call([]any{item})
		if err != nil {
			return nil, err
		}

		if truthy(keep) {
			out = append(out, item)
		}
	}

	return &List{items: out}, nil
}

// Reduce folds the list with fn(accumulator, element). With no initial value
// the first element seeds the accumulator, and an empty list is an error.
func (l *List) Reduce(fn *Function, initial ...any) (any, error) {
	items := l.items

	var acc any

	switch {
	case len(initial) > 0:
		acc = initial[0]
	case len(items) == 0:
		return nil, ErrEmptyReduce
	default:
		acc = items[0]
		items = items[1:]
	}

	for _, item := range items {
		v, err := fn.Call([]any{acc, item})
		if err != nil {
			return nil, err
		}

		acc = v
	}

	return acc, nil
}

// CountWhere counts the elements for which fn is truthy.
func (l *List) CountWhere(fn *Function) (float64, error) {
	n := 0

	for _, item := range l.items {
		keep, err := fn.Call([]any{item})
		if err != nil {
			return 0, err
		}

		if truthy(keep) {
			n++
		}
	}

	return float64(n), nil
}

// Sort returns a sorted copy. When key is non-nil elements order by key(x);
// otherwise by natural order. The sort is stable.
func (l *List) Sort(key *Function, reverse bool) (*List, error) {
	out := l.Items()

	ranks := out

	if key != nil {
		ranks = make([]any, len(out))

		for i, item := range out {
			r, err := key.Call([]any{item})
			if err != nil {
				return nil, err
			}

			ranks[i] = r
		}
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	var sortErr error

	sort.SliceStable(idx, func(a, b int) bool {
		c, err := compareValues(ranks[idx[a]], ranks[idx[b]])
		if err != nil && sortErr == nil {
			sortErr = err
		}

		if reverse {
			return c > 0
		}

		return c < 0
	})

	if sortErr != nil {
		return nil, sortErr
	}

	sorted := make([]any, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}

	return &List{items: sorted}, nil
}

// Reverse returns a copy with the element order reversed.
func (l *List) Reverse() *List {
	out := make([]any, len(l.items))

	for i, item := range l.items {
		out[len(out)-1-i] = item
	}

	return &List{items: out}
}

// Unique returns a copy with duplicates removed, keeping first occurrences.
func (l *List) Unique() *List {
	out := make([]any, 0, len(l.items))

	for _, item := range l.items {
		dup := false

		for _, kept := range out {
			if equalValues(kept, item) {
				dup = true

				break
			}
		}

		if !dup {
			out = append(out, item)
		}
	}

	return &List{items: out}
}

// Join renders every element and joins them with sep.
func (l *List) Join(sep string) string {
	parts := make([]string, len(l.items))
	for i, item := range l.items {
		parts[i] = formatValue(item)
	}

	return strings.Join(parts, sep)
}

// Sum adds the elements, which must all be numbers.
func (l *List) Sum() (float64, error) {
	var total float64

	for _, item := range l.items {
		n, ok := asNumber(item)
		if !ok {
			return 0, errf(ErrInvalidOperand,
				"sum requires numbers, got %s", TypeOf(item))
		}

		total += n
	}

	return total, nil
}

// String implements fmt.Stringer.
func (l *List) String() string {
	var buf strings.Builder

	buf.WriteString("[")

	for i, item := range l.items {
		if i > 0 {
			buf.WriteString(", ")
		}

		buf.WriteString(formatQuoted(item))
	}

	buf.WriteString("]")

	return buf.String()
}
