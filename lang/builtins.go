package lang

import (
	"fmt"
	"strings"
)

// registerBuiltins seeds the root scope with the builtin function library
// and the object constructors. Builtins validate their own arity because
// several are variadic.
func registerBuiltins(ip *Interp, root *ExecutionContext) {
	for name, impl := range builtinTable(ip) {
		root.SetFunc(name, &Function{Name: name, Fn: impl})
	}
}

type builtinImpl func(args []any) (any, error)

func builtinTable(ip *Interp) map[string]builtinImpl {
	return map[string]builtinImpl{
		// Collection transforms
		"map":     builtinMap,
		"filter":  builtinFilter,
		"reduce":  builtinReduce,
		"forEach": builtinForEach,
		"range":   builtinRange,
		"sum":     builtinSum,
		"min":     func(args []any) (any, error) { return builtinExtremum("min", args) },
		"max":     func(args []any) (any, error) { return builtinExtremum("max", args) },
		"sort":    builtinSort,
		"len":     builtinLen,
		"reverse": builtinReverse,
		"unique":  builtinUnique,

		// Strings
		"split":      builtinSplit,
		"join":       builtinJoin,
		"upper":      stringFn("upper", strings.ToUpper),
		"lower":      stringFn("lower", strings.ToLower),
		"trim":       stringFn("trim", strings.TrimSpace),
		"contains":   builtinContains,
		"startsWith": affixFn("startsWith", strings.HasPrefix),
		"endsWith":   affixFn("endsWith", strings.HasSuffix),

		// Conversions and inspection
		"str":    castFn("str", TypeString),
		"int":    builtinInt,
		"float":  castFn("float", TypeNumber),
		"bool":   castFn("bool", TypeBoolean),
		"typeof": builtinTypeof,
		"equals": builtinEquals,

		"print": ip.builtinPrint,

		// Object constructors
		"File":      builtinFile,
		"Dir":       ip.builtinDir,
		"Files":     ip.builtinFiles,
		"Process":   builtinProcess,
		"Processes": builtinProcesses,

		// Performance layer
		"parallelMap":    ip.builtinParallelMap,
		"parallelFilter": ip.builtinParallelFilter,
		"batchProcess":   ip.builtinBatchProcess,
		"cacheStats":     ip.builtinCacheStats,
	}
}

func builtinArity(name string, args []any, want int) error {
	if len(args) != want {
		return errf(ErrArityMismatch,
			"%s expects %d argument(s), got %d", name, want, len(args))
	}

	return nil
}

func listArg(name string, v any) (*List, error) {
	l, ok := v.(*List)
	if !ok {
		return nil, errf(ErrInvalidOperand,
			"%s requires a List, got %s", name, TypeOf(v))
	}

	return l, nil
}

func stringArg(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errf(ErrInvalidOperand,
			"%s requires a String, got %s", name, TypeOf(v))
	}

	return s, nil
}

// fnAndList extracts a callback and a list from the first two arguments in
// either order. Transforms are callable directly as map(fn, list) and as
// pipeline stages, where the upstream list arrives as the first argument.
func fnAndList(name string, args []any) (*Function, *List, error) {
	if list, ok := args[0].(*List); ok {
		fn, err := callbackArg(args[1], name)
		if err != nil {
			return nil, nil, err
		}

		return fn, list, nil
	}

	fn, err := callbackArg(args[0], name)
	if err != nil {
		return nil, nil, err
	}

	list, err := listArg(name, args[1])
	if err != nil {
		return nil, nil, err
	}

	return fn, list, nil
}

func builtinMap(args []any) (any, error) {
	if err := builtinArity("map", args, 2); err != nil {
		return nil, err
	}

	fn, list, err := fnAndList("map", args)
	if err != nil {
		return nil, err
	}

	return list.Map(fn)
}

func builtinFilter(args []any) (any, error) {
	if err := builtinArity("filter", args, 2); err != nil {
		return nil, err
	}

	fn, list, err := fnAndList("filter", args)
	if err != nil {
		return nil, err
	}

	return list.Filter(fn)
}

func builtinReduce(args []any) (any, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, errf(ErrArityMismatch,
			"reduce expects 2 or 3 arguments, got %d", len(args))
	}

	fn, list, err := fnAndList("reduce", args)
	if err != nil {
		return nil, err
	}

	return list.Reduce(fn, args[2:]...)
}

func builtinForEach(args []any) (any, error) {
	if err := builtinArity("forEach", args, 2); err != nil {
		return nil, err
	}

	fn, list, err := fnAndList("forEach", args)
	if err != nil {
		return nil, err
	}

	return list.Call("forEach", []any{fn})
}

// builtinRange mirrors the numeric range constructor: range(end),
// range(start, end), or range(start, end, step). The end is exclusive.
func builtinRange(args []any) (any, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, errf(ErrArityMismatch,
			"range expects 1 to 3 arguments, got %d", len(args))
	}

	nums := make([]float64, len(args))

	for i, arg := range args {
		n, ok := asNumber(arg)
		if !ok {
			return nil, errf(ErrInvalidOperand,
				"range requires Numbers, got %s", TypeOf(arg))
		}

		nums[i] = n
	}

	start, end, step := float64(0), float64(0), float64(1)

	switch len(nums) {
	case 1:
		end = nums[0]
	case 2:
		start, end = nums[0], nums[1]
	case 3:
		start, end, step = nums[0], nums[1], nums[2]
	}

	if step == 0 {
		return nil, errf(ErrInvalidOperand, "range step cannot be zero")
	}

	var items []any

	if step > 0 {
		for v := start; v < end; v += step {
			items = append(items, v)
		}
	} else {
		for v := start; v > end; v += step {
			items = append(items, v)
		}
	}

	return &List{items: items}, nil
}

func builtinSum(args []any) (any, error) {
	if err := builtinArity("sum", args, 1); err != nil {
		return nil, err
	}

	list, err := listArg("sum", args[0])
	if err != nil {
		return nil, err
	}

	return list.Sum()
}

// builtinExtremum handles min and max over either a single list or two or
// more scalar arguments.
func builtinExtremum(name string, args []any) (any, error) {
	if len(args) == 0 {
		return nil, errf(ErrArityMismatch, "%s expects arguments", name)
	}

	items := args
	if len(args) == 1 {
		list, err := listArg(name, args[0])
		if err != nil {
			return nil, err
		}

		items = list.items
	}

	return extremum(items, name == "max")
}

// builtinSort sorts a list, optionally by a key callback, optionally in
// reverse. Trailing arguments thread straight through to the list method so
// sort(list, key, true) and list.sort(key, true) share one path.
func builtinSort(args []any) (any, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, errf(ErrArityMismatch,
			"sort expects 1 to 3 arguments, got %d", len(args))
	}

	list, err := listArg("sort", args[0])
	if err != nil {
		return nil, err
	}

	return list.Call("sort", args[1:])
}

func builtinLen(args []any) (any, error) {
	if err := builtinArity("len", args, 1); err != nil {
		return nil, err
	}

	switch v := args[0].(type) {
	case string:
		return float64(len([]rune(v))), nil
	case *List:
		return float64(v.Len()), nil
	case map[string]any:
		return float64(len(v)), nil
	}

	return nil, errf(ErrInvalidOperand,
		"len requires a String, List, or object, got %s", TypeOf(args[0]))
}

func builtinReverse(args []any) (any, error) {
	if err := builtinArity("reverse", args, 1); err != nil {
		return nil, err
	}

	switch v := args[0].(type) {
	case *List:
		return v.Reverse(), nil
	case string:
		runes := []rune(v)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}

		return string(runes), nil
	}

	return nil, errf(ErrInvalidOperand,
		"reverse requires a List or String, got %s", TypeOf(args[0]))
}

func builtinUnique(args []any) (any, error) {
	if err := builtinArity("unique", args, 1); err != nil {
		return nil, err
	}

	list, err := listArg("unique", args[0])
	if err != nil {
		return nil, err
	}

	return list.Unique(), nil
}

func builtinSplit(args []any) (any, error) {
	if err := builtinArity("split", args, 2); err != nil {
		return nil, err
	}

	s, err := stringArg("split", args[0])
	if err != nil {
		return nil, err
	}

	sep, err := stringArg("split", args[1])
	if err != nil {
		return nil, err
	}

	parts := strings.Split(s, sep)

	items := make([]any, len(parts))
	for i, part := range parts {
		items[i] = part
	}

	return &List{items: items}, nil
}

func builtinJoin(args []any) (any, error) {
	if err := builtinArity("join", args, 2); err != nil {
		return nil, err
	}

	list, err := listArg("join", args[0])
	if err != nil {
		return nil, err
	}

	sep, err := stringArg("join", args[1])
	if err != nil {
		return nil, err
	}

	return list.Join(sep), nil
}

func stringFn(name string, fn func(string) string) builtinImpl {
	return func(args []any) (any, error) {
		if err := builtinArity(name, args, 1); err != nil {
			return nil, err
		}

		s, err := stringArg(name, args[0])
		if err != nil {
			return nil, err
		}

		return fn(s), nil
	}
}

func affixFn(name string, fn func(string, string) bool) builtinImpl {
	return func(args []any) (any, error) {
		if err := builtinArity(name, args, 2); err != nil {
			return nil, err
		}

		s, err := stringArg(name, args[0])
		if err != nil {
			return nil, err
		}

		affix, err := stringArg(name, args[1])
		if err != nil {
			return nil, err
		}

		return fn(s, affix), nil
	}
}

// builtinContains searches a string for a substring or a list for an element.
func builtinContains(args []any) (any, error) {
	if err := builtinArity("contains", args, 2); err != nil {
		return nil, err
	}

	switch v := args[0].(type) {
	case string:
		sub, err := stringArg("contains", args[1])
		if err != nil {
			return nil, err
		}

		return strings.Contains(v, sub), nil

	case *List:
		return v.Call("contains", args[1:])
	}

	return nil, errf(ErrInvalidOperand,
		"contains requires a String or List, got %s", TypeOf(args[0]))
}

func castFn(name string, target ShellType) builtinImpl {
	return func(args []any) (any, error) {
		if err := builtinArity(name, args, 1); err != nil {
			return nil, err
		}

		return Cast(args[0], target)
	}
}

func builtinInt(args []any) (any, error) {
	if err := builtinArity("int", args, 1); err != nil {
		return nil, err
	}

	v, err := Cast(args[0], TypeNumber)
	if err != nil {
		return nil, err
	}

	return float64(int64(v.(float64))), nil
}

func builtinTypeof(args []any) (any, error) {
	if err := builtinArity("typeof", args, 1); err != nil {
		return nil, err
	}

	return TypeOf(args[0]).String(), nil
}

func builtinEquals(args []any) (any, error) {
	if err := builtinArity("equals", args, 2); err != nil {
		return nil, err
	}

	return equalValues(args[0], args[1]), nil
}

func (ip *Interp) builtinPrint(args []any) (any, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = formatValue(arg)
	}

	if _, err := fmt.Fprintln(ip.opts.stdout, strings.Join(parts, " ")); err != nil {
		return nil, WrapError(err)
	}

	if len(args) == 1 {
		return args[0], nil
	}

	return nil, nil
}

func builtinFile(args []any) (any, error) {
	if err := builtinArity("File", args, 1); err != nil {
		return nil, err
	}

	path, err := stringArg("File", args[0])
	if err != nil {
		return nil, err
	}

	return NewFile(path), nil
}

// builtinDir constructs a Directory wired to the interpreter's operation
// cache, so repeated find() calls over the same tree are served from memory.
func (ip *Interp) builtinDir(args []any) (any, error) {
	if err := builtinArity("Dir", args, 1); err != nil {
		return nil, err
	}

	path, err := stringArg("Dir", args[0])
	if err != nil {
		return nil, err
	}

	return NewCachedDirectory(path, ip.cache), nil
}

// builtinFiles enumerates files matching a glob: Files(pattern) searches the
// working directory, Files(pattern, base) searches under base. Enumeration
// results go through the operation cache.
func (ip *Interp) builtinFiles(args []any) (any, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, errf(ErrArityMismatch,
			"Files expects 1 or 2 arguments, got %d", len(args))
	}

	pattern, err := stringArg("Files", args[0])
	if err != nil {
		return nil, err
	}

	base := "."

	if len(args) == 2 {
		base, err = stringArg("Files", args[1])
		if err != nil {
			return nil, err
		}
	}

	key := ip.cache.Fingerprint("files", pattern, base)

	if hit, ok := ip.cache.Get(key); ok {
		return hit.(*List), nil
	}

	items, err := globFiles(base, pattern)
	if err != nil {
		return nil, err
	}

	found := &List{items: items}
	ip.cache.Set(key, found)

	return found, nil
}

// builtinProcess builds a Process from a command string or attaches to a
// running PID.
func builtinProcess(args []any) (any, error) {
	if err := builtinArity("Process", args, 1); err != nil {
		return nil, err
	}

	if pid, ok := asNumber(args[0]); ok {
		return AttachProcess(int32(pid))
	}

	command, err := stringArg("Process", args[0])
	if err != nil {
		return nil, err
	}

	return NewProcess(command), nil
}

func builtinProcesses(args []any) (any, error) {
	if err := builtinArity("Processes", args, 0); err != nil {
		return nil, err
	}

	return SystemSingleton().Processes()
}

func (ip *Interp) builtinParallelMap(args []any) (any, error) {
	if err := builtinArity("parallelMap", args, 2); err != nil {
		return nil, err
	}

	fn, list, err := fnAndList("parallelMap", args)
	if err != nil {
		return nil, err
	}

	results, err := ip.pool.Map(ip.runCtx, func(v any) (any, error) {
		return fn.Call([]any{v})
	}, list.items, false)
	if err != nil {
		return nil, err
	}

	return &List{items: results}, nil
}

func (ip *Interp) builtinParallelFilter(args []any) (any, error) {
	if err := builtinArity("parallelFilter", args, 2); err != nil {
		return nil, err
	}

	fn, list, err := fnAndList("parallelFilter", args)
	if err != nil {
		return nil, err
	}

	results, err := ip.pool.Filter(ip.runCtx, func(v any) (any, error) {
		return fn.Call([]any{v})
	}, list.items, false)
	if err != nil {
		return nil, err
	}

	return &List{items: results}, nil
}

func (ip *Interp) builtinBatchProcess(args []any) (any, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, errf(ErrArityMismatch,
			"batchProcess expects 2 or 3 arguments, got %d", len(args))
	}

	fn, list, err := fnAndList("batchProcess", args)
	if err != nil {
		return nil, err
	}

	batchSize := 10

	if len(args) == 3 {
		n, ok := asNumber(args[2])
		if !ok {
			return nil, errf(ErrInvalidOperand,
				"batchProcess size must be Number, got %s", TypeOf(args[2]))
		}

		batchSize = int(n)
	}

	var items []any

	for v, err := range ip.pool.Batch(ip.runCtx, func(v any) (any, error) {
		return fn.Call([]any{v})
	}, list.items, batchSize) {
		if err != nil {
			return nil, err
		}

		items = append(items, v)
	}

	return &List{items: items}, nil
}

func (ip *Interp) builtinCacheStats(args []any) (any, error) {
	if err := builtinArity("cacheStats", args, 0); err != nil {
		return nil, err
	}

	stats := ip.cache.Stats()

	return map[string]any{
		"size":     float64(stats.Size),
		"max_size": float64(stats.MaxSize),
		"hits":     float64(stats.Hits),
		"misses":   float64(stats.Misses),
		"hit_rate": stats.HitRate,
	}, nil
}
