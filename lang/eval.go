package lang

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/hushlang/hush/log"
)

// Interp is a hush interpreter: a root scope pre-seeded with builtins, an
// operation cache, and a parallel executor. One Interp serves one script or
// one interactive session; Execute may be called repeatedly and bindings
// persist across calls.
type Interp struct {
	opts  *options
	root  *ExecutionContext
	cache *Cache
	pool  *ParallelExecutor
	log   log.Logger

	// runCtx is the context of the Execute call in progress. Builtins that
	// fan out work read it for cancellation.
	runCtx context.Context
}

// New creates an interpreter.
func New(opts ...Option) *Interp {
	o := applyOptions(opts)

	ioWorkers := o.ioWorkers
	if ioWorkers == 0 {
		ioWorkers = min(32, runtime.NumCPU()+4)
	}

	cpuWorkers := o.cpuWorkers
	if cpuWorkers == 0 {
		cpuWorkers = runtime.NumCPU()
	}

	ip := &Interp{
		opts:   o,
		cache:  NewCache(o.cacheSize, o.cacheTTL),
		pool:   NewParallelExecutorSize(ioWorkers, cpuWorkers),
		log:    o.logger,
		runCtx: context.Background(),
	}

	ip.root = NewContext(nil)
	registerBuiltins(ip, ip.root)
	ip.root.SetVar("System", SystemSingleton())

	return ip
}

// Root returns the interpreter's root scope.
func (ip *Interp) Root() *ExecutionContext { return ip.root }

// CacheStats returns a snapshot of the operation cache counters.
func (ip *Interp) CacheStats() CacheStats { return ip.cache.Stats() }

// Shutdown waits for any in-flight parallel work to drain.
func (ip *Interp) Shutdown() { ip.pool.Shutdown() }

// Execute parses and evaluates source, converting any failure into a failed
// Result. The value of a program is the value of its last statement.
func (ip *Interp) Execute(ctx context.Context, source string) Result {
	started := time.Now()

	prog, err := Parse(source)
	if err != nil {
		ip.log.DebugContext(ctx, "parse failed",
			slog.String("error", err.Error()))

		return failResult(err)
	}

	ip.log.TraceContext(ctx, "parsed program",
		slog.Int("statements", len(prog.Children)))

	ip.runCtx = ctx
	defer func() { ip.runCtx = context.Background() }()

	out, err := ip.evalStatements(ctx, prog.Children, ip.root)
	if err != nil {
		ip.log.DebugContext(ctx, "eval failed",
			slog.String("error", err.Error()))

		return failResult(err)
	}

	if out.returned {
		return failResult(ErrReturnOutside)
	}

	ip.log.TraceContext(ctx, "evaluated program",
		slog.Duration("elapsed", time.Since(started)))

	return okResult(out.value)
}

// EvalNode evaluates a parsed node against the interpreter's root scope.
func (ip *Interp) EvalNode(ctx context.Context, n *Node) (any, error) {
	return ip.eval(ctx, n, ip.root)
}

// outcome is the result of a statement: its value, plus whether a return
// statement fired. A body stops at the first returned outcome.
type outcome struct {
	value    any
	returned bool
}

func (ip *Interp) evalStatements(
	ctx context.Context,
	stmts []*Node,
	ec *ExecutionContext,
) (outcome, error) {
	var out outcome

	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return outcome{}, err
		}

		var err error

		out, err = ip.evalStatement(ctx, stmt, ec)
		if err != nil {
			return outcome{}, err
		}

		if out.returned {
			return out, nil
		}
	}

	return out, nil
}

func (ip *Interp) evalStatement(
	ctx context.Context,
	n *Node,
	ec *ExecutionContext,
) (outcome, error) {
	switch n.Kind {
	case NodeLet:
		v, err := ip.eval(ctx, n.Children[0], ec)
		if err != nil {
			return outcome{}, err
		}

		ec.SetVar(n.Text, v)

		return outcome{value: v}, nil

	case NodeFnDef:
		fn := ip.makeUserFunction(n.Text, n.Params, n.Children, ec)
		ec.SetFunc(n.Text, fn)

		return outcome{value: fn}, nil

	case NodeReturn:
		var v any

		if len(n.Children) > 0 {
			var err error

			v, err = ip.eval(ctx, n.Children[0], ec)
			if err != nil {
				return outcome{}, err
			}
		}

		return outcome{value: v, returned: true}, nil

	case NodeIf:
		cond, err := ip.eval(ctx, n.Children[0], ec)
		if err != nil {
			return outcome{}, err
		}

		if truthy(cond) {
			return ip.evalStatements(ctx, n.Children[1].Children, ec)
		}

		if len(n.Children) > 2 {
			return ip.evalStatements(ctx, n.Children[2].Children, ec)
		}

		return outcome{}, nil

	case NodeExprStmt:
		v, err := ip.eval(ctx, n.Children[0], ec)
		if err != nil {
			return outcome{}, err
		}

		return outcome{value: v}, nil
	}

	v, err := ip.eval(ctx, n, ec)
	if err != nil {
		return outcome{}, err
	}

	return outcome{value: v}, nil
}

func (ip *Interp) eval(
	ctx context.Context,
	n *Node,
	ec *ExecutionContext,
) (any, error) {
	switch n.Kind {
	case NodeNumberLit:
		return n.Num, nil

	case NodeStringLit:
		return n.Text, nil

	case NodeBoolLit:
		return n.Bool, nil

	case NodeIdent:
		return ec.Resolve(n.Text)

	case NodeArrayLit:
		items := make([]any, len(n.Children))

		for i, elem := range n.Children {
			v, err := ip.eval(ctx, elem, ec)
			if err != nil {
				return nil, err
			}

			items[i] = v
		}

		return &List{items: items}, nil

	case NodeObjectLit:
		obj := make(map[string]any, len(n.Children))

		for _, entry := range n.Children {
			v, err := ip.eval(ctx, entry.Children[0], ec)
			if err != nil {
				return nil, err
			}

			obj[entry.Text] = v
		}

		return obj, nil

	case NodeArrow:
		return ip.makeArrowFunction(n, ec), nil

	case NodeUnary:
		return ip.evalUnary(ctx, n, ec)

	case NodeBinary:
		return ip.evalBinary(ctx, n, ec)

	case NodePipeline:
		return ip.evalPipeline(ctx, n, ec)

	case NodeProperty:
		return ip.evalProperty(ctx, n, ec)

	case NodeIndex:
		return ip.evalIndex(ctx, n, ec)

	case NodeCall:
		return ip.evalCall(ctx, n, ec)
	}

	// Statement nodes reached in expression position (e.g. a block's last
	// statement) fall back to statement evaluation.
	out, err := ip.evalStatement(ctx, n, ec)
	if err != nil {
		return nil, err
	}

	return out.value, nil
}

func (ip *Interp) evalUnary(
	ctx context.Context,
	n *Node,
	ec *ExecutionContext,
) (any, error) {
	v, err := ip.eval(ctx, n.Children[0], ec)
	if err != nil {
		return nil, err
	}

	switch n.Text {
	case "!":
		return !truthy(v), nil
	case "-":
		num, ok := asNumber(v)
		if !ok {
			return nil, errf(ErrInvalidOperand,
				"cannot negate %s", TypeOf(v))
		}

		return -num, nil
	}

	return nil, errf(ErrInvalidOperand, "unknown unary operator %q", n.Text)
}

func (ip *Interp) evalBinary(
	ctx context.Context,
	n *Node,
	ec *ExecutionContext,
) (any, error) {
	left, err := ip.eval(ctx, n.Children[0], ec)
	if err != nil {
		return nil, err
	}

	right, err := ip.eval(ctx, n.Children[1], ec)
	if err != nil {
		return nil, err
	}

	switch n.Text {
	case "&&":
		// Both operands are evaluated; the deciding operand is the value.
		if !truthy(left) {
			return left, nil
		}

		return right, nil

	case "||":
		if truthy(left) {
			return left, nil
		}

		return right, nil

	case "==":
		return equalValues(left, right), nil

	case "!=":
		return !equalValues(left, right), nil

	case "<", ">", "<=", ">=":
		c, err := compareValues(left, right)
		if err != nil {
			return nil, err
		}

		switch n.Text {
		case "<":
			return c < 0, nil
		case ">":
			return c > 0, nil
		case "<=":
			return c <= 0, nil
		default:
			return c >= 0, nil
		}
	}

	return ip.evalArithmetic(n.Text, left, right)
}

func (ip *Interp) evalArithmetic(op string, left, right any) (any, error) {
	if op == "+" {
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}

		if ll, ok := left.(*List); ok {
			if rl, ok := right.(*List); ok {
				return &List{items: append(ll.Items(), rl.items...)}, nil
			}
		}
	}

	ln, lok := asNumber(left)
	rn, rok := asNumber(right)

	if !lok || !rok {
		return nil, errf(ErrInvalidOperand,
			"cannot apply %q to %s and %s", op, TypeOf(left), TypeOf(right))
	}

	switch op {
	case "+":
		return ln + rn, nil
	case "-":
		return ln - rn, nil
	case "*":
		return ln * rn, nil
	case "/":
		if rn == 0 {
			return nil, errf(ErrInvalidOperand, "division by zero")
		}

		return ln / rn, nil
	case "%":
		if rn == 0 {
			return nil, errf(ErrInvalidOperand, "modulo by zero")
		}

		return math.Mod(ln, rn), nil
	}

	return nil, errf(ErrInvalidOperand, "unknown operator %q", op)
}

// evalPipeline threads the upstream value into the downstream stage:
// a call stage receives it prepended to the call's own arguments, and a bare
// callable becomes a single-argument stage.
func (ip *Interp) evalPipeline(
	ctx context.Context,
	n *Node,
	ec *ExecutionContext,
) (any, error) {
	upstream, err := ip.eval(ctx, n.Children[0], ec)
	if err != nil {
		return nil, err
	}

	stage := n.Children[1]

	pipe := NewPipeline(upstream)

	if stage.Kind == NodeCall && stage.Children[0].Kind != NodeProperty {
		callee, err := ip.eval(ctx, stage.Children[0], ec)
		if err != nil {
			return nil, err
		}

		fn, ok := callee.(*Function)
		if !ok {
			return nil, errf(ErrPipelineStage,
				"pipeline stage is not callable (%s)", TypeOf(callee))
		}

		args, err := ip.evalArgs(ctx, stage.Children[1:], ec)
		if err != nil {
			return nil, err
		}

		return pipe.Add(func(v any) (any, error) {
			return fn.Call(append([]any{v}, args...))
		}).Execute()
	}

	// Method-call stages and bare expressions evaluate first; the result
	// must itself be callable.
	v, err := ip.eval(ctx, stage, ec)
	if err != nil {
		return nil, err
	}

	fn, ok := v.(*Function)
	if !ok {
		return nil, errf(ErrPipelineStage,
			"pipeline stage is not callable (%s)", TypeOf(v))
	}

	return pipe.Add(func(v any) (any, error) {
		return fn.Call([]any{v})
	}).Execute()
}

func (ip *Interp) evalProperty(
	ctx context.Context,
	n *Node,
	ec *ExecutionContext,
) (any, error) {
	recv, err := ip.eval(ctx, n.Children[0], ec)
	if err != nil {
		return nil, err
	}

	return ip.property(recv, n.Text)
}

func (ip *Interp) property(recv any, name string) (any, error) {
	if obj, ok := recv.(Object); ok {
		return obj.Property(name)
	}

	if m, ok := recv.(map[string]any); ok {
		v, ok := m[name]
		if !ok {
			return nil, errf(ErrNoSuchProperty,
				"object has no property '%s'", name)
		}

		return v, nil
	}

	if s, ok := recv.(string); ok && name == "length" {
		return float64(len([]rune(s))), nil
	}

	return nil, noProperty(TypeOf(recv), name)
}

func (ip *Interp) evalIndex(
	ctx context.Context,
	n *Node,
	ec *ExecutionContext,
) (any, error) {
	recv, err := ip.eval(ctx, n.Children[0], ec)
	if err != nil {
		return nil, err
	}

	index, err := ip.eval(ctx, n.Children[1], ec)
	if err != nil {
		return nil, err
	}

	switch r := recv.(type) {
	case *List:
		i, ok := asNumber(index)
		if !ok {
			return nil, errf(ErrInvalidIndex,
				"list index must be Number, got %s", TypeOf(index))
		}

		return r.Index(int(i))

	case string:
		i, ok := asNumber(index)
		if !ok {
			return nil, errf(ErrInvalidIndex,
				"string index must be Number, got %s", TypeOf(index))
		}

		runes := []rune(r)
		if int(i) < 0 || int(i) >= len(runes) {
			return nil, errf(ErrInvalidIndex,
				"index %d out of range for string of length %d",
				int(i), len(runes))
		}

		return string(runes[int(i)]), nil

	case map[string]any:
		key, ok := index.(string)
		if !ok {
			return nil, errf(ErrInvalidIndex,
				"object key must be String, got %s", TypeOf(index))
		}

		v, ok := r[key]
		if !ok {
			return nil, errf(ErrNoSuchProperty,
				"object has no property '%s'", key)
		}

		return v, nil
	}

	return nil, errf(ErrInvalidIndex, "cannot index %s", TypeOf(recv))
}

func (ip *Interp) evalCall(
	ctx context.Context,
	n *Node,
	ec *ExecutionContext,
) (any, error) {
	callee := n.Children[0]

	args, err := ip.evalArgs(ctx, n.Children[1:], ec)
	if err != nil {
		return nil, err
	}

	// Method dispatch: receiver.method(args)
	if callee.Kind == NodeProperty {
		recv, err := ip.eval(ctx, callee.Children[0], ec)
		if err != nil {
			return nil, err
		}

		if obj, ok := recv.(Object); ok {
			return obj.Call(callee.Text, args)
		}

		// A map property holding a function is callable too.
		if m, ok := recv.(map[string]any); ok {
			if fn, ok := m[callee.Text].(*Function); ok {
				return fn.Call(args)
			}
		}

		return nil, noMethod(TypeOf(recv), callee.Text)
	}

	v, err := ip.eval(ctx, callee, ec)
	if err != nil {
		return nil, err
	}

	fn, ok := v.(*Function)
	if !ok {
		return nil, errf(ErrNotCallable, "%s", TypeOf(v))
	}

	return fn.Call(args)
}

func (ip *Interp) evalArgs(
	ctx context.Context,
	nodes []*Node,
	ec *ExecutionContext,
) ([]any, error) {
	args := make([]any, len(nodes))

	for i, node := range nodes {
		v, err := ip.eval(ctx, node, ec)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return args, nil
}

// makeUserFunction builds the callable for a named fn definition. Each call
// runs the body in a fresh child of the defining scope with parameters bound
// as variables; a return statement ends the body early, and otherwise the
// last statement's value is the call's value.
func (ip *Interp) makeUserFunction(
	name string,
	params []string,
	body []*Node,
	defining *ExecutionContext,
) *Function {
	return &Function{
		Name:   name,
		Params: params,
		Fn: func(args []any) (any, error) {
			if len(args) != len(params) {
				return nil, errf(ErrArityMismatch,
					"function '%s' expects %d argument(s), got %d",
					name, len(params), len(args))
			}

			frame := defining.Child()

			for i, param := range params {
				frame.SetVar(param, args[i])
			}

			out, err := ip.evalStatements(ip.runCtx, body, frame)
			if err != nil {
				return nil, err
			}

			return out.value, nil
		},
	}
}

// makeArrowFunction builds the callable for an arrow expression. The body is
// a single expression evaluated in a child of the defining scope.
func (ip *Interp) makeArrowFunction(n *Node, defining *ExecutionContext) *Function {
	params := n.Params
	body := n.Children[0]

	return &Function{
		Params: params,
		Fn: func(args []any) (any, error) {
			if len(args) != len(params) {
				return nil, errf(ErrArityMismatch,
					"function expects %d argument(s), got %d",
					len(params), len(args))
			}

			frame := defining.Child()

			for i, param := range params {
				frame.SetVar(param, args[i])
			}

			return ip.eval(ip.runCtx, body, frame)
		},
	}
}
