package lang

import "sort"

// ExecutionContext is one frame of the lexical scope chain. Variables and
// functions live in separate namespaces; lookups walk parent links from the
// current frame to the root. Bindings made in a child never leak upward, so
// an inner let shadows an outer binding for the child's lifetime only.
type ExecutionContext struct {
	parent    *ExecutionContext
	variables map[string]any
	functions map[string]*Function
}

// NewContext creates a scope frame. A nil parent makes a root frame.
func NewContext(parent *ExecutionContext) *ExecutionContext {
	return &ExecutionContext{
		parent:    parent,
		variables: make(map[string]any),
		functions: make(map[string]*Function),
	}
}

// Child creates a frame whose lookups fall through to this one.
func (c *ExecutionContext) Child() *ExecutionContext {
	return NewContext(c)
}

// SetVar binds a variable in this frame, shadowing any outer binding.
func (c *ExecutionContext) SetVar(name string, value any) {
	c.variables[name] = value
}

// GetVar resolves a variable through the scope chain.
func (c *ExecutionContext) GetVar(name string) (any, bool) {
	for frame := c; frame != nil; frame = frame.parent {
		if v, ok := frame.variables[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// SetFunc binds a function in this frame.
func (c *ExecutionContext) SetFunc(name string, fn *Function) {
	c.functions[name] = fn
}

// GetFunc resolves a function through the scope chain.
func (c *ExecutionContext) GetFunc(name string) (*Function, bool) {
	for frame := c; frame != nil; frame = frame.parent {
		if fn, ok := frame.functions[name]; ok {
			return fn, true
		}
	}

	return nil, false
}

// Resolve looks an identifier up as a variable first, then as a function.
func (c *ExecutionContext) Resolve(name string) (any, error) {
	if v, ok := c.GetVar(name); ok {
		return v, nil
	}

	if fn, ok := c.GetFunc(name); ok {
		return fn, nil
	}

	return nil, errf(ErrUndefinedIdent, "%s", name)
}

// Names returns every identifier visible from this frame, sorted. Used for
// interactive completion.
func (c *ExecutionContext) Names() []string {
	seen := make(map[string]struct{})

	for frame := c; frame != nil; frame = frame.parent {
		for name := range frame.variables {
			seen[name] = struct{}{}
		}

		for name := range frame.functions {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
