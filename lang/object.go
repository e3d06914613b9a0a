package lang

// Object is implemented by runtime values that expose properties and methods
// to scripts. Property covers `value.name`; Call covers `value.name(args)`.
//
// Implementations report unknown members with ErrNoSuchProperty and
// ErrNoSuchMethod, phrased as "<Type> has no property '<name>'" so scripts
// get a uniform diagnostic across the object model.
type Object interface {
	Property(name string) (any, error)
	Call(name string, args []any) (any, error)
	String() string
}

// Function is a callable value: a builtin, a named user function, or an
// anonymous arrow function. User functions capture their defining context
// inside Fn.
type Function struct {
	Name   string
	Params []string // nil for variadic builtins
	Fn     func(args []any) (any, error)
}

// Call invokes the function.
func (f *Function) Call(args []any) (any, error) {
	return f.Fn(args)
}

// String implements fmt.Stringer.
func (f *Function) String() string {
	if f.Name == "" {
		return "<function>"
	}

	return "<function " + f.Name + ">"
}

func noProperty(typ ShellType, name string) error {
	return errf(ErrNoSuchProperty, "%s has no property '%s'", typ, name)
}

func noMethod(typ ShellType, name string) error {
	return errf(ErrNoSuchMethod, "%s has no method '%s'", typ, name)
}

// callbackArg validates that a builtin or method argument is callable.
func callbackArg(v any, context string) (*Function, error) {
	fn, ok := v.(*Function)
	if !ok {
		return nil, errf(ErrNotCallable,
			"%s requires a function, got %s", context, TypeOf(v))
	}

	return fn, nil
}
