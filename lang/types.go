package lang

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ShellType classifies runtime values.
type ShellType int

// Runtime value types.
const (
	TypeAny ShellType = iota
	TypeString
	TypeNumber
	TypeBoolean
	TypeFile
	TypeDirectory
	TypeProcess
	TypeSystem
	TypeList
	TypeFunction
	TypePipeline
	TypeStream
)

// String returns the type's name as scripts see it (e.g. from typeof).
func (t ShellType) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	case TypeBoolean:
		return "Boolean"
	case TypeFile:
		return "File"
	case TypeDirectory:
		return "Directory"
	case TypeProcess:
		return "Process"
	case TypeSystem:
		return "System"
	case TypeList:
		return "List"
	case TypeFunction:
		return "Function"
	case TypePipeline:
		return "Pipeline"
	case TypeStream:
		return "Stream"
	default:
		return "Any"
	}
}

// Result is the uniform outcome of executing source code. A failed Result
// carries the error text; a successful one carries the value and its type.
type Result struct {
	Success bool
	Value   any
	Error   string
	Type    ShellType
}

func okResult(v any) Result {
	return Result{Success: true, Value: v, Type: TypeOf(v)}
}

func failResult(err error) Result {
	return Result{Error: err.Error()}
}

// TypeOf reports the ShellType of a runtime value.
func TypeOf(v any) ShellType {
	switch v.(type) {
	case string:
		return TypeString
	case float64, int:
		return TypeNumber
	case bool:
		return TypeBoolean
	case *File:
		return TypeFile
	case *Directory:
		return TypeDirectory
	case *Process:
		return TypeProcess
	case *System:
		return TypeSystem
	case *List:
		return TypeList
	case *Function:
		return TypeFunction
	case *Pipeline:
		return TypePipeline
	case *Stream:
		return TypeStream
	default:
		return TypeAny
	}
}

// IsCompatible reports whether a value of type actual may be used where
// expected is required. Only an exact match or an expected Any qualifies.
func IsCompatible(actual, expected ShellType) bool {
	return actual == expected || expected == TypeAny
}

// Cast converts a value to the target type.
//
//   - String: the value's display rendering
//   - Number: numbers pass through; strings parse as int then float
//   - Boolean: truthiness
//   - List: lists pass through; strings split into characters
//
// Any other conversion fails.
func Cast(v any, target ShellType) (any, error) {
	if TypeOf(v) == target || target == TypeAny {
		return v, nil
	}

	switch target {
	case TypeString:
		return formatValue(v), nil

	case TypeNumber:
		s, ok := v.(string)
		if !ok {
			if b, isBool := v.(bool); isBool {
				if b {
					return float64(1), nil
				}

				return float64(0), nil
			}

			break
		}

		s = strings.TrimSpace(s)

		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return float64(i), nil
		}

		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}

		return nil, errf(ErrInvalidCast, "cannot parse %q as Number", s)

	case TypeBoolean:
		return truthy(v), nil

	case TypeList:
		if s, ok := v.(string); ok {
			items := make([]any, 0, len(s))
			for _, r := range s {
				items = append(items, string(r))
			}

			return NewList(items), nil
		}
	}

	return nil, errf(ErrInvalidCast,
		"cannot cast %s to %s", TypeOf(v), target)
}

// truthy reports a value's boolean interpretation: false, zero, the empty
// string, the empty list, and nil are false; everything else is true.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		return val != ""
	case *List:
		return val.Len() > 0
	default:
		return true
	}
}

// asNumber extracts a float64 from a numeric value.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// equalValues compares two values for the == operator. Numbers compare
// numerically, lists element-wise, everything else by Go equality where
// comparable.
func equalValues(a, b any) bool {
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)

		return ok && an == bn
	}

	al, aok := a.(*List)
	bl, bok := b.(*List)

	if aok || bok {
		if !aok || !bok || al.Len() != bl.Len() {
			return false
		}

		for i := range al.Len() {
			if !equalValues(al.At(i), bl.At(i)) {
				return false
			}
		}

		return true
	}

	return a == b
}

// compareValues orders two values for sorting and comparison operators.
// Numbers order numerically, strings lexically, booleans false before true.
func compareValues(a, b any) (int, error) {
	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			switch {
			case an < bn:
				return -1, nil
			case an > bn:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}

	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), nil
		}
	}

	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0, nil
			case bb:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}

	return 0, errf(ErrInvalidOperand,
		"cannot compare %s with %s", TypeOf(a), TypeOf(b))
}

// formatValue renders a runtime value for display and string casts.
// Integral numbers render without a fractional part.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	case map[string]any:
		return formatMap(val)
	case error:
		return val.Error()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatMap renders object values with keys in sorted order so output is
// deterministic.
func formatMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var buf strings.Builder

	buf.WriteString("{")

	for i, k := range keys {
		if i > 0 {
			buf.WriteString(",")
		}

		buf.WriteString(" ")
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(formatQuoted(m[k]))
	}

	if len(keys) > 0 {
		buf.WriteString(" ")
	}

	buf.WriteString("}")

	return buf.String()
}

// formatQuoted renders like formatValue but quotes strings, for use inside
// container renderings.
func formatQuoted(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}

	return formatValue(v)
}

// FormatResult renders a Result for terminal display.
func FormatResult(r Result) string {
	if !r.Success {
		return "error: " + r.Error
	}

	if r.Value == nil {
		return ""
	}

	return formatValue(r.Value)
}
