package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput       = NewError("failed to read input")
	ErrUndefinedIdent  = NewError("undefined identifier")
	ErrArityMismatch   = NewError("arity mismatch")
	ErrNoSuchProperty  = NewError("no such property")
	ErrNoSuchMethod    = NewError("no such method")
	ErrInvalidCast     = NewError("invalid type cast")
	ErrInvalidOperand  = NewError("invalid operand")
	ErrInvalidIndex    = NewError("invalid index")
	ErrNotCallable     = NewError("value is not callable")
	ErrPipelineStage   = NewError("invalid pipeline stage")
	ErrEmptyReduce     = NewError("reduce of empty list with no initial value")
	ErrProcessState    = NewError("invalid process state")
	ErrFileOperation   = NewError("file operation failed")
	ErrDirOperation    = NewError("directory operation failed")
	ErrProcOperation   = NewError("process operation failed")
	ErrSystemOperation = NewError("system query failed")
	ErrReturnOutside   = NewError("return outside function body")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target shares this error's base message, which lets
// derivatives made with Wrap or With still match their sentinel.
func (e *Error) Is(target error) bool {
	te := &Error{}
	if errors.As(target, &te) {
		return te.msg == e.msg
	}

	return false
}

// LogValue implements slog.LogValuer for structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// errf derives an error from a sentinel with a formatted detail message,
// so Error() renders "<sentinel>: <detail>".
func errf(sentinel *Error, format string, args ...any) *Error {
	return sentinel.Wrap(fmt.Errorf(format, args...))
}

// SyntaxError reports a lexical or grammatical failure at a source position.
// Parsing aborts at the first such error; no partial AST accompanies it.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
	Source  string // Original input, for snippet rendering
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Column))
	buf.WriteString(": ")
	buf.WriteString(e.Message)

	if snippet := e.Snippet(); snippet != "" {
		buf.WriteString("\n")
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Snippet renders the offending source line with a caret under the column.
// Returns "" when the error carries no source or the line is out of range.
func (e *SyntaxError) Snippet() string {
	if e.Source == "" || e.Line < 1 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(e.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(lines[e.Line-1])
	src.WriteRune('\n')

	// Leading spaces + number width + " | " separator.
	pad := len(num) + 5
	if e.Column > 0 {
		pad += e.Column - 1
	}

	src.WriteString(strings.Repeat(" ", pad))
	src.WriteString("^")

	return src.String()
}

func syntaxErr(line, column int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	}
}
