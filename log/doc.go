// Package log wraps log/slog with a Trace level below Debug, selectable
// text/json output, an optional colorized text handler, and functional
// configuration options.
//
// The zero value Logger discards all messages, so library code can hold a
// Logger unconditionally and let callers opt in to output.
package log
