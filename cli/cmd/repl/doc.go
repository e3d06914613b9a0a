// Package repl implements the interactive hush session: a line editor with
// fuzzy identifier completion, persistent history, and multi-line input for
// block constructs.
package repl
