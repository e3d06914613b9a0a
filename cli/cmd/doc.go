// Package cmd implements the hush CLI commands: run, repl, fmt, and init.
package cmd
