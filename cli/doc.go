// Package cli contains the command line interface for hush.
//
// # Commands
//
//	hush run script.hu     Run a script file ('-' or no argument reads stdin)
//	hush repl              Start an interactive session
//	hush fmt script.hu     Print the script in canonical form
//	hush init              Write a default configuration file
//
// # Configuration
//
// Flags may also be set in a YAML config file (written by `hush init`) under
// the platform config directory, e.g. ~/.config/hush/config.yaml. Flags on
// the command line take precedence.
//
// # Logging options
//
//   - --log-level: trace, debug, info, warn, error
//   - --log-format: text or json
//   - --log-pretty / --no-log-pretty: colorized text output
//   - --log-caller: include caller information
//
// # Profiling options
//
//   - --pprof-mode: cpu, mem, allocs, block, mutex, goroutine, trace, clock
//   - --pprof-dir: profile output directory (default ~/.cache/hush/pprof)
package cli
