package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hushlang/hush/lang"
	"github.com/hushlang/hush/log"
)

// Run executes a script from a file or stdin and prints its result.
type Run struct {
	InterpConfig `embed:""`

	Script string `arg:"" default:"-" help:"Script file or '-' for stdin" name:"script" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reader, closer, err := openSource(r.Script)
	if err != nil {
		return ErrReadSource.Wrap(err).
			With(slog.String("script", r.Script))
	}
	defer closer()

	source, err := lang.ReadSource(reader)
	if err != nil {
		return ErrReadSource.Wrap(err).
			With(slog.String("script", r.Script))
	}

	ip := r.NewInterp()
	defer ip.Shutdown()

	result := ip.Execute(ctx, source)
	if !result.Success {
		fmt.Println(lang.FormatResult(result))

		return ErrScriptError.
			With(slog.String("script", r.Script))
	}

	log.Default().TraceContext(ctx, "script completed",
		slog.String("script", r.Script),
		slog.String("type", result.Type.String()),
	)

	if out := lang.FormatResult(result); out != "" {
		fmt.Println(out)
	}

	return nil
}
