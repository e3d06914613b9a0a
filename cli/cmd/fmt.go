package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hushlang/hush/lang"
)

// Fmt parses a script and prints it back in canonical form.
type Fmt struct {
	Script string `arg:"" default:"-" help:"Script file or '-' for stdin" name:"script" optional:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reader, closer, err := openSource(f.Script)
	if err != nil {
		return ErrReadSource.Wrap(err).
			With(slog.String("script", f.Script))
	}
	defer closer()

	prog, err := lang.ParseReader(reader)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "fmt"))
	}

	fmt.Println(lang.Format(prog))

	return nil
}
