package cmd

import (
	"context"

	"github.com/hushlang/hush/cli/cmd/repl"
	"github.com/hushlang/hush/log"
)

// Repl starts an interactive session.
type Repl struct {
	InterpConfig `embed:""`

	NoHistory bool `help:"Disable history persistence"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ip := r.NewInterp()
	defer ip.Shutdown()

	historyPath := ""
	if !r.NoHistory {
		historyPath = kongVar(ctx, HistoryPathVar)
	}

	return repl.Run(ctx, ip, historyPath, log.Default())
}
