package repl

import "github.com/hushlang/hush/lang"

var (
	ErrHistoryFile = lang.NewError("history file error")
	ErrOutOfBounds = lang.NewError("history index out of bounds")
)
