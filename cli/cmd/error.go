package cmd

import "github.com/hushlang/hush/lang"

// Predefined errors (sentinel values).
var (
	ErrWriteConfig = lang.NewError("failed to write configuration")
	ErrFileExists  = lang.NewError("file already exists")
	ErrScriptError = lang.NewError("script failed")
	ErrReadSource  = lang.NewError("failed to read source")
)
