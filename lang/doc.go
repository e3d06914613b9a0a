// Package lang implements the hush scripting language: an object-oriented
// shell with typed values, lexical scoping, and pipeline composition.
//
// The package covers the whole path from text to value. Tokenize and Parse
// turn source into an immutable AST; an Interp walks the tree against a
// scope chain pre-seeded with the builtin library and the object model
// (lists, files, directories, processes, system metrics). A performance
// layer backs the heavier operations with a TTL+LRU result cache, lazily
// cached sequences, and bounded-pool parallel evaluation.
//
// Typical use:
//
//	ip := lang.New()
//	result := ip.Execute(ctx, `Files("*.go") | map(f => f.name)`)
//	if result.Success {
//		fmt.Println(lang.FormatResult(result))
//	}
package lang
