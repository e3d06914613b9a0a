package lang

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// globList matches pattern against the tree rooted at base and wraps each
// match as a File or Directory. Patterns use doublestar syntax, so `**`
// crosses directory boundaries.
func globList(base, pattern string, cache *Cache) (*List, error) {
	matches, err := doublestar.Glob(os.DirFS(base), pattern)
	if err != nil {
		return nil, errf(ErrDirOperation,
			"invalid glob pattern '%s': %v", pattern, err)
	}

	items := make([]any, 0, len(matches))

	for _, match := range matches {
		full := filepath.Join(base, match)

		info, err := os.Stat(full)
		if err != nil {
			continue
		}

		if info.IsDir() {
			items = append(items, NewCachedDirectory(full, cache))
		} else {
			items = append(items, NewFile(full))
		}
	}

	return NewList(items), nil
}

// globFiles is like globList but keeps only regular files.
func globFiles(base, pattern string) ([]any, error) {
	matches, err := doublestar.Glob(os.DirFS(base), pattern)
	if err != nil {
		return nil, errf(ErrDirOperation,
			"invalid glob pattern '%s': %v", pattern, err)
	}

	items := make([]any, 0, len(matches))

	for _, match := range matches {
		full := filepath.Join(base, match)

		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}

		items = append(items, NewFile(full))
	}

	return items, nil
}
