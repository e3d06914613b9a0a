package lang

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// statTTL bounds how stale a cached stat may be. Repeated property reads in a
// tight script loop hit the cache; anything older refreshes from the OS.
const statTTL = time.Second

// File wraps a filesystem path with script-visible properties and methods.
// copy returns a new File; rename moves the file and updates the receiver's
// path, so a held File keeps tracking the renamed entry.
type File struct {
	path string

	statInfo os.FileInfo
	statErr  error
	statAt   time.Time
}

// NewFile creates a File for path. The path need not exist.
func NewFile(path string) *File {
	return &File{path: filepath.Clean(path)}
}

// Path returns the file's path.
func (f *File) Path() string { return f.path }

// stat returns file metadata, cached for up to statTTL.
func (f *File) stat() (os.FileInfo, error) {
	if f.statAt.IsZero() || time.Since(f.statAt) > statTTL {
		f.statInfo, f.statErr = os.Stat(f.path)
		f.statAt = time.Now()
	}

	return f.statInfo, f.statErr
}

// invalidate drops the cached stat after a mutating operation.
func (f *File) invalidate() { f.statAt = time.Time{} }

// Property implements the Object interface.
func (f *File) Property(name string) (any, error) {
	switch name {
	case "name":
		return filepath.Base(f.path), nil
	case "path":
		return f.path, nil
	case "parent":
		return NewDirectory(filepath.Dir(f.path)), nil
	case "stem":
		base := filepath.Base(f.path)

		return strings.TrimSuffix(base, filepath.Ext(base)), nil
	case "suffix", "ext":
		return filepath.Ext(f.path), nil
	case "exists":
		_, err := f.stat()

		return err == nil, nil
	case "is_file":
		info, err := f.stat()

		return err == nil && info.Mode().IsRegular(), nil
	case "is_dir":
		info, err := f.stat()

		return err == nil && info.IsDir(), nil
	case "size":
		info, err := f.stat()
		if err != nil {
			return nil, errf(ErrFileOperation, "cannot stat '%s': %v", f.path, err)
		}

		return float64(info.Size()), nil
	case "modified":
		info, err := f.stat()
		if err != nil {
			return nil, errf(ErrFileOperation, "cannot stat '%s': %v", f.path, err)
		}

		return info.ModTime().Format(time.RFC3339), nil
	case "created":
		info, err := f.stat()
		if err != nil {
			return nil, errf(ErrFileOperation, "cannot stat '%s': %v", f.path, err)
		}

		return createdTime(info).Format(time.RFC3339), nil
	}

	return nil, noProperty(TypeFile, name)
}

// Call implements the Object interface.
func (f *File) Call(name string, args []any) (any, error) {
	switch name {
	case "read":
		if err := encodingArg(name, args, 0); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(f.path)
		if err != nil {
			return nil, errf(ErrFileOperation, "cannot read '%s': %v", f.path, err)
		}

		return string(data), nil

	case "write":
		if err := encodingArg(name, args, 1); err != nil {
			return nil, err
		}

		content, err := Cast(args[0], TypeString)
		if err != nil {
			return nil, err
		}

		if err := os.WriteFile(f.path, []byte(content.(string)), 0o644); err != nil {
			return nil, errf(ErrFileOperation, "cannot write '%s': %v", f.path, err)
		}

		f.invalidate()

		return f, nil

	case "append":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		content, err := Cast(args[0], TypeString)
		if err != nil {
			return nil, err
		}

		fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errf(ErrFileOperation, "cannot append '%s': %v", f.path, err)
		}
		defer fh.Close()

		if _, err := fh.WriteString(content.(string)); err != nil {
			return nil, errf(ErrFileOperation, "cannot append '%s': %v", f.path, err)
		}

		f.invalidate()

		return f, nil

	case "lines":
		if err := encodingArg(name, args, 0); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(f.path)
		if err != nil {
			return nil, errf(ErrFileOperation, "cannot read '%s': %v", f.path, err)
		}

		text := strings.TrimSuffix(string(data), "\n")

		if text == "" {
			return NewList(nil), nil
		}

		lines := strings.Split(text, "\n")

		items := make([]any, len(lines))
		for i, line := range lines {
			items[i] = strings.TrimSuffix(line, "\r")
		}

		return NewList(items), nil

	case "copy":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		dest, ok := args[0].(string)
		if !ok {
			return nil, errf(ErrInvalidOperand,
				"copy destination must be String, got %s", TypeOf(args[0]))
		}

		data, err := os.ReadFile(f.path)
		if err != nil {
			return nil, errf(ErrFileOperation, "cannot copy '%s': %v", f.path, err)
		}

		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return nil, errf(ErrFileOperation, "cannot copy to '%s': %v", dest, err)
		}

		return NewFile(dest), nil

	case "delete":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}

		if err := os.Remove(f.path); err != nil {
			return nil, errf(ErrFileOperation, "cannot delete '%s': %v", f.path, err)
		}

		f.invalidate()

		return true, nil

	case "rename":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}

		newName, ok := args[0].(string)
		if !ok {
			return nil, errf(ErrInvalidOperand,
				"rename target must be String, got %s", TypeOf(args[0]))
		}

		dest := newName
		if !strings.ContainsRune(newName, os.PathSeparator) {
			dest = filepath.Join(filepath.Dir(f.path), newName)
		}

		if err := os.Rename(f.path, dest); err != nil {
			return nil, errf(ErrFileOperation, "cannot rename '%s': %v", f.path, err)
		}

		f.path = filepath.Clean(dest)
		f.invalidate()

		return f, nil
	}

	return nil, noMethod(TypeFile, name)
}

// String implements fmt.Stringer.
func (f *File) String() string { return "File('" + f.path + "')" }

// encodingArg checks a method taking want fixed arguments plus an optional
// encoding name. Content is always UTF-8; the encoding argument is validated
// and otherwise ignored.
func encodingArg(name string, args []any, want int) error {
	if len(args) == want {
		return nil
	}

	if len(args) != want+1 {
		return errf(ErrArityMismatch,
			"%s expects %d or %d argument(s), got %d",
			name, want, want+1, len(args))
	}

	if _, ok := args[want].(string); !ok {
		return errf(ErrInvalidOperand,
			"%s encoding must be String, got %s", name, TypeOf(args[want]))
	}

	return nil
}

// Directory wraps a directory path. find results may be cached through an
// attached Cache (nil disables caching).
type Directory struct {
	path  string
	cache *Cache
}

// NewDirectory creates a Directory for path without caching.
func NewDirectory(path string) *Directory {
	return &Directory{path: filepath.Clean(path)}
}

// NewCachedDirectory creates a Directory whose find results go through cache.
func NewCachedDirectory(path string, cache *Cache) *Directory {
	return &Directory{path: filepath.Clean(path), cache: cache}
}

// Path returns the directory's path.
func (d *Directory) Path() string { return d.path }

// Property implements the Object interface.
func (d *Directory) Property(name string) (any, error) {
	switch name {
	case "name":
		return filepath.Base(d.path), nil
	case "path":
		return d.path, nil
	case "parent":
		return NewDirectory(filepath.Dir(d.path)), nil
	case "exists":
		info, err := os.Stat(d.path)

		return err == nil && info.IsDir(), nil
	case "is_dir":
		info, err := os.Stat(d.path)

		return err == nil && info.IsDir(), nil
	case "files":
		return d.children(false)
	case "subdirs":
		return d.children(true)
	}

	return nil, noProperty(TypeDirectory, name)
}

// children lists direct entries only: files (dirs=false) or subdirectories
// (dirs=true). No recursion.
func (d *Directory) children(dirs bool) (*List, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, errf(ErrDirOperation, "cannot list '%s': %v", d.path, err)
	}

	items := make([]any, 0, len(entries))

	for _, entry := range entries {
		full := filepath.Join(d.path, entry.Name())

		if entry.IsDir() {
			if dirs {
				items = append(items, NewCachedDirectory(full, d.cache))
			}
		} else if !dirs {
			items = append(items, NewFile(full))
		}
	}

	return NewList(items), nil
}

// Call implements the Object interface.
func (d *Directory) Call(name string, args []any) (any, error) {
	switch name {
	case "create":
		if len(args) > 1 {
			return nil, errf(ErrArityMismatch,
				"create expects at most 1 argument, got %d", len(args))
		}

		// Missing ancestors are created unless parents is explicitly false.
		parents := true
		if len(args) == 1 {
			parents = truthy(args[0])
		}

		var err error
		if parents {
			err = os.MkdirAll(d.path, 0o755)
		} else {
			err = os.Mkdir(d.path, 0o755)
		}

		if err != nil {
			return nil, errf(ErrDirOperation, "cannot create '%s': %v", d.path, err)
		}

		return d, nil

	case "delete":
		recursive := false

		if len(args) > 0 {
			recursive = truthy(args[0])
		}

		var err error
		if recursive {
			err = os.RemoveAll(d.path)
		} else {
			err = os.Remove(d.path)
		}

		if err != nil {
			return nil, errf(ErrDirOperation, "cannot delete '%s': %v", d.path, err)
		}

		return true, nil

	case "find":
		if len(args) < 1 || len(args) > 2 {
			return nil, errf(ErrArityMismatch,
				"find expects 1 or 2 arguments, got %d", len(args))
		}

		pattern, ok := args[0].(string)
		if !ok {
			return nil, errf(ErrInvalidOperand,
				"find pattern must be String, got %s", TypeOf(args[0]))
		}

		// Searches recurse unless the second argument says otherwise.
		recursive := true
		if len(args) == 2 {
			recursive = truthy(args[1])
		}

		return d.Find(pattern, recursive)
	}

	return nil, noMethod(TypeDirectory, name)
}

// Find matches entries under the directory against a glob pattern. Recursive
// searches walk the whole subtree; `**` in the pattern also recurses.
// Results are cached (when a cache is attached) because glob enumeration
// dominates script time on large trees.
func (d *Directory) Find(pattern string, recursive bool) (*List, error) {
	if recursive && !strings.Contains(pattern, "**") {
		pattern = "**/" + pattern
	}

	if d.cache != nil {
		key := d.cache.Fingerprint("dir.find", d.path, pattern)

		if hit, ok := d.cache.Get(key); ok {
			return hit.(*List), nil
		}

		found, err := globList(d.path, pattern, d.cache)
		if err != nil {
			return nil, err
		}

		d.cache.Set(key, found)

		return found, nil
	}

	return globList(d.path, pattern, nil)
}

// String implements fmt.Stringer.
func (d *Directory) String() string { return "Directory('" + d.path + "')" }

// createdTime extracts the creation timestamp from stat data, falling back to
// the modification time when the platform does not expose one.
func createdTime(info fs.FileInfo) time.Time {
	if t, ok := birthTime(info); ok {
		return t
	}

	return info.ModTime()
}
