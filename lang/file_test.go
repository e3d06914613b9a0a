package lang

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	return path
}

func TestFile_PathProperties(t *testing.T) {
	f := NewFile("/data/reports/summary.txt")

	tests := []struct {
		property string
		expected any
	}{
		{"name", "summary.txt"},
		{"path", "/data/reports/summary.txt"},
		{"stem", "summary"},
		{"suffix", ".txt"},
		{"ext", ".txt"},
	}

	for _, tc := range tests {
		v, err := f.Property(tc.property)
		if err != nil {
			t.Fatalf("Property(%s) failed: %v", tc.property, err)
		}

		if v != tc.expected {
			t.Errorf("Property(%s) = %v, expected %v", tc.property, v, tc.expected)
		}
	}

	parent, err := f.Property("parent")
	if err != nil {
		t.Fatalf("Property(parent) failed: %v", err)
	}

	if parent.(*Directory).Path() != "/data/reports" {
		t.Errorf("unexpected parent %v", parent)
	}
}

func TestFile_ExistenceAndSize(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "hello")

	f := NewFile(path)

	if v, _ := f.Property("exists"); v != true {
		t.Error("expected exists = true")
	}

	if v, _ := f.Property("is_file"); v != true {
		t.Error("expected is_file = true")
	}

	size, err := f.Property("size")
	if err != nil || size != float64(5) {
		t.Errorf("size = %v, %v", size, err)
	}

	missing := NewFile(filepath.Join(dir, "nope.txt"))

	if v, _ := missing.Property("exists"); v != false {
		t.Error("expected exists = false for missing file")
	}

	if _, err := missing.Property("size"); err == nil {
		t.Error("expected error for size of missing file")
	}
}

func TestFile_ReadWriteAppend(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "log.txt"))

	if _, err := f.Call("write", []any{"first\n"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := f.Call("append", []any{"second\n"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	content, err := f.Call("read", nil)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if content != "first\nsecond\n" {
		t.Errorf("unexpected content %q", content)
	}
}

func TestFile_WriteCastsContent(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "n.txt"))

	if _, err := f.Call("write", []any{float64(42)}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	content, err := f.Call("read", nil)
	if err != nil || content != "42" {
		t.Errorf("read = %v, %v", content, err)
	}
}

func TestFile_Lines(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "lines.txt", "one\r\ntwo\nthree\n")

	lines, err := NewFile(path).Call("lines", nil)
	if err != nil {
		t.Fatalf("lines failed: %v", err)
	}

	wantList(t, lines, "one", "two", "three")

	empty := writeTestFile(t, dir, "empty.txt", "")

	lines, err = NewFile(empty).Call("lines", nil)
	if err != nil {
		t.Fatalf("lines failed: %v", err)
	}

	if lines.(*List).Len() != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}

func TestFile_ReadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.txt"))

	_, err := f.Call("read", nil)
	if err == nil {
		t.Fatal("expected error reading missing file")
	}

	if !strings.Contains(err.Error(), "cannot read") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFile_CopyDeleteRename(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "src.txt", "data")

	f := NewFile(src)

	copied, err := f.Call("copy", []any{filepath.Join(dir, "dst.txt")})
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	content, err := copied.(*File).Call("read", nil)
	if err != nil || content != "data" {
		t.Errorf("copied content = %v, %v", content, err)
	}

	// Bare rename targets stay in the same directory.
	renamed, err := f.Call("rename", []any{"moved.txt"})
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	if renamed.(*File).Path() != filepath.Join(dir, "moved.txt") {
		t.Errorf("unexpected rename target %v", renamed)
	}

	// The receiver follows the file to its new path.
	if renamed.(*File) != f || f.Path() != filepath.Join(dir, "moved.txt") {
		t.Errorf("rename did not update the receiver, path is %s", f.Path())
	}

	content, err = f.Call("read", nil)
	if err != nil || content != "data" {
		t.Errorf("read after rename = %v, %v", content, err)
	}

	if _, err := renamed.(*File).Call("delete", nil); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "moved.txt")); !os.IsNotExist(err) {
		t.Error("expected file removed")
	}
}

func TestFile_EncodingArgumentAccepted(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "enc.txt", "héllo\n")

	f := NewFile(path)

	content, err := f.Call("read", []any{"utf-8"})
	if err != nil || content != "héllo\n" {
		t.Errorf("read with encoding = %v, %v", content, err)
	}

	lines, err := f.Call("lines", []any{"utf-8"})
	if err != nil {
		t.Fatalf("lines with encoding failed: %v", err)
	}

	wantList(t, lines, "héllo")

	if _, err := f.Call("write", []any{"again", "utf-8"}); err != nil {
		t.Fatalf("write with encoding failed: %v", err)
	}

	content, err = f.Call("read", nil)
	if err != nil || content != "again" {
		t.Errorf("read = %v, %v", content, err)
	}

	if _, err := f.Call("read", []any{float64(8)}); err == nil {
		t.Error("expected error for non-string encoding")
	}
}

func TestFile_TimestampsAreRFC3339(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "t.txt", "x")

	f := NewFile(path)

	for _, property := range []string{"modified", "created"} {
		v, err := f.Property(property)
		if err != nil {
			t.Fatalf("Property(%s) failed: %v", property, err)
		}

		if _, err := time.Parse(time.RFC3339, v.(string)); err != nil {
			t.Errorf("Property(%s) = %v is not RFC3339: %v", property, v, err)
		}
	}
}

func TestDirectory_FilesListsDirectChildrenOnly(t *testing.T) {
	dir := t.TempDir()

	writeTestFile(t, dir, "a.txt", "")
	writeTestFile(t, dir, "b.txt", "")
	writeTestFile(t, dir, "sub/nested.txt", "")

	d := NewDirectory(dir)

	files, err := d.Property("files")
	if err != nil {
		t.Fatalf("files failed: %v", err)
	}

	if files.(*List).Len() != 2 {
		t.Errorf("expected 2 direct files, got %s", files.(*List))
	}

	subdirs, err := d.Property("subdirs")
	if err != nil {
		t.Fatalf("subdirs failed: %v", err)
	}

	if subdirs.(*List).Len() != 1 {
		t.Errorf("expected 1 subdirectory, got %s", subdirs.(*List))
	}
}

func TestDirectory_FindShallowAndRecursive(t *testing.T) {
	dir := t.TempDir()

	writeTestFile(t, dir, "main.go", "")
	writeTestFile(t, dir, "readme.md", "")
	writeTestFile(t, dir, "pkg/util.go", "")
	writeTestFile(t, dir, "pkg/deep/deep.go", "")

	d := NewDirectory(dir)

	shallow, err := d.Find("*.go", false)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if shallow.Len() != 1 {
		t.Errorf("expected 1 shallow match, got %s", shallow)
	}

	recursive, err := d.Find("*.go", true)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if recursive.Len() != 3 {
		t.Errorf("expected 3 recursive matches, got %s", recursive)
	}

	// An explicit ** pattern recurses without the flag.
	starred, err := d.Find("**/*.go", false)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if starred.Len() != 3 {
		t.Errorf("expected 3 matches for **, got %s", starred)
	}
}

func TestDirectory_FindMethodRecursesByDefault(t *testing.T) {
	dir := t.TempDir()

	writeTestFile(t, dir, "top.go", "")
	writeTestFile(t, dir, "sub/nested.go", "")

	d := NewDirectory(dir)

	found, err := d.Call("find", []any{"*.go"})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	if found.(*List).Len() != 2 {
		t.Errorf("expected 2 matches by default, got %s", found.(*List))
	}

	shallow, err := d.Call("find", []any{"*.go", false})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}

	if shallow.(*List).Len() != 1 {
		t.Errorf("expected 1 shallow match, got %s", shallow.(*List))
	}
}

func TestDirectory_FindUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "one.txt", "")

	cache := NewCache(10, time.Minute)
	d := NewCachedDirectory(dir, cache)

	if _, err := d.Find("*.txt", false); err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	// A file added after the first enumeration is invisible until the TTL
	// lapses, because the second call is served from cache.
	writeTestFile(t, dir, "two.txt", "")

	again, err := d.Find("*.txt", false)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if again.Len() != 1 {
		t.Errorf("expected cached result with 1 entry, got %s", again)
	}

	stats := cache.Stats()
	if stats.Hits != 1 {
		t.Errorf("expected 1 cache hit, got %d", stats.Hits)
	}
}

func TestDirectory_CreateAndDelete(t *testing.T) {
	base := t.TempDir()
	d := NewDirectory(filepath.Join(base, "a", "b"))

	if _, err := d.Call("create", nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if v, _ := d.Property("exists"); v != true {
		t.Error("expected directory to exist after create")
	}

	writeTestFile(t, d.Path(), "f.txt", "")

	// Non-recursive delete refuses a non-empty directory.
	if _, err := d.Call("delete", nil); err == nil {
		t.Error("expected error deleting non-empty directory")
	}

	if _, err := d.Call("delete", []any{true}); err != nil {
		t.Fatalf("recursive delete failed: %v", err)
	}

	if v, _ := d.Property("exists"); v != false {
		t.Error("expected directory gone after recursive delete")
	}
}

func TestDirectory_CreateWithoutParents(t *testing.T) {
	base := t.TempDir()

	missing := NewDirectory(filepath.Join(base, "no", "such", "parent"))

	if _, err := missing.Call("create", []any{false}); err == nil {
		t.Error("expected error creating under missing ancestors")
	}

	flat := NewDirectory(filepath.Join(base, "flat"))

	if _, err := flat.Call("create", []any{false}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if v, _ := flat.Property("exists"); v != true {
		t.Error("expected directory to exist after create")
	}
}
