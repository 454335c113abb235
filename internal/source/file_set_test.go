package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.kt", []byte("hello world"), 0)
	if id1 == NoFileID {
		t.Fatal("Add must not return NoFileID")
	}

	id2 := fs.Add("test.kt", []byte("hello universe"), 0)
	if id2 == id1 {
		t.Fatal("expected a new FileID for the second Add")
	}

	latest, ok := fs.GetLatest("test.kt")
	if !ok || latest != id2 {
		t.Errorf("GetLatest = %d,%v, want %d", latest, ok, id2)
	}

	// Старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("first version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestFileSetLookupUnknown(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.kt", []byte("x"))

	if _, ok := fs.Lookup(NoFileID); ok {
		t.Error("NoFileID must not resolve")
	}
	if _, ok := fs.Lookup(2); ok {
		t.Error("id past the end must not resolve")
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()

	// α занимает 2 байта
	id := fs.AddVirtual("test.kt", []byte("α\nb"))

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 4})
	if start != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 2}) {
		t.Errorf("end = %+v", end)
	}
}

func TestLoadNormalizesText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.kt")
	content := []byte{0xEF, 0xBB, 0xBF, 'a', '\r', '\n', 'b'}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb" {
		t.Errorf("content = %q, want %q", f.Content, "a\nb")
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
	if got := fs.RelativePath(f); got != "crlf.kt" {
		t.Errorf("RelativePath = %q", got)
	}

	binID, err := fs.LoadBinary(path)
	if err != nil {
		t.Fatalf("LoadBinary: %v", err)
	}
	if got := fs.Get(binID); len(got.Content) != len(content) || got.Flags&FileBinary == 0 {
		t.Errorf("binary load altered content or flags: %q %b", got.Content, got.Flags)
	}
}

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID must map to empty string, got %q,%v", s, ok)
	}
	a := interner.Intern("foo")
	if a == NoStringID {
		t.Fatal("Intern returned NoStringID for non-empty string")
	}
	if b := interner.Intern("foo"); b != a {
		t.Errorf("Intern is not idempotent: %d != %d", a, b)
	}
	if interner.MustLookup(a) != "foo" {
		t.Errorf("MustLookup = %q", interner.MustLookup(a))
	}
	if interner.Len() != 2 {
		t.Errorf("Len = %d, want 2", interner.Len())
	}
	if _, ok := interner.Lookup(42); ok {
		t.Error("unknown id must not resolve")
	}
}

func TestSpanCoverContains(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover = %v", got)
	}
	if !a.Cover(b).Contains(a) || a.Contains(b) {
		t.Error("Contains mismatch")
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("Cover across files changed span: %v", got)
	}
}
