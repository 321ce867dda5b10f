package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.c", []byte("int a;"), 0)
	id2 := fs.Add("main.c", []byte("int b;"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	latest, ok := fs.GetLatest("main.c")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	if string(fs.Get(id1).Content) != "int a;" {
		t.Errorf("old version lost: %q", fs.Get(id1).Content)
	}
}

func TestLinesAndOffsets(t *testing.T) {
	tests := []struct {
		name    string
		content string
		lines   []string
		flags   FileFlags
	}{
		{name: "empty", content: "", lines: []string{}},
		{name: "final newline", content: "a\nb\n", lines: []string{"a", "b"}},
		{name: "no final newline", content: "a\nb", lines: []string{"a", "b"}, flags: FileNoFinalNewline},
		{name: "blank lines", content: "\n\nx\n", lines: []string{"", "", "x"}},
		{name: "crlf", content: "a\r\nb\r\n", lines: []string{"a", "b"}, flags: FileNormalizedCRLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			f := fs.Get(fs.AddVirtual("x.c", []byte(tt.content)))
			got := f.Lines()
			if len(got) != len(tt.lines) {
				t.Fatalf("expected %d lines, got %d: %q", len(tt.lines), len(got), got)
			}
			for i := range got {
				if got[i] != tt.lines[i] {
					t.Errorf("line %d: want %q, got %q", i, tt.lines[i], got[i])
				}
			}
			if tt.flags != 0 && !f.Flags.Has(tt.flags) {
				t.Errorf("expected flags %b in %b", tt.flags, f.Flags)
			}
		})
	}
}

func TestLineOfAndResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.c", []byte("ab\ncd\nef"))
	f := fs.Get(id)

	cases := []struct {
		off  uint32
		line int
	}{
		{0, 0}, {2, 0}, {3, 1}, {5, 1}, {6, 2}, {8, 2},
	}
	for _, c := range cases {
		if got := f.LineOf(c.off); got != c.line {
			t.Errorf("LineOf(%d) = %d, want %d", c.off, got, c.line)
		}
	}

	start, end := fs.Resolve(Span{File: id, Start: 4, End: 7})
	if start != (LineCol{Line: 2, Col: 2}) || end != (LineCol{Line: 3, Col: 2}) {
		t.Errorf("unexpected resolve result %+v %+v", start, end)
	}
	if f.LineStart(2) != 6 || f.LineEnd(1) != 5 {
		t.Errorf("unexpected line bounds: start(2)=%d end(1)=%d", f.LineStart(2), f.LineEnd(1))
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.c")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("int x;\r\nint y;\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "int x;\nint y;\n" {
		t.Errorf("unexpected content %q", f.Content)
	}
	if !f.Flags.Has(FileHadBOM) || !f.Flags.Has(FileNormalizedCRLF) {
		t.Errorf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if f.Hash != Fingerprint(f.Content) {
		t.Errorf("hash does not match content")
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.c")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}

	got, err = RelativePath(filepath.Join(baseDir, "src", "a.c"), baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if got != "src/a.c" {
		t.Fatalf("expected relative path, got %q", got)
	}
}
