package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/kb"
	"autoinclude/internal/plan"
	"autoinclude/internal/resolve"
	"autoinclude/internal/source"
	"autoinclude/internal/token"
)

func reqFor(header string) resolve.Requirement {
	c := kb.HeaderCandidate{Header: header, IsSystem: true, Dialect: dialect.Both}
	return resolve.Requirement{Header: c, Group: resolve.GroupOf(c)}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("char *s = \"unterminated string\n")
	fileID := fs.Add("/home/user/project/src/test.c", content, 0)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevWarning,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 10, End: 30},
		"unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/test.c:1:11"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/test.c:1:11"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.c:1:11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING LEX1002: unterminated string literal") {
				t.Errorf("Expected header line, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.c", []byte("int x;\n/* open\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.LexUnterminatedBlockComment, source.Span{File: fileID, Start: 7, End: 9}, "unterminated block comment"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	want := "a.c:2:1: WARNING LEX1003: unterminated block comment\n" +
		" 2 | /* open\n" +
		"   | ^~\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyNotesAndSeverityFilter(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("n.c", []byte("size_t n;\n"))
	span := source.Span{File: fileID, Start: 0, End: 6}

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevInfo, diag.ResAmbiguousSymbol, span, "size_t is declared by several headers").
		WithNote(span, "candidates: <stddef.h> (priority 0), <stdio.h> (priority 2)"))
	bag.Add(diag.New(diag.SevInfo, diag.ResDialectGuessed, source.Span{File: fileID}, "treating n.c as c").
		WithNote(source.Span{File: fileID}, "hidden unless notes are on"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	output := buf.String()
	if !strings.Contains(output, "note: n.c:1:1: candidates: <stddef.h>") {
		t.Fatalf("ambiguity notes are always shown, got:\n%s", output)
	}
	if strings.Contains(output, "hidden unless notes are on") {
		t.Fatalf("unexpected note, got:\n%s", output)
	}
	if !strings.Contains(output, "n.c: INFO RES3002: treating n.c as c") {
		t.Fatalf("file-level diagnostics print the path only, got:\n%s", output)
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{MinSeverity: diag.SevWarning})
	if buf.Len() != 0 {
		t.Fatalf("infos must be filtered, got:\n%s", buf.String())
	}
}

func TestPrettyPlan(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("p.c", []byte("#include <stdio.h>\n\nint main(void) { return abs(0); }\n")))
	p := &plan.EditPlan{Edits: []plan.Insertion{{Line: 1, Orig: 1, Text: "#include <stdlib.h>"}}}
	p.Added = append(p.Added, reqFor("stdlib.h"))

	var buf bytes.Buffer
	if err := PrettyPlan(&buf, f, p, PrettyOpts{Context: 1}); err != nil {
		t.Fatal(err)
	}
	want := "p.c: add <stdlib.h>\n" +
		" 1   #include <stdio.h>\n" +
		"   + #include <stdlib.h>\n" +
		" 2   \n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}

	buf.Reset()
	if err := PrettyPlan(&buf, f, &plan.EditPlan{}, PrettyOpts{}); err != nil || buf.Len() != 0 {
		t.Fatalf("empty plan must print nothing, got %q (%v)", buf.String(), err)
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	toks := []token.Token{
		{Kind: token.Ident, Text: "x", Span: source.Span{Start: 0, End: 1}},
		{Kind: token.EOF, Span: source.Span{Start: 2, End: 2}},
	}
	fs.AddVirtual("t.c", []byte("x\n"))

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"x" at 1:1-1:2`) {
		t.Fatalf("unexpected token dump:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"kind": "EOF"`) {
		t.Fatalf("unexpected JSON:\n%s", buf.String())
	}
}
