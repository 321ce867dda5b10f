package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/lexer"
	"autoinclude/internal/source"
	"autoinclude/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string, d dialect.Kind) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cpp", []byte(input)))
	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Dialect: d, Reporter: reporter}), reporter
}

func collectTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for tok := range lx.All() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, d dialect.Kind, input string, expected []token.Kind) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input, d)
	tokens := collectTokens(lx)

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nDiagnostics: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.codes())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func identTexts(tokens []token.Token) []string {
	var out []string
	for _, tok := range tokens {
		if tok.Kind == token.Ident {
			out = append(out, tok.Text)
		}
	}
	return out
}

func TestSimpleStatement(t *testing.T) {
	expectTokens(t, dialect.C, "int x = 1;", []token.Kind{
		token.Ident, token.Ident, token.Punct, token.Number, token.Punct,
	})
}

func TestCommentsAreTrivia(t *testing.T) {
	tokens := expectTokens(t, dialect.C, "a /* printf */ b // strlen\nc", []token.Kind{
		token.Ident, token.Ident, token.Ident,
	})
	if len(tokens[1].Leading) == 0 || !tokens[1].Leading[1].IsComment() {
		t.Fatalf("expected block comment in leading trivia of b, got %+v", tokens[1].Leading)
	}
}

func TestLineCommentContinuesAcrossSplice(t *testing.T) {
	tokens := expectTokens(t, dialect.C, "// a \\\nstrlen\nb", []token.Kind{token.Ident})
	if tokens[0].Text != "b" {
		t.Fatalf("expected b, got %q", tokens[0].Text)
	}
}

func TestStringAndCharLiteralsHideIdentifiers(t *testing.T) {
	tokens := expectTokens(t, dialect.C, `puts("malloc(1)"); c = '\'';`, []token.Kind{
		token.Ident, token.LParen, token.StringLit, token.RParen, token.Punct,
		token.Ident, token.Punct, token.CharLit, token.Punct,
	})
	if got := identTexts(tokens); strings.Join(got, ",") != "puts,c" {
		t.Fatalf("unexpected identifiers %v", got)
	}
	if tokens[7].Text != `'\''` {
		t.Fatalf("unexpected char literal %q", tokens[7].Text)
	}
}

func TestEncodingPrefixes(t *testing.T) {
	tokens := expectTokens(t, dialect.C, `L"wide" u8"utf" U'x'`, []token.Kind{
		token.StringLit, token.StringLit, token.CharLit,
	})
	if tokens[0].Prefix != "L" || tokens[1].Prefix != "u8" || tokens[2].Prefix != "U" {
		t.Fatalf("unexpected prefixes %q %q %q", tokens[0].Prefix, tokens[1].Prefix, tokens[2].Prefix)
	}
}

func TestRawStringLiteral(t *testing.T) {
	tokens := expectTokens(t, dialect.CPP, `auto s = R"x(printf("hi"))x";`, []token.Kind{
		token.Ident, token.Ident, token.Punct, token.RawStringLit, token.Punct,
	})
	if body := tokens[3].Body(); body != `printf("hi")` {
		t.Fatalf("unexpected raw body %q", body)
	}
}

func TestRawPrefixIsIdentifierInC(t *testing.T) {
	expectTokens(t, dialect.C, `R"x"`, []token.Kind{token.Ident, token.StringLit})
}

func TestIncludeDirective(t *testing.T) {
	tokens := expectTokens(t, dialect.C, "#include <stdio.h>\nint main;", []token.Kind{
		token.Directive, token.HeaderName, token.DirectiveEnd,
		token.Ident, token.Ident, token.Punct,
	})
	if tokens[0].Text != "include" || tokens[1].Text != "<stdio.h>" {
		t.Fatalf("unexpected directive tokens %s", tokensToString(tokens))
	}
	if !tokens[1].Has(token.FlagInDirective) || tokens[3].Has(token.FlagInDirective) {
		t.Fatalf("directive flag misplaced")
	}
	if !tokens[3].Has(token.FlagLineStart) {
		t.Fatalf("expected line start flag on int")
	}
}

func TestQuotedIncludeWithComment(t *testing.T) {
	tokens := expectTokens(t, dialect.C, "  #  include \"foo.h\" // local\n", []token.Kind{
		token.Directive, token.StringLit, token.DirectiveEnd,
	})
	if tokens[1].Body() != "foo.h" {
		t.Fatalf("unexpected body %q", tokens[1].Body())
	}
}

func TestLessThanOutsideIncludeIsPunct(t *testing.T) {
	expectTokens(t, dialect.C, "a < b > c", []token.Kind{
		token.Ident, token.Punct, token.Ident, token.Punct, token.Ident,
	})
}

func TestHashInsideLineIsNotDirective(t *testing.T) {
	expectTokens(t, dialect.C, "x # y", []token.Kind{token.Ident, token.Punct, token.Ident})
}

func TestErrorDirectivePayloadIsSkipped(t *testing.T) {
	tokens := expectTokens(t, dialect.C, "#error don't use printf\nx", []token.Kind{
		token.Directive, token.DirectiveEnd, token.Ident,
	})
	if tokens[2].Text != "x" {
		t.Fatalf("expected x after #error line, got %q", tokens[2].Text)
	}
}

func TestDirectiveContinuation(t *testing.T) {
	expectTokens(t, dialect.C, "#define X \\\n  foo\ny", []token.Kind{
		token.Directive, token.Ident, token.Ident, token.DirectiveEnd, token.Ident,
	})
}

func TestHasIncludeOperand(t *testing.T) {
	expectTokens(t, dialect.CPP, "#if __has_include(<optional>)\n#endif", []token.Kind{
		token.Directive, token.Ident, token.LParen, token.HeaderName, token.RParen, token.DirectiveEnd,
		token.Directive, token.DirectiveEnd,
	})
}

func TestUnterminatedBlockCommentRecovers(t *testing.T) {
	lx, reporter := makeTestLexer("/* oops\nint main(void) { printf(\"x\"); }\n", dialect.C)
	tokens := collectTokens(lx)

	if got := strings.Join(identTexts(tokens), ","); got != "int,main,void,printf" {
		t.Fatalf("unexpected identifiers after recovery: %s", got)
	}
	codes := reporter.codes()
	if len(codes) != 1 || codes[0] != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected one unterminated comment diagnostic, got %v", codes)
	}
}

func TestUnterminatedStringStopsAtNewline(t *testing.T) {
	lx, reporter := makeTestLexer("\"abc\nprintf", dialect.C)
	tokens := collectTokens(lx)

	if len(tokens) != 2 || tokens[0].Kind != token.StringLit || !tokens[0].Has(token.FlagUnterminated) {
		t.Fatalf("unexpected tokens %s", tokensToString(tokens))
	}
	if tokens[1].Text != "printf" {
		t.Fatalf("expected printf after unterminated string, got %q", tokens[1].Text)
	}
	if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.LexUnterminatedString {
		t.Fatalf("unexpected diagnostics %v", codes)
	}
}

func TestUnterminatedRawStringRecovers(t *testing.T) {
	lx, reporter := makeTestLexer("auto s = R\"(never closed\nstrlen(p);\n", dialect.CPP)
	tokens := collectTokens(lx)

	if got := strings.Join(identTexts(tokens), ","); got != "auto,s,strlen,p" {
		t.Fatalf("unexpected identifiers %s", got)
	}
	if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.LexUnterminatedRawString {
		t.Fatalf("unexpected diagnostics %v", codes)
	}
}

func TestLiteralSuffixes(t *testing.T) {
	cases := []struct {
		input  string
		suffix string
	}{
		{"10ms", "ms"},
		{"1s", "s"},
		{"2i", "i"},
		{"1'000'000", ""},
		{"0x1Fu", ""},
		{"100ULL", ""},
		{"1.5e-3f", ""},
		{`"abc"s`, "s"},
		{`"abc"sv`, "sv"},
	}
	for _, tc := range cases {
		lx, _ := makeTestLexer(tc.input, dialect.CPP)
		tokens := collectTokens(lx)
		if len(tokens) != 1 {
			t.Errorf("%s: expected one token, got %s", tc.input, tokensToString(tokens))
			continue
		}
		if tokens[0].Suffix != tc.suffix {
			t.Errorf("%s: suffix %q, want %q", tc.input, tokens[0].Suffix, tc.suffix)
		}
	}
}

func TestNoSuffixesInC(t *testing.T) {
	lx, _ := makeTestLexer(`10ms "abc"s`, dialect.C)
	tokens := collectTokens(lx)
	// "abc" followed by identifier s
	if len(tokens) != 3 || tokens[0].Suffix != "" || tokens[2].Text != "s" {
		t.Fatalf("unexpected tokens %s", tokensToString(tokens))
	}
}

func TestAllIsRestartable(t *testing.T) {
	lx, reporter := makeTestLexer("/* open\nint a;", dialect.C)
	first := collectTokens(lx)
	second := collectTokens(lx)
	if tokensToString(first) != tokensToString(second) {
		t.Fatalf("restart produced different tokens:\n%s\n%s", tokensToString(first), tokensToString(second))
	}
	if len(reporter.diagnostics) != 2 {
		t.Fatalf("each pass reports once, got %d", len(reporter.diagnostics))
	}
}

func TestNextAfterEOF(t *testing.T) {
	lx, _ := makeTestLexer("x", dialect.C)
	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("expected ident, got %v", tok.Kind)
	}
	for range 3 {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v", tok.Kind)
		}
	}
}

func TestEvidenceFromCPlusPlus(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("util.h", []byte("#include <vector>\nnamespace u { std::vector<int> v; }\n")))
	ev := dialect.NewEvidence()
	lexer.Tokenize(file, lexer.Options{Evidence: ev})

	c := dialect.Classifier{}.Classify(ev)
	if dialect.Decide(c) != dialect.CPP {
		t.Fatalf("expected C++ classification, got %+v", c)
	}

	file = fs.Get(fs.AddVirtual("plain.h", []byte("#include <stdio.h>\nstruct point { int x; };\n")))
	ev = dialect.NewEvidence()
	lexer.Tokenize(file, lexer.Options{Evidence: ev})
	if d := dialect.Decide(dialect.Classifier{}.Classify(ev)); d != dialect.C {
		t.Fatalf("expected C for plain header, got %v", d)
	}
}
