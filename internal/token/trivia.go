package token

import "autoinclude/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	// TriviaSplice is a backslash-newline outside of literals.
	TriviaSplice
	// TriviaSkipped covers text the scanner did not tokenize, such as the
	// payload of #error or the recovered tail of an unterminated comment.
	TriviaSkipped
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsComment reports whether the trivia is a line or block comment.
func (tr Trivia) IsComment() bool {
	return tr.Kind == TriviaLineComment || tr.Kind == TriviaBlockComment
}

var triviaNames = [...]string{"space", "newline", "line-comment", "block-comment", "splice", "skipped"}

func (k TriviaKind) String() string {
	if int(k) < len(triviaNames) {
		return triviaNames[k]
	}
	return "trivia?"
}
