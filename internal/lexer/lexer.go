package lexer

import (
	"iter"
	"slices"

	"autoinclude/internal/dialect"
	"autoinclude/internal/source"
	"autoinclude/internal/token"
)

// state is a node of the scanner automaton. Every state owns one step
// function in transitions; a step either emits a token or moves to
// another state.
type state uint8

const (
	stNormal state = iota
	stLineComment
	stBlockComment
	stString
	stChar
	stRawString

	stateCount
)

var stateNames = [stateCount]string{
	stNormal:       "normal",
	stLineComment:  "line-comment",
	stBlockComment: "block-comment",
	stString:       "string",
	stChar:         "char",
	stRawString:    "raw-string",
}

func (s state) String() string { return stateNames[s] }

type stepFn func(lx *Lexer) (token.Token, bool)

var transitions = [stateCount]stepFn{
	stNormal:       (*Lexer).stepNormal,
	stLineComment:  (*Lexer).stepLineComment,
	stBlockComment: (*Lexer).stepBlockComment,
	stString:       (*Lexer).stepString,
	stChar:         (*Lexer).stepChar,
	stRawString:    (*Lexer).stepRawString,
}

// literal remembers where the construct being scanned by a non-normal state began.
type literal struct {
	start  Mark
	prefix string
	suffix int // length of a user-defined suffix, if any
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	state  state
	lit    literal
	hold   []token.Trivia // накопленные leading trivia
	prev   token.Token

	lineStart   bool
	inDirective bool
	skipRest    bool // #error / #warning payload
	headerNext  bool // next '<' starts a header-name
	done        bool
}

func New(file *source.File, opts Options) *Lexer {
	lx := &Lexer{file: file, opts: opts}
	lx.Reset()
	return lx
}

// Reset rewinds the scanner to the start of the file. Collected dialect
// evidence is dropped so a rescan does not count hints twice.
func (lx *Lexer) Reset() {
	lx.cursor = NewCursor(lx.file)
	lx.state = stNormal
	lx.lit = literal{}
	lx.hold = nil
	lx.prev = token.Token{}
	lx.lineStart = true
	lx.inDirective = false
	lx.skipRest = false
	lx.headerNext = false
	lx.done = false
	lx.opts.Evidence.Reset()
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.done {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}
	for {
		if tok, ok := transitions[lx.state](lx); ok {
			return lx.finish(tok)
		}
	}
}

// All returns a restartable sequence of tokens, excluding EOF. Each
// iteration starts from the beginning of the file.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		lx.Reset()
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize scans the whole file and returns its tokens without EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	return slices.Collect(New(file, opts).All())
}

func (lx *Lexer) finish(tok token.Token) token.Token {
	tok.Leading = lx.hold
	lx.hold = nil

	if lx.lineStart && tok.Kind != token.DirectiveEnd && tok.Kind != token.EOF {
		tok.Flags |= token.FlagLineStart
	}
	lx.lineStart = false
	if lx.inDirective || tok.Kind == token.DirectiveEnd {
		tok.Flags |= token.FlagInDirective
	}

	switch tok.Kind {
	case token.EOF:
		lx.done = true
	case token.DirectiveEnd:
		lx.inDirective = false
		lx.skipRest = false
	}

	lx.observe(tok)

	lx.headerNext = false
	switch {
	case tok.Kind == token.Directive && isIncludeLike(tok.Text):
		lx.headerNext = true
	case tok.Kind == token.LParen && lx.inDirective && lx.prev.Kind == token.Ident &&
		(lx.prev.Text == "__has_include" || lx.prev.Text == "__has_include_next"):
		lx.headerNext = true
	}

	lx.prev = tok
	return tok
}

func (lx *Lexer) observe(tok token.Token) {
	e := lx.opts.Evidence
	if e == nil {
		return
	}
	if tok.Kind == token.Ident {
		dialect.RecordIdent(e, tok.Text, tok.Span)
	}
	if tok.Kind == token.StringLit && lx.prev.Kind == token.Directive && isIncludeLike(lx.prev.Text) {
		dialect.ObserveHeader(e, tok.Body(), false, tok)
	}
	dialect.ObserveTokenPair(e, lx.prev, tok)
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) holdTrivia(kind token.TriviaKind, sp source.Span) {
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) endDirective() token.Token {
	return token.Token{Kind: token.DirectiveEnd, Span: lx.emptySpan()}
}

func isIncludeLike(name string) bool {
	switch name {
	case "include", "include_next", "import":
		return true
	}
	return false
}
