package lexer

import (
	"autoinclude/internal/diag"
	"autoinclude/internal/source"
	"autoinclude/internal/token"
)

// stepNormal handles whitespace, newlines and splices itself and
// dispatches everything else to a scanner or to another state.
func (lx *Lexer) stepNormal() (token.Token, bool) {
	if lx.cursor.EOF() {
		if lx.inDirective {
			return lx.endDirective(), true
		}
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}, true
	}

	if lx.skipRest {
		start := lx.cursor.Mark()
		lx.cursor.SkipLine()
		lx.skipRest = false
		if sp := lx.cursor.SpanFrom(start); !sp.Empty() {
			lx.holdTrivia(token.TriviaSkipped, sp)
		}
		return token.Token{}, false
	}

	start := lx.cursor.Mark()
	b := lx.cursor.Peek()
	next := lx.cursor.PeekAt(1)

	switch {
	case isHorizontalSpace(b):
		for isHorizontalSpace(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.holdTrivia(token.TriviaSpace, lx.cursor.SpanFrom(start))
		return token.Token{}, false

	case b == '\n':
		if lx.inDirective {
			return lx.endDirective(), true
		}
		for lx.cursor.Peek() == '\n' {
			lx.cursor.Bump()
		}
		lx.lineStart = true
		lx.holdTrivia(token.TriviaNewline, lx.cursor.SpanFrom(start))
		return token.Token{}, false

	case b == '\\' && next == '\n':
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.holdTrivia(token.TriviaSplice, lx.cursor.SpanFrom(start))
		return token.Token{}, false

	case b == '/' && next == '/':
		lx.enter(stLineComment, start, "")
		return token.Token{}, false

	case b == '/' && next == '*':
		lx.enter(stBlockComment, start, "")
		return token.Token{}, false

	case b == '"':
		lx.cursor.Bump()
		lx.enter(stString, start, "")
		return token.Token{}, false

	case b == '\'':
		lx.cursor.Bump()
		lx.enter(stChar, start, "")
		return token.Token{}, false

	case b == '#' && lx.lineStart && !lx.inDirective:
		return lx.scanDirective(), true

	case b == '<' && lx.headerNext:
		return lx.scanHeaderName(), true

	case isIdentStartByte(b):
		return lx.scanIdentOrPrefix()

	case isDec(b) || (b == '.' && isDec(next)):
		return lx.scanNumber(), true

	default:
		return lx.scanOperatorOrPunct(), true
	}
}

func (lx *Lexer) enter(s state, start Mark, prefix string) {
	lx.state = s
	lx.lit = literal{start: start, prefix: prefix}
}

// stepLineComment: // ... up to an unspliced newline.
func (lx *Lexer) stepLineComment() (token.Token, bool) {
	lx.cursor.SkipLine()
	lx.holdTrivia(token.TriviaLineComment, lx.cursor.SpanFrom(lx.lit.start))
	lx.state = stNormal
	return token.Token{}, false
}

// stepBlockComment: /* ... */, no nesting. An unterminated comment is
// closed at the end of its opening line and scanning resumes there, so code
// after a stray "/*" is still seen.
func (lx *Lexer) stepBlockComment() (token.Token, bool) {
	start := lx.lit.start
	lx.cursor.Reset(start + 2)
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.holdTrivia(token.TriviaBlockComment, lx.cursor.SpanFrom(start))
			lx.state = stNormal
			return token.Token{}, false
		}
		lx.cursor.Bump()
	}

	opener := lx.spanAt(start, 2)
	lx.report(diag.LexUnterminatedBlockComment, opener, "unterminated block comment; treating it as ending at the end of the line")
	lx.cursor.Reset(start)
	lx.toLineEnd()
	lx.holdTrivia(token.TriviaBlockComment, lx.cursor.SpanFrom(start))
	lx.state = stNormal
	return token.Token{}, false
}

func (lx *Lexer) stepString() (token.Token, bool) {
	return lx.scanQuoted('"', token.StringLit, diag.LexUnterminatedString, "string"), true
}

func (lx *Lexer) stepChar() (token.Token, bool) {
	return lx.scanQuoted('\'', token.CharLit, diag.LexUnterminatedChar, "character"), true
}

// scanQuoted is entered with the opening quote consumed. A literal never
// crosses an unescaped newline: it is cut there and flagged unterminated.
func (lx *Lexer) scanQuoted(quote byte, kind token.Kind, code diag.Code, what string) token.Token {
	lx.state = stNormal
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			lx.scanUDSuffix()
			return lx.literalToken(kind, 0)
		case '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
		case '\n':
			return lx.unterminated(kind, code, what)
		default:
			lx.cursor.Bump()
		}
	}
	return lx.unterminated(kind, code, what)
}

func (lx *Lexer) unterminated(kind token.Kind, code diag.Code, what string) token.Token {
	tok := lx.literalToken(kind, token.FlagUnterminated)
	lx.report(code, tok.Span, "unterminated "+what+" literal")
	return tok
}

// stepRawString is entered after R". The delimiter is at most 16 characters
// and may not contain spaces, parentheses or backslashes.
func (lx *Lexer) stepRawString() (token.Token, bool) {
	delimStart := lx.cursor.Mark()
	for {
		b := lx.cursor.Peek()
		if b == '(' {
			break
		}
		if lx.cursor.EOF() || !isRawDelimByte(b) || uint32(lx.cursor.Mark()-delimStart) >= 16 {
			lx.report(diag.LexBadRawDelimiter, lx.cursor.SpanFrom(lx.lit.start), "invalid raw string delimiter")
			lx.cursor.Reset(delimStart)
			lx.state = stString
			return token.Token{}, false
		}
		lx.cursor.Bump()
	}
	delim := lx.cursor.TextFrom(delimStart)
	lx.cursor.Bump() // (

	closer := ")" + delim + "\""
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == ')' && lx.hasPrefixAtCursor(closer) {
			for range len(closer) {
				lx.cursor.Bump()
			}
			lx.state = stNormal
			lx.scanUDSuffix()
			return lx.literalToken(token.RawStringLit, 0), true
		}
		lx.cursor.Bump()
	}

	lx.cursor.Reset(lx.lit.start)
	lx.toLineEnd()
	lx.state = stNormal
	tok := lx.literalToken(token.RawStringLit, token.FlagUnterminated)
	lx.report(diag.LexUnterminatedRawString, tok.Span, "unterminated raw string literal; treating it as ending at the end of the line")
	return tok, true
}

func (lx *Lexer) literalToken(kind token.Kind, flags token.Flags) token.Token {
	sp := lx.cursor.SpanFrom(lx.lit.start)
	text := string(lx.file.Content[sp.Start:sp.End])
	tok := token.Token{Kind: kind, Span: sp, Text: text, Prefix: lx.lit.prefix, Flags: flags}
	if lx.lit.suffix > 0 {
		tok.Suffix = text[len(text)-lx.lit.suffix:]
	}
	lx.lit = literal{}
	return tok
}

// scanUDSuffix consumes a C++11 user-defined literal suffix ("abc"s, "x"sv).
func (lx *Lexer) scanUDSuffix() {
	if !lx.opts.cpp() || !isIdentStartByte(lx.cursor.Peek()) {
		return
	}
	start := lx.cursor.Mark()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	lx.lit.suffix = int(lx.cursor.Mark() - start)
}

// toLineEnd moves the cursor to the first newline after it, or EOF.
func (lx *Lexer) toLineEnd() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) hasPrefixAtCursor(s string) bool {
	content := lx.file.Content[lx.cursor.Off:]
	if len(content) < len(s) {
		return false
	}
	return string(content[:len(s)]) == s
}

func (lx *Lexer) spanAt(m Mark, n uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: uint32(m), End: uint32(m) + n}
}
