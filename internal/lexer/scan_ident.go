package lexer

import (
	"unicode/utf8"

	"autoinclude/internal/token"
)

// scanIdentOrPrefix сканирует идентификатор. If the identifier is an
// encoding prefix glued to a quote (L"..", u8'..', R"(..)") the scanner
// switches to the matching literal state instead of emitting a token.
func (lx *Lexer) scanIdentOrPrefix() (token.Token, bool) {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.peekRune()
		if r == utf8.RuneError || !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
	}

	text := lx.cursor.TextFrom(start)
	switch lx.cursor.Peek() {
	case '"':
		if isEncodingPrefix(text) {
			lx.cursor.Bump()
			lx.enter(stString, start, text)
			return token.Token{}, false
		}
		if lx.opts.cpp() && isRawPrefix(text) {
			lx.cursor.Bump()
			lx.enter(stRawString, start, text)
			return token.Token{}, false
		}
	case '\'':
		if isEncodingPrefix(text) {
			lx.cursor.Bump()
			lx.enter(stChar, start, text)
			return token.Token{}, false
		}
	}

	if lx.cursor.Mark() == start {
		// non-letter rune such as '§'
		lx.bumpRune()
		text = lx.cursor.TextFrom(start)
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start), Text: text}, true
	}
	return token.Token{Kind: token.Ident, Span: lx.cursor.SpanFrom(start), Text: text}, true
}

func isEncodingPrefix(s string) bool {
	switch s {
	case "L", "u", "U", "u8":
		return true
	}
	return false
}

func isRawPrefix(s string) bool {
	switch s {
	case "R", "LR", "uR", "UR", "u8R":
		return true
	}
	return false
}
