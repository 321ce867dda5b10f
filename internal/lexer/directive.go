package lexer

import (
	"autoinclude/internal/token"
)

// scanDirective reads '#' and the directive keyword at the start of a
// logical line. Whitespace and block comments may sit between them.
func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	for {
		if isHorizontalSpace(lx.cursor.Peek()) {
			lx.cursor.Bump()
			continue
		}
		if lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) == '*' && lx.skipInlineComment() {
			continue
		}
		break
	}

	kwStart := lx.cursor.Mark()
	for isIdentContinueByte(lx.cursor.Peek()) && lx.cursor.Peek() < 0x80 {
		lx.cursor.Bump()
	}
	kw := lx.cursor.TextFrom(kwStart)

	lx.inDirective = true
	switch kw {
	case "error", "warning":
		lx.skipRest = true
	}
	return token.Token{Kind: token.Directive, Span: lx.cursor.SpanFrom(start), Text: kw}
}

// skipInlineComment consumes a /* */ comment that closes on the same line.
func (lx *Lexer) skipInlineComment() bool {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return true
		}
		lx.cursor.Bump()
	}
	lx.cursor.Reset(m)
	return false
}

// scanHeaderName reads <...> after an include-like directive. A missing
// '>' leaves the token unterminated; the include parser reports it.
func (lx *Lexer) scanHeaderName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '<'
	var flags token.Flags
	for {
		b := lx.cursor.Peek()
		if lx.cursor.EOF() || b == '\n' {
			flags |= token.FlagUnterminated
			break
		}
		lx.cursor.Bump()
		if b == '>' {
			break
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind:  token.HeaderName,
		Span:  sp,
		Text:  string(lx.file.Content[sp.Start:sp.End]),
		Flags: flags,
	}
}
