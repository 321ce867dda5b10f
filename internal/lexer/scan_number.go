package lexer

import (
	"strings"

	"autoinclude/internal/token"
)

// scanNumber reads a preprocessing number: digits, letters, '_', '.',
// signed exponents and (C++14) digit separators. The standard integer and
// floating suffixes stay part of the number; anything else after the
// numeric part is reported as a user-defined suffix in C++ (10ms, 1s, 2i).
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isIdentContinueByte(b) && b < 0x80, b == '.':
			lx.cursor.Bump()
			if b == 'e' || b == 'E' || b == 'p' || b == 'P' {
				if s := lx.cursor.Peek(); s == '+' || s == '-' {
					lx.cursor.Bump()
				}
			}
		case b == '\'' && lx.opts.cpp() && isIdentContinueByte(lx.cursor.PeekAt(1)):
			lx.cursor.Bump()
		default:
			sp := lx.cursor.SpanFrom(start)
			return lx.numberToken(sp.Start, string(lx.file.Content[sp.Start:sp.End]))
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return lx.numberToken(sp.Start, string(lx.file.Content[sp.Start:sp.End]))
}

func (lx *Lexer) numberToken(off uint32, text string) token.Token {
	tok := token.Token{
		Kind: token.Number,
		Span: lx.cursor.SpanFrom(Mark(off)),
		Text: text,
	}
	if lx.opts.cpp() {
		tok.Suffix = udSuffix(text)
	}
	return tok
}

// udSuffix returns the user-defined suffix of a pp-number, or "".
func udSuffix(text string) string {
	s := strings.ReplaceAll(text, "'", "")
	i := 0
	hex := false
	switch {
	case len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		hex = true
		i = 2
	case len(s) > 1 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B'):
		i = 2
	}

	digit := isDec
	if hex {
		digit = isHex
	}
	for i < len(s) && (digit(s[i]) || s[i] == '.') {
		i++
	}
	// exponent
	if i < len(s) {
		e := s[i]
		isExp := (!hex && (e == 'e' || e == 'E')) || (hex && (e == 'p' || e == 'P'))
		if isExp {
			j := i + 1
			if j < len(s) && (s[j] == '+' || s[j] == '-') {
				j++
			}
			if j < len(s) && isDec(s[j]) {
				for j < len(s) && isDec(s[j]) {
					j++
				}
				i = j
			}
		}
	}

	suffix := s[i:]
	if suffix == "" || isStandardNumberSuffix(suffix) {
		return ""
	}
	// the suffix must be an identifier
	if !isIdentStartByte(suffix[0]) || suffix[0] >= 0x80 {
		return ""
	}
	// separators never appear inside a suffix, so the tail of text is exact
	return text[len(text)-len(suffix):]
}

var standardNumberSuffixes = map[string]struct{}{
	"u": {}, "l": {}, "ul": {}, "lu": {}, "ll": {}, "ull": {}, "llu": {},
	"z": {}, "uz": {}, "zu": {},
	"f": {}, "f16": {}, "f32": {}, "f64": {}, "f128": {}, "bf16": {},
	"wb": {}, "uwb": {}, "df": {}, "dd": {}, "dl": {},
}

func isStandardNumberSuffix(s string) bool {
	_, ok := standardNumberSuffixes[strings.ToLower(s)]
	return ok
}
